package parser

import "fmt"

// ResponseParseError reports model output that survived no parse strategy.
// Stage names the last strategy attempted; Fragment carries an excerpt of the
// offending text for diagnostics.
type ResponseParseError struct {
	Stage    string
	Fragment string
	Err      error
}

// Error implements the error interface.
func (e *ResponseParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unparsable model response (%s stage): %v: %s", e.Stage, e.Err, e.Fragment)
	}
	return fmt.Sprintf("unparsable model response (%s stage): %s", e.Stage, e.Fragment)
}

// Unwrap returns the underlying parse error.
func (e *ResponseParseError) Unwrap() error {
	return e.Err
}

// NewResponseParseError creates a new ResponseParseError instance.
func NewResponseParseError(stage, fragment string, err error) *ResponseParseError {
	return &ResponseParseError{
		Stage:    stage,
		Fragment: fragment,
		Err:      err,
	}
}
