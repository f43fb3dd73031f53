package threatdragon

import "fmt"

// MalformedDocumentError reports a document that cannot be processed: invalid
// JSON, a missing detail/diagrams/cells structure, or a schema violation.
// There is no partial model to operate on, so callers treat it as fatal.
type MalformedDocumentError struct {
	Path     string
	Reason   string
	Fragment string
}

// Error implements the error interface.
func (e *MalformedDocumentError) Error() string {
	msg := fmt.Sprintf("malformed threat model document: %s", e.Reason)
	if e.Path != "" {
		msg = fmt.Sprintf("malformed threat model document %q: %s", e.Path, e.Reason)
	}
	if e.Fragment != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Fragment)
	}
	return msg
}

// NewMalformedDocumentError creates a new MalformedDocumentError instance.
func NewMalformedDocumentError(path, reason, fragment string) *MalformedDocumentError {
	return &MalformedDocumentError{
		Path:     path,
		Reason:   reason,
		Fragment: fragment,
	}
}
