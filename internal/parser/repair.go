package parser

import (
	"bytes"
	"strings"
)

// extractJSONSpan returns the first balanced top-level JSON object or array
// embedded in s. Brackets inside string literals do not count toward the
// balance, so prose around a fenced payload is ignored.
func extractJSONSpan(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}

	var (
		depth    int
		inString bool
		escaped  bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// repair rewrites near-JSON into something the strict decoder can read. It
// starts at the first opening bracket, converts single-quoted strings to
// double-quoted ones, drops trailing commas and closes any structures a
// truncated response left open. The result still has to survive a strict
// decode, so a bad guess here only means the parse fails as it would have
// anyway.
func repair(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}

	var (
		out      []byte
		stack    []byte
		inString bool
		quote    byte
		escaped  bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
				if c == '\'' {
					out = out[:len(out)-1] // \' is not a JSON escape
				}
				out = append(out, c)
			case c == '\\':
				escaped = true
				out = append(out, c)
			case c == quote:
				inString = false
				out = append(out, '"')
			case c == '"':
				out = append(out, '\\', '"')
			default:
				out = append(out, c)
			}
			continue
		}

		switch c {
		case '"', '\'':
			inString = true
			quote = c
			out = append(out, '"')
		case '{':
			stack = append(stack, '}')
			out = append(out, c)
		case '[':
			stack = append(stack, ']')
			out = append(out, c)
		case '}', ']':
			out = trimDanglingComma(out)
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			out = append(out, c)
			if len(stack) == 0 {
				return string(out), true
			}
		default:
			out = append(out, c)
		}
	}

	// The response ran out before the document closed.
	if inString {
		if escaped {
			out = out[:len(out)-1]
		}
		out = append(out, '"')
	}
	out = trimDanglingComma(out)
	if n := len(bytes.TrimRight(out, " \t\r\n")); n > 0 && out[n-1] == ':' {
		out = append(out[:n], []byte("null")...)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, stack[i])
	}
	return string(out), true
}

func trimDanglingComma(out []byte) []byte {
	trimmed := bytes.TrimRight(out, " \t\r\n")
	if n := len(trimmed); n > 0 && trimmed[n-1] == ',' {
		return trimmed[:n-1]
	}
	return out
}
