package transaction

import "fmt"

// ParseError is returned when Parse fails to decode raw transaction bytes.
//
// This occurs when the input is truncated, uses a non-canonical CompactSize
// length, declares an impossible element count, or has trailing data.
type ParseError struct {
	Offset  int64  // Byte offset at which decoding stopped
	Message string // Human-readable error message
	Cause   error  // Underlying decode error (if any)
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error at offset %d: %s: %v", e.Offset, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
