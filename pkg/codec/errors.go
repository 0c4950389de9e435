package codec

import "fmt"

// UnsupportedValueError reports a value the codec cannot serialise, such as
// a native built-in function whose source text is not reproducible.
type UnsupportedValueError struct {
	Reason string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("codec: unsupported value: %s", e.Reason)
}

// DecodeError reports persisted text that does not parse as the codec's
// JSON-superset grammar.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec: decode: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("codec: decode: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErrorf(format string, args ...any) error {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}
