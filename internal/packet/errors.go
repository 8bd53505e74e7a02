package packet

import "errors"

var (
	ErrMalformedInput = errors.New("packet: malformed input")
	ErrTruncated      = errors.New("packet: truncated input")
	ErrInvalidKind    = errors.New("packet: invalid kind")
	ErrArity          = errors.New("packet: arity mismatch")
	ErrTooDeep        = errors.New("packet: nesting too deep")
	ErrTooLarge       = errors.New("packet: value too large for field")
)
