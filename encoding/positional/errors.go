package positional

import (
	"errors"
	"strconv"
	"strings"
)

// maxRawPrefix bounds the raw input retained on a DecodeError
const maxRawPrefix = 256

// Decoding failure classes, matched with errors.Is
var (
	ErrInsufficientArity = errors.New("insufficient arity")
	ErrUnexpectedType    = errors.New("unexpected value type")
	ErrNullValue         = errors.New("null value in required slot")
	ErrEmptyList         = errors.New("empty list")
	ErrNotPositional     = errors.New("value is neither an array nor an object")
)

// DecodeError describes where a positional value failed to decode. Position
// is the zero based array index of the offending element, or -1 when the
// failure is not tied to an element (object form, top level).
type DecodeError struct {
	Record   string
	Field    string
	Position int
	Raw      string
	Err      error
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("decoding ")
	sb.WriteString(e.Record)
	if e.Field != "" {
		sb.WriteByte('.')
		sb.WriteString(e.Field)
	}
	if e.Position >= 0 {
		sb.WriteString(" at position ")
		sb.WriteString(strconv.Itoa(e.Position))
	}
	sb.WriteString(": ")
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying failure
func (e *DecodeError) Unwrap() error { return e.Err }

func rawPrefix(b []byte) string {
	if len(b) > maxRawPrefix {
		b = b[:maxRawPrefix]
	}
	return string(b)
}
