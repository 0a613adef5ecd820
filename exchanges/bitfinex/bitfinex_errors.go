package bitfinex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thrasher-corp/bfxprivate/encoding/positional"
	"github.com/thrasher-corp/bfxprivate/exchanges/request"
)

const maxRawPrefix = 256

var (
	// ErrSymbolEmpty is returned when an operation requiring a symbol gets none
	ErrSymbolEmpty       = errors.New("symbol cannot be empty")
	errNilRequest        = errors.New("request cannot be nil")
	errNullResponse      = errors.New("null response where a list was expected")
	errNilResult         = errors.New("result destination is nil")
	errEncodingRequest   = errors.New("unable to encode request")
	errExchangeRejection = errors.New("request rejected by exchange")
)

// ConfigurationError is returned before any network activity when the
// exchange handle cannot sign requests
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "bitfinex configuration error: " + e.Err.Error()
}

// Unwrap returns the underlying credential error
func (e *ConfigurationError) Unwrap() error { return e.Err }

// TransportError wraps a failure of the HTTP exchange itself
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bitfinex %s transport error: %v", e.Path, e.Err)
}

// Unwrap returns the transport failure unchanged
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is returned when a response or request body cannot be
// mapped to its record. Raw holds at most the first 256 bytes of the whole
// response; the offending element is on the wrapped *positional.DecodeError.
type ProtocolError struct {
	Path   string
	Record string
	Raw    string
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("bitfinex %s protocol error decoding %s: %v", e.Path, e.Record, e.Err)
}

// Unwrap returns the decode failure
func (e *ProtocolError) Unwrap() error { return e.Err }

// ExchangeError is returned when Bitfinex answers a request with anything
// other than success: a notification whose status is not SUCCESS, or an
// HTTP error carrying the ["error", CODE, TEXT] triple. In the latter case Err
// holds the *TransportError.
type ExchangeError struct {
	Path   string
	Type   string
	Status string
	Code   int64
	Text   string
	Err    error
}

func (e *ExchangeError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "bitfinex %s %s", e.Path, e.Status)
	if e.Type != "" {
		fmt.Fprintf(&sb, " (%s)", e.Type)
	}
	if e.Code != 0 {
		fmt.Fprintf(&sb, " code %d", e.Code)
	}
	if e.Text != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Text)
	}
	return sb.String()
}

// Unwrap returns the transport failure, when there was one
func (e *ExchangeError) Unwrap() error { return e.Err }

// Is reports every ExchangeError as a rejection
func (e *ExchangeError) Is(target error) bool { return target == errExchangeRejection }

// IsExchangeRejection reports whether err is, or wraps, an *ExchangeError
func IsExchangeRejection(err error) bool {
	return errors.Is(err, errExchangeRejection)
}

func rawPrefix(b []byte) string {
	if len(b) > maxRawPrefix {
		b = b[:maxRawPrefix]
	}
	return string(b)
}

func newProtocolError(path, record string, raw []byte, err error) *ProtocolError {
	pe := &ProtocolError{Path: path, Record: record, Raw: rawPrefix(raw), Err: err}
	var de *positional.DecodeError
	if errors.As(err, &de) {
		pe.Record = de.Record
	}
	return pe
}

// errorResponse is Bitfinex's ["error", CODE, TEXT] reply to a failed request
type errorResponse struct {
	Kind string
	Code int64
	Text string
}

func (r *errorResponse) UnmarshalJSON(data []byte) error {
	return positional.Decode(data, "ErrorResponse", []positional.Slot{
		positional.String("kind", &r.Kind),
		positional.Int64("code", &r.Code),
		positional.String("text", &r.Text),
	})
}

// classifyTransportError turns a failed HTTP exchange into an *ExchangeError
// when the body is Bitfinex's error triple, and a *TransportError otherwise
func classifyTransportError(path string, err error) error {
	te := &TransportError{Path: path, Err: err}
	var statusErr *request.StatusError
	if !errors.As(err, &statusErr) {
		return te
	}
	var resp errorResponse
	if resp.UnmarshalJSON(statusErr.Body) != nil || resp.Kind != "error" {
		return te
	}
	return &ExchangeError{
		Path:   path,
		Type:   resp.Kind,
		Status: StatusError,
		Code:   resp.Code,
		Text:   resp.Text,
		Err:    te,
	}
}
