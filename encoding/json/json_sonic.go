//go:build sonic

package json

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// Implementation is a string representation of the JSON implementation in use
const Implementation = "bytedance/sonic"

var (
	// Marshal returns the JSON encoding of v
	Marshal = sonic.ConfigStd.Marshal
	// Unmarshal parses the JSON-encoded data and stores the result in the value
	// pointed to by v
	Unmarshal = sonic.ConfigStd.Unmarshal
	// MarshalIndent is like Marshal but applies Indent to format the output
	MarshalIndent = sonic.ConfigStd.MarshalIndent
	// Valid reports whether data is a valid JSON encoding
	Valid = sonic.ConfigStd.Valid
)

type (
	// RawMessage is a raw encoded JSON value
	RawMessage = json.RawMessage
	// Marshaler is implemented by types that can marshal themselves into JSON
	Marshaler = json.Marshaler
	// Unmarshaler is implemented by types that can unmarshal a JSON description
	// of themselves
	Unmarshaler = json.Unmarshaler
)
