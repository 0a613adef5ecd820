//go:build !sonic

// Package json wraps the JSON implementation used across the module so the
// backing library can be switched with the sonic build tag.
package json

import "encoding/json"

// Implementation is a string representation of the JSON implementation in use
const Implementation = "encoding/json"

var (
	// Marshal returns the JSON encoding of v. See encoding/json.Marshal
	Marshal = json.Marshal
	// Unmarshal parses the JSON-encoded data and stores the result in the value
	// pointed to by v. See encoding/json.Unmarshal
	Unmarshal = json.Unmarshal
	// MarshalIndent is like Marshal but applies Indent to format the output.
	// See encoding/json.MarshalIndent
	MarshalIndent = json.MarshalIndent
	// Valid reports whether data is a valid JSON encoding. See encoding/json.Valid
	Valid = json.Valid
)

type (
	// RawMessage is a raw encoded JSON value. See encoding/json.RawMessage
	RawMessage = json.RawMessage
	// Marshaler is implemented by types that can marshal themselves into JSON
	Marshaler = json.Marshaler
	// Unmarshaler is implemented by types that can unmarshal a JSON description
	// of themselves
	Unmarshaler = json.Unmarshaler
)
