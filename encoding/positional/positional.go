// Package positional decodes JSON arrays whose meaning is carried by element
// position. A record describes its wire layout as an ordered slice of Slot
// values; Decode walks the array left to right binding each element to the
// slot at the same index. Placeholder slots consume a position without
// validating it, nullable slots accept null, and positions past the end of
// the table are ignored so the exchange may append fields at will.
//
// The same table also decodes a JSON object keyed by slot name, which is how
// records re-encoded by encoding/json are read back.
package positional

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

type element struct {
	value []byte
	vt    jsonparser.ValueType
}

// Decode binds data to slots. record names the type being decoded and is
// carried on any returned *DecodeError.
func Decode(data []byte, record string, slots []Slot) error {
	value, vt, _, err := jsonparser.Get(data)
	if err != nil {
		return &DecodeError{Record: record, Position: -1, Raw: rawPrefix(data), Err: fmt.Errorf("%w: %w", ErrNotPositional, err)}
	}
	switch vt {
	case jsonparser.Array:
		return decodeArray(value, record, slots)
	case jsonparser.Object:
		return decodeObject(value, record, slots)
	default:
		return &DecodeError{Record: record, Position: -1, Raw: rawPrefix(data), Err: fmt.Errorf("%w: got %s", ErrNotPositional, vt)}
	}
}

// MinArity returns the number of array positions required to decode slots:
// the index of the last required slot plus one.
func MinArity(slots []Slot) int {
	for i := len(slots) - 1; i >= 0; i-- {
		if slots[i].required() {
			return i + 1
		}
	}
	return 0
}

func decodeArray(data []byte, record string, slots []Slot) error {
	var elems []element
	if _, err := jsonparser.ArrayEach(data, func(value []byte, vt jsonparser.ValueType, _ int, _ error) {
		elems = append(elems, element{value: value, vt: vt})
	}); err != nil {
		return &DecodeError{Record: record, Position: -1, Raw: rawPrefix(data), Err: fmt.Errorf("%w: %w", ErrNotPositional, err)}
	}

	if need := MinArity(slots); len(elems) < need {
		var field string
		for i := len(elems); i < len(slots); i++ {
			if slots[i].required() {
				field = slots[i].name
				break
			}
		}
		return &DecodeError{
			Record:   record,
			Field:    field,
			Position: len(elems),
			Raw:      rawPrefix(data),
			Err:      fmt.Errorf("%w: got %d positions, need %d", ErrInsufficientArity, len(elems), need),
		}
	}

	for i := range slots {
		if i >= len(elems) {
			slots[i].clear()
			continue
		}
		if err := slots[i].bind(elems[i]); err != nil {
			return &DecodeError{Record: record, Field: slots[i].name, Position: i, Raw: rawPrefix(elems[i].raw()), Err: err}
		}
	}
	return nil
}

func decodeObject(data []byte, record string, slots []Slot) error {
	index := make(map[string]int, len(slots))
	for i := range slots {
		if !slots[i].skip {
			index[slots[i].name] = i
		}
	}
	seen := make([]bool, len(slots))
	err := jsonparser.ObjectEach(data, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
		i, ok := index[string(key)]
		if !ok {
			return nil
		}
		seen[i] = true
		e := element{value: value, vt: vt}
		if err := slots[i].bind(e); err != nil {
			return &DecodeError{Record: record, Field: slots[i].name, Position: -1, Raw: rawPrefix(e.raw()), Err: err}
		}
		return nil
	})
	if err != nil {
		if de := (*DecodeError)(nil); errors.As(err, &de) {
			return de
		}
		return &DecodeError{Record: record, Position: -1, Raw: rawPrefix(data), Err: fmt.Errorf("%w: %w", ErrNotPositional, err)}
	}
	for i := range slots {
		if seen[i] {
			continue
		}
		if slots[i].required() {
			return &DecodeError{Record: record, Field: slots[i].name, Position: -1, Raw: rawPrefix(data), Err: fmt.Errorf("%w: missing key", ErrInsufficientArity)}
		}
		slots[i].clear()
	}
	return nil
}

// raw returns the element as it appeared on the wire; jsonparser strips the
// quotes from string values.
func (e element) raw() []byte {
	if e.vt != jsonparser.String {
		return e.value
	}
	b := make([]byte, 0, len(e.value)+2)
	b = append(b, '"')
	b = append(b, e.value...)
	return append(b, '"')
}
