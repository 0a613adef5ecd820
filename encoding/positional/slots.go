package positional

import (
	"fmt"
	"math"

	"github.com/buger/jsonparser"
	"github.com/thrasher-corp/bfxprivate/encoding/json"
	"github.com/thrasher-corp/bfxprivate/types"
)

// Slot binds one array position to a destination
type Slot struct {
	name     string
	optional bool
	skip     bool
	set      func(e element) error
	reset    func()
}

// Name returns the slot's field name, used as the key in object form
func (s Slot) Name() string { return s.name }

// Optional reports whether the slot accepts null or may be absent
func (s Slot) Optional() bool { return s.optional || s.skip }

func (s *Slot) required() bool { return !s.optional && !s.skip }

func (s *Slot) clear() {
	if s.reset != nil {
		s.reset()
	}
}

func (s *Slot) bind(e element) error {
	if s.skip {
		return nil
	}
	if e.vt == jsonparser.Null {
		if !s.optional {
			return ErrNullValue
		}
		s.clear()
		return nil
	}
	return s.set(e)
}

// Placeholder consumes one position without validating it
func Placeholder() Slot {
	return Slot{name: "_", skip: true}
}

func errType(want string, got jsonparser.ValueType) error {
	return fmt.Errorf("%w: want %s, got %s", ErrUnexpectedType, want, got)
}

func parseString(e element) (string, error) {
	if e.vt != jsonparser.String {
		return "", errType("string", e.vt)
	}
	return jsonparser.ParseString(e.value)
}

// String binds a required JSON string
func String(name string, dst *string) Slot {
	return Slot{name: name, set: func(e element) (err error) {
		*dst, err = parseString(e)
		return err
	}}
}

// OptString binds a nullable JSON string; null leaves *dst nil
func OptString(name string, dst **string) Slot {
	return Slot{
		name:     name,
		optional: true,
		set: func(e element) error {
			s, err := parseString(e)
			if err != nil {
				return err
			}
			*dst = &s
			return nil
		},
		reset: func() { *dst = nil },
	}
}

// OptLooseString binds a nullable value that the exchange sends either as a
// string or as a number. Numbers are kept in their wire form.
func OptLooseString(name string, dst **string) Slot {
	return Slot{
		name:     name,
		optional: true,
		set: func(e element) error {
			var s string
			switch e.vt {
			case jsonparser.Number:
				s = string(e.value)
			case jsonparser.String:
				var err error
				if s, err = jsonparser.ParseString(e.value); err != nil {
					return err
				}
			default:
				return errType("string or number", e.vt)
			}
			*dst = &s
			return nil
		},
		reset: func() { *dst = nil },
	}
}

func parseInt64(e element) (int64, error) {
	if e.vt != jsonparser.Number {
		return 0, errType("number", e.vt)
	}
	if i, err := jsonparser.ParseInt(e.value); err == nil {
		return i, nil
	}
	f, err := jsonparser.ParseFloat(e.value)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrUnexpectedType, e.value)
	}
	return int64(f), nil
}

// Int64 binds a required integer. Integral floats such as 5.0 are accepted.
func Int64(name string, dst *int64) Slot {
	return Slot{name: name, set: func(e element) (err error) {
		*dst, err = parseInt64(e)
		return err
	}}
}

// OptInt64 binds a nullable integer; null leaves *dst nil
func OptInt64(name string, dst **int64) Slot {
	return Slot{
		name:     name,
		optional: true,
		set: func(e element) error {
			i, err := parseInt64(e)
			if err != nil {
				return err
			}
			*dst = &i
			return nil
		},
		reset: func() { *dst = nil },
	}
}

func parseFloat64(e element) (float64, error) {
	if e.vt != jsonparser.Number {
		return 0, errType("number", e.vt)
	}
	return jsonparser.ParseFloat(e.value)
}

// Float64 binds a required JSON number
func Float64(name string, dst *float64) Slot {
	return Slot{name: name, set: func(e element) (err error) {
		*dst, err = parseFloat64(e)
		return err
	}}
}

// OptFloat64 binds a nullable JSON number; null leaves *dst nil
func OptFloat64(name string, dst **float64) Slot {
	return Slot{
		name:     name,
		optional: true,
		set: func(e element) error {
			f, err := parseFloat64(e)
			if err != nil {
				return err
			}
			*dst = &f
			return nil
		},
		reset: func() { *dst = nil },
	}
}

// Bool binds a required flag sent either as a JSON boolean or as 0/1
func Bool(name string, dst *bool) Slot {
	return Slot{name: name, set: func(e element) error {
		switch e.vt {
		case jsonparser.Boolean:
			b, err := jsonparser.ParseBoolean(e.value)
			if err != nil {
				return err
			}
			*dst = b
		case jsonparser.Number:
			i, err := parseInt64(e)
			if err != nil {
				return err
			}
			if i != 0 && i != 1 {
				return fmt.Errorf("%w: %d is not a flag", ErrUnexpectedType, i)
			}
			*dst = i == 1
		default:
			return errType("boolean", e.vt)
		}
		return nil
	}}
}

func parseTime(e element, dst *types.Time) error {
	if e.vt != jsonparser.Number && e.vt != jsonparser.String {
		return errType("timestamp", e.vt)
	}
	if err := dst.UnmarshalJSON(e.value); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedType, err)
	}
	return nil
}

// Time binds a required unix timestamp
func Time(name string, dst *types.Time) Slot {
	return Slot{name: name, set: func(e element) error {
		return parseTime(e, dst)
	}}
}

// OptTime binds a nullable unix timestamp; null leaves *dst zero
func OptTime(name string, dst *types.Time) Slot {
	return Slot{
		name:     name,
		optional: true,
		set: func(e element) error {
			return parseTime(e, dst)
		},
		reset: func() { *dst = types.Time{} },
	}
}

// Raw keeps any nullable value verbatim; null leaves *dst nil
func Raw(name string, dst *json.RawMessage) Slot {
	return Slot{
		name:     name,
		optional: true,
		set: func(e element) error {
			*dst = append(json.RawMessage(nil), e.raw()...)
			return nil
		},
		reset: func() { *dst = nil },
	}
}

// Record decodes a nested array or object into dst
func Record(name string, dst json.Unmarshaler) Slot {
	return Slot{name: name, set: func(e element) error {
		if e.vt != jsonparser.Array && e.vt != jsonparser.Object {
			return errType("array or object", e.vt)
		}
		return dst.UnmarshalJSON(e.value)
	}}
}

// First decodes the first element of a nested list into dst. An empty list
// fails with ErrEmptyList; further elements are ignored.
func First(name string, dst json.Unmarshaler) Slot {
	return Slot{name: name, set: func(e element) error {
		if e.vt == jsonparser.Object {
			return dst.UnmarshalJSON(e.value)
		}
		if e.vt != jsonparser.Array {
			return errType("array", e.vt)
		}
		var first *element
		if _, err := jsonparser.ArrayEach(e.value, func(value []byte, vt jsonparser.ValueType, _ int, _ error) {
			if first == nil {
				first = &element{value: value, vt: vt}
			}
		}); err != nil {
			return err
		}
		if first == nil {
			return ErrEmptyList
		}
		if first.vt != jsonparser.Array && first.vt != jsonparser.Object {
			return errType("array or object", first.vt)
		}
		return dst.UnmarshalJSON(first.value)
	}}
}
