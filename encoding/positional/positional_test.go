package positional

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/bfxprivate/encoding/json"
	"github.com/thrasher-corp/bfxprivate/types"
)

type leg struct {
	Side   string  `json:"side"`
	Amount float64 `json:"amount"`
}

func (l *leg) UnmarshalJSON(data []byte) error {
	return Decode(data, "leg", []Slot{
		String("side", &l.Side),
		Float64("amount", &l.Amount),
	})
}

type fill struct {
	ID      int64           `json:"id"`
	Label   *string         `json:"label"`
	Price   float64         `json:"price"`
	Hidden  bool            `json:"hidden"`
	Updated types.Time      `json:"updated"`
	Meta    json.RawMessage `json:"meta"`
}

func (f *fill) slots() []Slot {
	return []Slot{
		Int64("id", &f.ID),
		Placeholder(),
		OptString("label", &f.Label),
		Float64("price", &f.Price),
		Bool("hidden", &f.Hidden),
		OptTime("updated", &f.Updated),
		Raw("meta", &f.Meta),
	}
}

func (f *fill) UnmarshalJSON(data []byte) error {
	return Decode(data, "fill", f.slots())
}

func TestMinArity(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5, MinArity(new(fill).slots()), "MinArity should stop at the last required slot")
	assert.Zero(t, MinArity([]Slot{Placeholder(), OptInt64("x", new(*int64))}), "MinArity should be zero without required slots")
}

func TestDecodeArray(t *testing.T) {
	t.Parallel()
	var f fill
	err := json.Unmarshal([]byte(`[42,"ignored","book",29290.5,1,1690988463421,{"k":[1,2]}]`), &f)
	require.NoError(t, err, "Unmarshal must not error")
	assert.Equal(t, int64(42), f.ID)
	require.NotNil(t, f.Label, "Label must be set")
	assert.Equal(t, "book", *f.Label)
	assert.Equal(t, 29290.5, f.Price)
	assert.True(t, f.Hidden, "Hidden should decode 1 as true")
	assert.Equal(t, time.UnixMilli(1690988463421), f.Updated.Time())
	assert.JSONEq(t, `{"k":[1,2]}`, string(f.Meta))

	var nulls fill
	err = json.Unmarshal([]byte(`[42,null,null,1,false,null,null]`), &nulls)
	require.NoError(t, err, "Unmarshal must not error on nullable slots")
	assert.Nil(t, nulls.Label, "Label should be nil for null")
	assert.True(t, nulls.Updated.IsZero(), "Updated should be zero for null")
	assert.Nil(t, nulls.Meta, "Meta should be nil for null")
	assert.Equal(t, float64(1), nulls.Price, "Price should accept integer numbers")
}

func TestDecodeForwardCompatible(t *testing.T) {
	t.Parallel()
	var short, long fill
	require.NoError(t, json.Unmarshal([]byte(`[7,null,"x",1.5,0]`), &short), "Unmarshal must accept the minimum arity")
	require.NoError(t, json.Unmarshal([]byte(`[7,null,"x",1.5,0,null,null,"extra",[1],{"a":null}]`), &long), "Unmarshal must ignore trailing positions")
	assert.Equal(t, short, long, "Trailing positions must not change the decoded record")
}

func TestDecodeInsufficientArity(t *testing.T) {
	t.Parallel()
	var f fill
	err := json.Unmarshal([]byte(`[7,null,"x",1.5]`), &f)
	require.ErrorIs(t, err, ErrInsufficientArity)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "fill", de.Record)
	assert.Equal(t, "hidden", de.Field, "Field should name the first missing required slot")
	assert.Equal(t, 4, de.Position)
	assert.Equal(t, `[7,null,"x",1.5]`, de.Raw)
}

func TestDecodeSlotErrors(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name     string
		input    string
		err      error
		field    string
		position int
		raw      string
	}{
		{"null required", `[null,1,"x",1,0]`, ErrNullValue, "id", 0, "null"},
		{"string in numeric", `[1,1,"x","1.5",0]`, ErrUnexpectedType, "price", 3, `"1.5"`},
		{"number in string", `[1,1,5,1.5,0]`, ErrUnexpectedType, "label", 2, "5"},
		{"non integral", `[1.5,1,"x",1.5,0]`, ErrUnexpectedType, "id", 0, "1.5"},
		{"bad flag", `[1,1,"x",1.5,2]`, ErrUnexpectedType, "hidden", 4, "2"},
		{"bad timestamp", `[1,1,"x",1.5,0,true]`, ErrUnexpectedType, "updated", 5, "true"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var f fill
			err := json.Unmarshal([]byte(tc.input), &f)
			require.ErrorIs(t, err, tc.err)
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tc.field, de.Field)
			assert.Equal(t, tc.position, de.Position)
			assert.Equal(t, tc.raw, de.Raw)
		})
	}
}

func TestDecodeIntegralFloat(t *testing.T) {
	t.Parallel()
	var f fill
	require.NoError(t, json.Unmarshal([]byte(`[5.0,null,null,1,0]`), &f), "Int64 must accept integral floats")
	assert.Equal(t, int64(5), f.ID)
}

func TestDecodeNotPositional(t *testing.T) {
	t.Parallel()
	for _, input := range []string{`"text"`, `12`, `true`, `null`, ``, `[1,2`} {
		err := Decode([]byte(input), "fill", new(fill).slots())
		assert.ErrorIs(t, err, ErrNotPositional, "Decode should reject %q", input)
	}
}

func TestDecodeObject(t *testing.T) {
	t.Parallel()
	var f fill
	err := json.Unmarshal([]byte(`{"id":3,"price":2.5,"hidden":true,"label":null,"unknown":[1,2,3]}`), &f)
	require.NoError(t, err, "Unmarshal must decode the object form")
	assert.Equal(t, int64(3), f.ID)
	assert.Equal(t, 2.5, f.Price)
	assert.True(t, f.Hidden)
	assert.Nil(t, f.Label)

	err = json.Unmarshal([]byte(`{"id":3,"hidden":true}`), &f)
	require.ErrorIs(t, err, ErrInsufficientArity, "Unmarshal must fail on a missing required key")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "price", de.Field)
	assert.Equal(t, -1, de.Position)

	err = json.Unmarshal([]byte(`{"id":"3","price":1,"hidden":true}`), &f)
	require.ErrorIs(t, err, ErrUnexpectedType)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	var f fill
	require.NoError(t, json.Unmarshal([]byte(`[42,"skip","book",29290.5,1,1690988463421,{"k":"v"}]`), &f))
	b, err := json.Marshal(&f)
	require.NoError(t, err, "Marshal must not error")
	assert.NotContains(t, string(b), "skip", "Placeholders must not be encoded")

	var again fill
	require.NoError(t, json.Unmarshal(b, &again), "Unmarshal must read the named form back")
	assert.Equal(t, f.ID, again.ID)
	assert.Equal(t, f.Label, again.Label)
	assert.Equal(t, f.Price, again.Price)
	assert.Equal(t, f.Hidden, again.Hidden)
	assert.Equal(t, f.Updated.Time().UnixMilli(), again.Updated.Time().UnixMilli())
	assert.JSONEq(t, string(f.Meta), string(again.Meta))
}

type order struct {
	ID  int64 `json:"id"`
	Leg leg   `json:"leg"`
}

func (o *order) UnmarshalJSON(data []byte) error {
	return Decode(data, "order", []Slot{Int64("id", &o.ID), Record("leg", &o.Leg)})
}

type batch struct {
	First order `json:"first"`
}

func (b *batch) UnmarshalJSON(data []byte) error {
	return Decode(data, "batch", []Slot{First("first", &b.First)})
}

func TestNestedSlots(t *testing.T) {
	t.Parallel()
	var b batch
	require.NoError(t, json.Unmarshal([]byte(`[[[9,["buy",0.5]],[10,["sell",1]]]]`), &b), "Unmarshal must decode nested records")
	assert.Equal(t, order{ID: 9, Leg: leg{Side: "buy", Amount: 0.5}}, b.First, "First should keep only the first element")

	err := json.Unmarshal([]byte(`[[]]`), &b)
	require.ErrorIs(t, err, ErrEmptyList)

	err = json.Unmarshal([]byte(`[[[9,["buy",null]]]]`), &b)
	require.ErrorIs(t, err, ErrNullValue, "nested failures must surface")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "batch", de.Record, "the outermost record should be reported first")

	enc, err := json.Marshal(&b)
	require.NoError(t, err)
	var again batch
	require.NoError(t, json.Unmarshal(enc, &again), "First must accept the re-encoded object")
}

func TestOptLooseString(t *testing.T) {
	t.Parallel()
	var s *string
	slots := []Slot{OptLooseString("message_id", &s)}
	require.NoError(t, Decode([]byte(`[12345]`), "id", slots))
	require.NotNil(t, s)
	assert.Equal(t, "12345", *s)
	require.NoError(t, Decode([]byte(`["abc"]`), "id", slots))
	assert.Equal(t, "abc", *s)
	require.NoError(t, Decode([]byte(`[null]`), "id", slots))
	assert.Nil(t, s)
	require.ErrorIs(t, Decode([]byte(`[{}]`), "id", slots), ErrUnexpectedType)
}

func TestDecodeErrorRawPrefix(t *testing.T) {
	t.Parallel()
	long := `"` + strings.Repeat("a", 400) + `"`
	var f fill
	err := json.Unmarshal([]byte(`[`+long+`,null,null,1,0]`), &f)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Len(t, de.Raw, maxRawPrefix, "Raw should be truncated")
	assert.Equal(t, `decoding fill.id at position 0: unexpected value type: want number, got string`, de.Error())
}
