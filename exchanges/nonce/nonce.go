package nonce

import (
	"strconv"
	"sync"
	"time"
)

// Type defines the clock resolution a nonce is derived from
type Type int64

// Supported clock resolutions
const (
	UnixMilli = Type(time.Millisecond)
	UnixMicro = Type(time.Microsecond)
	UnixNano  = Type(time.Nanosecond)
)

// Nonce struct holds the nonce value. The zero value is ready for use.
type Nonce struct {
	n int64
	m sync.Mutex
}

// GetAndIncrement returns a clock derived nonce of the supplied resolution
// which is strictly greater than every value previously returned. A clock
// reading at or behind the last issued value yields last+1.
func (n *Nonce) GetAndIncrement(t Type) Value {
	if t <= 0 {
		t = UnixMilli
	}
	n.m.Lock()
	defer n.m.Unlock()
	next := time.Now().UnixNano() / int64(t)
	if next <= n.n {
		next = n.n + 1
	}
	n.n = next
	return Value(n.n)
}

// Get retrieves the last issued nonce value
func (n *Nonce) Get() Value {
	n.m.Lock()
	defer n.m.Unlock()
	return Value(n.n)
}

// Set sets the nonce value
func (n *Nonce) Set(val int64) {
	n.m.Lock()
	n.n = val
	n.m.Unlock()
}

// String returns a string version of the nonce
func (n *Nonce) String() string {
	return n.Get().String()
}

// Value is a return type for GetValue
type Value int64

// String is a Value method that changes format to a string
func (v Value) String() string {
	return strconv.FormatInt(int64(v), 10)
}
