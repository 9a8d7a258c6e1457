// Package nonce provides a concurrency-safe monotonic nonce source for
// request signing.
package nonce

import (
	"strconv"
	"sync"
	"time"
)

// Nonce struct holds the nonce value
type Nonce struct {
	n int64
	m sync.Mutex
}

// GetInc increments and returns the value of the nonce. When the clock has
// moved past the stored value the clock wins, so restarts and concurrent
// signers never reissue a value.
func (n *Nonce) GetInc() Value {
	n.m.Lock()
	defer n.m.Unlock()
	if now := time.Now().UnixMilli(); now > n.n {
		n.n = now
	} else {
		n.n++
	}
	return Value(n.n)
}

// Set sets the nonce value
func (n *Nonce) Set(val int64) {
	n.m.Lock()
	n.n = val
	n.m.Unlock()
}

// Get retrieves the nonce value
func (n *Nonce) Get() Value {
	n.m.Lock()
	defer n.m.Unlock()
	return Value(n.n)
}

// String returns a string version of the nonce
func (n *Nonce) String() string {
	return n.Get().String()
}

// Value is a return type for Get
type Value int64

// String is a Value method that changes format to a string
func (v Value) String() string {
	return strconv.FormatInt(int64(v), 10)
}

// Int64 returns the value as an int64
func (v Value) Int64() int64 {
	return int64(v)
}
