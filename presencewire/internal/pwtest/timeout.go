// Package pwtest holds channel-based assertion helpers shared by the
// presencewire tests.
package pwtest

import (
	"reflect"
	"testing"
	"time"
)

// Timeout is the upper bound for operations that are expected to
// complete eventually, such as a transport connect.
const Timeout = 5 * time.Second

var Instantly = Before(50 * time.Millisecond)

var Soon = Before(Timeout)

// Before returns a WithTimeout with the given timeout duration.
func Before(d time.Duration) WithTimeout {
	return WithTimeout{before: d}
}

// WithTimeout configures test helpers with a timeout.
type WithTimeout struct {
	before time.Duration
}

// Recv asserts that a value is received from the channel before the
// timeout, calling fail otherwise. If into is non-nil it must be a
// pointer to a variable of the channel's element type and is set to the
// received value.
func (wt WithTimeout) Recv(t *testing.T, into interface{}, from interface{}, fail func(fmt string, args ...interface{})) (ok bool) {
	t.Helper()
	ok, timeout := wt.recv(into, from)
	if timeout {
		fail("timed out waiting for channel receive")
	}
	return ok
}

// NoRecv is like Recv, except it asserts no value is received.
func (wt WithTimeout) NoRecv(t *testing.T, into interface{}, from interface{}, fail func(fmt string, args ...interface{})) (ok bool) {
	t.Helper()
	if into == nil {
		into = &into
	}
	ok, timeout := wt.recv(into, from)
	if !timeout {
		fail("unexpectedly received in channel: %v", into)
	}
	return ok
}

func (wt WithTimeout) recv(into interface{}, from interface{}) (ok, timeout bool) {
	chosen, recv, ok := reflect.Select([]reflect.SelectCase{{
		Dir:  reflect.SelectRecv,
		Chan: reflect.ValueOf(from),
	}, {
		Dir:  reflect.SelectRecv,
		Chan: reflect.ValueOf(time.After(wt.before)),
	}})
	if chosen == 0 && ok && into != nil {
		reflect.ValueOf(into).Elem().Set(recv)
	}
	return ok, chosen == 1
}
