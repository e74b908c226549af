package presencewire

import (
	"errors"
	"fmt"
)

// Error codes reported by the library. Every failure that crosses the
// TransportManager boundary carries one of these.
const (
	// ErrCodeConfigInvalid means a required Config field is missing or
	// malformed for the selected mode.
	ErrCodeConfigInvalid = 40000

	// ErrCodeInternal covers failures that are not transport conditions,
	// such as payload encoding errors.
	ErrCodeInternal = 50000

	// ErrCodeConnectFailed means the transport's connect sequence failed
	// before reaching the ready state.
	ErrCodeConnectFailed = 80000

	// ErrCodeTransportClosed means the underlying connection dropped
	// after the transport had been ready.
	ErrCodeTransportClosed = 80003

	// ErrCodeNotConnected means an operation required a ready transport
	// and none was available.
	ErrCodeNotConnected = 80009
)

var errCodeText = map[int]string{
	ErrCodeConfigInvalid:   "invalid configuration",
	ErrCodeInternal:        "internal error",
	ErrCodeConnectFailed:   "transport connect failed",
	ErrCodeTransportClosed: "transport closed unexpectedly",
	ErrCodeNotConnected:    "not connected (no ready transport)",
}

// ErrorInfo is the error type returned by the library. It always has a
// non-zero Code and may wrap the underlying error that caused the
// failure.
type ErrorInfo struct {
	Code int
	err  error
}

// Error implements the builtin error interface.
func (e *ErrorInfo) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", errCodeText[e.Code], e.err)
	}
	return errCodeText[e.Code]
}

// Unwrap returns the underlying error, if any.
func (e *ErrorInfo) Unwrap() error {
	return e.err
}

// ErrCode extracts the library error code from err, or 0 when err does
// not carry one.
func ErrCode(err error) int {
	var e *ErrorInfo
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

func newError(code int, err error) *ErrorInfo {
	var e *ErrorInfo
	if errors.As(err, &e) {
		return e
	}
	return &ErrorInfo{Code: code, err: err}
}

func newErrorf(code int, format string, v ...interface{}) *ErrorInfo {
	return &ErrorInfo{Code: code, err: fmt.Errorf(format, v...)}
}
