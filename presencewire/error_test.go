package presencewire

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorInfoText(t *testing.T) {
	err := newError(ErrCodeNotConnected, nil)
	assert.Equal(t, "not connected (no ready transport)", err.Error())

	wrapped := newError(ErrCodeConnectFailed, errors.New("dial unix: no such file"))
	assert.Equal(t, "transport connect failed: dial unix: no such file", wrapped.Error())
	assert.Equal(t, "dial unix: no such file", wrapped.Unwrap().Error())
}

func TestErrorInfoDoesNotDoubleWrap(t *testing.T) {
	inner := newError(ErrCodeConnectFailed, errors.New("boom"))
	outer := newError(ErrCodeInternal, inner)
	assert.Same(t, inner, outer)
	assert.Equal(t, ErrCodeConnectFailed, outer.Code)

	// Also when the ErrorInfo is buried in a wrapping chain.
	chained := newError(ErrCodeInternal, fmt.Errorf("dispatch: %w", inner))
	assert.Equal(t, ErrCodeConnectFailed, chained.Code)
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotConnected, ErrCode(newError(ErrCodeNotConnected, nil)))
	assert.Equal(t, ErrCodeConfigInvalid, ErrCode(fmt.Errorf("validate: %w", newErrorf(ErrCodeConfigInvalid, "bad mode"))))
	assert.Equal(t, 0, ErrCode(errors.New("plain")))
	assert.Equal(t, 0, ErrCode(nil))
}
