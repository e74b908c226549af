package presencewire

import "time"

const (
	protocolJSON    = "application/json"
	protocolMsgPack = "application/x-msgpack"
)

var defaultOptions = Options{
	ConnectTimeout: 10 * time.Second,
	SendTimeout:    10 * time.Second,
}

// Options configures a TransportManager. The zero value is usable; unset
// durations fall back to defaults.
type Options struct {
	// Logger receives every transport lifecycle event and dispatch
	// failure. When Logger.Logger is nil a stderr logger is used.
	Logger LoggerOptions

	// ConnectTimeout bounds a single transport connect attempt.
	ConnectTimeout time.Duration

	// SendTimeout bounds a single payload write on the remote transport.
	SendTimeout time.Duration

	// NoBinaryProtocol makes the remote transport encode envelopes as
	// JSON text frames instead of msgpack binary frames.
	NoBinaryProtocol bool

	// LocalSocketPath overrides discovery of the local presence channel
	// socket. Used by tests.
	LocalSocketPath string

	// Dial, when non-nil, replaces the built-in transport constructors.
	// Used by tests to inject fake transports.
	Dial func(cfg Config, opts *Options) TransportHandle
}

func (o *Options) connectTimeout() time.Duration {
	if o.ConnectTimeout != 0 {
		return o.ConnectTimeout
	}
	return defaultOptions.ConnectTimeout
}

func (o *Options) sendTimeout() time.Duration {
	if o.SendTimeout != 0 {
		return o.SendTimeout
	}
	return defaultOptions.SendTimeout
}

func (o *Options) protocol() string {
	if o.NoBinaryProtocol {
		return protocolJSON
	}
	return protocolMsgPack
}
