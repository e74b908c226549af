package presencewire

import "sync"

// TransportHandle is the live object representing one transport
// connection and its lifecycle state. Exactly one handle is owned by a
// TransportManager at a time; a handle is never reused after Close.
type TransportHandle interface {
	// Connect begins the connection sequence and returns immediately.
	// Completion is reported as a TransportEventReady or
	// TransportEventClosed event, never as a panic. On a closed handle
	// Connect is a no-op: Closed is terminal.
	Connect()

	// Send forwards the activity to the consumer. Valid only in the
	// ready state; otherwise it returns an ErrorInfo with
	// ErrCodeNotConnected and performs no I/O.
	Send(*Activity) error

	// Close releases the underlying connection. Safe to call from any
	// state and repeatedly.
	Close()

	// State reports the current lifecycle state.
	State() TransportState

	// On registers a handler for a specific transport event.
	On(e TransportEvent, handle func(TransportStateChange)) (off func())

	// OnAll registers a handler for all transport events.
	OnAll(handle func(TransportStateChange)) (off func())
}

// transportBase carries the state machine shared by both transport
// variants. Variants call lockSetState with b.mtx held, or setState
// otherwise.
type transportBase struct {
	mtx sync.Mutex
	TransportEventEmitter

	state  TransportState
	reason *ErrorInfo
	log    logger
}

func newTransportBase(log logger) transportBase {
	return transportBase{
		TransportEventEmitter: TransportEventEmitter{newEventEmitter(log)},
		state:                 TransportStateUninitialized,
		log:                   log,
	}
}

func (b *transportBase) State() TransportState {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.state
}

// ErrorReason returns the error that caused the most recent transition,
// or nil.
func (b *transportBase) ErrorReason() *ErrorInfo {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.reason
}

func (b *transportBase) setState(state TransportState, reason *ErrorInfo) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.lockSetState(state, reason)
}

func (b *transportBase) lockSetState(state TransportState, reason *ErrorInfo) {
	previous := b.state
	changed := b.state != state
	b.state = state
	if reason != nil {
		b.reason = reason
	}
	change := TransportStateChange{
		Current:  state,
		Previous: previous,
		Reason:   reason,
	}
	if changed {
		change.Event = TransportEvent(state)
	} else {
		change.Event = TransportEventUpdate
	}
	b.emitter.Emit(change.Event, change)
}
