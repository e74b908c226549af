package presencewire

// TransportState is the lifecycle state of a transport handle.
//
//	Uninitialized -> Connecting -> Ready -> Closed
//
// Ready -> Closed is also reachable through a transport error, and
// Connecting -> Closed through a connect failure.
type TransportState int

const (
	TransportStateUninitialized TransportState = iota
	TransportStateConnecting
	TransportStateReady
	TransportStateClosed
)

var transportStateText = map[TransportState]string{
	TransportStateUninitialized: "UNINITIALIZED",
	TransportStateConnecting:    "CONNECTING",
	TransportStateReady:         "READY",
	TransportStateClosed:        "CLOSED",
}

// String implements the fmt.Stringer interface.
func (s TransportState) String() string {
	return transportStateText[s]
}

// TransportEvent identifies a transport state change for event
// registration. Events are named after the state being transitioned to,
// plus TransportEventUpdate for emissions that do not change state.
type TransportEvent TransportState

const (
	TransportEventConnecting = TransportEvent(TransportStateConnecting)
	TransportEventReady      = TransportEvent(TransportStateReady)
	TransportEventClosed     = TransportEvent(TransportStateClosed)

	// TransportEventUpdate is emitted when an event carries new
	// information, such as an error reason, without a state transition.
	TransportEventUpdate TransportEvent = 100
)

func (TransportEvent) isEmitterEvent() {}

func (e TransportEvent) String() string {
	if e == TransportEventUpdate {
		return "UPDATE"
	}
	return TransportState(e).String()
}

// TransportStateChange describes a single transition of a transport
// handle. Reason is non-nil when the transition was caused by an error.
type TransportStateChange struct {
	Current  TransportState
	Previous TransportState
	Event    TransportEvent
	Reason   *ErrorInfo
}

func (TransportStateChange) isEmitterData() {}

// TransportEventEmitter exposes typed event registration over the
// generic emitter.
type TransportEventEmitter struct {
	emitter *eventEmitter
}

// On registers an event handler for transport events of a specific kind.
// The returned function deregisters the handler.
func (em TransportEventEmitter) On(e TransportEvent, handle func(TransportStateChange)) (off func()) {
	return em.emitter.On(e, func(change emitterData) {
		handle(change.(TransportStateChange))
	})
}

// OnAll registers an event handler for all transport events.
func (em TransportEventEmitter) OnAll(handle func(TransportStateChange)) (off func()) {
	return em.emitter.OnAll(func(change emitterData) {
		handle(change.(TransportStateChange))
	})
}

// Once registers a one-off event handler for transport events of a
// specific kind.
func (em TransportEventEmitter) Once(e TransportEvent, handle func(TransportStateChange)) (off func()) {
	return em.emitter.Once(e, func(change emitterData) {
		handle(change.(TransportStateChange))
	})
}

// Off deregisters event handlers for transport events of a specific kind.
func (em TransportEventEmitter) Off(e TransportEvent) {
	em.emitter.Off(e)
}

// OffAll deregisters all event handlers.
func (em TransportEventEmitter) OffAll() {
	em.emitter.OffAll()
}
