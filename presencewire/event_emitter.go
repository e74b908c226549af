package presencewire

import (
	"runtime/debug"
	"sync"
)

// eventEmitter delivers transport lifecycle events to registered
// listeners. Each transport handle owns one; TransportManager and user
// code subscribe through the typed TransportEventEmitter facade.
type eventEmitter struct {
	sync.Mutex
	listeners listenersForEvent
	log       logger
}

type emitterEvent interface {
	isEmitterEvent()
}

type emitterData interface {
	isEmitterData()
}

type listenersForEvent map[emitterEvent]listenerSet
type listenerSet map[*eventListener]struct{}

type eventListener struct {
	handler func(emitterData)
	once    bool

	queueMtx sync.Mutex
	queue    []emitterData
}

// handle enqueues e for the listener. The goroutine that finds the queue
// empty drains it; others only append. Calls to one handler are therefore
// sequential and in emission order, while Emit never blocks the emitting
// goroutine and distinct handlers run concurrently.
func (l *eventListener) handle(e emitterData, log logger) {
	var isBusy bool

	l.queueMtx.Lock()
	isBusy = len(l.queue) > 0
	l.queue = append(l.queue, e)
	l.queueMtx.Unlock()

	if isBusy {
		return
	}

	go func() {
		done := false
		for !done {
			l.queueMtx.Lock()
			e := l.queue[0]
			l.queueMtx.Unlock()

			safeHandle(e, l.handler, log)

			l.queueMtx.Lock()
			l.queue = l.queue[1:]
			done = len(l.queue) == 0
			l.queueMtx.Unlock()
		}
	}()
}

func safeHandle(e emitterData, handle func(emitterData), log logger) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		log.Errorf("eventEmitter: panic in event handler: %v\n%s", r, debug.Stack())
	}()

	handle(e)
}

func newEventEmitter(log logger) *eventEmitter {
	return &eventEmitter{
		listeners: listenersForEvent{
			nil: listenerSet{},
		},
		log: log,
	}
}

// On registers the listener for the given event. Registering the same
// handler twice results in two invocations per emission. The returned
// function deregisters the listener.
func (em *eventEmitter) On(event emitterEvent, handle func(emitterData)) (off func()) {
	return em.on(event, handle, false)
}

// OnAll registers the listener for all events.
func (em *eventEmitter) OnAll(handle func(emitterData)) (off func()) {
	return em.on(nil, handle, false)
}

// Once is like On, except the listener is deregistered after its first
// invocation.
func (em *eventEmitter) Once(event emitterEvent, handle func(emitterData)) (off func()) {
	return em.on(event, handle, true)
}

func (em *eventEmitter) on(event emitterEvent, handle func(emitterData), once bool) (off func()) {
	em.Lock()
	defer em.Unlock()

	l := &eventListener{
		handler: handle,
		once:    once,
	}

	listeners := em.listeners[event]
	if listeners == nil {
		listeners = listenerSet{}
		em.listeners[event] = listeners
	}

	listeners[l] = struct{}{}

	return func() {
		em.Lock()
		defer em.Unlock()

		listeners := em.listeners[event]
		if listeners != nil {
			delete(listeners, l)
		}
	}
}

// Off removes all listeners registered for the given event.
func (em *eventEmitter) Off(event emitterEvent) {
	em.off(event)
}

// OffAll removes every registration, for all events and listeners.
func (em *eventEmitter) OffAll() {
	em.off(nil)
}

func (em *eventEmitter) off(event emitterEvent) {
	em.Lock()
	defer em.Unlock()

	if event != nil {
		delete(em.listeners, event)
	} else {
		em.listeners = listenersForEvent{
			nil: listenerSet{},
		}
	}
}

// Emit delivers data to every listener registered for event or for all
// events. Panics raised by handlers are caught and logged.
func (em *eventEmitter) Emit(event emitterEvent, data emitterData) {
	// Handlers are collected under the lock but called outside it, so a
	// handler may register or deregister listeners without deadlocking.
	for _, handle := range em.handlersForEvent(event) {
		handle(data, em.log)
	}
}

func (em *eventEmitter) handlersForEvent(event emitterEvent) (handlers []func(emitterData, logger)) {
	em.Lock()
	defer em.Unlock()

	sets := []listenerSet{em.listeners[nil]}
	if event != nil {
		sets = append(sets, em.listeners[event])
	}

	for _, listeners := range sets {
		for l := range listeners {
			if l.once {
				delete(listeners, l)
			}
			handlers = append(handlers, l.handle)
		}
	}

	return handlers
}
