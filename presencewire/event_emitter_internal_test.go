package presencewire

import (
	"testing"

	"github.com/presencewire/presencewire-go/presencewire/internal/pwtest"
	"github.com/stretchr/testify/assert"
)

func TestEventEmitterOrderingPerListener(t *testing.T) {
	em := newEventEmitter(LoggerOptions{}.sugar())

	got := make(chan TransportStateChange, 16)
	em.On(TransportEventClosed, func(data emitterData) {
		got <- data.(TransportStateChange)
	})

	for i := TransportState(0); i < 4; i++ {
		em.Emit(TransportEventClosed, TransportStateChange{Current: TransportStateClosed, Previous: i})
	}

	for i := TransportState(0); i < 4; i++ {
		var change TransportStateChange
		pwtest.Soon.Recv(t, &change, got, t.Fatalf)
		assert.Equal(t, i, change.Previous, "events delivered out of order")
	}
	pwtest.Instantly.NoRecv(t, nil, got, t.Fatalf)
}

func TestEventEmitterOnceAndOff(t *testing.T) {
	em := newEventEmitter(LoggerOptions{}.sugar())

	once := make(chan TransportStateChange, 4)
	em.Once(TransportEventReady, func(data emitterData) {
		once <- data.(TransportStateChange)
	})

	all := make(chan TransportStateChange, 4)
	off := em.OnAll(func(data emitterData) {
		all <- data.(TransportStateChange)
	})

	em.Emit(TransportEventReady, TransportStateChange{Current: TransportStateReady})
	pwtest.Soon.Recv(t, nil, once, t.Fatalf)
	pwtest.Soon.Recv(t, nil, all, t.Fatalf)

	em.Emit(TransportEventReady, TransportStateChange{Current: TransportStateReady})
	pwtest.Instantly.NoRecv(t, nil, once, t.Fatalf)
	pwtest.Soon.Recv(t, nil, all, t.Fatalf)

	off()
	em.Emit(TransportEventReady, TransportStateChange{Current: TransportStateReady})
	pwtest.Instantly.NoRecv(t, nil, all, t.Fatalf)
}

func TestEventEmitterPanicContained(t *testing.T) {
	em := newEventEmitter(LoggerOptions{}.sugar())

	after := make(chan TransportStateChange, 4)
	em.OnAll(func(emitterData) {
		panic("listener gone wrong")
	})
	em.OnAll(func(data emitterData) {
		after <- data.(TransportStateChange)
	})

	em.Emit(TransportEventClosed, TransportStateChange{Current: TransportStateClosed})
	pwtest.Soon.Recv(t, nil, after, t.Fatalf)

	// The panicking listener does not poison subsequent emissions.
	em.Emit(TransportEventClosed, TransportStateChange{Current: TransportStateClosed})
	pwtest.Soon.Recv(t, nil, after, t.Fatalf)
}
