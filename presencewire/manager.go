package presencewire

import "sync"

// TransportManager is the single source of truth for which transport is
// active and how to send. It owns at most one TransportHandle; all sends
// funnel through Dispatch.
type TransportManager struct {
	mtx  sync.Mutex
	opts *Options
	log  logger

	handle   TransportHandle
	off      func()
	reason   *ErrorInfo
	released bool
}

// NewTransportManager returns a manager with no active transport. A nil
// opts is equivalent to the zero Options.
func NewTransportManager(opts *Options) *TransportManager {
	if opts == nil {
		opts = &Options{}
	}
	return &TransportManager{
		opts: opts,
		log:  opts.Logger.sugar(),
	}
}

// Configure replaces the active transport with one built from cfg and
// starts its connection sequence asynchronously; it returns before the
// transport is ready. The previous handle, connected or still pending,
// is closed first and its later events are ignored - last write wins.
//
// Configure never fails: an invalid cfg is logged as a warning and the
// configuration is still attempted, leaving the manager without a ready
// transport when the connect then fails.
func (m *TransportManager) Configure(cfg Config) {
	if err := cfg.Validate(); err != nil {
		m.log.Warnf("TransportManager: %v", err)
	}

	m.mtx.Lock()
	m.lockRelease()
	h := m.dial(cfg)
	m.handle = h
	m.reason = nil
	m.released = false
	m.off = h.OnAll(func(change TransportStateChange) {
		m.onTransportEvent(h, change)
	})
	m.mtx.Unlock()

	m.log.Infof("TransportManager: configuring %s transport", cfg.Mode)
	h.Connect()
}

func (m *TransportManager) dial(cfg Config) TransportHandle {
	if m.opts.Dial != nil {
		return m.opts.Dial(cfg, m.opts)
	}
	switch cfg.Mode {
	case ModeRemote:
		return newRemoteSocketTransport(cfg, m.opts)
	default:
		return newLocalChannelTransport(cfg, m.opts)
	}
}

// onTransportEvent records and logs lifecycle events of the active
// handle. Events from a superseded handle are dropped.
func (m *TransportManager) onTransportEvent(h TransportHandle, change TransportStateChange) {
	m.mtx.Lock()
	if m.handle != h {
		m.mtx.Unlock()
		m.log.Debugf("TransportManager: ignoring %s event from superseded transport", change.Event)
		return
	}
	if change.Reason != nil {
		m.reason = change.Reason
	}
	m.mtx.Unlock()

	switch {
	case change.Reason != nil:
		m.log.Errorf("TransportManager: transport %s: %v", change.Current, change.Reason)
	case change.Current == TransportStateReady:
		m.log.Infof("TransportManager: transport ready")
	default:
		m.log.Debugf("TransportManager: transport %s", change.Current)
	}
}

// Dispatch forwards the activity to the active transport. When no
// transport is ready it returns an ErrorInfo with ErrCodeNotConnected
// and has no side effects. Dispatch never blocks waiting for a connect.
func (m *TransportManager) Dispatch(a *Activity) error {
	m.mtx.Lock()
	h := m.handle
	m.mtx.Unlock()

	if h == nil || h.State() != TransportStateReady {
		m.log.Debug("TransportManager: dispatch with no ready transport")
		return newError(ErrCodeNotConnected, nil)
	}
	if err := h.Send(a); err != nil {
		m.log.Errorf("TransportManager: dispatch failed: %v", err)
		return err
	}
	return nil
}

// Teardown closes the active transport and releases it. Safe to call
// multiple times.
func (m *TransportManager) Teardown() {
	m.mtx.Lock()
	m.lockRelease()
	m.mtx.Unlock()
}

// lockRelease detaches the event listener and closes the current handle,
// if any. Closing an already-closed or absent handle is a no-op. Called
// with m.mtx held.
func (m *TransportManager) lockRelease() {
	if m.off != nil {
		m.off()
		m.off = nil
	}
	m.released = true
	if m.handle == nil {
		return
	}
	h := m.handle
	m.handle = nil
	h.Close()
}

// State reports the lifecycle state of the active transport, or
// TransportStateClosed when the manager has been torn down.
func (m *TransportManager) State() TransportState {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.handle == nil {
		if m.released {
			return TransportStateClosed
		}
		return TransportStateUninitialized
	}
	return m.handle.State()
}

// ErrorReason returns the error recorded from the active transport's
// most recent failed transition, or nil. It is reset by Configure.
func (m *TransportManager) ErrorReason() *ErrorInfo {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.reason
}
