package presencewire

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

type agentEnvelope struct {
	Type     string    `json:"type" msgpack:"type"`
	Activity *Activity `json:"activity,omitempty" msgpack:"activity,omitempty"`
}

const envelopeActivity = "activity"

// RemoteSocketTransport relays activities over a persistent websocket
// connection to the agent at AgentURL. It performs no automatic
// reconnection; after a failure the next Configure call on the manager
// establishes a fresh transport.
type RemoteSocketTransport struct {
	transportBase

	agentURL    string
	proto       string
	dialTimeout time.Duration
	sendTimeout time.Duration

	conn *websocket.Conn
}

func newRemoteSocketTransport(cfg Config, opts *Options) *RemoteSocketTransport {
	return &RemoteSocketTransport{
		transportBase: newTransportBase(opts.Logger.sugar()),
		agentURL:      cfg.AgentURL,
		proto:         opts.protocol(),
		dialTimeout:   opts.connectTimeout(),
		sendTimeout:   opts.sendTimeout(),
	}
}

// Connect opens the socket and transitions to ready on the open event.
// A closed handle stays closed; Connect is then a no-op.
func (t *RemoteSocketTransport) Connect() {
	t.mtx.Lock()
	if t.state == TransportStateClosed {
		t.mtx.Unlock()
		return
	}
	t.lockSetState(TransportStateConnecting, nil)
	t.mtx.Unlock()
	go t.connect()
}

func (t *RemoteSocketTransport) connect() {
	start := time.Now()
	t.log.Debugf("RemoteSocketTransport: dialing %q protocol=%q", t.agentURL, t.proto)

	ctx, cancel := context.WithTimeout(context.Background(), t.dialTimeout)
	defer cancel()

	hdr := make(http.Header)
	hdr.Set(agentHeader, agentIdentifier())
	conn, _, err := websocket.Dial(ctx, t.agentURL, &websocket.DialOptions{
		HTTPHeader: hdr,
	})
	if err != nil {
		t.log.Errorf("RemoteSocketTransport: dial failed in %v: %v", time.Since(start), err)
		t.setState(TransportStateClosed, newError(ErrCodeConnectFailed, err))
		return
	}

	t.mtx.Lock()
	if t.state == TransportStateClosed {
		t.mtx.Unlock()
		conn.Close(websocket.StatusNormalClosure, "superseded")
		return
	}
	t.conn = conn
	t.lockSetState(TransportStateReady, nil)
	t.mtx.Unlock()

	t.log.Infof("RemoteSocketTransport: connected to %q in %v", t.agentURL, time.Since(start))
	go t.eventloop(conn)
}

// Send serializes the activity as a structured message and writes it.
// When the socket is not open it is a no-op surfacing ErrCodeNotConnected.
func (t *RemoteSocketTransport) Send(a *Activity) error {
	t.mtx.Lock()
	if t.state != TransportStateReady {
		t.mtx.Unlock()
		return newError(ErrCodeNotConnected, nil)
	}
	conn := t.conn
	t.mtx.Unlock()

	env := agentEnvelope{Type: envelopeActivity, Activity: a}
	var (
		p       []byte
		err     error
		msgType websocket.MessageType
	)
	if t.proto == protocolJSON {
		p, err = marshalJSON(env)
		msgType = websocket.MessageText
	} else {
		p, err = marshalMsgpack(env)
		msgType = websocket.MessageBinary
	}
	if err != nil {
		return newError(ErrCodeInternal, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.sendTimeout)
	defer cancel()
	if err := conn.Write(ctx, msgType, p); err != nil {
		reason := newError(ErrCodeTransportClosed, err)
		t.log.Errorf("RemoteSocketTransport: write failed: %v", err)
		t.setState(TransportStateClosed, reason)
		conn.Close(websocket.StatusProtocolError, "write failed")
		return reason
	}
	return nil
}

// Close closes the socket. Safe to call from any state.
func (t *RemoteSocketTransport) Close() {
	t.mtx.Lock()
	if t.state == TransportStateClosed {
		t.mtx.Unlock()
		return
	}
	conn := t.conn
	t.conn = nil
	t.lockSetState(TransportStateClosed, nil)
	t.mtx.Unlock()

	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "teardown")
	}
}

// eventloop reads from the socket until it fails. The agent does not
// push messages we act on; the read serves close detection.
func (t *RemoteSocketTransport) eventloop(conn *websocket.Conn) {
	for {
		_, _, err := conn.Read(context.Background())
		if err != nil {
			if t.State() == TransportStateClosed {
				return
			}
			t.log.Errorf("RemoteSocketTransport: connection dropped: %v", err)
			t.setState(TransportStateClosed, newError(ErrCodeTransportClosed, err))
			return
		}
	}
}
