package presencewire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Channel frame opcodes. Every frame is an 8-byte little-endian header
// (opcode, payload length) followed by a JSON payload.
const (
	opHandshake uint32 = iota
	opFrame
	opClose
	opPing
	opPong
)

const maxChannelFrame = 64 << 10

type channelHandshake struct {
	V        int    `json:"v"`
	ClientID string `json:"client_id"`
}

type channelCommand struct {
	Cmd   string      `json:"cmd"`
	Args  channelArgs `json:"args"`
	Nonce string      `json:"nonce"`
}

type channelArgs struct {
	Activity *Activity `json:"activity,omitempty"`
}

type channelResponse struct {
	Evt     string `json:"evt,omitempty"`
	Message string `json:"message,omitempty"`
}

const cmdSetActivity = "SET_ACTIVITY"

const evtReady = "READY"

// LocalChannelTransport relays activities over the local inter-process
// presence channel, a unix socket owned by a co-located consumer. The
// clientID from the Config identifies the caller during the handshake.
type LocalChannelTransport struct {
	transportBase

	clientID   string
	socketPath string
	timeout    time.Duration

	conn net.Conn
}

func newLocalChannelTransport(cfg Config, opts *Options) *LocalChannelTransport {
	return &LocalChannelTransport{
		transportBase: newTransportBase(opts.Logger.sugar()),
		clientID:      cfg.ClientID,
		socketPath:    opts.LocalSocketPath,
		timeout:       opts.connectTimeout(),
	}
}

// Connect registers the client identifier with the channel peer and
// opens the channel. The transition to ready or closed happens
// asynchronously. A closed handle stays closed; Connect is then a no-op.
func (t *LocalChannelTransport) Connect() {
	t.mtx.Lock()
	if t.state == TransportStateClosed {
		t.mtx.Unlock()
		return
	}
	t.lockSetState(TransportStateConnecting, nil)
	t.mtx.Unlock()
	go t.connect()
}

func (t *LocalChannelTransport) connect() {
	conn, err := t.dialChannel()
	if err != nil {
		t.log.Errorf("LocalChannelTransport: connect failed: %v", err)
		t.setState(TransportStateClosed, newError(ErrCodeConnectFailed, err))
		return
	}

	if err := t.handshake(conn); err != nil {
		conn.Close()
		t.log.Errorf("LocalChannelTransport: handshake failed: %v", err)
		t.setState(TransportStateClosed, newError(ErrCodeConnectFailed, err))
		return
	}

	t.mtx.Lock()
	if t.state == TransportStateClosed {
		// Closed while the connect was in flight; the attempt is
		// abandoned without emitting ready.
		t.mtx.Unlock()
		conn.Close()
		return
	}
	t.conn = conn
	t.lockSetState(TransportStateReady, nil)
	t.mtx.Unlock()

	t.log.Infof("LocalChannelTransport: channel open as %q", t.clientID)
	go t.eventloop(conn)
}

func (t *LocalChannelTransport) dialChannel() (net.Conn, error) {
	if t.socketPath != "" {
		return net.DialTimeout("unix", t.socketPath, t.timeout)
	}
	var firstErr error
	for i := 0; i < 10; i++ {
		path := filepath.Join(channelRuntimeDir(), fmt.Sprintf("presence-channel-%d", i))
		conn, err := net.DialTimeout("unix", path, t.timeout)
		if err == nil {
			return conn, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("no presence channel socket found: %w", firstErr)
}

func channelRuntimeDir() string {
	for _, key := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if dir := os.Getenv(key); dir != "" {
			return dir
		}
	}
	return "/tmp"
}

func (t *LocalChannelTransport) handshake(conn net.Conn) error {
	p, err := marshalJSON(channelHandshake{V: 1, ClientID: t.clientID})
	if err != nil {
		return err
	}
	deadline := time.Now().Add(t.timeout)
	conn.SetDeadline(deadline)
	defer conn.SetDeadline(time.Time{})

	if err := writeChannelFrame(conn, opHandshake, p); err != nil {
		return err
	}
	op, payload, err := readChannelFrame(conn)
	if err != nil {
		return err
	}
	if op == opClose {
		return errors.New("channel peer rejected the handshake")
	}
	resp := channelResponse{}
	if err := unmarshalJSON(payload, &resp); err != nil {
		return err
	}
	if resp.Evt != evtReady {
		return fmt.Errorf("unexpected handshake response %q: %s", resp.Evt, resp.Message)
	}
	return nil
}

// Send sets the channel's current status to the given activity. Valid
// only in the ready state.
func (t *LocalChannelTransport) Send(a *Activity) error {
	t.mtx.Lock()
	if t.state != TransportStateReady {
		t.mtx.Unlock()
		return newError(ErrCodeNotConnected, nil)
	}
	conn := t.conn
	t.mtx.Unlock()

	p, err := marshalJSON(channelCommand{
		Cmd:   cmdSetActivity,
		Args:  channelArgs{Activity: a},
		Nonce: uuid.NewString(),
	})
	if err != nil {
		return newError(ErrCodeInternal, err)
	}
	if err := writeChannelFrame(conn, opFrame, p); err != nil {
		reason := newError(ErrCodeTransportClosed, err)
		t.log.Errorf("LocalChannelTransport: write failed: %v", err)
		t.setState(TransportStateClosed, reason)
		conn.Close()
		return reason
	}
	return nil
}

// Close releases the channel. Safe to call from any state.
func (t *LocalChannelTransport) Close() {
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
		// Best effort; the peer drops the status on disconnect anyway.
		writeChannelFrame(conn, opClose, nil)
		conn.Close()
	}
}

// eventloop watches the channel for peer frames. The channel is
// write-mostly; reads only serve ping handling and close detection.
func (t *LocalChannelTransport) eventloop(conn net.Conn) {
	for {
		op, payload, err := readChannelFrame(conn)
		if err != nil {
			if t.State() == TransportStateClosed {
				return
			}
			t.log.Errorf("LocalChannelTransport: channel dropped: %v", err)
			t.setState(TransportStateClosed, newError(ErrCodeTransportClosed, err))
			conn.Close()
			return
		}
		switch op {
		case opPing:
			writeChannelFrame(conn, opPong, payload)
		case opClose:
			if t.State() == TransportStateClosed {
				return
			}
			t.log.Warnf("LocalChannelTransport: peer closed the channel")
			t.setState(TransportStateClosed, newErrorf(ErrCodeTransportClosed, "channel closed by peer"))
			conn.Close()
			return
		default:
			// Status echoes and unknown frames are ignored.
		}
	}
}

func writeChannelFrame(w io.Writer, op uint32, payload []byte) error {
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], op)
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}

func readChannelFrame(r io.Reader) (op uint32, payload []byte, err error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, err
	}
	op = binary.LittleEndian.Uint32(hdr[0:4])
	n := binary.LittleEndian.Uint32(hdr[4:8])
	if n > maxChannelFrame {
		return 0, nil, fmt.Errorf("channel frame of %d bytes exceeds limit", n)
	}
	payload = make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return op, payload, nil
}
