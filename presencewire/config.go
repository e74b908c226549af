package presencewire

import "net/url"

// Mode selects which transport variant a Config describes.
type Mode string

const (
	// ModeLocal relays through the local inter-process presence channel.
	ModeLocal Mode = "local"

	// ModeRemote relays through a websocket connection to a remote agent.
	ModeRemote Mode = "remote"
)

// Config describes the desired transport and its connection parameters.
// A new Config fully replaces the previous one on reconfiguration; there
// is no partial merge.
type Config struct {
	// ClientID identifies the caller to the local channel peer. Required
	// in local mode. An empty value is accepted but the transport will
	// fail to connect.
	ClientID string `json:"clientId" msgpack:"clientId"`

	// Mode selects the transport variant.
	Mode Mode `json:"mode" msgpack:"mode"`

	// AgentURL is the websocket endpoint of the remote agent. Required
	// in remote mode.
	AgentURL string `json:"agentUrl" msgpack:"agentUrl"`
}

// Validate reports the first violated configuration rule as an ErrorInfo
// with ErrCodeConfigInvalid, or nil. A failed validation does not stop
// the manager from attempting the configuration; the transport then
// fails to connect.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeLocal:
		if c.ClientID == "" {
			return newErrorf(ErrCodeConfigInvalid, "local mode requires a clientId")
		}
	case ModeRemote:
		if c.AgentURL == "" {
			return newErrorf(ErrCodeConfigInvalid, "remote mode requires an agentUrl")
		}
		u, err := url.Parse(c.AgentURL)
		if err != nil {
			return newError(ErrCodeConfigInvalid, err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return newErrorf(ErrCodeConfigInvalid, "agentUrl scheme must be ws or wss, got %q", u.Scheme)
		}
		if u.Host == "" {
			return newErrorf(ErrCodeConfigInvalid, "agentUrl is missing a host")
		}
	default:
		return newErrorf(ErrCodeConfigInvalid, "unknown mode %q", string(c.Mode))
	}
	return nil
}
