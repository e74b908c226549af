package presencewire_test

import (
	"testing"

	"github.com/presencewire/presencewire-go/presencewire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     presencewire.Config
		wantErr bool
	}{
		{
			name: "local with clientId",
			cfg:  presencewire.Config{Mode: presencewire.ModeLocal, ClientID: "abc"},
		},
		{
			name:    "local without clientId",
			cfg:     presencewire.Config{Mode: presencewire.ModeLocal},
			wantErr: true,
		},
		{
			name: "remote with ws url",
			cfg:  presencewire.Config{Mode: presencewire.ModeRemote, AgentURL: "ws://agent.local:7700"},
		},
		{
			name: "remote with wss url",
			cfg:  presencewire.Config{Mode: presencewire.ModeRemote, AgentURL: "wss://agent.example.com/relay"},
		},
		{
			name:    "remote without url",
			cfg:     presencewire.Config{Mode: presencewire.ModeRemote},
			wantErr: true,
		},
		{
			name:    "remote with http scheme",
			cfg:     presencewire.Config{Mode: presencewire.ModeRemote, AgentURL: "http://agent.local"},
			wantErr: true,
		},
		{
			name:    "remote with missing host",
			cfg:     presencewire.Config{Mode: presencewire.ModeRemote, AgentURL: "ws://"},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			cfg:     presencewire.Config{Mode: "carrier-pigeon"},
			wantErr: true,
		},
		{
			name:    "zero value",
			cfg:     presencewire.Config{},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, presencewire.ErrCodeConfigInvalid, presencewire.ErrCode(err))
		})
	}
}
