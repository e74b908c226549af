// Package configstore persists the presence configuration as a TOML
// file and watches it for out-of-band edits.
package configstore

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/presencewire/presencewire-go/presencewire"
	"github.com/rs/zerolog"
)

type fileSchema struct {
	Presence presenceSchema `toml:"presence"`
}

type presenceSchema struct {
	ClientID string `toml:"client_id"`
	Mode     string `toml:"mode"`
	AgentURL string `toml:"agent_url"`
}

// Store reads and writes one config file. Load falls back to a
// zero-value config on any read or parse failure; Save is best-effort.
type Store struct {
	path string
	log  zerolog.Logger
}

func New(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// DefaultPath returns the config file path under XDG_CONFIG_HOME,
// falling back to ~/.config.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "presencewired", "config.toml")
}

func zeroConfig() presencewire.Config {
	return presencewire.Config{Mode: presencewire.ModeLocal}
}

// Load reads the persisted config. Any failure is logged and answered
// with the zero-value config: empty clientId, local mode, empty
// agentUrl.
func (s *Store) Load() presencewire.Config {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("config unreadable, using defaults")
		}
		return zeroConfig()
	}

	file := fileSchema{}
	if err := toml.Unmarshal(raw, &file); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("config malformed, using defaults")
		return zeroConfig()
	}

	cfg := presencewire.Config{
		ClientID: file.Presence.ClientID,
		Mode:     presencewire.Mode(file.Presence.Mode),
		AgentURL: file.Presence.AgentURL,
	}
	if cfg.Mode == "" {
		cfg.Mode = presencewire.ModeLocal
	}
	return cfg
}

// Save persists cfg. Failures are logged, never propagated.
func (s *Store) Save(cfg presencewire.Config) {
	file := fileSchema{
		Presence: presenceSchema{
			ClientID: cfg.ClientID,
			Mode:     string(cfg.Mode),
			AgentURL: cfg.AgentURL,
		},
	}
	raw, err := toml.Marshal(file)
	if err != nil {
		s.log.Error().Err(err).Msg("config encode failed")
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("config dir create failed")
		return
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("config write failed")
	}
}
