package configstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/presencewire/presencewire-go/presencewire"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "config.toml"), zerolog.Nop())
}

func TestStoreRoundTrip(t *testing.T) {
	store := testStore(t)

	want := presencewire.Config{
		ClientID: "abc123",
		Mode:     presencewire.ModeRemote,
		AgentURL: "wss://agent.example.com/relay",
	}
	store.Save(want)
	assert.Equal(t, want, store.Load())
}

func TestStoreLoadMissingFileFallsBack(t *testing.T) {
	store := testStore(t)
	assert.Equal(t, presencewire.Config{Mode: presencewire.ModeLocal}, store.Load())
}

func TestStoreLoadMalformedFileFallsBack(t *testing.T) {
	store := testStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{ not toml ]"), 0o600))
	assert.Equal(t, presencewire.Config{Mode: presencewire.ModeLocal}, store.Load())
}

func TestStoreLoadDefaultsEmptyMode(t *testing.T) {
	store := testStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[presence]\nclient_id = \"abc\"\n"), 0o600))

	cfg := store.Load()
	assert.Equal(t, presencewire.ModeLocal, cfg.Mode)
	assert.Equal(t, "abc", cfg.ClientID)
}

func TestStoreSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.toml")
	store := New(path, zerolog.Nop())

	store.Save(presencewire.Config{Mode: presencewire.ModeLocal, ClientID: "abc"})
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	store := testStore(t)
	store.Save(presencewire.Config{Mode: presencewire.ModeLocal, ClientID: "before"})

	changes := make(chan presencewire.Config, 4)
	watcher, err := store.Watch(func(cfg presencewire.Config) {
		changes <- cfg
	})
	require.NoError(t, err)
	defer watcher.Stop()

	store.Save(presencewire.Config{Mode: presencewire.ModeRemote, AgentURL: "ws://agent.local:7700"})

	select {
	case cfg := <-changes:
		assert.Equal(t, presencewire.ModeRemote, cfg.Mode)
		assert.Equal(t, "ws://agent.local:7700", cfg.AgentURL)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
