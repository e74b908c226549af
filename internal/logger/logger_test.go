package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/presencewire/presencewire-go/presencewire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkWritesStructuredEntries(t *testing.T) {
	buf := &bytes.Buffer{}
	sink := New(buf, "test")

	sink.Printf(presencewire.LogError, "transport %s: %v", "CLOSED", "dial failed")

	entry := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "test", entry["role"])
	assert.Equal(t, "transport CLOSED: dial failed", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestSinkLevelMapping(t *testing.T) {
	cases := []struct {
		in   presencewire.LogLevel
		want string
	}{
		{presencewire.LogError, "error"},
		{presencewire.LogWarning, "warn"},
		{presencewire.LogInfo, "info"},
		{presencewire.LogVerbose, "debug"},
		{presencewire.LogDebug, "trace"},
	}
	for _, tc := range cases {
		buf := &bytes.Buffer{}
		New(buf, "test").Print(tc.in, "m")

		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, tc.want, entry["level"])
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]presencewire.LogLevel{
		"none":    presencewire.LogNone,
		"error":   presencewire.LogError,
		"warn":    presencewire.LogWarning,
		"warning": presencewire.LogWarning,
		"info":    presencewire.LogInfo,
		"verbose": presencewire.LogVerbose,
		"debug":   presencewire.LogDebug,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("shouty")
	assert.Error(t, err)
}
