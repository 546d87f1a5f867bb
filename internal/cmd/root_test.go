package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd("1.0.0", "abc123", "2026-08-24")

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{
		"env", "queue", "group", "schedule", "message", "failed", "keys", "prefs", "settings",
	} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCmd_GlobalFlags(t *testing.T) {
	root := NewRootCmd("1.0.0", "abc123", "2026-08-24")

	for _, flag := range []string{"verbose", "config", "token", "env", "no-color", "yes"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing flag %q", flag)
	}
	assert.True(t, root.SilenceUsage)
}

func TestParseHeaders(t *testing.T) {
	headers, err := parseHeaders([]string{"priority=high", "trace=abc=def"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"priority": "high",
		"trace":    "abc=def",
	}, headers)

	headers, err = parseHeaders(nil)
	require.NoError(t, err)
	assert.Nil(t, headers)

	_, err = parseHeaders([]string{"no-separator"})
	assert.Error(t, err)

	_, err = parseHeaders([]string{"=value"})
	assert.Error(t, err)
}
