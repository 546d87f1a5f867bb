package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveToken_CLIWins(t *testing.T) {
	store := newTestStore(t)
	t.Setenv(TokenEnvVar, "tok_from_env")
	_, err := store.AddEnvironment("prod", "tok_from_config", "")
	require.NoError(t, err)

	res, ok := store.ResolveToken(ResolveOptions{CLIToken: "tok_from_cli"})
	require.True(t, ok)
	assert.Equal(t, "tok_from_cli", res.Token)
	assert.Equal(t, TokenSourceCLI, res.Source)
	assert.Empty(t, res.EnvironmentID)
}

func TestResolveToken_EnvBeatsConfig(t *testing.T) {
	store := newTestStore(t)
	t.Setenv(TokenEnvVar, "tok_from_env")
	_, err := store.AddEnvironment("prod", "tok_from_config", "")
	require.NoError(t, err)

	res, ok := store.ResolveToken(ResolveOptions{})
	require.True(t, ok)
	assert.Equal(t, "tok_from_env", res.Token)
	assert.Equal(t, TokenSourceEnv, res.Source)
}

func TestResolveToken_ConfigDefault(t *testing.T) {
	store := newTestStore(t)
	t.Setenv(TokenEnvVar, "")
	_, err := store.AddEnvironment("prod", "tok_from_config", "")
	require.NoError(t, err)

	res, ok := store.ResolveToken(ResolveOptions{})
	require.True(t, ok)
	assert.Equal(t, "tok_from_config", res.Token)
	assert.Equal(t, TokenSourceConfig, res.Source)
	assert.Equal(t, "prod", res.EnvironmentID)
}

func TestResolveToken_NamedEnvironment(t *testing.T) {
	store := newTestStore(t)
	t.Setenv(TokenEnvVar, "")
	_, err := store.AddEnvironment("prod", "tok_prod", "")
	require.NoError(t, err)
	_, err = store.AddEnvironment("staging", "tok_staging", "")
	require.NoError(t, err)

	// Named selection normalizes the id the same way storage does.
	res, ok := store.ResolveToken(ResolveOptions{Environment: "  STAGING "})
	require.True(t, ok)
	assert.Equal(t, "tok_staging", res.Token)
	assert.Equal(t, "staging", res.EnvironmentID)
}

func TestResolveToken_BlankFallsThrough(t *testing.T) {
	store := newTestStore(t)
	t.Setenv(TokenEnvVar, "   ")
	_, err := store.AddEnvironment("prod", "tok_from_config", "")
	require.NoError(t, err)

	// Whitespace-only CLI and env values never match.
	res, ok := store.ResolveToken(ResolveOptions{CLIToken: "   "})
	require.True(t, ok)
	assert.Equal(t, TokenSourceConfig, res.Source)
	assert.Equal(t, "tok_from_config", res.Token)
}

func TestResolveToken_NoSource(t *testing.T) {
	store := newTestStore(t)
	t.Setenv(TokenEnvVar, "")

	res, ok := store.ResolveToken(ResolveOptions{})
	assert.False(t, ok)
	assert.Nil(t, res)
}

func TestResolveToken_UnknownNamedEnvironment(t *testing.T) {
	store := newTestStore(t)
	t.Setenv(TokenEnvVar, "")
	_, err := store.AddEnvironment("prod", "tok_prod", "")
	require.NoError(t, err)

	res, ok := store.ResolveToken(ResolveOptions{Environment: "ghost"})
	assert.False(t, ok)
	assert.Nil(t, res)
}
