package config

import (
	"os"
	"strings"
)

// TokenSource names the tier a token was resolved from.
type TokenSource string

const (
	// TokenSourceCLI is an explicit caller-supplied override.
	TokenSourceCLI TokenSource = "cli"
	// TokenSourceEnv is the RELAYQ_TOKEN process environment variable.
	TokenSourceEnv TokenSource = "env"
	// TokenSourceConfig is a stored environment in the config document.
	TokenSourceConfig TokenSource = "config"
)

// ResolveOptions are the caller-supplied inputs to token resolution.
type ResolveOptions struct {
	// CLIToken is the explicit override, highest priority.
	CLIToken string
	// Environment selects a stored environment by name instead of the
	// document default.
	Environment string
}

// Resolution is the outcome of a successful token resolution.
type Resolution struct {
	Token  string
	Source TokenSource

	// EnvironmentID is set only when Source is TokenSourceConfig.
	EnvironmentID string
}

// ResolveToken evaluates the three token sources in strict priority
// order (explicit override, then RELAYQ_TOKEN, then the config
// document), short-circuiting at the first non-blank match. Blank
// after trimming never matches and evaluation falls through.
//
// The second return is false when no source resolved; absence is not an
// error and callers should prompt the user to configure a credential.
func (s *Store) ResolveToken(opts ResolveOptions) (*Resolution, bool) {
	if token := strings.TrimSpace(opts.CLIToken); token != "" {
		return &Resolution{Token: token, Source: TokenSourceCLI}, true
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnvVar)); token != "" {
		return &Resolution{Token: token, Source: TokenSourceEnv}, true
	}

	doc := s.Load()
	id := NormalizeEnvironmentID(opts.Environment)
	if id == "" {
		id = doc.DefaultEnvironment
	}
	if id == "" {
		return nil, false
	}

	env, ok := doc.Environments[id]
	if !ok {
		return nil, false
	}
	if strings.TrimSpace(env.Token) == "" {
		return nil, false
	}

	return &Resolution{
		Token:         env.Token,
		Source:        TokenSourceConfig,
		EnvironmentID: id,
	}, true
}
