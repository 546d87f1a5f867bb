// Package config provides the persisted multi-environment configuration
// store and token resolution for relayq.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DocumentVersion is written into every saved document for future
	// schema migration.
	DocumentVersion = "1.0"

	// DefaultConfigDirName is the dot-directory under the user's home.
	DefaultConfigDirName = ".relayq"
	// DefaultConfigFileName is the credential document file name.
	DefaultConfigFileName = "config.json"

	// TokenEnvVar is the environment variable consulted as the
	// second-priority token source.
	TokenEnvVar = "RELAYQ_TOKEN"
)

// Environment is one named credential profile.
type Environment struct {
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Preferences are simple persisted flags.
type Preferences struct {
	ColorOutput               bool `json:"colorOutput"`
	ConfirmDestructiveActions bool `json:"confirmDestructiveActions"`
}

// DefaultPreferences returns the preference defaults applied when keys
// are missing from the persisted document.
func DefaultPreferences() Preferences {
	return Preferences{
		ColorOutput:               true,
		ConfirmDestructiveActions: true,
	}
}

// Document is the root persisted structure. It is owned exclusively by
// the Store; callers must treat values returned from Load as read-only.
type Document struct {
	Version            string                 `json:"version"`
	DefaultEnvironment string                 `json:"defaultEnvironment"`
	Environments       map[string]Environment `json:"environments"`
	Preferences        Preferences            `json:"preferences"`
}

// DefaultDocument returns a fresh normalized document.
func DefaultDocument() *Document {
	return &Document{
		Version:            DocumentVersion,
		DefaultEnvironment: "",
		Environments:       make(map[string]Environment),
		Preferences:        DefaultPreferences(),
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	clone := &Document{
		Version:            d.Version,
		DefaultEnvironment: d.DefaultEnvironment,
		Environments:       make(map[string]Environment, len(d.Environments)),
		Preferences:        d.Preferences,
	}
	for id, env := range d.Environments {
		clone.Environments[id] = env
	}
	return clone
}

// rawDocument is the parse-time shape. Preference fields are pointers so
// absent keys can be told apart from explicit false and merged over
// defaults key by key.
type rawDocument struct {
	Version            string                 `json:"version"`
	DefaultEnvironment string                 `json:"defaultEnvironment"`
	Environments       map[string]Environment `json:"environments"`
	Preferences        struct {
		ColorOutput               *bool `json:"colorOutput"`
		ConfirmDestructiveActions *bool `json:"confirmDestructiveActions"`
	} `json:"preferences"`
}

// normalize fills every missing field from the default table, producing
// the single canonical in-memory shape. It also repairs the default
// reference invariant: a default pointing at a missing environment is
// cleared, as is any default on an empty environment map.
func normalize(raw *rawDocument) *Document {
	doc := DefaultDocument()

	if raw.Version != "" {
		doc.Version = raw.Version
	}
	if raw.Environments != nil {
		doc.Environments = raw.Environments
	}
	doc.DefaultEnvironment = raw.DefaultEnvironment

	if raw.Preferences.ColorOutput != nil {
		doc.Preferences.ColorOutput = *raw.Preferences.ColorOutput
	}
	if raw.Preferences.ConfirmDestructiveActions != nil {
		doc.Preferences.ConfirmDestructiveActions = *raw.Preferences.ConfirmDestructiveActions
	}

	if len(doc.Environments) == 0 {
		doc.DefaultEnvironment = ""
	} else if doc.DefaultEnvironment != "" {
		if _, ok := doc.Environments[doc.DefaultEnvironment]; !ok {
			doc.DefaultEnvironment = ""
		}
	}

	return doc
}

// DefaultPath returns the default config document path
// (~/.relayq/config.json).
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, DefaultConfigDirName, DefaultConfigFileName), nil
}
