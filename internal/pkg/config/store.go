package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	apperrors "github.com/relayq/relayq/internal/pkg/errors"
)

// Store owns the persisted config document. The document is loaded once
// and cached; every mutating operation performs a read-modify-write on a
// deep copy and only replaces the cache after the write succeeded, so a
// failed save leaves both disk and memory unchanged.
type Store struct {
	path string

	mu     sync.Mutex
	cached *Document

	now func() time.Time
}

// NewStore creates a store backed by the given file path. An empty path
// selects the default location under the user's home directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = defaultPath
	}
	return &Store{
		path: path,
		now:  time.Now,
	}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the backing file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the cached document, reading and normalizing the backing
// file on first use. An absent or unparseable file yields the default
// document; corruption is deliberately recovered silently because the
// document is advisory local state, not a source of truth.
func (s *Store) Load() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() *Document {
	if s.cached != nil {
		return s.cached
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.cached = DefaultDocument()
		return s.cached
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		apperrors.Debug("config file unparseable, using defaults: %v", err)
		s.cached = DefaultDocument()
		return s.cached
	}

	s.cached = normalize(&raw)
	return s.cached
}

// Save writes the full document, creating the containing directory if
// absent, and replaces the cache with exactly the saved value.
func (s *Store) Save(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(doc)
}

func (s *Store) saveLocked(doc *Document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the document holds credentials.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	s.cached = doc.Clone()
	return nil
}

// ClearCache forces the next Load to re-read from disk. Used when
// external mutation of the file is suspected.
func (s *Store) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}

// AddEnvironment creates a new credential profile. The id is normalized
// to a lowercase slug before the duplicate check. The first environment
// added becomes the default.
func (s *Store) AddEnvironment(id, token, displayName string) (*Environment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := NormalizeEnvironmentID(id)
	if normalized == "" {
		return nil, apperrors.NewInvalidInputError("environment id must not be empty")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewInvalidInputError("token must not be empty")
	}
	if containsWhitespace(token) {
		return nil, apperrors.NewInvalidInputError("token must not contain whitespace")
	}

	doc := s.loadLocked().Clone()
	if _, ok := doc.Environments[normalized]; ok {
		return nil, apperrors.NewAlreadyExistsError(normalized)
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = normalized
	}

	env := Environment{
		Token:     token,
		Name:      name,
		CreatedAt: s.now(),
	}
	doc.Environments[normalized] = env
	if len(doc.Environments) == 1 {
		doc.DefaultEnvironment = normalized
	}

	if err := s.saveLocked(doc); err != nil {
		return nil, err
	}
	return &env, nil
}

// EnvironmentUpdate carries the fields to overwrite; nil fields are
// preserved.
type EnvironmentUpdate struct {
	Token *string
	Name  *string
}

// UpdateEnvironment overwrites only the provided fields of an existing
// environment. CreatedAt is always preserved.
func (s *Store) UpdateEnvironment(id string, update EnvironmentUpdate) (*Environment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := NormalizeEnvironmentID(id)
	doc := s.loadLocked().Clone()

	env, ok := doc.Environments[normalized]
	if !ok {
		return nil, apperrors.NewEnvironmentNotFoundError(normalized)
	}

	if update.Token != nil {
		token := strings.TrimSpace(*update.Token)
		if token == "" {
			return nil, apperrors.NewInvalidInputError("token must not be empty")
		}
		if containsWhitespace(token) {
			return nil, apperrors.NewInvalidInputError("token must not contain whitespace")
		}
		env.Token = token
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			name = normalized
		}
		env.Name = name
	}

	doc.Environments[normalized] = env
	if err := s.saveLocked(doc); err != nil {
		return nil, err
	}
	return &env, nil
}

// RemoveResult reports the default-environment consequences of a removal.
type RemoveResult struct {
	DefaultAffected bool
	NewDefault      string
}

// RemoveEnvironment deletes an environment. When the removed id was the
// default, the oldest remaining environment (by CreatedAt, ties broken
// by id) becomes the new default, or the default is cleared when none
// remain.
func (s *Store) RemoveEnvironment(id string) (*RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := NormalizeEnvironmentID(id)
	doc := s.loadLocked().Clone()

	if _, ok := doc.Environments[normalized]; !ok {
		return nil, apperrors.NewEnvironmentNotFoundError(normalized)
	}
	delete(doc.Environments, normalized)

	result := &RemoveResult{}
	if doc.DefaultEnvironment == normalized {
		result.DefaultAffected = true
		doc.DefaultEnvironment = oldestEnvironmentID(doc.Environments)
		result.NewDefault = doc.DefaultEnvironment
	}

	if err := s.saveLocked(doc); err != nil {
		return nil, err
	}
	return result, nil
}

// oldestEnvironmentID picks the deterministic replacement default:
// oldest CreatedAt first, id ascending on ties. Empty when no
// environments remain.
func oldestEnvironmentID(environments map[string]Environment) string {
	ids := make([]string, 0, len(environments))
	for id := range environments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := environments[ids[i]], environments[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return ids[i] < ids[j]
	})
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// SetDefaultEnvironment swaps the default and returns the prior value.
func (s *Store) SetDefaultEnvironment(id string) (previous string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := NormalizeEnvironmentID(id)
	doc := s.loadLocked().Clone()

	if _, ok := doc.Environments[normalized]; !ok {
		return "", apperrors.NewEnvironmentNotFoundError(normalized)
	}

	previous = doc.DefaultEnvironment
	doc.DefaultEnvironment = normalized

	if err := s.saveLocked(doc); err != nil {
		return "", err
	}
	return previous, nil
}

// GetEnvironment returns an environment by id.
func (s *Store) GetEnvironment(id string) (*Environment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadLocked()
	env, ok := doc.Environments[NormalizeEnvironmentID(id)]
	if !ok {
		return nil, false
	}
	return &env, true
}

// GetDefaultEnvironment returns the current default environment id,
// empty when none is set.
func (s *Store) GetDefaultEnvironment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked().DefaultEnvironment
}

// ListEntry is one row of a ListEnvironments result.
type ListEntry struct {
	ID        string
	Name      string
	CreatedAt time.Time
	IsDefault bool

	// MaskedToken is populated only when tokens were requested, and
	// never contains the full secret.
	MaskedToken string
}

// ListEnvironments returns all environments sorted ascending by
// CreatedAt (ties broken by id). Tokens are included only in masked
// form, and only on request.
func (s *Store) ListEnvironments(includeTokens bool) []ListEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadLocked()
	entries := make([]ListEntry, 0, len(doc.Environments))
	for id, env := range doc.Environments {
		entry := ListEntry{
			ID:        id,
			Name:      env.Name,
			CreatedAt: env.CreatedAt,
			IsDefault: id == doc.DefaultEnvironment,
		}
		if includeTokens {
			entry.MaskedToken = MaskToken(env.Token)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// GetPreferences returns the current preferences.
func (s *Store) GetPreferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked().Preferences
}

// PreferencesUpdate carries the preference flags to overwrite; nil
// fields are preserved.
type PreferencesUpdate struct {
	ColorOutput               *bool
	ConfirmDestructiveActions *bool
}

// UpdatePreferences shallow-merges the update onto the stored
// preferences and persists immediately.
func (s *Store) UpdatePreferences(update PreferencesUpdate) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadLocked().Clone()
	if update.ColorOutput != nil {
		doc.Preferences.ColorOutput = *update.ColorOutput
	}
	if update.ConfirmDestructiveActions != nil {
		doc.Preferences.ConfirmDestructiveActions = *update.ConfirmDestructiveActions
	}

	if err := s.saveLocked(doc); err != nil {
		return Preferences{}, err
	}
	return doc.Preferences, nil
}

func containsWhitespace(s string) bool {
	return strings.ContainsFunc(s, unicode.IsSpace)
}
