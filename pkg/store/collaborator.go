package store

import (
	"context"
	"sync"
)

// Settings is the durable document the host keeps for the plugin: the
// persistence policy toggle plus the encoded store contents.
type Settings struct {
	LazyPersistence bool   `json:"lazyPersistence"`
	PersistedData   string `json:"persistedData"`
}

// DefaultSettings is the first-run document: eager persistence and an empty
// object, which decodes to an empty mapping.
func DefaultSettings() Settings {
	return Settings{PersistedData: "{}"}
}

// Collaborator is the external settings-persistence contract. Load returns
// the current durable document; Save completes only once the document is
// durably written. Implementations are expected not to retry; failures
// surface to the caller unchanged.
type Collaborator interface {
	LoadPersistedSettings(ctx context.Context) (Settings, error)
	SavePersistedSettings(ctx context.Context, settings Settings) error
}

// MemoryCollaborator is an in-memory Collaborator intended for tests and
// examples. It counts saves so persistence-policy behaviour can be asserted.
type MemoryCollaborator struct {
	mu       sync.Mutex
	settings Settings
	loaded   bool
	saves    int
}

// NewMemoryCollaborator returns a collaborator holding the default document.
func NewMemoryCollaborator() *MemoryCollaborator {
	return &MemoryCollaborator{}
}

// Seed replaces the held document, as if a previous session had written it.
func (c *MemoryCollaborator) Seed(settings Settings) {
	c.mu.Lock()
	c.settings = settings
	c.loaded = true
	c.mu.Unlock()
}

func (c *MemoryCollaborator) LoadPersistedSettings(_ context.Context) (Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return DefaultSettings(), nil
	}
	return c.settings, nil
}

func (c *MemoryCollaborator) SavePersistedSettings(_ context.Context, settings Settings) error {
	c.mu.Lock()
	c.settings = settings
	c.loaded = true
	c.saves++
	c.mu.Unlock()
	return nil
}

// Saves returns how many times SavePersistedSettings completed.
func (c *MemoryCollaborator) Saves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

// Saved returns the currently held document.
func (c *MemoryCollaborator) Saved() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return DefaultSettings()
	}
	return c.settings
}
