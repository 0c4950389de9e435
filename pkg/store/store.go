package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/iamrecursion/obsidian-pkvs/pkg/codec"
	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

// Store is the in-memory mapping backed by a settings-persistence
// collaborator. Mutations never persist by themselves; the caller decides
// when to Flush.
//
// Symbol-keyed entries follow JSON enumeration semantics: they live in the
// mapping but never reach the persisted text.
type Store struct {
	mu      sync.RWMutex
	collab  Collaborator
	lazy    bool
	entries map[value.Key]value.Value
	order   []value.Key
	encode  []codec.EncodeOption
}

// Option configures a Store.
type Option func(*Store)

// WithEncodeOptions sets the codec options used by every flush.
func WithEncodeOptions(opts ...codec.EncodeOption) Option {
	return func(s *Store) {
		s.encode = opts
	}
}

// Open constructs a store and populates it by decoding whatever persisted
// text the collaborator currently holds. A first run decodes the default
// empty-object document.
func Open(ctx context.Context, collab Collaborator, opts ...Option) (*Store, error) {
	if collab == nil {
		return nil, fmt.Errorf("store: collaborator is required")
	}
	s := &Store{collab: collab}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the value stored under key.
func (s *Store) Get(key value.Key) (value.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Set stores v under key unconditionally and returns the previous value.
func (s *Store) Set(key value.Key, v value.Value) (value.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.entries[key]
	if !existed {
		s.order = append(s.order, key)
	}
	s.entries[key] = v
	return prev, existed
}

// Remove deletes key and returns the previous value. Removing an unset key
// is a no-op beyond the absent return.
func (s *Store) Remove(key value.Key) (value.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.entries[key]
	if !existed {
		return nil, false
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return prev, true
}

// Has reports whether key is set.
func (s *Store) Has(key value.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Len returns the number of entries, symbol-keyed ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the keys in insertion order.
func (s *Store) Keys() []value.Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]value.Key, len(s.order))
	copy(keys, s.order)
	return keys
}

// LazyPersistence returns the collaborator-configured policy setting as of
// the last load.
func (s *Store) LazyPersistence() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lazy
}

// SetLazyPersistence updates the policy setting; it is persisted with the
// next flush.
func (s *Store) SetLazyPersistence(lazy bool) {
	s.mu.Lock()
	s.lazy = lazy
	s.mu.Unlock()
}

// Reload replaces the entire mapping by decoding the collaborator's current
// persisted text. On failure the mapping is left untouched.
func (s *Store) Reload(ctx context.Context) error {
	settings, err := s.collab.LoadPersistedSettings(ctx)
	if err != nil {
		return err
	}
	text := settings.PersistedData
	if text == "" {
		text = "{}"
	}
	decoded, err := codec.Decode(text)
	if err != nil {
		return err
	}
	obj, ok := decoded.(*value.Object)
	if !ok {
		return fmt.Errorf("store: persisted text decodes to %s, want an object", decoded.Kind())
	}

	entries := make(map[value.Key]value.Value, obj.Len())
	order := make([]value.Key, 0, obj.Len())
	for _, p := range obj.Properties() {
		entries[p.Key] = p.Value
		order = append(order, p.Key)
	}

	s.mu.Lock()
	s.entries = entries
	s.order = order
	s.lazy = settings.LazyPersistence
	s.mu.Unlock()
	return nil
}

// Flush encodes the string-keyed mapping and hands the text to the
// collaborator, returning once the write is durable. Collaborator failures
// propagate unchanged.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	obj := value.NewObject()
	for _, key := range s.order {
		obj.Set(key, s.entries[key])
	}
	lazy := s.lazy
	encode := s.encode
	s.mu.RUnlock()

	text, err := codec.Encode(obj, encode...)
	if err != nil {
		return err
	}
	return s.collab.SavePersistedSettings(ctx, Settings{
		LazyPersistence: lazy,
		PersistedData:   text,
	})
}
