package pkvs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iamrecursion/obsidian-pkvs/pkg/codec"
	"github.com/iamrecursion/obsidian-pkvs/pkg/store"
	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

// KV is the caller-facing persistent key-value store. Mutating operations
// resolve the persistence policy and flush eagerly unless the policy says
// otherwise; reads never flush.
//
// The host environment serialises all calls, so operations are not designed
// to overlap: callers must await each operation before issuing a dependent
// one on the same key.
type KV struct {
	store  *store.Store
	cfg    kvConfig
	logger OperationLogger

	mu   sync.Mutex
	mode PersistenceMode
}

// New constructs a KV backed by collab, decoding whatever persisted text the
// collaborator currently holds.
func New(ctx context.Context, collab store.Collaborator, opts ...Option) (*KV, error) {
	cfg := applyOptions(opts)
	storeOpts := cfg.storeOptions
	if len(cfg.encode) > 0 {
		storeOpts = append(storeOpts, store.WithEncodeOptions(cfg.encode...))
	}
	s, err := store.Open(ctx, collab, storeOpts...)
	if err != nil {
		return nil, err
	}
	kv := &KV{store: s, cfg: cfg, logger: cfg.logger}
	if kv.logger == nil {
		kv.logger = noopOperationLogger{}
	}
	return kv, nil
}

// Load returns the value stored under key, or the absent value.
func (kv *KV) Load(key Key) value.Value {
	v, ok := kv.store.Get(key)
	if !ok {
		return value.Undefined{}
	}
	return v
}

// Exists reports whether key is set.
func (kv *KV) Exists(key Key) bool {
	return kv.store.Has(key)
}

// Store sets key to v and returns the previous value, or the absent value.
// When the effective policy is eager the mapping is flushed before Store
// returns; if the flush fails because the mapping cannot be encoded, the
// mutation is rolled back so the store is left exactly as it was.
func (kv *KV) Store(ctx context.Context, key Key, v value.Value) (value.Value, error) {
	start := time.Now()
	prev, existed := kv.store.Set(key, v)
	err := kv.flushAfterMutation(ctx, func() {
		if existed {
			kv.store.Set(key, prev)
		} else {
			kv.store.Remove(key)
		}
	})
	kv.log("store", key, start, err)
	return absentOr(prev, existed), err
}

// Delete removes key and returns the previous value, or the absent value.
func (kv *KV) Delete(ctx context.Context, key Key) (value.Value, error) {
	start := time.Now()
	prev, existed := kv.store.Remove(key)
	err := kv.flushAfterMutation(ctx, func() {
		if existed {
			kv.store.Set(key, prev)
		}
	})
	kv.log("delete", key, start, err)
	return absentOr(prev, existed), err
}

// Persist flushes unconditionally, regardless of the policy state, and
// returns once the collaborator confirms the durable write.
func (kv *KV) Persist(ctx context.Context) error {
	start := time.Now()
	err := kv.store.Flush(ctx)
	kv.log("persist", Key{}, start, err)
	return err
}

// Close performs the best-effort shutdown flush. Under lazy persistence
// this is the last chance for unflushed mutations to reach disk.
func (kv *KV) Close(ctx context.Context) error {
	start := time.Now()
	err := kv.store.Flush(ctx)
	kv.log("close", Key{}, start, err)
	return err
}

// Reload discards the in-memory mapping and decodes the collaborator's
// current persisted text again.
func (kv *KV) Reload(ctx context.Context) error {
	return kv.store.Reload(ctx)
}

// LazyPersistence reports the collaborator-configured setting. The override
// state is separate; see Mode.
func (kv *KV) LazyPersistence() bool {
	return kv.store.LazyPersistence()
}

// SetLazyPersistence updates the collaborator-configured setting. The change
// reaches the durable document on the next flush.
func (kv *KV) SetLazyPersistence(lazy bool) {
	kv.store.SetLazyPersistence(lazy)
}

// Keys returns the keys currently set, in insertion order.
func (kv *KV) Keys() []Key {
	return kv.store.Keys()
}

// Len returns the number of entries.
func (kv *KV) Len() int {
	return kv.store.Len()
}

// flushAfterMutation resolves the policy and flushes when indicated. An
// encode failure means the mapping can never be persisted in its current
// shape, so rollback undoes the mutation; a host write failure keeps it,
// matching the accepted stale-text data-loss model.
func (kv *KV) flushAfterMutation(ctx context.Context, rollback func()) error {
	if !kv.shouldFlush() {
		return nil
	}
	err := kv.store.Flush(ctx)
	if err == nil {
		return nil
	}
	var unsupported *codec.UnsupportedValueError
	if errors.As(err, &unsupported) {
		rollback()
	}
	return err
}

func (kv *KV) log(op string, key Key, start time.Time, err error) {
	kv.logger.LogOperation(OperationLogEvent{
		Op:       op,
		Key:      key,
		Mode:     kv.Mode(),
		Flushed:  err == nil && (op == "persist" || op == "close" || kv.shouldFlush()),
		Duration: time.Since(start),
		Err:      err,
	})
}

func absentOr(v value.Value, existed bool) value.Value {
	if !existed {
		return value.Undefined{}
	}
	return v
}
