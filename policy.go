package pkvs

// PersistenceMode is the state of the persistence-policy override.
type PersistenceMode int

const (
	// FollowSetting defers to the collaborator's lazyPersistence setting.
	// It is the initial state.
	FollowSetting PersistenceMode = iota
	// ForceLazy skips the flush after every mutation regardless of the
	// setting.
	ForceLazy
	// ForceEager flushes after every mutation regardless of the setting.
	ForceEager
)

func (m PersistenceMode) String() string {
	switch m {
	case ForceLazy:
		return "force-lazy"
	case ForceEager:
		return "force-eager"
	default:
		return "follow-setting"
	}
}

// SetLazyOverride forces lazy persistence until the override is cleared.
func (kv *KV) SetLazyOverride() {
	kv.mu.Lock()
	kv.mode = ForceLazy
	kv.mu.Unlock()
}

// SetEagerOverride forces eager persistence until the override is cleared.
func (kv *KV) SetEagerOverride() {
	kv.mu.Lock()
	kv.mode = ForceEager
	kv.mu.Unlock()
}

// ClearOverride returns the policy to the collaborator-configured setting.
func (kv *KV) ClearOverride() {
	kv.mu.Lock()
	kv.mode = FollowSetting
	kv.mu.Unlock()
}

// Mode returns the current override state.
func (kv *KV) Mode() PersistenceMode {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return kv.mode
}

// shouldFlush resolves the effective policy for one mutating operation.
func (kv *KV) shouldFlush() bool {
	switch kv.Mode() {
	case ForceLazy:
		return false
	case ForceEager:
		return true
	default:
		return !kv.store.LazyPersistence()
	}
}
