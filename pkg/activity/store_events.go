package activity

import "time"

// EntryEventInput describes the common fields for store lifecycle events.
type EntryEventInput struct {
	Key        string
	Mode       string
	Flushed    bool
	Channel    string
	Err        error
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildEntryStoredEvent constructs a normalized event for a set mutation.
func BuildEntryStoredEvent(input EntryEventInput) Event {
	return buildStoreEvent("entry.stored", input)
}

// BuildEntryDeletedEvent constructs a normalized event for a delete mutation.
func BuildEntryDeletedEvent(input EntryEventInput) Event {
	return buildStoreEvent("entry.deleted", input)
}

// BuildStorePersistedEvent constructs a normalized event for an explicit
// persist.
func BuildStorePersistedEvent(input EntryEventInput) Event {
	return buildStoreEvent("store.persisted", input)
}

// BuildStoreClosedEvent constructs a normalized event for the shutdown flush.
func BuildStoreClosedEvent(input EntryEventInput) Event {
	return buildStoreEvent("store.closed", input)
}

func buildStoreEvent(verb string, input EntryEventInput) Event {
	metadata := cloneMap(input.Metadata)
	metadata = ensureMetadata(metadata)
	metadata["flushed"] = input.Flushed
	if input.Err != nil {
		metadata["error"] = input.Err.Error()
	}

	return Event{
		Verb:       verb,
		Key:        input.Key,
		Mode:       input.Mode,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
