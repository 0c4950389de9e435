package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	evt := Event{
		Verb:     " entry.stored ",
		Key:      " counter ",
		Mode:     " force-lazy ",
		Channel:  " store ",
		Metadata: meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "entry.stored" || got.Key != "counter" || got.Mode != "force-lazy" || got.Channel != "store" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	if got.Metadata["k"] != "v" {
		t.Fatalf("expected metadata value preserved: %+v", got.Metadata)
	}
	got.Metadata["k"] = "changed"
	if evt.Metadata["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyShortCircuitsMissingVerb(t *testing.T) {
	hooks := Hooks{&CaptureHook{}}
	err := hooks.Notify(context.Background(), Event{Key: "counter"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	capture := hooks[0].(*CaptureHook)
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	errBoom1 := errors.New("boom1")
	errBoom2 := errors.New("boom2")
	capture := &CaptureHook{}
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			if ctx != nil {
				ctxSeen = true
			}
			return nil
		}),
		capture,
		HookFunc(func(_ context.Context, _ Event) error { return errBoom1 }),
		nil,
		HookFunc(func(_ context.Context, _ Event) error { return errBoom2 }),
	}

	err := hooks.Notify(nil, Event{Verb: "entry.stored", Key: "counter"})
	if err == nil || !errors.Is(err, errBoom1) || !errors.Is(err, errBoom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected event to be captured once, got %d", len(capture.Events))
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureHook{}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), Event{Verb: "entry.stored", Key: "a"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured when disabled")
	}

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: ""})
	if !enabled.Enabled() {
		t.Fatalf("expected emitter to be enabled")
	}
	if err := enabled.Emit(context.Background(), Event{Verb: "entry.stored", Key: "a"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one event captured, got %d", len(capture.Events))
	}
	if capture.Events[0].Channel != "store" {
		t.Fatalf("expected default channel applied, got %q", capture.Events[0].Channel)
	}
}

func TestEmitterPreservesExplicitChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default"})

	err := emitter.Emit(context.Background(), Event{
		Verb:       "entry.deleted",
		Key:        "a",
		Channel:    "custom",
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if capture.Events[0].Channel != "custom" {
		t.Fatalf("expected explicit channel preserved, got %q", capture.Events[0].Channel)
	}
	if capture.Events[0].OccurredAt != (time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected occurred_at preserved, got %v", capture.Events[0].OccurredAt)
	}
}

func TestBuildStoreEvents(t *testing.T) {
	stored := BuildEntryStoredEvent(EntryEventInput{
		Key:     "counter",
		Mode:    "follow-setting",
		Flushed: true,
	})
	if stored.Verb != "entry.stored" || stored.Key != "counter" {
		t.Fatalf("unexpected stored event: %+v", stored)
	}
	if stored.Metadata["flushed"] != true {
		t.Fatalf("expected flushed metadata, got %+v", stored.Metadata)
	}

	failed := BuildEntryDeletedEvent(EntryEventInput{
		Key: "counter",
		Err: errors.New("disk full"),
	})
	if failed.Verb != "entry.deleted" {
		t.Fatalf("unexpected deleted event: %+v", failed)
	}
	if failed.Metadata["error"] != "disk full" {
		t.Fatalf("expected error metadata, got %+v", failed.Metadata)
	}

	persisted := BuildStorePersistedEvent(EntryEventInput{Flushed: true})
	if persisted.Verb != "store.persisted" {
		t.Fatalf("unexpected persisted event: %+v", persisted)
	}
	closed := BuildStoreClosedEvent(EntryEventInput{Flushed: true})
	if closed.Verb != "store.closed" {
		t.Fatalf("unexpected closed event: %+v", closed)
	}
}
