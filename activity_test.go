package pkvs_test

import (
	"context"
	"testing"

	pkvs "github.com/iamrecursion/obsidian-pkvs"
	"github.com/iamrecursion/obsidian-pkvs/pkg/activity"
	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

func TestActivityEmitterObservesLifecycle(t *testing.T) {
	capture := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true, Channel: "pkvs"})
	kv, _ := newKV(t, pkvs.WithActivityEmitter(emitter))
	ctx := context.Background()

	if _, err := kv.Store(ctx, pkvs.StringKey("counter"), value.Number(1)); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := kv.Delete(ctx, pkvs.StringKey("counter")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Find(`value > 0`); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if err := kv.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(capture.Events) != 3 {
		t.Fatalf("events = %d, want 3 (queries are not emitted)", len(capture.Events))
	}
	verbs := []string{"entry.stored", "entry.deleted", "store.closed"}
	for i, verb := range verbs {
		if capture.Events[i].Verb != verb {
			t.Fatalf("events[%d].Verb = %q, want %q", i, capture.Events[i].Verb, verb)
		}
	}
	if capture.Events[0].Key != "counter" {
		t.Fatalf("events[0].Key = %q, want counter", capture.Events[0].Key)
	}
	if capture.Events[0].Channel != "pkvs" {
		t.Fatalf("events[0].Channel = %q, want pkvs", capture.Events[0].Channel)
	}
	if capture.Events[0].Metadata["flushed"] != true {
		t.Fatalf("store event not flushed under eager policy: %+v", capture.Events[0].Metadata)
	}
}
