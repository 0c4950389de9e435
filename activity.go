package pkvs

import (
	"context"

	"github.com/iamrecursion/obsidian-pkvs/pkg/activity"
)

// ActivityLogger bridges operation log events to an activity emitter. Only
// lifecycle operations are forwarded; reads and queries stay quiet. Hook
// failures are dropped: activity is observability, not control flow.
func ActivityLogger(emitter *activity.Emitter) OperationLogger {
	if emitter == nil {
		return noopOperationLogger{}
	}
	return OperationLoggerFunc(func(event OperationLogEvent) {
		input := activity.EntryEventInput{
			Key:     event.Key.String(),
			Mode:    event.Mode.String(),
			Flushed: event.Flushed,
			Err:     event.Err,
		}
		var built activity.Event
		switch event.Op {
		case "store":
			built = activity.BuildEntryStoredEvent(input)
		case "delete":
			built = activity.BuildEntryDeletedEvent(input)
		case "persist":
			built = activity.BuildStorePersistedEvent(input)
		case "close":
			built = activity.BuildStoreClosedEvent(input)
		default:
			return
		}
		_ = emitter.Emit(context.Background(), built)
	})
}

// WithActivityEmitter installs an operation logger that forwards lifecycle
// events to emitter.
func WithActivityEmitter(emitter *activity.Emitter) Option {
	return WithLogger(ActivityLogger(emitter))
}
