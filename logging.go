package pkvs

import "time"

// OperationLogEvent describes one facade operation for logging.
type OperationLogEvent struct {
	Op       string
	Key      Key
	Mode     PersistenceMode
	Flushed  bool
	Duration time.Duration
	Err      error
}

// OperationLogger records facade operations.
type OperationLogger interface {
	LogOperation(OperationLogEvent)
}

// OperationLoggerFunc adapts a function to OperationLogger.
type OperationLoggerFunc func(OperationLogEvent)

// LogOperation implements OperationLogger.
func (f OperationLoggerFunc) LogOperation(event OperationLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopOperationLogger struct{}

func (noopOperationLogger) LogOperation(OperationLogEvent) {}

// WithLogger attaches an operation logger to the KV instance.
func WithLogger(logger OperationLogger) Option {
	return func(cfg *kvConfig) {
		if logger == nil {
			cfg.logger = noopOperationLogger{}
			return
		}
		cfg.logger = logger
	}
}
