package pkvs

import (
	"time"

	"github.com/iamrecursion/obsidian-pkvs/pkg/codec"
	"github.com/iamrecursion/obsidian-pkvs/pkg/store"
	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

// Key identifies one store entry: a plain string key or an opaque symbolic
// key.
type Key = value.Key

// StringKey returns the key for name.
func StringKey(name string) Key { return value.StringKey(name) }

// SymbolFor returns the process-wide symbolic key registered for name.
func SymbolFor(name string) Key { return value.SymbolFor(name) }

// EntryContext carries the bindings available to a query expression: the
// entry under test plus the full string-keyed snapshot of the store.
type EntryContext struct {
	Key      string
	Value    any
	Entries  map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx EntryContext) withDefaultNow() EntryContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx EntryContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx EntryContext) withDefaultMaps() EntryContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

// Evaluator executes query expressions against an entry context.
type Evaluator interface {
	Evaluate(ctx EntryContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx EntryContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a KV instance.
type Option func(*kvConfig)

type kvConfig struct {
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       OperationLogger
	encode       []codec.EncodeOption
	storeOptions []store.Option
}

func applyOptions(opts []Option) kvConfig {
	cfg := kvConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEvaluator configures the query evaluator. The default is the expr
// engine.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *kvConfig) {
		cfg.evaluator = e
	}
}

// WithFunctionRegistry exposes registered functions to query expressions.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *kvConfig) {
		cfg.functions = registry
	}
}

// WithEncodeOptions sets the codec options used when the store is flushed.
func WithEncodeOptions(opts ...codec.EncodeOption) Option {
	return func(cfg *kvConfig) {
		cfg.encode = opts
	}
}

// WithStoreOptions forwards options to the underlying store.
func WithStoreOptions(opts ...store.Option) Option {
	return func(cfg *kvConfig) {
		cfg.storeOptions = append(cfg.storeOptions, opts...)
	}
}
