package pkvs

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx EntryContext, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("expression must not be empty"))
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	program, err := e.loadOrCompile(expression, ctx.Entries)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, ctx.Key, err)
	}
	out, _, err := program.program.Eval(e.activation(ctx))
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, ctx.Key, err)
	}
	return out.Value(), nil
}

func (e *celEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("expression must not be empty"))
	}
	return &celCompiledRule{
		evaluator:  e,
		expression: expression,
	}, nil
}

// loadOrCompile builds the CEL environment for the current set of entry
// bindings. Programs are cached per expression, so a cache hit can only be
// reused safely while the declared entry names stay stable.
func (e *celEvaluator) loadOrCompile(expression string, entries map[string]any) (*celProgram, error) {
	if entries == nil {
		entries = map[string]any{}
	}
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(entries)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, err
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(expression, bundle)
	}
	return bundle, nil
}

func (e *celEvaluator) buildEnv(entries map[string]any) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("key", celgo.StringType),
		celgo.Variable("value", celgo.DynType),
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
	}
	if e.registry != nil {
		// CEL overloads are fixed-arity, so "call" is declared once per
		// supported argument count, all sharing the same binding.
		binding := celgo.FunctionBinding(e.callBinding())
		argTypes := []*celgo.Type{celgo.StringType}
		overloads := make([]celgo.FunctionOpt, 0, maxCallArgs+1)
		for i := 0; i <= maxCallArgs; i++ {
			declared := make([]*celgo.Type, len(argTypes))
			copy(declared, argTypes)
			overloads = append(overloads, celgo.Overload(
				fmt.Sprintf("call_dyn_%d", i),
				declared,
				celgo.DynType,
				binding,
			))
			argTypes = append(argTypes, celgo.DynType)
		}
		opts = append(opts, celgo.Function("call", overloads...))
	}
	for name := range entries {
		if reservedBinding(name) {
			continue
		}
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) activation(ctx EntryContext) map[string]any {
	activation := map[string]any{
		"key":      ctx.Key,
		"value":    ctx.Value,
		"now":      ctx.timestamp(),
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
	}
	for name, entry := range ctx.Entries {
		if reservedBinding(name) {
			continue
		}
		activation[name] = entry
	}
	if e.registry != nil {
		activation["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
	}
	return activation
}

func reservedBinding(name string) bool {
	switch name {
	case "key", "value", "now", "args", "metadata", "call":
		return true
	}
	return false
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r *celCompiledRule) Evaluate(ctx EntryContext) (any, error) {
	if r.evaluator == nil {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("compiled rule missing evaluator"))
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	program, err := r.evaluator.loadOrCompile(r.expression, ctx.Entries)
	if err != nil {
		return nil, wrapEvaluationError("cel", r.expression, ctx.Key, err)
	}
	out, _, err := program.program.Eval(r.evaluator.activation(ctx))
	if err != nil {
		return nil, wrapEvaluationError("cel", r.expression, ctx.Key, err)
	}
	return out.Value(), nil
}

// maxCallArgs bounds how many arguments the CEL "call" function accepts
// after the function name.
const maxCallArgs = 6

func (e *celEvaluator) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("pkvs: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("pkvs: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("pkvs: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
