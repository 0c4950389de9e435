package pkvs

import (
	"errors"
	"fmt"
	"time"

	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

var ErrNoEvaluator = errors.New("pkvs: evaluator not configured")

// Find compiles expr once and evaluates it against every string-keyed entry,
// returning the keys for which the expression yields true. The expression
// sees the entry under test as key and value, plus every string-keyed entry
// by name. Symbol-keyed entries are never visible to queries.
func (kv *KV) Find(expr string) ([]Key, error) {
	if expr == "" {
		return nil, fmt.Errorf("pkvs: expression must not be empty")
	}
	evaluator, err := kv.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	rule, err := evaluator.Compile(expr)
	if err != nil {
		return nil, wrapEvaluationError(evaluatorEngineName(evaluator), expr, "", err)
	}

	snapshot := kv.snapshot()
	start := time.Now()
	var matches []Key
	var findErr error
	for _, key := range kv.store.Keys() {
		if key.IsSymbol() {
			continue
		}
		v, ok := kv.store.Get(key)
		if !ok {
			continue
		}
		entryCtx := EntryContext{
			Key:     key.Name(),
			Value:   value.Export(v),
			Entries: snapshot,
		}
		result, err := rule.Evaluate(entryCtx)
		if err != nil {
			findErr = wrapEvaluationError(evaluatorEngineName(evaluator), expr, key.Name(), err)
			break
		}
		matched, ok := result.(bool)
		if !ok {
			findErr = wrapEvaluationError(evaluatorEngineName(evaluator), expr, key.Name(),
				fmt.Errorf("expression must yield bool, got %T", result))
			break
		}
		if matched {
			matches = append(matches, key)
		}
	}
	kv.log("find", Key{}, start, findErr)
	if findErr != nil {
		return nil, findErr
	}
	return matches, nil
}

// Evaluate executes expr once against the full string-keyed snapshot and
// returns whatever the expression yields.
func (kv *KV) Evaluate(expr string) (any, error) {
	if expr == "" {
		return nil, fmt.Errorf("pkvs: expression must not be empty")
	}
	evaluator, err := kv.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	ctx := EntryContext{Entries: kv.snapshot()}
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	result, evalErr := evaluator.Evaluate(ctx, expr)
	evalErr = wrapEvaluationError(engine, expr, "", evalErr)
	kv.log("evaluate", Key{}, start, evalErr)
	if evalErr != nil {
		return nil, evalErr
	}
	return result, nil
}

// snapshot exports the string-keyed entries as native Go values for use as
// expression bindings.
func (kv *KV) snapshot() map[string]any {
	snapshot := map[string]any{}
	for _, key := range kv.store.Keys() {
		if key.IsSymbol() {
			continue
		}
		v, ok := kv.store.Get(key)
		if !ok {
			continue
		}
		snapshot[key.Name()] = value.Export(v)
	}
	return snapshot
}

func (kv *KV) resolveEvaluator() (Evaluator, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.cfg.evaluator != nil {
		return kv.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := kv.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := kv.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	kv.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*pkvs.exprEvaluator":
		return "expr"
	case "*pkvs.celEvaluator":
		return "cel"
	case "*pkvs.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
