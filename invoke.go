package pkvs

import (
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/iamrecursion/obsidian-pkvs/pkg/value"
)

// Invoke looks up a stored function value under key and calls it with args
// in a fresh scripting runtime. The function runs with no access to the
// store; it sees only the arguments it is given.
func (kv *KV) Invoke(key Key, args ...any) (any, error) {
	start := time.Now()
	result, err := kv.invoke(key, args)
	kv.log("invoke", key, start, err)
	return result, err
}

func (kv *KV) invoke(key Key, args []any) (any, error) {
	v, ok := kv.store.Get(key)
	if !ok {
		return nil, fmt.Errorf("pkvs: invoke %s: key not set", key)
	}
	fn, ok := v.(*value.Function)
	if !ok {
		return nil, fmt.Errorf("pkvs: invoke %s: value is %s, not a function", key, v.Kind())
	}

	vm := goja.New()
	compiled, err := vm.RunString("(" + fn.Source + ")")
	if err != nil {
		return nil, fmt.Errorf("pkvs: invoke %s: %w", key, err)
	}
	callable, ok := goja.AssertFunction(compiled)
	if !ok {
		return nil, fmt.Errorf("pkvs: invoke %s: source does not evaluate to a function", key)
	}

	jsArgs := make([]goja.Value, 0, len(args))
	for _, arg := range args {
		jsArgs = append(jsArgs, vm.ToValue(arg))
	}
	out, err := callable(goja.Undefined(), jsArgs...)
	if err != nil {
		return nil, fmt.Errorf("pkvs: invoke %s: %w", key, err)
	}
	return out.Export(), nil
}
