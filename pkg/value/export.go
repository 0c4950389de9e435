package value

import (
	"fmt"
	"math/big"
	"net/url"
	"sort"
	"time"
)

// Export lowers v to plain Go values for consumers that cannot work with the
// graph directly (expression engines, script runtimes). Undefined and null
// both lower to nil, holes in sparse arrays to nil elements, symbolic object
// keys to their Symbol(name) rendering, functions and regexps to their
// source text.
func Export(v Value) any {
	switch t := v.(type) {
	case nil:
		return nil
	case String:
		return string(t)
	case Number:
		return float64(t)
	case Bool:
		return bool(t)
	case Null, Undefined:
		return nil
	case BigInt:
		return t.Int
	case Date:
		return t.Time
	case URL:
		return t.Href
	case *Regexp:
		return "/" + t.Source + "/" + t.Flags
	case *Function:
		return t.Source
	case *Array:
		out := make([]any, t.Len())
		for i := 0; i < t.Len(); i++ {
			if t.Has(i) {
				out[i] = Export(t.At(i))
			}
		}
		return out
	case *Object:
		out := make(map[string]any, t.Len())
		for _, p := range t.Properties() {
			out[p.Key.String()] = Export(p.Value)
		}
		return out
	case *Map:
		// Map keys can be arbitrary values, including composites that are
		// not hashable in Go, so entries lower to ordered [key, value]
		// pairs instead of a Go map.
		out := make([]any, 0, t.Len())
		for _, e := range t.Entries() {
			out = append(out, []any{Export(e.Key), Export(e.Value)})
		}
		return out
	case *Set:
		out := make([]any, 0, t.Len())
		for _, e := range t.Values() {
			out = append(out, Export(e))
		}
		return out
	default:
		return nil
	}
}

// Adopt lifts a plain Go value into the graph. Go map iteration order is not
// deterministic, so map keys are inserted sorted; callers who care about
// property order should build an Object directly.
func Adopt(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(t), nil
	case int:
		return Number(t), nil
	case int32:
		return Number(t), nil
	case int64:
		return Number(t), nil
	case uint:
		return Number(t), nil
	case uint32:
		return Number(t), nil
	case uint64:
		return Number(t), nil
	case *big.Int:
		return NewBigInt(t), nil
	case time.Time:
		return NewDate(t), nil
	case *url.URL:
		return NewURL(t.String()), nil
	case url.URL:
		return NewURL(t.String()), nil
	case []any:
		arr := NewArray()
		for _, e := range t {
			adopted, err := Adopt(e)
			if err != nil {
				return nil, err
			}
			arr.Append(adopted)
		}
		return arr, nil
	case map[string]any:
		obj := NewObject()
		for _, k := range sortedKeys(t) {
			adopted, err := Adopt(t[k])
			if err != nil {
				return nil, err
			}
			obj.Set(StringKey(k), adopted)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("value: cannot adopt %T", v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
