package value

import "math"

// Equal reports structural equivalence of two graph nodes. Numbers compare
// by value with NaN equal to NaN, dates by instant, functions by source
// text, and composites element-wise in order.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case String:
		return av == b.(String)
	case Bool:
		return av == b.(Bool)
	case Null, Undefined:
		return true
	case Number:
		bf := float64(b.(Number))
		af := float64(av)
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		return af == bf
	case BigInt:
		return av.Int.Cmp(b.(BigInt).Int) == 0
	case Date:
		return av.Time.Equal(b.(Date).Time)
	case URL:
		return av.Href == b.(URL).Href
	case *Regexp:
		bv := b.(*Regexp)
		return av.Source == bv.Source && av.Flags == bv.Flags
	case *Function:
		return av.Source == b.(*Function).Source
	case *Array:
		bv := b.(*Array)
		if av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			if av.Has(i) != bv.Has(i) {
				return false
			}
			if av.Has(i) && !Equal(av.At(i), bv.At(i)) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if av.Len() != bv.Len() {
			return false
		}
		for _, p := range av.Properties() {
			other, ok := bv.Get(p.Key)
			if !ok || !Equal(p.Value, other) {
				return false
			}
		}
		return true
	case *Map:
		bv := b.(*Map)
		if av.Len() != bv.Len() {
			return false
		}
		for i, e := range av.Entries() {
			be := bv.Entries()[i]
			if !Equal(e.Key, be.Key) || !Equal(e.Value, be.Value) {
				return false
			}
		}
		return true
	case *Set:
		bv := b.(*Set)
		if av.Len() != bv.Len() {
			return false
		}
		for i, e := range av.Values() {
			if !Equal(e, bv.Values()[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
