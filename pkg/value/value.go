package value

import (
	"math"
	"math/big"
	"time"
)

// Kind identifies the concrete type of a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindNull
	KindUndefined
	KindBigInt
	KindDate
	KindRegexp
	KindMap
	KindSet
	KindArray
	KindObject
	KindFunction
	KindURL
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBigInt:
		return "bigint"
	case KindDate:
		return "date"
	case KindRegexp:
		return "regexp"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindURL:
		return "url"
	default:
		return "invalid"
	}
}

// Value is one node of the value graph.
type Value interface {
	Kind() Kind
}

// String is a text scalar.
type String string

func (String) Kind() Kind { return KindString }

// Number is a double-precision float. NaN and the infinities are legal and
// are treated as a distinct special kind by the codec.
type Number float64

func (Number) Kind() Kind { return KindNumber }

// Finite reports whether the number is neither NaN nor infinite.
func (n Number) Finite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Bool is a boolean scalar.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Null is the explicit null value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

// Undefined is the absent value, distinct from a missing property.
type Undefined struct{}

func (Undefined) Kind() Kind { return KindUndefined }

// BigInt is an arbitrary-precision integer.
type BigInt struct {
	Int *big.Int
}

func (BigInt) Kind() Kind { return KindBigInt }

// NewBigInt wraps i, defaulting a nil pointer to zero.
func NewBigInt(i *big.Int) BigInt {
	if i == nil {
		i = new(big.Int)
	}
	return BigInt{Int: i}
}

// Date is a timestamp with millisecond textual precision.
type Date struct {
	Time time.Time
}

func (Date) Kind() Kind { return KindDate }

// NewDate wraps t.
func NewDate(t time.Time) Date { return Date{Time: t} }

// Regexp carries a regular expression as source text plus flags; it is never
// compiled by this module.
type Regexp struct {
	Source string
	Flags  string
}

func (*Regexp) Kind() Kind { return KindRegexp }

// NewRegexp builds a regexp value from source text and flags.
func NewRegexp(source, flags string) *Regexp {
	return &Regexp{Source: source, Flags: flags}
}

// Function carries a function as its source text. Whether the text is
// invocable is the concern of whoever compiles it; the graph only stores it.
type Function struct {
	Source string
}

func (*Function) Kind() Kind { return KindFunction }

// NewFunction builds a function value from source text.
func NewFunction(source string) *Function { return &Function{Source: source} }

// URL carries an absolute URL by its string form.
type URL struct {
	Href string
}

func (URL) Kind() Kind { return KindURL }

// NewURL builds a URL value from its string form.
func NewURL(href string) URL { return URL{Href: href} }
