package value

import (
	"fmt"
	"sync"
)

// KeyKind discriminates the two property key flavours.
type KeyKind uint8

const (
	// KeyKindString is a plain string-named property key.
	KeyKindString KeyKind = iota
	// KeyKindSymbol is an opaque symbolic key issued by the registry.
	KeyKindSymbol
)

// Key identifies one property of an Object or one entry of the store. It is
// comparable and safe to use as a Go map key. The zero Key is the empty
// string key.
type Key struct {
	kind KeyKind
	name string
	sym  uint64
}

// StringKey returns the key for a string-named property.
func StringKey(name string) Key {
	return Key{kind: KeyKindString, name: name}
}

// SymbolFor returns the symbolic key registered for name, issuing a new
// opaque token on first use. Repeated calls with the same name return the
// same key.
func SymbolFor(name string) Key {
	return symbols.keyFor(name)
}

// Kind reports whether the key is a string key or a symbolic key.
func (k Key) Kind() KeyKind { return k.kind }

// IsSymbol reports whether the key is symbolic.
func (k Key) IsSymbol() bool { return k.kind == KeyKindSymbol }

// Name returns the name the key was created with.
func (k Key) Name() string { return k.name }

// String renders string keys verbatim and symbolic keys as Symbol(name).
func (k Key) String() string {
	if k.kind == KeyKindSymbol {
		return fmt.Sprintf("Symbol(%s)", k.name)
	}
	return k.name
}

var symbols = &symbolRegistry{tokens: map[string]uint64{}}

type symbolRegistry struct {
	mu     sync.Mutex
	next   uint64
	tokens map[string]uint64
}

func (r *symbolRegistry) keyFor(name string) Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[name]
	if !ok {
		r.next++
		token = r.next
		r.tokens[name] = token
	}
	return Key{kind: KeyKindSymbol, name: name, sym: token}
}
