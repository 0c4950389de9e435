package value

// Property is one ordered entry of an Object.
type Property struct {
	Key   Key
	Value Value
}

// Object is an ordered mapping from property keys to values.
type Object struct {
	props []Property
	index map[Key]int
}

func (*Object) Kind() Kind { return KindObject }

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{index: map[Key]int{}}
}

// Len returns the number of properties, symbolic keys included.
func (o *Object) Len() int { return len(o.props) }

// Get returns the value stored under key.
func (o *Object) Get(key Key) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.props[i].Value, true
}

// Set stores v under key, preserving the key's original position when it
// already exists, and returns the previous value if any.
func (o *Object) Set(key Key, v Value) (Value, bool) {
	if i, ok := o.index[key]; ok {
		prev := o.props[i].Value
		o.props[i].Value = v
		return prev, true
	}
	if o.index == nil {
		o.index = map[Key]int{}
	}
	o.index[key] = len(o.props)
	o.props = append(o.props, Property{Key: key, Value: v})
	return nil, false
}

// Delete removes key and returns the previous value if any.
func (o *Object) Delete(key Key) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	prev := o.props[i].Value
	o.props = append(o.props[:i], o.props[i+1:]...)
	delete(o.index, key)
	for j := i; j < len(o.props); j++ {
		o.index[o.props[j].Key] = j
	}
	return prev, true
}

// Properties returns the ordered property list. The slice is shared; callers
// must not mutate it.
func (o *Object) Properties() []Property { return o.props }

// Keys returns the ordered keys.
func (o *Object) Keys() []Key {
	keys := make([]Key, len(o.props))
	for i, p := range o.props {
		keys[i] = p.Key
	}
	return keys
}

// Array is a sequence that may be sparse: a nil element is a hole, and the
// length may exceed the last set index.
type Array struct {
	elems []Value
}

func (*Array) Kind() Kind { return KindArray }

// NewArray returns a dense array over elems.
func NewArray(elems ...Value) *Array {
	return &Array{elems: elems}
}

// NewSparseArray returns an array of the given length made entirely of holes.
func NewSparseArray(length int) *Array {
	if length < 0 {
		length = 0
	}
	return &Array{elems: make([]Value, length)}
}

// Len returns the array length, holes included.
func (a *Array) Len() int { return len(a.elems) }

// Has reports whether index i holds a value rather than a hole.
func (a *Array) Has(i int) bool {
	return i >= 0 && i < len(a.elems) && a.elems[i] != nil
}

// At returns the element at i, or Undefined for holes and out-of-range reads.
func (a *Array) At(i int) Value {
	if !a.Has(i) {
		return Undefined{}
	}
	return a.elems[i]
}

// SetIndex stores v at i, growing the array with holes as needed.
func (a *Array) SetIndex(i int, v Value) {
	if i < 0 {
		return
	}
	for len(a.elems) <= i {
		a.elems = append(a.elems, nil)
	}
	a.elems[i] = v
}

// Append adds v at the end of the array.
func (a *Array) Append(v Value) {
	a.elems = append(a.elems, v)
}

// Sparse reports whether the array has any holes.
func (a *Array) Sparse() bool {
	for _, e := range a.elems {
		if e == nil {
			return true
		}
	}
	return false
}

// MapEntry is one ordered entry of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is an ordered keyed mapping whose keys are arbitrary values.
type Map struct {
	entries []MapEntry
}

func (*Map) Kind() Kind { return KindMap }

// NewMap returns an empty map.
func NewMap() *Map { return &Map{} }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Put updates the first entry whose key is structurally equal to key, or
// appends a new one.
func (m *Map) Put(key, v Value) {
	for i := range m.entries {
		if Equal(m.entries[i].Key, key) {
			m.entries[i].Value = v
			return
		}
	}
	m.entries = append(m.entries, MapEntry{Key: key, Value: v})
}

// Entries returns the ordered entry list. The slice is shared; callers must
// not mutate it.
func (m *Map) Entries() []MapEntry { return m.entries }

// Set is an ordered collection of unique values.
type Set struct {
	elems []Value
}

func (*Set) Kind() Kind { return KindSet }

// NewSet returns an empty set.
func NewSet() *Set { return &Set{} }

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.elems) }

// Add appends v unless a structurally equal element is already present.
func (s *Set) Add(v Value) {
	for _, e := range s.elems {
		if Equal(e, v) {
			return
		}
	}
	s.elems = append(s.elems, v)
}

// Values returns the ordered element list. The slice is shared; callers must
// not mutate it.
func (s *Set) Values() []Value { return s.elems }
