// Package scratch implements the per-event heterogeneous container ("data
// pile") that stages use to pass artifacts downstream: a parser inserts the
// parsed frame, a downstream stage reads it back out. Keys are the static
// Go type of the stored value, so two stages agree on a slot purely by
// importing the same type.
package scratch

import "reflect"

// Pile is a mapping from a value's static type to an owned value of that
// type. It is single-owner per event and is never shared across events;
// the values it stores are expected to be cheap to clone (typically
// reference-counted handles over concurrent structures such as the path
// cache or peer map).
type Pile struct {
	m map[reflect.Type]any
}

// New returns an empty Pile.
func New() *Pile {
	return &Pile{m: make(map[reflect.Type]any)}
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Insert stores val under its static type, returning the previous value of
// that type (and whether one existed).
func Insert[T any](p *Pile, val T) (T, bool) {
	if p.m == nil {
		p.m = make(map[reflect.Type]any)
	}
	k := keyOf[T]()
	prev, ok := p.m[k]
	p.m[k] = val
	if !ok {
		var zero T
		return zero, false
	}
	return prev.(T), true
}

// Get returns the value of type T, if present.
func Get[T any](p *Pile) (T, bool) {
	var zero T
	if p == nil || p.m == nil {
		return zero, false
	}
	v, ok := p.m[keyOf[T]()]
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// GetOrInsert returns the existing value of type T, inserting def first if
// none is present.
func GetOrInsert[T any](p *Pile, def T) T {
	if v, ok := Get[T](p); ok {
		return v
	}
	Insert(p, def)
	return def
}

// Remove deletes and returns the value of type T, if present.
func Remove[T any](p *Pile) (T, bool) {
	var zero T
	if p == nil || p.m == nil {
		return zero, false
	}
	k := keyOf[T]()
	v, ok := p.m[k]
	if !ok {
		return zero, false
	}
	delete(p.m, k)
	return v.(T), true
}

// Extend copies every entry of other into p, overwriting any type already
// present in p.
func (p *Pile) Extend(other *Pile) {
	if other == nil {
		return
	}
	if p.m == nil {
		p.m = make(map[reflect.Type]any)
	}
	for k, v := range other.m {
		p.m[k] = v
	}
}

// Clear removes every entry.
func (p *Pile) Clear() {
	p.m = make(map[reflect.Type]any)
}

// Len returns the number of distinct types stored.
func (p *Pile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.m)
}
