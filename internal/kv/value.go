// Package kv stores tagged values (string, int, double, array, map) under
// string keys with a msgpack wire form.
package kv

import (
	"maps"
	"slices"
)

// Kind tags the payload of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindDouble
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is an immutable tagged value. Array and map nodes own their children;
// the structure is a tree.
type Value struct {
	kind Kind
	s    string
	i    int64
	d    float64
	arr  []*Value
	m    map[string]*Value
}

// String creates a string value.
func String(s string) *Value { return &Value{kind: KindString, s: s} }

// Int creates an integer value.
func Int(i int64) *Value { return &Value{kind: KindInt, i: i} }

// Double creates a floating point value.
func Double(d float64) *Value { return &Value{kind: KindDouble, d: d} }

// Array creates an ordered sequence of values.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, arr: slices.Clone(items)}
}

// Map creates a string-keyed mapping of values.
func Map(m map[string]*Value) *Value {
	cp := make(map[string]*Value, len(m))
	maps.Copy(cp, m)
	return &Value{kind: KindMap, m: cp}
}

// Kind returns the value tag.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindInvalid
	}
	return v.kind
}

func (v *Value) AsString() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.s, true
}

func (v *Value) AsInt() (int64, bool) {
	if v.Kind() != KindInt {
		return 0, false
	}
	return v.i, true
}

func (v *Value) AsDouble() (float64, bool) {
	if v.Kind() != KindDouble {
		return 0, false
	}
	return v.d, true
}

// AsArray returns a copy of the array items.
func (v *Value) AsArray() ([]*Value, bool) {
	if v.Kind() != KindArray {
		return nil, false
	}
	return slices.Clone(v.arr), true
}

// Len returns number of array items or map entries.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.arr)
	case KindMap:
		return len(v.m)
	default:
		return 0
	}
}

// Get returns the map entry for key.
func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != KindMap {
		return nil, false
	}
	child, ok := v.m[key]
	return child, ok
}

// Keys returns sorted map keys.
func (v *Value) Keys() []string {
	if v.Kind() != KindMap {
		return nil
	}
	return slices.Sorted(maps.Keys(v.m))
}

// Equal reports deep equality.
func (v *Value) Equal(other *Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}

	switch v.Kind() {
	case KindInvalid:
		return true
	case KindString:
		return v.s == other.s
	case KindInt:
		return v.i == other.i
	case KindDouble:
		return v.d == other.d
	case KindArray:
		return slices.EqualFunc(v.arr, other.arr, (*Value).Equal)
	case KindMap:
		return maps.EqualFunc(v.m, other.m, (*Value).Equal)
	}
	return false
}
