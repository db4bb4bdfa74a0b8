package kv

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack"
)

// ErrInvalidValue is returned when encoding nil or decoding an unknown tag.
var ErrInvalidValue = errors.New("invalid kv value")

// wireValue is the flat msgpack form of Value.
type wireValue struct {
	K Kind                 `msgpack:"k"`
	S string               `msgpack:"s,omitempty"`
	I int64                `msgpack:"i,omitempty"`
	D float64              `msgpack:"d,omitempty"`
	A []wireValue          `msgpack:"a,omitempty"`
	M map[string]wireValue `msgpack:"m,omitempty"`
}

// Marshal encodes v with msgpack.
func Marshal(v *Value) ([]byte, error) {
	w, err := toWire(v)
	if err != nil {
		return nil, err
	}
	data, err := msgpack.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("encoding kv value: %w", err)
	}
	return data, nil
}

// Unmarshal decodes data produced by Marshal.
func Unmarshal(data []byte) (*Value, error) {
	var w wireValue
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding kv value: %w", err)
	}
	return fromWire(w)
}

func toWire(v *Value) (wireValue, error) {
	w := wireValue{K: v.Kind()}

	switch v.Kind() {
	case KindString:
		w.S = v.s
	case KindInt:
		w.I = v.i
	case KindDouble:
		w.D = v.d
	case KindArray:
		w.A = make([]wireValue, 0, len(v.arr))
		for i, item := range v.arr {
			child, err := toWire(item)
			if err != nil {
				return wireValue{}, fmt.Errorf("array item %d: %w", i, err)
			}
			w.A = append(w.A, child)
		}
	case KindMap:
		w.M = make(map[string]wireValue, len(v.m))
		for key, item := range v.m {
			child, err := toWire(item)
			if err != nil {
				return wireValue{}, fmt.Errorf("map key %q: %w", key, err)
			}
			w.M[key] = child
		}
	default:
		return wireValue{}, ErrInvalidValue
	}
	return w, nil
}

func fromWire(w wireValue) (*Value, error) {
	switch w.K {
	case KindString:
		return String(w.S), nil
	case KindInt:
		return Int(w.I), nil
	case KindDouble:
		return Double(w.D), nil
	case KindArray:
		items := make([]*Value, 0, len(w.A))
		for i, child := range w.A {
			item, err := fromWire(child)
			if err != nil {
				return nil, fmt.Errorf("array item %d: %w", i, err)
			}
			items = append(items, item)
		}
		return &Value{kind: KindArray, arr: items}, nil
	case KindMap:
		m := make(map[string]*Value, len(w.M))
		for key, child := range w.M {
			item, err := fromWire(child)
			if err != nil {
				return nil, fmt.Errorf("map key %q: %w", key, err)
			}
			m[key] = item
		}
		return &Value{kind: KindMap, m: m}, nil
	default:
		return nil, fmt.Errorf("tag %d: %w", w.K, ErrInvalidValue)
	}
}
