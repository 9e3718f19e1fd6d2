package domain

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes a field that is absent from one that is explicitly
// null. Tag fields with `json:",omitzero"` so an unset Optional is dropped
// from the encoded object.
type Optional[T any] struct {
	value T
	set   bool
	null  bool
}

// Some returns a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Null returns an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// IsZero reports whether the field is absent. encoding/json consults it for omitzero.
func (o Optional[T]) IsZero() bool { return !o.set }

func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Get returns the value and whether one is present (set and not null).
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set && !o.null
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}
