package codec

import (
	"fmt"
	"reflect"
)

// EncodeSlice encodes every element of a slice or array (order preserved).
// []byte is a primitive, not a sequence, and is rejected here.
func (c *Codec) EncodeSlice(v any) ([]any, error) {
	rv := reflect.ValueOf(v)
	if !IsSequence(v) {
		return nil, fmt.Errorf("codec: %T is not a sequence", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		e, err := c.Encode(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// EncodeValues encodes variadic arguments one by one.
func (c *Codec) EncodeValues(vs ...any) ([]any, error) {
	out := make([]any, len(vs))
	for i, v := range vs {
		e, err := c.Encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (c *Codec) DecodeSlice(raw []string) []any {
	out := make([]any, len(raw))
	for i, s := range raw {
		out[i] = c.Decode(s)
	}
	return out
}

// EncodeSet encodes the members of a Go set: a map whose element type is
// struct{} or bool. With bool elements only keys mapped to true are members.
func (c *Codec) EncodeSet(v any) ([]any, error) {
	if !IsSet(v) {
		return nil, fmt.Errorf("codec: %T is not a set", v)
	}
	rv := reflect.ValueOf(v)
	boolElems := rv.Type().Elem().Kind() == reflect.Bool
	out := make([]any, 0, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		if boolElems && !it.Value().Bool() {
			continue
		}
		e, err := c.Encode(it.Key().Interface())
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// DecodeSet decodes set members. The result is unordered; uniqueness is
// guaranteed by the store.
func (c *Codec) DecodeSet(raw []string) []any {
	return c.DecodeSlice(raw)
}

// EncodeMap encodes both fields and values of a map. Fields are returned as
// strings because the store addresses hash fields by text.
func (c *Codec) EncodeMap(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("codec: %T is not a mapping", v)
	}
	out := make(map[string]any, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		k, err := c.EncodeText(it.Key().Interface())
		if err != nil {
			return nil, err
		}
		val, err := c.Encode(it.Value().Interface())
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, nil
}

// DecodeMap decodes fields and values. A field that decodes to a value
// which cannot be a map key (a decoded slice or map) is kept as its raw text.
func (c *Codec) DecodeMap(raw map[string]string) map[any]any {
	out := make(map[any]any, len(raw))
	for k, v := range raw {
		out[c.DecodeKey(k)] = c.Decode(v)
	}
	return out
}

// DecodeKey decodes a hash field or set member for use as a map key.
func (c *Codec) DecodeKey(raw string) any {
	k := c.Decode(raw)
	if k == nil {
		return k
	}
	if !reflect.TypeOf(k).Comparable() {
		return text(raw)
	}
	return k
}

// IsSequence reports whether v is a slice or array other than []byte.
func IsSequence(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// IsSet reports whether v is a map with struct{} or bool elements.
func IsSet(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t.Kind() != reflect.Map {
		return false
	}
	e := t.Elem()
	return e.Kind() == reflect.Bool || (e.Kind() == reflect.Struct && e.NumField() == 0)
}

// IsMapping reports whether v is any map.
func IsMapping(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Map
}
