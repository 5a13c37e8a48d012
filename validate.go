package rediskit

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/unkn0wn-root/rediskit/codec"
	"github.com/unkn0wn-root/rediskit/internal/keys"
)

// ValidateKey accepts integers, floats, strings and []byte.
func ValidateKey(key any) error {
	if _, ok := keys.Text(key); !ok {
		return &KeyTypeError{Key: key}
	}
	return nil
}

// ValidateShape compares a command set's shape with the TYPE reply of a key.
// "none" (no such key) always passes.
func ValidateShape(expected Shape, actual string) error {
	if actual == "none" || actual == "" {
		return nil
	}
	if expected.String() != actual {
		return &ShapeMismatchError{Expected: expected.String(), Actual: actual}
	}
	return nil
}

// ValidateValueForShape checks the in-process value kind:
// text for string, a sequence for list, a set (map[T]struct{} or map[T]bool)
// for set, and any other map for hash.
func ValidateValueForShape(expected Shape, value any) error {
	ok := false
	switch expected {
	case ShapeString:
		ok = codec.IsPrimitive(value)
	case ShapeList:
		ok = codec.IsSequence(value)
	case ShapeSet:
		ok = codec.IsSet(value)
	case ShapeHash:
		ok = codec.IsMapping(value) && !codec.IsSet(value)
	}
	if !ok {
		return &ShapeMismatchError{Expected: expected.String(), Actual: kindName(value)}
	}
	return nil
}

// IsIntegral reports whether v is a Go integer or text holding a base-10
// int64 (what INCRBY/HINCRBY accept).
func IsIntegral(v any) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return true
	case uint64:
		return x <= 1<<63-1
	case string:
		_, err := strconv.ParseInt(x, 10, 64)
		return err == nil
	case []byte:
		_, err := strconv.ParseInt(string(x), 10, 64)
		return err == nil
	default:
		return false
	}
}

func kindName(v any) string {
	if v == nil {
		return "nil"
	}
	t := reflect.TypeOf(v)
	switch {
	case codec.IsSet(v):
		return "set"
	case t.Kind() == reflect.Map:
		return "hash"
	case codec.IsSequence(v):
		return "list"
	}
	return fmt.Sprintf("%T", v)
}
