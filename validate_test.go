package rediskit

import (
	"errors"
	"testing"
)

func TestValidateKey(t *testing.T) {
	for _, k := range []any{"a", []byte("b"), 1, int64(-3), uint8(2), 1.5, float32(2.5)} {
		if err := ValidateKey(k); err != nil {
			t.Fatalf("ValidateKey(%#v): %v", k, err)
		}
	}
	for _, k := range []any{nil, true, []string{"a"}, map[string]int{}, struct{}{}} {
		err := ValidateKey(k)
		var kt *KeyTypeError
		if !errors.As(err, &kt) {
			t.Fatalf("ValidateKey(%#v) = %v, want KeyTypeError", k, err)
		}
	}
}

func TestValidateShape(t *testing.T) {
	if err := ValidateShape(ShapeHash, "none"); err != nil {
		t.Fatalf("absent keys always pass: %v", err)
	}
	if err := ValidateShape(ShapeList, "list"); err != nil {
		t.Fatal(err)
	}
	err := ValidateShape(ShapeString, "hash")
	var sm *ShapeMismatchError
	if !errors.As(err, &sm) || sm.Expected != "string" || sm.Actual != "hash" {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("must unwrap to ErrShapeMismatch")
	}
}

func TestValidateValueForShape(t *testing.T) {
	cases := []struct {
		shape Shape
		value any
		ok    bool
	}{
		{ShapeString, "x", true},
		{ShapeString, []byte("x"), true},
		{ShapeString, 5, false},
		{ShapeList, []any{1}, true},
		{ShapeList, []byte("x"), false},
		{ShapeList, map[string]struct{}{}, false},
		{ShapeSet, map[int]struct{}{1: {}}, true},
		{ShapeSet, map[string]bool{}, true},
		{ShapeSet, []int{1}, false},
		{ShapeHash, map[string]int{}, true},
		{ShapeHash, "x", false},
		{ShapeHash, map[string]struct{}{"a": {}}, false},
		{ShapeHash, map[string]bool{"a": true}, false},
	}
	for _, tc := range cases {
		err := ValidateValueForShape(tc.shape, tc.value)
		if (err == nil) != tc.ok {
			t.Fatalf("ValidateValueForShape(%s, %#v) = %v", tc.shape, tc.value, err)
		}
	}
}

func TestIsIntegral(t *testing.T) {
	for _, v := range []any{1, int64(-9), "42", "-7", []byte("3")} {
		if !IsIntegral(v) {
			t.Fatalf("IsIntegral(%#v) = false", v)
		}
	}
	for _, v := range []any{"4.2", "abc", "", 1.0, nil, uint64(1 << 63)} {
		if IsIntegral(v) {
			t.Fatalf("IsIntegral(%#v) = true", v)
		}
	}
}

func TestParseShape(t *testing.T) {
	for _, s := range []Shape{ShapeString, ShapeList, ShapeSet, ShapeHash} {
		got, err := ParseShape(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseShape(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseShape("zset"); !errors.Is(err, ErrUnknownShape) {
		t.Fatalf("want ErrUnknownShape, got %v", err)
	}
	if Shape(0).Valid() || Shape(5).Valid() {
		t.Fatalf("out-of-range shapes must be invalid")
	}
}
