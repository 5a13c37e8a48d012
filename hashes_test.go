package rediskit

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
)

func TestHashSetEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.c.Hashes()

	in := map[string]any{"name": "Ada", "tags": []any{"x", "y"}, "n": int64(3)}
	if ok, err := h.Set(ctx, "user", in, NoExpiry); !ok || err != nil {
		t.Fatalf("Set: %v %v", ok, err)
	}
	got, err := h.Entries(ctx, "user")
	if err != nil {
		t.Fatal(err)
	}
	want := map[any]any{"name": "Ada", "tags": []any{"x", "y"}, "n": int64(3)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Entries=%#v", got)
	}
	if n, _ := h.GetLength(ctx, "user"); n != 3 {
		t.Fatalf("GetLength=%d", n)
	}
}

func TestHashNonTextFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.c.Hashes()

	_, _ = h.Set(ctx, "k", map[int64]string{1: "one", 2: "two"}, NoExpiry)
	got, _ := h.Entries(ctx, "k")
	if !reflect.DeepEqual(got, map[any]any{int64(1): "one", int64(2): "two"}) {
		t.Fatalf("Entries=%#v", got)
	}
	v, ok, err := h.GetField(ctx, "k", int64(2))
	if err != nil || !ok || v != "two" {
		t.Fatalf("GetField=%#v %v %v", v, ok, err)
	}
}

func TestHashFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.c.Hashes()

	if ok, _ := h.SetField(ctx, "user", "name", "Grace"); !ok {
		t.Fatalf("SetField on absent key must create it")
	}
	if ok, _ := h.FieldExists(ctx, "user", "name"); !ok {
		t.Fatalf("field must exist")
	}
	if ok, _ := h.FieldExists(ctx, "user", "age"); ok {
		t.Fatalf("age must not exist")
	}
	if _, ok, _ := h.GetField(ctx, "user", "age"); ok {
		t.Fatalf("absent field must report !ok")
	}
	if len(f.hooks.fields) != 2 {
		t.Fatalf("field misses=%v", f.hooks.fields)
	}

	if n, _ := h.FieldStrLen(ctx, "user", "name"); n != 5 {
		t.Fatalf("FieldStrLen=%d", n)
	}

	keys, _ := h.HashKeys(ctx, "user")
	vals, _ := h.HashVals(ctx, "user")
	if !reflect.DeepEqual(keys, []any{"name"}) || !reflect.DeepEqual(vals, []any{"Grace"}) {
		t.Fatalf("keys=%#v vals=%#v", keys, vals)
	}

	if ok, _ := h.DelField(ctx, "user", "name"); !ok {
		t.Fatalf("DelField failed")
	}
	if ok, _ := h.DelField(ctx, "user", "name"); ok {
		t.Fatalf("deleting an absent field must fail")
	}
}

func TestHashCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.c.Hashes()

	_, _ = h.SetField(ctx, "stats", "hits", "10")
	if n, ok, err := h.FieldIncrementBy(ctx, "stats", "hits", 5); err != nil || !ok || n != 15 {
		t.Fatalf("FieldIncrementBy=%d %v %v", n, ok, err)
	}
	if n, ok, _ := h.FieldDecrementBy(ctx, "stats", "hits", 20); !ok || n != -5 {
		t.Fatalf("FieldDecrementBy=%d %v", n, ok)
	}
	if n, ok, _ := h.FieldIncrementBy(ctx, "stats", "misses", 1); !ok || n != 1 {
		t.Fatalf("absent field starts at zero: %d %v", n, ok)
	}

	_, _ = h.SetField(ctx, "stats", "label", "abc")
	if n, ok, err := h.FieldIncrementBy(ctx, "stats", "label", 1); ok || n != 0 || err != nil {
		t.Fatalf("guard must return (0,false,nil): %d %v %v", n, ok, err)
	}
	if len(f.hooks.guards) != 1 || f.hooks.guards[0] != "hash:field_increment_by" {
		t.Fatalf("guards=%v", f.hooks.guards)
	}
}

func TestHashUpdateAndMiss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.c.Hashes()

	got, err := h.Get(ctx, "nope")
	if err != nil || len(got.(map[any]any)) != 0 {
		t.Fatalf("Get on absent key=%#v err=%v", got, err)
	}
	if ok, _ := h.Update(ctx, "nope", map[string]string{"a": "b"}, NoExpiry); ok {
		t.Fatalf("Update on absent key must fail")
	}

	_, _ = h.Set(ctx, "k", map[string]string{"a": "1", "b": "2"}, NoExpiry)
	if ok, _ := h.Update(ctx, "k", map[string]string{"c": "3"}, Millis(1500)); !ok {
		t.Fatalf("Update failed")
	}
	keys, _ := h.HashKeys(ctx, "k")
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	sort.Strings(names)
	if !reflect.DeepEqual(names, []string{"c"}) {
		t.Fatalf("Update must replace, got %v", names)
	}
	if ok, _ := h.Set(ctx, "k", map[string]string{"a": "1"}, Expiry{Seconds: 1, Milliseconds: 1}); ok {
		t.Fatalf("expiry conflict must fail")
	}
	if _, err := h.Set(ctx, "k", []string{"a"}, NoExpiry); err == nil {
		t.Fatalf("a slice is not a mapping")
	}
}

func TestHashRejectsGoSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.c.Hashes()

	_, err := h.Set(ctx, "h", map[string]struct{}{"a": {}}, NoExpiry)
	var sm *ShapeMismatchError
	if !errors.As(err, &sm) || sm.Expected != "hash" || sm.Actual != "set" {
		t.Fatalf("want ShapeMismatchError, got %v", err)
	}
	if f.mr.Exists("h") {
		t.Fatalf("a set must not be stored as a hash")
	}
	if err := h.CheckKeyValue("h", map[int]bool{1: true}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("CheckKeyValue: want ErrShapeMismatch, got %v", err)
	}
}
