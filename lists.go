package rediskit

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// List operates on list keys. Elements go through the codec, so any
// encodable Go value can be stored.
type List struct {
	d deps
}

func NewList(rdb redis.UniversalClient, opts CommandOptions) *List {
	return &List{d: opts.deps(rdb)}
}

func (l *List) Shape() Shape { return ShapeList }

func (l *List) Exists(ctx context.Context, key any) (bool, error) {
	return existsKey(ctx, l.d, key)
}

func (l *List) Delete(ctx context.Context, key any) (bool, error) {
	return deleteKey(ctx, l.d, key)
}

func (l *List) KeyShape(ctx context.Context, key any) (string, error) {
	return keyShape(ctx, l.d, key)
}

func (l *List) SetExpiry(ctx context.Context, key any, exp Expiry) (bool, error) {
	return setExpiry(ctx, l.d, ShapeList, key, exp)
}

func (l *List) CheckKey(key any) error { return checkKeyErr(l.d, key) }

func (l *List) CheckKeyValue(key, value any) error {
	_, err := checkKeyValue(l.d, ShapeList, key, value)
	return err
}

func (l *List) Get(ctx context.Context, key any) (any, error) {
	return l.Items(ctx, key)
}

// Items returns every element in order, or an empty slice when key is absent.
func (l *List) Items(ctx context.Context, key any) ([]any, error) {
	return l.ListRange(ctx, key, 0, -1)
}

// ListRange returns elements start..stop, both inclusive.
func (l *List) ListRange(ctx context.Context, key any, start, stop int64) ([]any, error) {
	k, ok, err := probe(ctx, l.d, ShapeList, "get", key)
	if err != nil || !ok {
		return []any{}, err
	}
	raw, err := l.d.rdb.LRange(ctx, k, start, stop).Result()
	if err != nil {
		return []any{}, storeErr(ctx, l.d, ShapeList, k, err)
	}
	return l.d.codec.DecodeSlice(raw), nil
}

// Set appends the elements of value (a slice or array) to key and applies exp.
func (l *List) Set(ctx context.Context, key, value any, exp Expiry) (bool, error) {
	k, err := checkKeyValue(l.d, ShapeList, key, value)
	if err != nil {
		return false, err
	}
	if badExpiry(l.d, ShapeList, k, exp) {
		return false, nil
	}
	return l.write(ctx, k, value, exp)
}

// Update replaces the list at key: DEL followed by RPUSH.
func (l *List) Update(ctx context.Context, key, value any, exp Expiry) (bool, error) {
	k, err := checkKeyValue(l.d, ShapeList, key, value)
	if err != nil {
		return false, err
	}
	if badExpiry(l.d, ShapeList, k, exp) {
		return false, nil
	}
	if _, ok, err := probe(ctx, l.d, ShapeList, "update", k); err != nil || !ok {
		return false, err
	}
	if err := l.d.rdb.Del(ctx, k).Err(); err != nil {
		return false, err
	}
	return l.write(ctx, k, value, exp)
}

func (l *List) write(ctx context.Context, k string, value any, exp Expiry) (bool, error) {
	elems, err := l.d.codec.EncodeSlice(value)
	if err != nil {
		return false, err
	}
	if len(elems) == 0 {
		l.d.log.Error("value error: empty list cannot be stored", Fields{"key": k})
		return false, nil
	}
	if err := l.d.rdb.RPush(ctx, k, elems...).Err(); err != nil {
		return false, storeErr(ctx, l.d, ShapeList, k, err)
	}
	return applyExpiry(ctx, l.d, ShapeList, k, exp)
}

// GetElement returns the element at index. ok is false when key is absent or
// index is out of range.
func (l *List) GetElement(ctx context.Context, key any, index int64) (any, bool, error) {
	k, ok, err := probe(ctx, l.d, ShapeList, "get_element", key)
	if err != nil || !ok {
		return nil, false, err
	}
	raw, err := l.d.rdb.LIndex(ctx, k, index).Result()
	if errors.Is(err, redis.Nil) {
		l.indexOutOfRange(k, index)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErr(ctx, l.d, ShapeList, k, err)
	}
	return l.d.codec.Decode(raw), true, nil
}

func (l *List) InsertBefore(ctx context.Context, key, pivot, element any) (bool, error) {
	return l.insert(ctx, "BEFORE", key, pivot, element)
}

func (l *List) InsertAfter(ctx context.Context, key, pivot, element any) (bool, error) {
	return l.insert(ctx, "AFTER", key, pivot, element)
}

func (l *List) insert(ctx context.Context, where string, key, pivot, element any) (bool, error) {
	k, err := checkKey(l.d, key)
	if err != nil {
		return false, err
	}
	vals, err := l.d.codec.EncodeValues(pivot, element)
	if err != nil {
		return false, err
	}
	n, err := l.d.rdb.LInsert(ctx, k, where, vals[0], vals[1]).Result()
	if err != nil {
		return false, storeErr(ctx, l.d, ShapeList, k, err)
	}
	switch {
	case n == 0:
		missing(l.d, ShapeList, "insert", k)
		return false, nil
	case n < 0:
		l.d.log.Error("pivot not found: provided pivot does not exist in list", Fields{"key": k})
		return false, nil
	}
	return true, nil
}

func (l *List) GetLength(ctx context.Context, key any) (int64, error) {
	k, ok, err := probe(ctx, l.d, ShapeList, "get_length", key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := l.d.rdb.LLen(ctx, k).Result()
	if err != nil {
		return 0, storeErr(ctx, l.d, ShapeList, k, err)
	}
	return n, nil
}

// LeftPush prepends values to an existing list. The last value ends up first.
func (l *List) LeftPush(ctx context.Context, key any, values ...any) (bool, error) {
	return l.push(ctx, "left_push", key, values, l.d.rdb.LPush)
}

// RightPush appends values to an existing list.
func (l *List) RightPush(ctx context.Context, key any, values ...any) (bool, error) {
	return l.push(ctx, "right_push", key, values, l.d.rdb.RPush)
}

func (l *List) push(ctx context.Context, op string, key any, values []any,
	cmd func(ctx context.Context, key string, values ...any) *redis.IntCmd,
) (bool, error) {
	k, ok, err := probe(ctx, l.d, ShapeList, op, key)
	if err != nil || !ok {
		return false, err
	}
	if len(values) == 0 {
		return false, nil
	}
	elems, err := l.d.codec.EncodeValues(values...)
	if err != nil {
		return false, err
	}
	if err := cmd(ctx, k, elems...).Err(); err != nil {
		return false, storeErr(ctx, l.d, ShapeList, k, err)
	}
	return true, nil
}

// LeftPop removes and returns up to count elements from the head, in pop
// order. A nil slice means nothing was popped.
func (l *List) LeftPop(ctx context.Context, key any, count int) ([]any, error) {
	return l.pop(ctx, "left_pop", key, count, l.d.rdb.LPop, l.d.rdb.LPopCount)
}

// RightPop is LeftPop from the tail.
func (l *List) RightPop(ctx context.Context, key any, count int) ([]any, error) {
	return l.pop(ctx, "right_pop", key, count, l.d.rdb.RPop, l.d.rdb.RPopCount)
}

func (l *List) pop(ctx context.Context, op string, key any, count int,
	one func(ctx context.Context, key string) *redis.StringCmd,
	many func(ctx context.Context, key string, count int) *redis.StringSliceCmd,
) ([]any, error) {
	k, ok, err := probe(ctx, l.d, ShapeList, op, key)
	if err != nil || !ok {
		return nil, err
	}
	if count < 0 {
		l.d.log.Error("value error: pop count must be positive", Fields{"key": k, "count": count})
		return nil, nil
	}
	if count == 0 {
		return nil, nil
	}
	var raw []string
	if count == 1 {
		var v string
		v, err = one(ctx, k).Result()
		raw = []string{v}
	} else {
		raw, err = many(ctx, k, count).Result()
	}
	if errors.Is(err, redis.Nil) || (err == nil && len(raw) == 0) {
		l.d.log.Error("list is empty: nothing to pop", Fields{"key": k})
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(ctx, l.d, ShapeList, k, err)
	}
	return l.d.codec.DecodeSlice(raw), nil
}

// SetElement replaces the element at index. It fails when index is out of
// range.
func (l *List) SetElement(ctx context.Context, key any, index int64, value any) (bool, error) {
	k, ok, err := probe(ctx, l.d, ShapeList, "set_element", key)
	if err != nil || !ok {
		return false, err
	}
	n, err := l.d.rdb.LLen(ctx, k).Result()
	if err != nil {
		return false, storeErr(ctx, l.d, ShapeList, k, err)
	}
	if index >= n || index < -n {
		l.indexOutOfRange(k, index)
		return false, nil
	}
	v, err := l.d.codec.Encode(value)
	if err != nil {
		return false, err
	}
	if err := l.d.rdb.LSet(ctx, k, index, v).Err(); err != nil {
		return false, storeErr(ctx, l.d, ShapeList, k, err)
	}
	return true, nil
}

// Trim keeps only elements start..stop, both inclusive.
func (l *List) Trim(ctx context.Context, key any, start, stop int64) (bool, error) {
	k, ok, err := probe(ctx, l.d, ShapeList, "trim", key)
	if err != nil || !ok {
		return false, err
	}
	if err := l.d.rdb.LTrim(ctx, k, start, stop).Err(); err != nil {
		return false, storeErr(ctx, l.d, ShapeList, k, err)
	}
	return true, nil
}

func (l *List) indexOutOfRange(k string, index int64) {
	l.d.log.Error("index error: list index out of range", Fields{"key": k, "index": index})
}
