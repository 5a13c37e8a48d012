package rediskit

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// String operates on string keys. Values are text or raw bytes and are stored
// as-is.
type String struct {
	d deps
}

func NewString(rdb redis.UniversalClient, opts CommandOptions) *String {
	return &String{d: opts.deps(rdb)}
}

func (s *String) Shape() Shape { return ShapeString }

func (s *String) Exists(ctx context.Context, key any) (bool, error) {
	return existsKey(ctx, s.d, key)
}

func (s *String) Delete(ctx context.Context, key any) (bool, error) {
	return deleteKey(ctx, s.d, key)
}

func (s *String) KeyShape(ctx context.Context, key any) (string, error) {
	return keyShape(ctx, s.d, key)
}

func (s *String) SetExpiry(ctx context.Context, key any, exp Expiry) (bool, error) {
	return setExpiry(ctx, s.d, ShapeString, key, exp)
}

func (s *String) CheckKey(key any) error { return checkKeyErr(s.d, key) }

func (s *String) CheckKeyValue(key, value any) error {
	_, err := checkKeyValue(s.d, ShapeString, key, value)
	return err
}

func (s *String) Get(ctx context.Context, key any) (any, error) {
	return s.Value(ctx, key)
}

// Value returns the text at key, or "" when key is absent.
func (s *String) Value(ctx context.Context, key any) (string, error) {
	k, ok, err := probe(ctx, s.d, ShapeString, "get", key)
	if err != nil || !ok {
		return "", err
	}
	raw, err := s.d.rdb.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", storeErr(ctx, s.d, ShapeString, k, err)
	}
	return s.text(raw), nil
}

// Bytes returns the stored value without decoding or UTF-8 repair. ok is
// false when key is absent.
func (s *String) Bytes(ctx context.Context, key any) ([]byte, bool, error) {
	k, err := checkKey(s.d, key)
	if err != nil {
		return nil, false, err
	}
	b, err := s.d.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		missing(s.d, ShapeString, "bytes", k)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErr(ctx, s.d, ShapeString, k, err)
	}
	return b, true, nil
}

// Set writes value with an optional TTL applied atomically by SET EX/PX.
func (s *String) Set(ctx context.Context, key, value any, exp Expiry) (bool, error) {
	k, err := checkKeyValue(s.d, ShapeString, key, value)
	if err != nil {
		return false, err
	}
	if badExpiry(s.d, ShapeString, k, exp) {
		return false, nil
	}
	if err := s.d.rdb.Set(ctx, k, value, exp.duration()).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *String) Update(ctx context.Context, key, value any, exp Expiry) (bool, error) {
	_, ok, err := probe(ctx, s.d, ShapeString, "update", key)
	if err != nil || !ok {
		return false, err
	}
	return s.Set(ctx, key, value, exp)
}

// AppendValue appends value (text or a number) and returns the new string.
// An absent key is created.
func (s *String) AppendValue(ctx context.Context, key, value any) (string, error) {
	k, err := checkKey(s.d, key)
	if err != nil {
		return "", err
	}
	v, err := checkKey(s.d, value)
	if err != nil {
		return "", err
	}
	if err := s.d.rdb.Append(ctx, k, v).Err(); err != nil {
		return "", storeErr(ctx, s.d, ShapeString, k, err)
	}
	return s.Value(ctx, k)
}

// GetAndDelete returns the value and removes key. ok is false when key was
// absent.
func (s *String) GetAndDelete(ctx context.Context, key any) (string, bool, error) {
	k, ok, err := probe(ctx, s.d, ShapeString, "get_and_delete", key)
	if err != nil || !ok {
		return "", false, err
	}
	raw, err := s.d.rdb.GetDel(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr(ctx, s.d, ShapeString, k, err)
	}
	return s.text(raw), true, nil
}

// GetRange returns the substring between byte offsets start and end, both
// inclusive. Negative offsets count from the end.
func (s *String) GetRange(ctx context.Context, key any, start, end int64) (string, bool, error) {
	k, ok, err := probe(ctx, s.d, ShapeString, "get_range", key)
	if err != nil || !ok {
		return "", false, err
	}
	raw, err := s.d.rdb.GetRange(ctx, k, start, end).Result()
	if err != nil {
		return "", false, storeErr(ctx, s.d, ShapeString, k, err)
	}
	return s.text(raw), true, nil
}

// SetRange overwrites bytes starting at offset, padding with NUL bytes when
// offset lies past the end, and returns the new length.
func (s *String) SetRange(ctx context.Context, key any, offset int64, value any) (int64, error) {
	k, err := checkKey(s.d, key)
	if err != nil {
		return 0, err
	}
	v, err := checkKey(s.d, value)
	if err != nil {
		return 0, err
	}
	if offset < 0 {
		s.d.log.Error("value error: offset is out of range", Fields{"key": k, "offset": offset})
		return 0, nil
	}
	n, err := s.d.rdb.SetRange(ctx, k, offset, v).Result()
	if err != nil {
		return 0, storeErr(ctx, s.d, ShapeString, k, err)
	}
	return n, nil
}

// GetLength is the value length in bytes, 0 when key is absent.
func (s *String) GetLength(ctx context.Context, key any) (int64, error) {
	k, ok, err := probe(ctx, s.d, ShapeString, "get_length", key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := s.d.rdb.StrLen(ctx, k).Result()
	if err != nil {
		return 0, storeErr(ctx, s.d, ShapeString, k, err)
	}
	return n, nil
}

// IncrementBy adds delta to the integer at key; an absent key starts at 0.
// ok is false, with an error-level log, when the current value is not an
// integer.
func (s *String) IncrementBy(ctx context.Context, key any, delta int64) (int64, bool, error) {
	return s.incr(ctx, "increment_by", key, delta)
}

func (s *String) DecrementBy(ctx context.Context, key any, delta int64) (int64, bool, error) {
	return s.incr(ctx, "decrement_by", key, -delta)
}

func (s *String) incr(ctx context.Context, op string, key any, delta int64) (int64, bool, error) {
	k, err := checkKey(s.d, key)
	if err != nil {
		return 0, false, err
	}
	cur, err := s.d.rdb.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return 0, false, storeErr(ctx, s.d, ShapeString, k, err)
	case !IsIntegral(cur):
		numericGuard(s.d, ShapeString, op, k)
		return 0, false, nil
	}
	n, err := s.d.rdb.IncrBy(ctx, k, delta).Result()
	if isNotInteger(err) {
		numericGuard(s.d, ShapeString, op, k)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storeErr(ctx, s.d, ShapeString, k, err)
	}
	return n, true, nil
}

// text returns stored text, with invalid UTF-8 replaced. An envelope written
// by another shape is returned verbatim rather than decoded.
func (s *String) text(raw string) string {
	if v, ok := s.d.codec.Decode(raw).(string); ok {
		return v
	}
	return raw
}
