package rediskit

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Hash operates on hash keys. Both fields and values go through the codec;
// fields come back as comparable Go values when they decode to one and as
// raw text otherwise.
type Hash struct {
	d deps
}

func NewHash(rdb redis.UniversalClient, opts CommandOptions) *Hash {
	return &Hash{d: opts.deps(rdb)}
}

func (h *Hash) Shape() Shape { return ShapeHash }

func (h *Hash) Exists(ctx context.Context, key any) (bool, error) {
	return existsKey(ctx, h.d, key)
}

func (h *Hash) Delete(ctx context.Context, key any) (bool, error) {
	return deleteKey(ctx, h.d, key)
}

func (h *Hash) KeyShape(ctx context.Context, key any) (string, error) {
	return keyShape(ctx, h.d, key)
}

func (h *Hash) SetExpiry(ctx context.Context, key any, exp Expiry) (bool, error) {
	return setExpiry(ctx, h.d, ShapeHash, key, exp)
}

func (h *Hash) CheckKey(key any) error { return checkKeyErr(h.d, key) }

func (h *Hash) CheckKeyValue(key, value any) error {
	_, err := checkKeyValue(h.d, ShapeHash, key, value)
	return err
}

func (h *Hash) Get(ctx context.Context, key any) (any, error) {
	return h.Entries(ctx, key)
}

// Entries returns the decoded field/value map, or an empty map when key is
// absent.
func (h *Hash) Entries(ctx context.Context, key any) (map[any]any, error) {
	k, ok, err := probe(ctx, h.d, ShapeHash, "get", key)
	if err != nil || !ok {
		return map[any]any{}, err
	}
	raw, err := h.d.rdb.HGetAll(ctx, k).Result()
	if err != nil {
		return map[any]any{}, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	return h.d.codec.DecodeMap(raw), nil
}

func (h *Hash) Set(ctx context.Context, key, value any, exp Expiry) (bool, error) {
	k, err := checkKeyValue(h.d, ShapeHash, key, value)
	if err != nil {
		return false, err
	}
	if badExpiry(h.d, ShapeHash, k, exp) {
		return false, nil
	}
	return h.write(ctx, k, value, exp)
}

// Update replaces the hash at key: DEL followed by HSET.
func (h *Hash) Update(ctx context.Context, key, value any, exp Expiry) (bool, error) {
	k, err := checkKeyValue(h.d, ShapeHash, key, value)
	if err != nil {
		return false, err
	}
	if badExpiry(h.d, ShapeHash, k, exp) {
		return false, nil
	}
	if _, ok, err := probe(ctx, h.d, ShapeHash, "update", k); err != nil || !ok {
		return false, err
	}
	if err := h.d.rdb.Del(ctx, k).Err(); err != nil {
		return false, err
	}
	return h.write(ctx, k, value, exp)
}

func (h *Hash) write(ctx context.Context, k string, value any, exp Expiry) (bool, error) {
	m, err := h.d.codec.EncodeMap(value)
	if err != nil {
		return false, err
	}
	if len(m) == 0 {
		h.d.log.Error("value error: empty hash cannot be stored", Fields{"key": k})
		return false, nil
	}
	if err := h.d.rdb.HSet(ctx, k, m).Err(); err != nil {
		return false, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	return applyExpiry(ctx, h.d, ShapeHash, k, exp)
}

// GetField returns the decoded value of field. ok is false when key or field
// is absent.
func (h *Hash) GetField(ctx context.Context, key, field any) (any, bool, error) {
	k, f, ok, err := h.probeField(ctx, "get_field", key, field)
	if err != nil || !ok {
		return nil, false, err
	}
	raw, err := h.d.rdb.HGet(ctx, k, f).Result()
	if errors.Is(err, redis.Nil) {
		fieldMissing(h.d, "get_field", k)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	return h.d.codec.Decode(raw), true, nil
}

// SetField creates or overwrites one field, creating key when absent.
func (h *Hash) SetField(ctx context.Context, key, field, value any) (bool, error) {
	k, err := checkKey(h.d, key)
	if err != nil {
		return false, err
	}
	f, err := h.d.codec.EncodeText(field)
	if err != nil {
		return false, err
	}
	v, err := h.d.codec.Encode(value)
	if err != nil {
		return false, err
	}
	if err := h.d.rdb.HSet(ctx, k, f, v).Err(); err != nil {
		return false, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	return true, nil
}

// DelField removes fields and reports whether any of them existed.
func (h *Hash) DelField(ctx context.Context, key any, fields ...any) (bool, error) {
	k, ok, err := probe(ctx, h.d, ShapeHash, "del_field", key)
	if err != nil || !ok || len(fields) == 0 {
		return false, err
	}
	fs := make([]string, len(fields))
	for i, field := range fields {
		if fs[i], err = h.d.codec.EncodeText(field); err != nil {
			return false, err
		}
	}
	n, err := h.d.rdb.HDel(ctx, k, fs...).Result()
	if err != nil {
		return false, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	if n == 0 {
		fieldMissing(h.d, "del_field", k)
		return false, nil
	}
	return true, nil
}

func (h *Hash) FieldExists(ctx context.Context, key, field any) (bool, error) {
	_, _, ok, err := h.probeField(ctx, "field_exists", key, field)
	return ok, err
}

// FieldIncrementBy adds delta to the integer in field; an absent field starts
// at 0. ok is false, with an error-level log, when the current value is not an
// integer.
func (h *Hash) FieldIncrementBy(ctx context.Context, key, field any, delta int64) (int64, bool, error) {
	return h.incr(ctx, "field_increment_by", key, field, delta)
}

func (h *Hash) FieldDecrementBy(ctx context.Context, key, field any, delta int64) (int64, bool, error) {
	return h.incr(ctx, "field_decrement_by", key, field, -delta)
}

func (h *Hash) incr(ctx context.Context, op string, key, field any, delta int64) (int64, bool, error) {
	k, err := checkKey(h.d, key)
	if err != nil {
		return 0, false, err
	}
	f, err := h.d.codec.EncodeText(field)
	if err != nil {
		return 0, false, err
	}
	cur, err := h.d.rdb.HGet(ctx, k, f).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return 0, false, storeErr(ctx, h.d, ShapeHash, k, err)
	case !IsIntegral(cur):
		numericGuard(h.d, ShapeHash, op, k)
		return 0, false, nil
	}
	n, err := h.d.rdb.HIncrBy(ctx, k, f, delta).Result()
	if isNotInteger(err) {
		numericGuard(h.d, ShapeHash, op, k)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	return n, true, nil
}

func (h *Hash) GetLength(ctx context.Context, key any) (int64, error) {
	k, ok, err := probe(ctx, h.d, ShapeHash, "get_length", key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := h.d.rdb.HLen(ctx, k).Result()
	if err != nil {
		return 0, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	return n, nil
}

// HashKeys returns the decoded field names.
func (h *Hash) HashKeys(ctx context.Context, key any) ([]any, error) {
	k, ok, err := probe(ctx, h.d, ShapeHash, "hash_keys", key)
	if err != nil || !ok {
		return []any{}, err
	}
	raw, err := h.d.rdb.HKeys(ctx, k).Result()
	if err != nil {
		return []any{}, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	out := make([]any, len(raw))
	for i, f := range raw {
		out[i] = h.d.codec.DecodeKey(f)
	}
	return out, nil
}

// HashVals returns the decoded values.
func (h *Hash) HashVals(ctx context.Context, key any) ([]any, error) {
	k, ok, err := probe(ctx, h.d, ShapeHash, "hash_vals", key)
	if err != nil || !ok {
		return []any{}, err
	}
	raw, err := h.d.rdb.HVals(ctx, k).Result()
	if err != nil {
		return []any{}, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	return h.d.codec.DecodeSlice(raw), nil
}

// FieldStrLen is the stored byte length of field's value, 0 when key or field
// is absent.
func (h *Hash) FieldStrLen(ctx context.Context, key, field any) (int64, error) {
	k, f, ok, err := h.probeField(ctx, "field_str_len", key, field)
	if err != nil || !ok {
		return 0, err
	}
	n, err := h.d.rdb.Do(ctx, "HSTRLEN", k, f).Int64()
	if err != nil {
		return 0, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	return n, nil
}

// probeField checks that both key and field exist, logging whichever is
// missing.
func (h *Hash) probeField(ctx context.Context, op string, key, field any) (k, f string, ok bool, err error) {
	k, ok, err = probe(ctx, h.d, ShapeHash, op, key)
	if err != nil || !ok {
		return k, "", false, err
	}
	if f, err = h.d.codec.EncodeText(field); err != nil {
		return k, "", false, err
	}
	ok, err = h.d.rdb.HExists(ctx, k, f).Result()
	if err != nil {
		return k, f, false, storeErr(ctx, h.d, ShapeHash, k, err)
	}
	if !ok {
		fieldMissing(h.d, op, k)
	}
	return k, f, ok, nil
}
