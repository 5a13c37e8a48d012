package rediskit

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Set operates on set keys. A Go set is a map with struct{} or bool elements;
// members go through the codec.
type Set struct {
	d deps
}

func NewSet(rdb redis.UniversalClient, opts CommandOptions) *Set {
	return &Set{d: opts.deps(rdb)}
}

func (s *Set) Shape() Shape { return ShapeSet }

func (s *Set) Exists(ctx context.Context, key any) (bool, error) {
	return existsKey(ctx, s.d, key)
}

func (s *Set) Delete(ctx context.Context, key any) (bool, error) {
	return deleteKey(ctx, s.d, key)
}

func (s *Set) KeyShape(ctx context.Context, key any) (string, error) {
	return keyShape(ctx, s.d, key)
}

func (s *Set) SetExpiry(ctx context.Context, key any, exp Expiry) (bool, error) {
	return setExpiry(ctx, s.d, ShapeSet, key, exp)
}

func (s *Set) CheckKey(key any) error { return checkKeyErr(s.d, key) }

func (s *Set) CheckKeyValue(key, value any) error {
	_, err := checkKeyValue(s.d, ShapeSet, key, value)
	return err
}

func (s *Set) Get(ctx context.Context, key any) (any, error) {
	return s.Members(ctx, key)
}

// Members returns the decoded members in no particular order, or an empty
// slice when key is absent.
func (s *Set) Members(ctx context.Context, key any) ([]any, error) {
	k, ok, err := probe(ctx, s.d, ShapeSet, "get", key)
	if err != nil || !ok {
		return []any{}, err
	}
	raw, err := s.d.rdb.SMembers(ctx, k).Result()
	if err != nil {
		return []any{}, storeErr(ctx, s.d, ShapeSet, k, err)
	}
	return s.d.codec.DecodeSet(raw), nil
}

func (s *Set) Set(ctx context.Context, key, value any, exp Expiry) (bool, error) {
	k, err := checkKeyValue(s.d, ShapeSet, key, value)
	if err != nil {
		return false, err
	}
	if badExpiry(s.d, ShapeSet, k, exp) {
		return false, nil
	}
	return s.write(ctx, k, value, exp)
}

// Update replaces the set at key: DEL followed by SADD.
func (s *Set) Update(ctx context.Context, key, value any, exp Expiry) (bool, error) {
	k, err := checkKeyValue(s.d, ShapeSet, key, value)
	if err != nil {
		return false, err
	}
	if badExpiry(s.d, ShapeSet, k, exp) {
		return false, nil
	}
	if _, ok, err := probe(ctx, s.d, ShapeSet, "update", k); err != nil || !ok {
		return false, err
	}
	if err := s.d.rdb.Del(ctx, k).Err(); err != nil {
		return false, err
	}
	return s.write(ctx, k, value, exp)
}

func (s *Set) write(ctx context.Context, k string, value any, exp Expiry) (bool, error) {
	members, err := s.d.codec.EncodeSet(value)
	if err != nil {
		return false, err
	}
	if len(members) == 0 {
		s.d.log.Error("value error: empty set cannot be stored", Fields{"key": k})
		return false, nil
	}
	if err := s.d.rdb.SAdd(ctx, k, members...).Err(); err != nil {
		return false, storeErr(ctx, s.d, ShapeSet, k, err)
	}
	return applyExpiry(ctx, s.d, ShapeSet, k, exp)
}

func (s *Set) GetLength(ctx context.Context, key any) (int64, error) {
	k, ok, err := probe(ctx, s.d, ShapeSet, "get_length", key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := s.d.rdb.SCard(ctx, k).Result()
	if err != nil {
		return 0, storeErr(ctx, s.d, ShapeSet, k, err)
	}
	return n, nil
}

// AddValues adds members, creating key when absent. It reports whether at
// least one new member was added.
func (s *Set) AddValues(ctx context.Context, key any, values ...any) (bool, error) {
	k, err := checkKey(s.d, key)
	if err != nil {
		return false, err
	}
	if len(values) == 0 {
		return false, nil
	}
	members, err := s.d.codec.EncodeValues(values...)
	if err != nil {
		return false, err
	}
	n, err := s.d.rdb.SAdd(ctx, k, members...).Result()
	if err != nil {
		return false, storeErr(ctx, s.d, ShapeSet, k, err)
	}
	return n > 0, nil
}

// RemoveValues reports whether at least one member was removed.
func (s *Set) RemoveValues(ctx context.Context, key any, values ...any) (bool, error) {
	k, ok, err := probe(ctx, s.d, ShapeSet, "remove_values", key)
	if err != nil || !ok || len(values) == 0 {
		return false, err
	}
	members, err := s.d.codec.EncodeValues(values...)
	if err != nil {
		return false, err
	}
	n, err := s.d.rdb.SRem(ctx, k, members...).Result()
	if err != nil {
		return false, storeErr(ctx, s.d, ShapeSet, k, err)
	}
	return n > 0, nil
}

func (s *Set) IsMember(ctx context.Context, key, element any) (bool, error) {
	k, ok, err := probe(ctx, s.d, ShapeSet, "is_member", key)
	if err != nil || !ok {
		return false, err
	}
	m, err := s.d.codec.Encode(element)
	if err != nil {
		return false, err
	}
	found, err := s.d.rdb.SIsMember(ctx, k, m).Result()
	if err != nil {
		return false, storeErr(ctx, s.d, ShapeSet, k, err)
	}
	return found, nil
}

// Diff returns the members of the first key missing from all the others.
// Absent keys count as empty sets.
func (s *Set) Diff(ctx context.Context, keys ...any) ([]any, error) {
	return s.combine(ctx, keys, s.d.rdb.SDiff)
}

func (s *Set) Intersect(ctx context.Context, keys ...any) ([]any, error) {
	return s.combine(ctx, keys, s.d.rdb.SInter)
}

func (s *Set) Union(ctx context.Context, keys ...any) ([]any, error) {
	return s.combine(ctx, keys, s.d.rdb.SUnion)
}

// DiffStore writes Diff into dest, replacing it. It reports whether dest is
// non-empty afterwards.
func (s *Set) DiffStore(ctx context.Context, dest any, keys ...any) (bool, error) {
	return s.store(ctx, dest, keys, s.d.rdb.SDiffStore)
}

func (s *Set) IntersectStore(ctx context.Context, dest any, keys ...any) (bool, error) {
	return s.store(ctx, dest, keys, s.d.rdb.SInterStore)
}

func (s *Set) UnionStore(ctx context.Context, dest any, keys ...any) (bool, error) {
	return s.store(ctx, dest, keys, s.d.rdb.SUnionStore)
}

func (s *Set) combine(ctx context.Context, keys []any,
	cmd func(ctx context.Context, keys ...string) *redis.StringSliceCmd,
) ([]any, error) {
	ks, err := checkKeys(s.d, keys)
	if err != nil || len(ks) == 0 {
		return []any{}, err
	}
	raw, err := cmd(ctx, ks...).Result()
	if err != nil {
		return []any{}, storeErr(ctx, s.d, ShapeSet, ks[0], err)
	}
	return s.d.codec.DecodeSet(raw), nil
}

func (s *Set) store(ctx context.Context, dest any, keys []any,
	cmd func(ctx context.Context, destination string, keys ...string) *redis.IntCmd,
) (bool, error) {
	dk, err := checkKey(s.d, dest)
	if err != nil {
		return false, err
	}
	ks, err := checkKeys(s.d, keys)
	if err != nil || len(ks) == 0 {
		return false, err
	}
	n, err := cmd(ctx, dk, ks...).Result()
	if err != nil {
		return false, storeErr(ctx, s.d, ShapeSet, ks[0], err)
	}
	return n > 0, nil
}
