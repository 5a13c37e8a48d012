package rediskit

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/rediskit/codec"
	"github.com/unkn0wn-root/rediskit/internal/keys"
)

// deps is what every command set is bound to. The handle is shared and never
// closed by a command set.
type deps struct {
	rdb   redis.UniversalClient
	codec *codec.Codec
	log   Logger
	hooks Hooks
}

// The functions below are the shared part of the base contract. Each shape
// calls them explicitly from its own methods.

func checkKey(d deps, key any) (string, error) {
	k, ok := keys.Text(key)
	if !ok {
		err := &KeyTypeError{Key: key}
		d.log.Error(err.Error(), Fields{"key_type": typeName(key)})
		return "", err
	}
	return k, nil
}

func checkKeys(d deps, ks []any) ([]string, error) {
	out, bad := keys.Texts(ks)
	if bad >= 0 {
		return nil, checkKeyErr(d, ks[bad])
	}
	return out, nil
}

func checkKeyErr(d deps, key any) error {
	_, err := checkKey(d, key)
	return err
}

func checkKeyValue(d deps, shape Shape, key, value any) (string, error) {
	k, err := checkKey(d, key)
	if err != nil {
		return "", err
	}
	if err := ValidateValueForShape(shape, value); err != nil {
		d.log.Error(err.Error(), Fields{"key": k})
		return "", err
	}
	return k, nil
}

func existsKey(ctx context.Context, d deps, key any) (bool, error) {
	k, err := checkKey(d, key)
	if err != nil {
		return false, err
	}
	return existsText(ctx, d, k)
}

func existsText(ctx context.Context, d deps, k string) (bool, error) {
	n, err := d.rdb.Exists(ctx, k).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// deleteKey is false for an absent key and for an invalid one.
func deleteKey(ctx context.Context, d deps, key any) (bool, error) {
	k, err := checkKey(d, key)
	if err != nil {
		return false, err
	}
	n, err := d.rdb.Del(ctx, k).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func keyShape(ctx context.Context, d deps, key any) (string, error) {
	k, err := checkKey(d, key)
	if err != nil {
		return "", err
	}
	return d.rdb.Type(ctx, k).Result()
}

// applyExpiry: both units or a negative one => false (logged, no store
// call); seconds first, then milliseconds; neither => true.
func applyExpiry(ctx context.Context, d deps, shape Shape, k string, exp Expiry) (bool, error) {
	if badExpiry(d, shape, k, exp) {
		return false, nil
	}
	if exp.Seconds != 0 {
		return d.rdb.Expire(ctx, k, exp.duration()).Result()
	}
	if exp.Milliseconds != 0 {
		return d.rdb.PExpire(ctx, k, exp.duration()).Result()
	}
	return true, nil
}

func setExpiry(ctx context.Context, d deps, shape Shape, key any, exp Expiry) (bool, error) {
	k, err := checkKey(d, key)
	if err != nil {
		return false, err
	}
	return applyExpiry(ctx, d, shape, k, exp)
}

// badExpiry reports an expiry no write may use.
func badExpiry(d deps, shape Shape, k string, exp Expiry) bool {
	switch {
	case exp.conflict():
		expiryConflict(d, shape, k)
		return true
	case exp.negative():
		d.log.Error("value error: invalid expire time", Fields{"shape": shape.String(), "key": k, "seconds": exp.Seconds, "milliseconds": exp.Milliseconds})
		return true
	}
	return false
}

func expiryConflict(d deps, shape Shape, k string) {
	d.log.Error("syntax error: set expire time either in seconds or milliseconds", Fields{"shape": shape.String(), "key": k})
	d.hooks.ExpiryConflict(shape, k)
}

// probe validates key and checks it exists. A miss is logged at info level
// and reported as ok=false.
func probe(ctx context.Context, d deps, shape Shape, op string, key any) (k string, ok bool, err error) {
	k, err = checkKey(d, key)
	if err != nil {
		return "", false, err
	}
	ok, err = existsText(ctx, d, k)
	if err != nil {
		return "", false, err
	}
	if !ok {
		missing(d, shape, op, k)
	}
	return k, ok, nil
}

func missing(d deps, shape Shape, op, k string) {
	d.log.Info("key not found: provided key does not exist in cache", Fields{"shape": shape.String(), "op": op, "key": k})
	d.hooks.KeyMiss(shape, op, k)
}

func fieldMissing(d deps, op, k string) {
	d.log.Info("field not found: provided field does not exist in cache", Fields{"op": op, "key": k})
	d.hooks.FieldMiss(op, k)
}

func numericGuard(d deps, shape Shape, op, k string) {
	d.log.Error("value error: value is not an integer or out of range", Fields{"shape": shape.String(), "op": op, "key": k})
	d.hooks.NumericGuard(shape, op, k)
}

// storeErr turns a WRONGTYPE reply into *ShapeMismatchError; other errors
// pass through.
func storeErr(ctx context.Context, d deps, shape Shape, k string, err error) error {
	if err == nil || !isWrongType(err) {
		return err
	}
	actual, terr := d.rdb.Type(ctx, k).Result()
	if terr != nil {
		return err
	}
	if verr := ValidateShape(shape, actual); verr != nil {
		d.log.Error(verr.Error(), Fields{"key": k})
		d.hooks.ShapeMismatch(shape, actual, k)
		return verr
	}
	return err
}

func isWrongType(err error) bool {
	var rerr redis.Error
	return errors.As(err, &rerr) && strings.HasPrefix(rerr.Error(), "WRONGTYPE")
}

func isNotInteger(err error) bool {
	var rerr redis.Error
	return errors.As(err, &rerr) && strings.Contains(rerr.Error(), "not an integer")
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return strings.TrimPrefix(kindName(v), "*")
}
