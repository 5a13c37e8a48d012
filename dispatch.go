package rediskit

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/rediskit/codec"
)

// CommandOptions bind a command set to its codec and observers.
// nil fields fall back to codec.Default(), NopLogger and NopHooks.
type CommandOptions struct {
	Codec  *codec.Codec
	Logger Logger
	Hooks  Hooks
}

func (o CommandOptions) deps(rdb redis.UniversalClient) deps {
	if rdb == nil {
		panic(ErrNilClient)
	}
	c := o.Codec
	if c == nil {
		c = codec.Default()
	}
	return deps{
		rdb:   rdb,
		codec: c,
		log:   coalesce[Logger](o.Logger, NopLogger{}),
		hooks: coalesce[Hooks](o.Hooks, NopHooks{}),
	}
}

var (
	_ CommandSet = (*String)(nil)
	_ CommandSet = (*List)(nil)
	_ CommandSet = (*Set)(nil)
	_ CommandSet = (*Hash)(nil)
)

// Select returns the command set for shape bound to rdb. The handle is shared,
// not copied. An out-of-range Shape is a programming error and panics.
func Select(rdb redis.UniversalClient, shape Shape, opts CommandOptions) CommandSet {
	switch shape {
	case ShapeString:
		return NewString(rdb, opts)
	case ShapeList:
		return NewList(rdb, opts)
	case ShapeSet:
		return NewSet(rdb, opts)
	case ShapeHash:
		return NewHash(rdb, opts)
	}
	panic(fmt.Sprintf("%v: %s", ErrUnknownShape, shape))
}

// SelectTag is Select for a textual tag ("string", "list", "set", "hash").
func SelectTag(rdb redis.UniversalClient, tag string, opts CommandOptions) (CommandSet, error) {
	shape, err := ParseShape(tag)
	if err != nil {
		return nil, err
	}
	return Select(rdb, shape, opts), nil
}
