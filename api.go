package rediskit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/rediskit/codec"
)

// Shape is one of the four value kinds Redis stores natively.
type Shape uint8

const (
	ShapeString Shape = iota + 1
	ShapeList
	ShapeSet
	ShapeHash
)

// String returns the tag Redis's TYPE command uses for the shape.
func (s Shape) String() string {
	switch s {
	case ShapeString:
		return "string"
	case ShapeList:
		return "list"
	case ShapeSet:
		return "set"
	case ShapeHash:
		return "hash"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

func (s Shape) Valid() bool { return s >= ShapeString && s <= ShapeHash }

// ParseShape maps "string", "list", "set" and "hash" to a Shape.
func ParseShape(tag string) (Shape, error) {
	switch tag {
	case "string":
		return ShapeString, nil
	case "list":
		return ShapeList, nil
	case "set":
		return ShapeSet, nil
	case "hash":
		return ShapeHash, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownShape, tag)
	}
}

// Expiry is an optional TTL in seconds or milliseconds. The zero value means
// no expiry. Setting both units, or a negative one, is rejected by every
// write before the store is touched.
type Expiry struct {
	Seconds      int64
	Milliseconds int64
}

// NoExpiry leaves the key without a TTL.
var NoExpiry = Expiry{}

func Seconds(n int64) Expiry { return Expiry{Seconds: n} }
func Millis(n int64) Expiry  { return Expiry{Milliseconds: n} }

func (e Expiry) conflict() bool { return e.Seconds != 0 && e.Milliseconds != 0 }

func (e Expiry) negative() bool { return e.Seconds < 0 || e.Milliseconds < 0 }

func (e Expiry) duration() time.Duration {
	if e.Seconds != 0 {
		return time.Duration(e.Seconds) * time.Second
	}
	return time.Duration(e.Milliseconds) * time.Millisecond
}

// CommandSet is the operation surface shared by every shape.
// Absent keys are not errors: reads return the shape's empty result.
// Only malformed keys (*KeyTypeError), wrong value kinds
// (*ShapeMismatchError) and transport failures are returned as errors.
type CommandSet interface {
	Shape() Shape

	// Get returns "" (string), []any (list, set) or map[any]any (hash).
	Get(ctx context.Context, key any) (any, error)
	Set(ctx context.Context, key, value any, exp Expiry) (bool, error)
	// Update fails (false) when key is absent. For list, set and hash it
	// deletes then rewrites the key, which is not atomic: a concurrent reader
	// can observe the key missing in between.
	Update(ctx context.Context, key, value any, exp Expiry) (bool, error)
	GetLength(ctx context.Context, key any) (int64, error)

	Exists(ctx context.Context, key any) (bool, error)
	Delete(ctx context.Context, key any) (bool, error)
	// KeyShape returns the TYPE reply for key ("none" when absent).
	KeyShape(ctx context.Context, key any) (string, error)
	SetExpiry(ctx context.Context, key any, exp Expiry) (bool, error)

	CheckKey(key any) error
	CheckKeyValue(key, value any) error
}

// Options configure the Client facade.
// Zero values fall back to the defaults noted per field.
type Options struct {
	Addr     string // "localhost:6379"
	Username string
	Password string
	DB       int

	DialTimeout  time.Duration // 0 => 5s
	ReadTimeout  time.Duration // 0 => 10s
	WriteTimeout time.Duration // 0 => ReadTimeout
	// HealthCheckInterval spaces background PINGs. 0 => 60s, < 0 disables.
	HealthCheckInterval time.Duration

	// Client, when set, is used instead of dialing Addr. The facade closes
	// it only if CloseClient is true.
	Client      redis.UniversalClient
	CloseClient bool

	Format        codec.Format // 0 => msgpack
	Deterministic bool         // CBOR only
	MaxDecode     int          // <= 0 => unlimited

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
}

// New connects to the store and returns the facade. A failed connect is
// logged and returned as *ConnectError; no usable Client is returned.
func New(ctx context.Context, opts Options) (*Client, error) {
	return newClient(ctx, opts)
}
