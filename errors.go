package rediskit

import (
	"errors"
	"fmt"
)

var (
	ErrKeyType       = errors.New("rediskit: invalid key type")
	ErrShapeMismatch = errors.New("rediskit: wrong type operation")
	ErrUnknownShape  = errors.New("rediskit: unknown shape")
	ErrNilClient     = errors.New("rediskit: nil client")
)

// KeyTypeError reports a key that is not an integer, float, string or []byte.
type KeyTypeError struct {
	Key any
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("invalid input of key type: '%T'. convert to a bytes, string, int or float first", e.Key)
}

func (e *KeyTypeError) Unwrap() error { return ErrKeyType }

// ShapeMismatchError reports an expected shape that disagrees with the
// stored type of a key, or with the kind of an in-process value.
type ShapeMismatchError struct {
	Expected string
	Actual   string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("wrong type operation: expected %q value but received %q value", e.Expected, e.Actual)
}

func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

// ConnectError is returned by New when the initial PING fails.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("rediskit: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }
