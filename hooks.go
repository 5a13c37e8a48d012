package rediskit

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// Command sets call them on hot paths. key is the store key as sent.
type Hooks interface {
	// A key was absent. Not an error: op returned the shape's empty result.
	KeyMiss(shape Shape, op, key string)

	// A hash field was absent.
	FieldMiss(op, key string)

	// The stored type of a key disagreed with the command set's shape.
	ShapeMismatch(expected Shape, actual, key string)

	// An increment/decrement was refused because the current value is not
	// an integer.
	NumericGuard(shape Shape, op, key string)

	// Both seconds and milliseconds were given for one expiry.
	ExpiryConflict(shape Shape, key string)

	// An opaque envelope could not be decoded and was returned as text.
	// reason ∈ {"corrupt", "too_large", "unknown_format", "payload_decode"}
	DecodeFallback(reason string, err error)

	// The periodic health check could not reach the store.
	HealthCheckFailed(err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) KeyMiss(Shape, string, string)       {}
func (NopHooks) FieldMiss(string, string)            {}
func (NopHooks) ShapeMismatch(Shape, string, string) {}
func (NopHooks) NumericGuard(Shape, string, string)  {}
func (NopHooks) ExpiryConflict(Shape, string)        {}
func (NopHooks) DecodeFallback(string, error)        {}
func (NopHooks) HealthCheckFailed(error)             {}
