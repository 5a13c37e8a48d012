// Package codec converts in-process values to the byte-or-text form Redis
// stores and back.
//
// Text (string) and raw bytes ([]byte) pass through untouched. Every other
// value is marshaled with the configured Format and framed in a small
// envelope (magic | version | format | payload) so Decode can tell opaque
// payloads apart from plain text written by other clients.
//
// Decode is best effort: bytes without the envelope, or an envelope whose
// payload cannot be decoded, come back as text. It never returns an error.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"

	"github.com/unkn0wn-root/rediskit/internal/wire"
)

// Format selects the payload encoding inside the envelope.
type Format byte

const (
	FormatMsgpack Format = 1 // default
	FormatCBOR    Format = 2
	FormatJSON    Format = 3
	// FormatProto is chosen automatically for proto.Message values; it cannot
	// be configured as the default.
	FormatProto Format = 4
)

func (f Format) String() string {
	switch f {
	case FormatMsgpack:
		return "msgpack"
	case FormatCBOR:
		return "cbor"
	case FormatJSON:
		return "json"
	case FormatProto:
		return "proto"
	default:
		return fmt.Sprintf("format(%d)", byte(f))
	}
}

// ParseFormat maps a configuration name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "msgpack":
		return FormatMsgpack, nil
	case "cbor":
		return FormatCBOR, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("codec: unknown format %q", name)
	}
}

var (
	ErrUnsupportedFormat = errors.New("codec: unsupported format")
	ErrNotEnvelope       = errors.New("codec: value is not an opaque envelope")
)

// marshaler is one payload encoding.
type marshaler interface {
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes into canonical untyped values.
	Unmarshal(b []byte) (any, error)
	UnmarshalInto(b []byte, dst any) error
}

// FallbackFunc observes envelopes that could not be decoded and were
// returned as text instead.
// reason ∈ {"corrupt", "too_large", "unknown_format", "payload_decode"}
type FallbackFunc func(reason string, err error)

type Options struct {
	Format        Format // 0 => FormatMsgpack
	Deterministic bool   // CBOR only: RFC 8949 core deterministic encoding
	// MaxDecode caps the payload size Decode will unmarshal. Larger payloads
	// fall back to text. <= 0 disables the limit.
	MaxDecode  int
	OnFallback FallbackFunc
}

// Codec is safe for concurrent use once constructed.
type Codec struct {
	format     Format
	formats    [FormatProto + 1]marshaler
	maxDecode  int
	onFallback FallbackFunc
}

// New builds a Codec. All formats stay decodable regardless of which one is
// used for writing.
func New(opts Options) (*Codec, error) {
	f := opts.Format
	if f == 0 {
		f = FormatMsgpack
	}
	if f != FormatMsgpack && f != FormatCBOR && f != FormatJSON {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	cb, err := newCBOR(opts.Deterministic)
	if err != nil {
		return nil, err
	}
	c := &Codec{
		format:     f,
		maxDecode:  opts.MaxDecode,
		onFallback: opts.OnFallback,
	}
	c.formats[FormatMsgpack] = msgpackFormat{}
	c.formats[FormatCBOR] = cb
	c.formats[FormatJSON] = jsonFormat{}
	c.formats[FormatProto] = protoFormat{}
	return c, nil
}

// Must is like New but panics on error.
// Handy for package-level variables in tests/examples.
func Must(opts Options) *Codec {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns a msgpack codec with no decode limit.
func Default() *Codec { return Must(Options{}) }

func (c *Codec) Format() Format { return c.format }

// IsPrimitive reports whether v is stored without encoding.
func IsPrimitive(v any) bool {
	switch v.(type) {
	case string, []byte:
		return true
	}
	return false
}

// Encode returns v unchanged when it is a string or []byte; otherwise the
// enveloped opaque encoding as []byte.
func (c *Codec) Encode(v any) (any, error) {
	switch v.(type) {
	case string, []byte:
		return v, nil
	}
	f := c.format
	if _, ok := v.(proto.Message); ok {
		f = FormatProto
	}
	payload, err := c.formats[f].Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: encode %T as %s: %w", v, f, err)
	}
	return wire.Encode(byte(f), payload), nil
}

// EncodeText is Encode for APIs that only take string arguments
// (hash fields, set keys). Envelope bytes are carried verbatim in the string.
func (c *Codec) EncodeText(v any) (string, error) {
	e, err := c.Encode(v)
	if err != nil {
		return "", err
	}
	switch x := e.(type) {
	case string:
		return x, nil
	default:
		return string(x.([]byte)), nil
	}
}

// Decode reverses Encode. Values that are neither string nor []byte are
// returned unchanged.
func (c *Codec) Decode(v any) (out any) {
	var b []byte
	switch x := v.(type) {
	case string:
		if !strings.HasPrefix(x, envelopePrefix) {
			return text(x)
		}
		b = []byte(x)
	case []byte:
		b = x
	default:
		return v
	}
	if !wire.HasMagic(b) {
		return text(string(b))
	}

	// decode must not panic, whatever the bytes are
	defer func() {
		if r := recover(); r != nil {
			c.fallback("payload_decode", fmt.Errorf("panic: %v", r))
			out = text(string(b))
		}
	}()

	format, payload, err := wire.Decode(b)
	if err != nil {
		c.fallback("corrupt", err)
		return text(string(b))
	}
	if c.maxDecode > 0 && len(payload) > c.maxDecode {
		c.fallback("too_large", fmt.Errorf("payload too large: %d > %d", len(payload), c.maxDecode))
		return text(string(b))
	}
	m := c.lookup(Format(format))
	if m == nil {
		c.fallback("unknown_format", fmt.Errorf("%w: %d", ErrUnsupportedFormat, format))
		return text(string(b))
	}
	val, err := m.Unmarshal(payload)
	if err != nil {
		c.fallback("payload_decode", err)
		return text(string(b))
	}
	return val
}

// DecodeInto unmarshals an opaque value into dst (a pointer). Plain text is
// only accepted when dst is a *string.
func (c *Codec) DecodeInto(v any, dst any) error {
	var b []byte
	switch x := v.(type) {
	case string:
		b = []byte(x)
	case []byte:
		b = x
	default:
		return fmt.Errorf("codec: cannot decode %T", v)
	}
	if !wire.HasMagic(b) {
		if sp, ok := dst.(*string); ok {
			*sp = string(b)
			return nil
		}
		return ErrNotEnvelope
	}
	format, payload, err := wire.Decode(b)
	if err != nil {
		return err
	}
	if c.maxDecode > 0 && len(payload) > c.maxDecode {
		return fmt.Errorf("codec: payload too large: %d > %d", len(payload), c.maxDecode)
	}
	m := c.lookup(Format(format))
	if m == nil {
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	return m.UnmarshalInto(payload, dst)
}

// As decodes v into a fresh T.
func As[T any](c *Codec, v any) (T, error) {
	var out T
	err := c.DecodeInto(v, &out)
	return out, err
}

func (c *Codec) lookup(f Format) marshaler {
	if f == 0 || int(f) >= len(c.formats) {
		return nil
	}
	return c.formats[f]
}

func (c *Codec) fallback(reason string, err error) {
	if c.onFallback != nil {
		c.onFallback(reason, err)
	}
}

var envelopePrefix = string(wire.Encode(0, nil)[:4])

func text(s string) string {
	return strings.ToValidUTF8(s, "�")
}
