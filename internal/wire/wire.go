package wire

import (
	"bytes"
	"errors"
)

const (
	version byte = 1

	// header: magic(4) | ver(1) | format(1)
	headerLen = 4 + 1 + 1
)

var (
	ErrCorrupt = errors.New("rediskit: corrupt envelope")
	magic4     = [...]byte{'R', 'K', 'V', '0'}
)

// HasMagic reports whether b starts with the envelope magic.
// Plain text written by other clients normally does not.
func HasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Envelope: magic(4) | ver(1) | format(1) | payload(rest)
func Encode(format byte, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(headerLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(format)
	buf.Write(payload)
	return buf.Bytes()
}

// Decode splits an envelope into its format byte and payload.
// The payload aliases b.
func Decode(b []byte) (format byte, payload []byte, err error) {
	if len(b) < headerLen || !HasMagic(b) || b[4] != version {
		return 0, nil, ErrCorrupt
	}
	return b[5], b[headerLen:], nil
}
