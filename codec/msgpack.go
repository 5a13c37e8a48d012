package codec

import (
	"bytes"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

var errTrailing = errors.New("codec: trailing bytes after payload")

// msgpackFormat serializes values using vmihailenco/msgpack/v5.
// Untyped decoding is loose: integers widen to int64/uint64 and floats to
// float64, so decoded values compare equal to canonical inputs.
type msgpackFormat struct{}

func (msgpackFormat) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackFormat) Unmarshal(b []byte) (any, error) {
	r := bytes.NewReader(b)
	dec := msgpack.NewDecoder(r)
	dec.UseLooseInterfaceDecoding(true)
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errTrailing
	}
	return v, nil
}

func (msgpackFormat) UnmarshalInto(b []byte, dst any) error {
	return msgpack.Unmarshal(b, dst)
}
