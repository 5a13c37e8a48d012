package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// cborFormat serializes values using fxamacker/cbor.
//
// deterministic=true uses CoreDetEncOptions (RFC 8949 Core Deterministic),
// otherwise PreferredUnsortedEncOptions. Time values are encoded as
// RFC3339Nano. Untyped maps decode to map[string]any and integers to int64.
type cborFormat struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBOR(deterministic bool) (cborFormat, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return cborFormat{}, err
	}
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		return cborFormat{}, err
	}
	return cborFormat{enc: em, dec: dm}, nil
}

func (c cborFormat) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c cborFormat) Unmarshal(b []byte) (any, error) {
	var v any
	err := c.dec.Unmarshal(b, &v)
	return v, err
}

func (c cborFormat) UnmarshalInto(b []byte, dst any) error {
	return c.dec.Unmarshal(b, dst)
}
