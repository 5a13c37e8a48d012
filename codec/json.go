package codec

import "encoding/json"

// jsonFormat is human readable but lossy for untyped numbers (all become
// float64). Prefer msgpack or CBOR unless another reader needs JSON.
type jsonFormat struct{}

func (jsonFormat) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonFormat) Unmarshal(b []byte) (any, error) {
	var v any
	err := json.Unmarshal(b, &v)
	return v, err
}

func (jsonFormat) UnmarshalInto(b []byte, dst any) error { return json.Unmarshal(b, dst) }
