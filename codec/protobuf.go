package codec

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

// protoFormat wraps proto.Message values in an Any so the concrete message
// type can be recovered from the global registry on decode.
type protoFormat struct{}

func (protoFormat) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%T is not a proto.Message", v)
	}
	a, err := anypb.New(m)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(a)
}

func (protoFormat) Unmarshal(b []byte) (any, error) {
	var a anypb.Any
	if err := proto.Unmarshal(b, &a); err != nil {
		return nil, err
	}
	return a.UnmarshalNew()
}

// UnmarshalInto accepts either a message (*pb.T) or a pointer to a message
// pointer (**pb.T, as produced by As[*pb.T]).
func (p protoFormat) UnmarshalInto(b []byte, dst any) error {
	if m, ok := dst.(proto.Message); ok {
		var a anypb.Any
		if err := proto.Unmarshal(b, &a); err != nil {
			return err
		}
		return a.UnmarshalTo(m)
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("codec: proto destination must be a pointer, got %T", dst)
	}
	m, err := p.Unmarshal(b)
	if err != nil {
		return err
	}
	mv := reflect.ValueOf(m)
	if !mv.Type().AssignableTo(rv.Elem().Type()) {
		return fmt.Errorf("codec: cannot assign %T to %s", m, rv.Elem().Type())
	}
	rv.Elem().Set(mv)
	return nil
}
