package keys

import (
	"math"
	"strconv"
	"strings"
)

// Text returns the text form a primitive key is sent to the store with.
// ok is false for any kind other than integers, floats, strings and bytes.
func Text(key any) (s string, ok bool) {
	switch k := key.(type) {
	case string:
		return k, true
	case []byte:
		return string(k), true
	case int:
		return strconv.FormatInt(int64(k), 10), true
	case int8:
		return strconv.FormatInt(int64(k), 10), true
	case int16:
		return strconv.FormatInt(int64(k), 10), true
	case int32:
		return strconv.FormatInt(int64(k), 10), true
	case int64:
		return strconv.FormatInt(k, 10), true
	case uint:
		return strconv.FormatUint(uint64(k), 10), true
	case uint8:
		return strconv.FormatUint(uint64(k), 10), true
	case uint16:
		return strconv.FormatUint(uint64(k), 10), true
	case uint32:
		return strconv.FormatUint(uint64(k), 10), true
	case uint64:
		return strconv.FormatUint(k, 10), true
	case float32:
		return floatText(float64(k), 32), true
	case float64:
		return floatText(k, 64), true
	default:
		return "", false
	}
}

// Texts converts many keys, stopping at the first invalid one.
// bad is the index of that key, or -1.
func Texts(ks []any) (out []string, bad int) {
	out = make([]string, len(ks))
	for i, k := range ks {
		s, ok := Text(k)
		if !ok {
			return nil, i
		}
		out[i] = s
	}
	return out, -1
}

// floatText renders f the way redis-py sends floats (Python repr): whole
// values keep ".0", and magnitudes outside [1e-4, 1e16) use an exponent.
func floatText(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bits)
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
