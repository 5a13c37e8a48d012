package wire

import (
	"bytes"
	"testing"
)

func TestEnvelopeRTEmptyAndNonEmpty(t *testing.T) {
	cases := []struct {
		format  byte
		payload []byte
	}{
		{1, nil},
		{2, []byte("hello")},
		{255, []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		enc := Encode(tc.format, tc.payload)
		if !HasMagic(enc) {
			t.Fatalf("encoded envelope lacks magic: %x", enc)
		}
		f, p, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode error: %v", err)
		}
		if f != tc.format {
			t.Fatalf("format mismatch: got %d want %d", f, tc.format)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestDecodeRejectsPlainText(t *testing.T) {
	for _, s := range []string{"", "R", "RKV", "hello world", "RKV0"} {
		if _, _, err := Decode([]byte(s)); err != ErrCorrupt {
			t.Fatalf("Decode(%q) err=%v want ErrCorrupt", s, err)
		}
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	enc := Encode(1, []byte("x"))
	enc[4] = version + 1
	if _, _, err := Decode(enc); err != ErrCorrupt {
		t.Fatalf("expected ErrCorrupt on version bump, got %v", err)
	}
}

func TestHasMagic(t *testing.T) {
	if HasMagic([]byte("RKV")) {
		t.Fatalf("short input must not match")
	}
	if HasMagic([]byte("abcdef")) {
		t.Fatalf("plain text must not match")
	}
	if !HasMagic(Encode(1, nil)) {
		t.Fatalf("envelope must match")
	}
}
