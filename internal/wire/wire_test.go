package wire

import "testing"

func TestBuilderRoundTrip(t *testing.T) {
	buf := NewBuilder().U8(0x01).U16(0xBEEF).U32(0xDEADBEEF).U64(0x0102030405060708).Bytes()

	r := NewReader(buf)
	gotU8 := r.U8()
	gotU16 := r.U16()
	gotU32 := r.U32()
	gotU64 := r.U64()
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotU8 != 0x01 {
		t.Errorf("U8 = 0x%02x, want 0x01", gotU8)
	}
	if gotU16 != 0xBEEF {
		t.Errorf("U16 = 0x%04x, want 0xBEEF", gotU16)
	}
	if gotU32 != 0xDEADBEEF {
		t.Errorf("U32 = 0x%08x, want 0xDEADBEEF", gotU32)
	}
	if gotU64 != 0x0102030405060708 {
		t.Errorf("U64 = 0x%016x, want 0x0102030405060708", gotU64)
	}
}

func TestLenPrefixedBytes(t *testing.T) {
	buf := NewBuilder().U8(0xAA).LenPrefixedBytes([]byte{1, 2, 3}).Bytes()
	want := []byte{0xAA, 0x03, 1, 2, 3}
	if len(buf) != len(want) {
		t.Fatalf("len(buf) = %d, want %d", len(buf), len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = 0x%02x, want 0x%02x", i, buf[i], want[i])
		}
	}
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader([]byte{0x01})
	_ = r.U8()
	_ = r.U32() // not enough bytes left
	if r.Err() == nil {
		t.Fatal("expected short-read error, got nil")
	}
	// Further reads after an error stay zero and don't panic.
	if got := r.U16(); got != 0 {
		t.Errorf("U16 after error = %d, want 0", got)
	}
}

func TestReaderRest(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	_ = r.U8()
	rest := r.Rest()
	want := []byte{0x02, 0x03, 0x04}
	if len(rest) != len(want) {
		t.Fatalf("len(rest) = %d, want %d", len(rest), len(want))
	}
	for i := range want {
		if rest[i] != want[i] {
			t.Errorf("rest[%d] = 0x%02x, want 0x%02x", i, rest[i], want[i])
		}
	}
}
