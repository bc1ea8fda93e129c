package wire

import (
	"testing"

	"redstone.dev/oracle/rerr"
)

func mustCode(t *testing.T, err error, code rerr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %s, got nil", code)
	}
	if !rerr.Is(err, code) {
		t.Fatalf("got error %v, want code %s", err, code)
	}
}

func TestReadSlice_TailFirst(t *testing.T) {
	r := NewReverseReader([]byte{0x01, 0x02, 0x03, 0x04})
	b, err := r.ReadSlice(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b[0] != 0x03 || b[1] != 0x04 {
		t.Fatalf("got %v, want [3 4]", b)
	}
	if r.RemainingLen() != 2 {
		t.Fatalf("remaining=%d, want 2", r.RemainingLen())
	}
	b2, err := r.ReadSlice(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b2[0] != 0x01 || b2[1] != 0x02 {
		t.Fatalf("got %v, want [1 2]", b2)
	}
	if r.RemainingLen() != 0 {
		t.Fatalf("remaining=%d, want 0", r.RemainingLen())
	}
}

func TestReadSlice_UnexpectedBufferEnd(t *testing.T) {
	r := NewReverseReader([]byte{0x01})
	_, err := r.ReadSlice(2)
	mustCode(t, err, rerr.CodeUnexpectedBufferEnd)
}

func TestReadUint_BigEndian(t *testing.T) {
	r := NewReverseReader([]byte{0x01, 0x02, 0x03})
	v, err := r.ReadUint(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x010203 {
		t.Fatalf("got %d, want %d", v, 0x010203)
	}
}

func TestReadUint_WidthOverflow(t *testing.T) {
	r := NewReverseReader(make([]byte, 9))
	_, err := r.ReadUint(9)
	mustCode(t, err, rerr.CodeNumberOverflow)
}

func TestReadFeedId_RightZeroPadded(t *testing.T) {
	r := NewReverseReader([]byte("ETH"))
	id, err := r.ReadFeedId(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id[0] != 'E' || id[1] != 'T' || id[2] != 'H' || id[3] != 0 {
		t.Fatalf("got %v", id)
	}
}

func TestReadValue_LeftZeroPadded(t *testing.T) {
	r := NewReverseReader([]byte{0xAA, 0xBB})
	v, err := r.ReadValue(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v[30] != 0xAA || v[31] != 0xBB {
		t.Fatalf("got %v", v)
	}
	for i := 0; i < 30; i++ {
		if v[i] != 0 {
			t.Fatalf("expected leading zero padding at byte %d, got %x", i, v[i])
		}
	}
}

func TestReadValue_WidthOverflow(t *testing.T) {
	r := NewReverseReader(make([]byte, 33))
	_, err := r.ReadValue(33)
	mustCode(t, err, rerr.CodeNumberOverflow)
}

func TestCursor_SaveAndRestore(t *testing.T) {
	r := NewReverseReader([]byte{0x01, 0x02, 0x03, 0x04})
	saved := r.Cursor()
	if _, err := r.ReadSlice(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.SetCursor(saved)
	if r.RemainingLen() != 4 {
		t.Fatalf("remaining=%d, want 4 after restoring cursor", r.RemainingLen())
	}
}
