// Package wire implements ReverseReader, the cursor that the payload decoder
// uses to consume a length-suffixed wire format from the tail.
//
// It generalizes the teacher's forward cursor (consensus/wire.go: type
// cursor struct{ b []byte; pos int }) by walking from the end of the buffer
// toward the start instead of the start toward the end — the RedStone wire
// format is length-suffixed, so a reverse walk needs no up-front offset scan.
package wire

import (
	"encoding/binary"

	"redstone.dev/oracle/rerr"
)

// ReverseReader consumes a byte buffer from the tail. end marks the first
// unconsumed byte from the end; bytes in [0, end) remain unread.
type ReverseReader struct {
	buf []byte
	end int
}

// NewReverseReader wraps buf for tail-first reading.
func NewReverseReader(buf []byte) *ReverseReader {
	return &ReverseReader{buf: buf, end: len(buf)}
}

// RemainingLen returns the number of unread bytes.
func (r *ReverseReader) RemainingLen() int {
	return r.end
}

// Cursor returns the current read boundary, usable with SetCursor to
// re-scan a region (the decoder uses this to re-read a package's signable
// region after trimming its trailer).
func (r *ReverseReader) Cursor() int {
	return r.end
}

// SetCursor restores a previously observed cursor position.
func (r *ReverseReader) SetCursor(pos int) {
	r.end = pos
}

// ReadSlice returns the last n unread bytes and advances the cursor toward
// the head. It fails with UnexpectedBufferEnd if n exceeds the remaining
// length.
func (r *ReverseReader) ReadSlice(n int) ([]byte, error) {
	if n < 0 || n > r.end {
		return nil, rerr.New(rerr.CodeUnexpectedBufferEnd, "need %d bytes, have %d", n, r.end)
	}
	start := r.end - n
	out := r.buf[start:r.end]
	r.end = start
	return out, nil
}

// ReadUint reads n bytes (n <= 8), interprets them big-endian with leading
// zero padding. It fails with NumberOverflow when n > 8.
func (r *ReverseReader) ReadUint(n int) (uint64, error) {
	if n > 8 {
		return 0, rerr.New(rerr.CodeNumberOverflow, "uint field width %d exceeds 8 bytes", n)
	}
	b, err := r.ReadSlice(n)
	if err != nil {
		return 0, err
	}
	var padded [8]byte
	copy(padded[8-n:], b)
	return binary.BigEndian.Uint64(padded[:]), nil
}

// ReadFeedId reads n bytes and right-zero-pads them to 32 bytes.
func (r *ReverseReader) ReadFeedId(n int) ([32]byte, error) {
	var out [32]byte
	if n > 32 {
		return out, rerr.New(rerr.CodeNumberOverflow, "feed id field width %d exceeds 32 bytes", n)
	}
	b, err := r.ReadSlice(n)
	if err != nil {
		return out, err
	}
	copy(out[:n], b)
	return out, nil
}

// ReadValue reads n bytes (n <= 32) and left-zero-pads them into a 256-bit
// container. n > 32 is NumberOverflow: the value would not fit.
func (r *ReverseReader) ReadValue(n int) ([32]byte, error) {
	var out [32]byte
	if n > 32 {
		return out, rerr.New(rerr.CodeNumberOverflow, "value width %d exceeds 32 bytes", n)
	}
	b, err := r.ReadSlice(n)
	if err != nil {
		return out, err
	}
	copy(out[32-n:], b)
	return out, nil
}
