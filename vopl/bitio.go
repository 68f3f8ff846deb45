package vopl

import (
	"io"
	"math/bits"
)

// bitWriter packs values LSB first with no padding between them.
type bitWriter struct {
	buf []byte
	acc uint64
	n   uint
}

func newBitWriter(sizeHint int) *bitWriter { return &bitWriter{buf: make([]byte, 0, sizeHint)} }

func (w *bitWriter) writeBits(v uint64, width uint) {
	w.acc |= (v & (1<<width - 1)) << w.n
	w.n += width
	for w.n >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.n -= 8
	}
}

// bytes flushes a partial trailing byte.
func (w *bitWriter) bytes() []byte {
	if w.n > 0 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc, w.n = 0, 0
	}
	return w.buf
}

type bitReader struct {
	data []byte
	acc  uint64
	n    uint
	pos  int
}

func newBitReader(b []byte) *bitReader { return &bitReader{data: b} }

func (r *bitReader) readBits(width uint) (uint64, error) {
	for r.n < width {
		if r.pos >= len(r.data) {
			return 0, io.ErrUnexpectedEOF
		}
		r.acc |= uint64(r.data[r.pos]) << r.n
		r.n += 8
		r.pos++
	}
	v := r.acc & (1<<width - 1)
	r.acc >>= width
	r.n -= width
	return v, nil
}

// widthFor is the number of bits needed to store any value in [0, n).
func widthFor(n int) uint {
	if n <= 1 {
		return 1
	}
	return uint(bits.Len(uint(n - 1)))
}
