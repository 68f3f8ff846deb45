package vopl

import "fmt"

const (
	encDense   = 0
	encSparse  = 1
	encSparse2 = 3 // occupancy bitmap + nonzero values

	encCompressed = 0x80
)

type encoded struct {
	encoding uint8
	payload  []byte
}

func encodeDense(stream []uint8, bpp uint) []byte {
	bw := newBitWriter((len(stream)*int(bpp) + 7) / 8)
	for _, c := range stream {
		bw.writeBits(uint64(c), bpp)
	}
	return bw.bytes()
}

// encodeSparse writes the nonzero count followed by (rank, colour) pairs.
func encodeSparse(stream []uint8, bpp uint) []byte {
	count := 0
	for _, c := range stream {
		if c != 0 {
			count++
		}
	}
	idxBits := widthFor(len(stream))
	bw := newBitWriter(4 + count*int(idxBits+bpp)/8)
	bw.writeBits(uint64(count), widthFor(len(stream)+1))
	for i, c := range stream {
		if c == 0 {
			continue
		}
		bw.writeBits(uint64(i), idxBits)
		bw.writeBits(uint64(c), bpp)
	}
	return bw.bytes()
}

func bitmapSize(total int) int { return (total + 7) / 8 }

func encodeSparse2(stream []uint8, bpp uint) []byte {
	bitmap := make([]byte, bitmapSize(len(stream)))
	bw := newBitWriter(len(stream) / 4)
	for i, c := range stream {
		if c != 0 {
			bitmap[i>>3] |= 1 << (uint(i) & 7)
			bw.writeBits(uint64(c), bpp)
		}
	}
	return append(bitmap, bw.bytes()...)
}

// bestEncoding tries every layout raw and zlib-compressed and keeps the
// smallest; ties keep the earlier candidate.
func bestEncoding(g *VoxelGrid, bpp uint8) (encoded, error) {
	stream := flatten(g)
	for _, c := range stream {
		if uint(c) >= 1<<bpp {
			return encoded{}, fmt.Errorf("colour %d at %d bpp: %w", c, bpp, ErrColor)
		}
	}
	w := uint(bpp)
	candidates := []encoded{
		{encDense, encodeDense(stream, w)},
		{encSparse, encodeSparse(stream, w)},
		{encSparse2, encodeSparse2(stream, w)},
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.payload) < len(best.payload) {
			best = c
		}
	}
	for _, c := range candidates {
		zb, err := zlibCompress(c.payload)
		if err != nil {
			return encoded{}, err
		}
		if len(zb) < len(best.payload) {
			best = encoded{c.encoding | encCompressed, zb}
		}
	}
	return best, nil
}

// decodePayload rebuilds the Morton-ordered colour stream of total voxels.
func decodePayload(enc uint8, payload []byte, bpp uint8, total int) ([]uint8, error) {
	if enc&encCompressed != 0 {
		raw, err := zlibDecompress(payload)
		if err != nil {
			return nil, fmt.Errorf("inflate: %w", err)
		}
		payload = raw
	}
	w := uint(bpp)
	stream := make([]uint8, total)
	switch enc &^ encCompressed {
	case encDense:
		br := newBitReader(payload)
		for i := range stream {
			v, err := br.readBits(w)
			if err != nil {
				return nil, fmt.Errorf("dense voxel %d: %w", i, ErrPayload)
			}
			stream[i] = uint8(v)
		}
	case encSparse:
		br := newBitReader(payload)
		cnt, err := br.readBits(widthFor(total + 1))
		if err != nil {
			return nil, fmt.Errorf("sparse count: %w", ErrPayload)
		}
		idxBits := widthFor(total)
		for i := uint64(0); i < cnt; i++ {
			idx, err := br.readBits(idxBits)
			if err != nil {
				return nil, fmt.Errorf("sparse entry %d: %w", i, ErrPayload)
			}
			col, err := br.readBits(w)
			if err != nil {
				return nil, fmt.Errorf("sparse entry %d: %w", i, ErrPayload)
			}
			if idx >= uint64(total) {
				return nil, fmt.Errorf("sparse index %d of %d: %w", idx, total, ErrPayload)
			}
			stream[idx] = uint8(col)
		}
	case encSparse2:
		n := bitmapSize(total)
		if len(payload) < n {
			return nil, fmt.Errorf("sparse2 bitmap is %d bytes, need %d: %w", len(payload), n, ErrPayload)
		}
		bitmap := payload[:n]
		br := newBitReader(payload[n:])
		for i := range stream {
			if bitmap[i>>3]>>(uint(i)&7)&1 == 0 {
				continue
			}
			v, err := br.readBits(w)
			if err != nil {
				return nil, fmt.Errorf("sparse2 voxel %d: %w", i, ErrPayload)
			}
			stream[i] = uint8(v)
		}
	default:
		return nil, fmt.Errorf("encoding %d: %w", enc, ErrEncoding)
	}
	return stream, nil
}
