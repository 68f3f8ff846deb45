package vopl

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// gearTable is the 256-entry rolling hash table, derived deterministically
// from xxhash so packs written by any build chunk identically.
var gearTable = func() [256]uint64 {
	var t [256]uint64
	seed := xxhash.Sum64String("vopl-cdc-gear-seed")
	var b [16]byte
	for i := range t {
		binary.LittleEndian.PutUint64(b[:8], seed+uint64(i)*0x9E3779B185EBCA87)
		binary.LittleEndian.PutUint64(b[8:], ^(seed + uint64(i)*0xC2B2AE3D27D4EB4F))
		v := xxhash.Sum64(b[:])
		if v == 0 {
			v = 0x9E3779B185EBCA87
		}
		t[i] = v
	}
	return t
}()

// chunkDict deduplicates chunks by xxhash, confirming matches byte for byte.
type chunkDict struct {
	blocks [][]byte
	index  map[uint64][]int
}

func (d *chunkDict) add(b []byte) int {
	h := xxhash.Sum64(b)
	for _, idx := range d.index[h] {
		if bytes.Equal(d.blocks[idx], b) {
			return idx
		}
	}
	idx := len(d.blocks)
	d.blocks = append(d.blocks, append([]byte(nil), b...))
	d.index[h] = append(d.index[h], idx)
	return idx
}

// buildCDCIndex cuts every payload with a gear rolling hash, cutting where
// the low bits of the hash are zero (average chunk near target) but never
// before minSz nor after maxSz bytes. It returns the unique chunks and, per
// entry, the chunk indices that rebuild it.
func buildCDCIndex(entries []PackEntry, target, minSz, maxSz int) ([][]byte, [][]int) {
	// round target to a power of two for the mask
	mask := uint64(1)<<(bits.Len(uint(target))-1) - 1
	dict := &chunkDict{index: make(map[uint64][]int)}
	seqs := make([][]int, len(entries))

	for i, e := range entries {
		data := e.Payload
		var seq []int
		start := 0
		var h uint64
		for pos := 0; pos < len(data); pos++ {
			h = h<<1 + gearTable[data[pos]]
			size := pos - start + 1
			if size < minSz {
				continue
			}
			if h&mask == 0 || size >= maxSz {
				seq = append(seq, dict.add(data[start:pos+1]))
				start = pos + 1
				h = 0
			}
		}
		if start < len(data) {
			seq = append(seq, dict.add(data[start:]))
		}
		seqs[i] = seq
	}
	return dict.blocks, seqs
}
