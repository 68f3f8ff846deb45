package vopl

import (
	"encoding/binary"
	"fmt"
)

// A delta stream is a uvarint entry count followed by bit-packed
// (index, colour) entries with no padding between them. The index is the
// linear grid index, as wide as the grid needs; the colour takes deltaColorBits
// and 0 clears the voxel.
const deltaColorBits = 6

// DeltaEntry is one voxel update.
type DeltaEntry struct {
	Index uint32
	Color uint8
}

// Diff lists the voxels that differ between prev and next, in linear order.
// A nil prev is an empty grid of next's shape.
func Diff(prev, next *VoxelGrid) ([]DeltaEntry, error) {
	if prev != nil && !prev.SameShape(next) {
		return nil, fmt.Errorf("diff %dx%dx%d against %dx%dx%d: %w", prev.W, prev.H, prev.D, next.W, next.H, next.D, ErrDims)
	}
	var out []DeltaEntry
	for i, c := range next.Cells {
		var old uint8
		if prev != nil {
			old = prev.Cells[i]
		}
		if c != old {
			out = append(out, DeltaEntry{Index: uint32(i), Color: c})
		}
	}
	return out, nil
}

// EncodeDelta packs entries for a grid of total voxels.
func EncodeDelta(total int, entries []DeltaEntry) ([]byte, error) {
	idxBits := widthFor(total)
	out := binary.AppendUvarint(nil, uint64(len(entries)))
	bw := newBitWriter(len(entries) * int(idxBits+deltaColorBits) / 8)
	for _, e := range entries {
		if int(e.Index) >= total {
			return nil, fmt.Errorf("delta index %d of %d: %w", e.Index, total, ErrPayload)
		}
		if e.Color >= 1<<deltaColorBits {
			return nil, fmt.Errorf("delta colour %d: %w", e.Color, ErrColor)
		}
		bw.writeBits(uint64(e.Index), idxBits)
		bw.writeBits(uint64(e.Color), deltaColorBits)
	}
	return append(out, bw.bytes()...), nil
}

// DecodeDelta unpacks a stream written by EncodeDelta for the same total.
func DecodeDelta(total int, data []byte) ([]DeltaEntry, error) {
	n, k := binary.Uvarint(data)
	if k <= 0 {
		return nil, fmt.Errorf("delta count: %w", ErrPayload)
	}
	idxBits := widthFor(total)
	// reject counts the remaining bits cannot hold
	if n > uint64(len(data)-k)*8/uint64(idxBits+deltaColorBits) {
		return nil, fmt.Errorf("delta claims %d entries in %d bytes: %w", n, len(data)-k, ErrPayload)
	}
	br := newBitReader(data[k:])
	out := make([]DeltaEntry, 0, n)
	for i := uint64(0); i < n; i++ {
		idx, err := br.readBits(idxBits)
		if err != nil {
			return nil, fmt.Errorf("delta entry %d: %w", i, ErrPayload)
		}
		col, err := br.readBits(deltaColorBits)
		if err != nil {
			return nil, fmt.Errorf("delta entry %d: %w", i, ErrPayload)
		}
		if idx >= uint64(total) {
			return nil, fmt.Errorf("delta index %d of %d: %w", idx, total, ErrPayload)
		}
		out = append(out, DeltaEntry{Index: uint32(idx), Color: uint8(col)})
	}
	return out, nil
}

// ApplyDelta decodes data and applies it to g in order.
func ApplyDelta(g *VoxelGrid, data []byte) error {
	entries, err := DecodeDelta(g.Len(), data)
	if err != nil {
		return err
	}
	for _, e := range entries {
		g.Cells[e.Index] = e.Color
	}
	return nil
}

// DeltaStream encodes a full frame sequence: the first delta builds frame 0
// from empty and each later one turns frame i-1 into frame i.
func DeltaStream(frames []*VoxelGrid) ([][]byte, error) {
	out := make([][]byte, len(frames))
	var prev *VoxelGrid
	for i, g := range frames {
		entries, err := Diff(prev, g)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if out[i], err = EncodeDelta(g.Len(), entries); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		prev = g
	}
	return out, nil
}
