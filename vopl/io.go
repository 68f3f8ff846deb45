package vopl

import (
	"fmt"
	"os"
)

// DefaultBPP fixes the bit depth so every grid of a run shares one header
// and can be packed together.
const DefaultBPP = 6

// Encode returns g as a complete .vopl file at DefaultBPP.
func Encode(g *VoxelGrid) ([]byte, error) {
	return EncodeWithBPP(g, DefaultBPP)
}

// EncodeWithBPP encodes g at bpp bits per voxel (clamped to 1..8) using the
// smallest available encoding.
func EncodeWithBPP(g *VoxelGrid, bpp uint8) ([]byte, error) {
	if err := checkDims(g.W, g.H, g.D); err != nil {
		return nil, err
	}
	bpp = min(max(bpp, 1), 8)
	enc, err := bestEncoding(g, bpp)
	if err != nil {
		return nil, err
	}
	return BuildFile(HeaderFor(g, bpp), enc.encoding, enc.payload), nil
}

// Decode parses a .vopl file.
func Decode(data []byte) (*VoxelGrid, error) {
	hdr, enc, payload, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return DecodePayload(hdr, enc, payload)
}

// DecodePayload rebuilds a grid from a header and one encoded payload, as
// stored in a pack entry.
func DecodePayload(hdr VOPLHeader, enc uint8, payload []byte) (*VoxelGrid, error) {
	if hdr.BPP < 1 || hdr.BPP > 8 {
		return nil, fmt.Errorf("bpp %d: %w", hdr.BPP, ErrPayload)
	}
	g, err := NewVoxelGrid(int(hdr.W), int(hdr.H), int(hdr.D))
	if err != nil {
		return nil, err
	}
	stream, err := decodePayload(enc, payload, hdr.BPP, g.Len())
	if err != nil {
		return nil, err
	}
	unflatten(g, stream)
	return g, nil
}

// Save writes g to filename as .vopl.
func Save(g *VoxelGrid, filename string) error {
	data, err := Encode(g)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// Load reads a .vopl file.
func Load(filename string) (*VoxelGrid, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	g, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return g, nil
}
