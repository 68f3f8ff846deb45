package vopl

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	voplMagic   = "VOPL"
	voplVersion = 3
	headerSize  = 16
)

// VOPLHeader holds the fields shared by every grid of a pack. The per-file
// encoding byte lives next to each payload instead. PLen is only set when a
// whole .vopl file is parsed.
type VOPLHeader struct {
	Ver  uint8
	BPP  uint8
	W    uint8
	H    uint8
	D    uint8
	Pal  uint16
	PLen uint32
}

// HeaderFor returns the v3 header describing g.
func HeaderFor(g *VoxelGrid, bpp uint8) VOPLHeader {
	return VOPLHeader{Ver: voplVersion, BPP: bpp, W: uint8(g.W), H: uint8(g.H), D: uint8(g.D), Pal: PaletteVersion}
}

// Compatible reports whether two headers can share a pack.
func (h VOPLHeader) Compatible(o VOPLHeader) bool {
	return h.Ver == o.Ver && h.BPP == o.BPP && h.W == o.W && h.H == o.H && h.D == o.D && h.Pal == o.Pal
}

// ParseHeader splits a .vopl file into its header, encoding byte and payload.
func ParseHeader(data []byte) (VOPLHeader, uint8, []byte, error) {
	var hdr VOPLHeader
	if len(data) < headerSize || string(data[:4]) != voplMagic {
		return hdr, 0, nil, ErrNotVOPL
	}
	hdr.Ver = data[4]
	if hdr.Ver != voplVersion {
		return hdr, 0, nil, fmt.Errorf("vopl v%d: %w", hdr.Ver, ErrVersion)
	}
	enc := data[5]
	hdr.BPP = data[6]
	hdr.W, hdr.H, hdr.D = data[7], data[8], data[9]
	hdr.Pal = binary.LittleEndian.Uint16(data[10:12])
	hdr.PLen = binary.LittleEndian.Uint32(data[12:16])
	if uint64(len(data)-headerSize) != uint64(hdr.PLen) {
		return hdr, 0, nil, fmt.Errorf("payload is %d bytes, header says %d: %w", len(data)-headerSize, hdr.PLen, ErrPayload)
	}
	return hdr, enc, data[headerSize:], nil
}

// BuildFile assembles a full .vopl file from a header, encoding byte and payload.
func BuildFile(h VOPLHeader, enc uint8, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(headerSize + len(payload))
	buf.WriteString(voplMagic)
	buf.Write([]byte{h.Ver, enc, h.BPP, h.W, h.H, h.D})
	_ = binary.Write(&buf, binary.LittleEndian, h.Pal)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}
