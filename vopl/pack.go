package vopl

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// PackCompression is the codec applied to the pack content section.
type PackCompression uint8

const (
	PackCompNone PackCompression = 0
	PackCompZlib PackCompression = 1
	PackCompZstd PackCompression = 2
)

func (c PackCompression) String() string {
	switch c {
	case PackCompNone:
		return "none"
	case PackCompZlib:
		return "zlib"
	case PackCompZstd:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// ParseCompression maps "none", "zlib" or "zstd" to a codec.
func ParseCompression(s string) (PackCompression, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return PackCompNone, nil
	case "zlib":
		return PackCompZlib, nil
	case "zstd":
		return PackCompZstd, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrCompression)
}

// PackLayout selects how entries are laid out in the content section.
type PackLayout uint8

const (
	// LayoutRaw stores each payload as an independent blob.
	LayoutRaw PackLayout = 0
	// LayoutCDC stores a dictionary of content-defined chunks and each entry
	// as a list of chunk references, so identical slices cost almost nothing.
	LayoutCDC PackLayout = 1
)

func (l PackLayout) String() string {
	switch l {
	case LayoutRaw:
		return "raw"
	case LayoutCDC:
		return "cdc"
	}
	return fmt.Sprintf("layout(%d)", uint8(l))
}

// ParseLayout maps "raw" or "cdc" to a layout.
func ParseLayout(s string) (PackLayout, error) {
	switch strings.ToLower(s) {
	case "raw", "":
		return LayoutRaw, nil
	case "cdc":
		return LayoutCDC, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrLayout)
}

const (
	packMagic    = "VOPLPACK"
	packVersion1 = 1
	packVersion2 = 2

	cdcTarget = 4096
	cdcMin    = 2048
	cdcMax    = 16384
)

// PackEntry is one encoded grid inside a pack.
type PackEntry struct {
	Name    string
	Enc     uint8
	Payload []byte
}

// Pack is a set of grids sharing one header, typically the frames of a
// slice sequence.
type Pack struct {
	Header  VOPLHeader
	Entries []PackEntry
}

// AddFile appends a complete .vopl file. The first file fixes the common
// header; later files must match it.
func (p *Pack) AddFile(name string, data []byte) error {
	hdr, enc, payload, err := ParseHeader(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	hdr.PLen = 0
	if len(p.Entries) == 0 && p.Header.Ver == 0 {
		p.Header = hdr
	} else if !p.Header.Compatible(hdr) {
		return fmt.Errorf("%s: %w", name, ErrHeader)
	}
	p.Entries = append(p.Entries, PackEntry{Name: name, Enc: enc, Payload: payload})
	return nil
}

// AddGrid encodes g at the pack bit depth (DefaultBPP for an empty pack)
// and appends it.
func (p *Pack) AddGrid(name string, g *VoxelGrid) error {
	bpp := p.Header.BPP
	if bpp == 0 {
		bpp = DefaultBPP
	}
	data, err := EncodeWithBPP(g, bpp)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return p.AddFile(name, data)
}

// File rebuilds entry i as a standalone .vopl file.
func (p *Pack) File(i int) []byte {
	e := p.Entries[i]
	return BuildFile(p.Header, e.Enc, e.Payload)
}

// Grid decodes entry i.
func (p *Pack) Grid(i int) (*VoxelGrid, error) {
	e := p.Entries[i]
	g, err := DecodePayload(p.Header, e.Enc, e.Payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	return g, nil
}

// Marshal encodes with the raw layout.
func (p *Pack) Marshal(comp PackCompression) ([]byte, error) {
	return p.MarshalEx(LayoutRaw, comp)
}

// MarshalEx encodes the pack. Raw layout with no or zlib compression is
// written as version 1; everything else is version 2, which adds a layout
// byte after the common header.
func (p *Pack) MarshalEx(layout PackLayout, comp PackCompression) ([]byte, error) {
	if p.Header.Ver != voplVersion {
		return nil, fmt.Errorf("pack header v%d: %w", p.Header.Ver, ErrVersion)
	}
	version := uint8(packVersion2)
	if layout == LayoutRaw && (comp == PackCompNone || comp == PackCompZlib) {
		version = packVersion1
	}

	h := p.Header
	content := []byte{h.Ver, h.BPP, h.W, h.H, h.D}
	content = binary.LittleEndian.AppendUint16(content, h.Pal)
	if version >= packVersion2 {
		content = append(content, uint8(layout))
	}

	var err error
	switch layout {
	case LayoutRaw:
		content = binary.LittleEndian.AppendUint32(content, uint32(len(p.Entries)))
		for _, e := range p.Entries {
			if content, err = appendName(content, e.Name); err != nil {
				return nil, err
			}
			content = append(content, e.Enc)
			content = binary.LittleEndian.AppendUint32(content, uint32(len(e.Payload)))
			content = append(content, e.Payload...)
		}
	case LayoutCDC:
		for _, v := range []uint32{cdcTarget, cdcMin, cdcMax} {
			content = binary.LittleEndian.AppendUint32(content, v)
		}
		dict, seqs := buildCDCIndex(p.Entries, cdcTarget, cdcMin, cdcMax)
		content = binary.LittleEndian.AppendUint32(content, uint32(len(dict)))
		for _, blk := range dict {
			content = binary.LittleEndian.AppendUint32(content, uint32(len(blk)))
			content = append(content, blk...)
		}
		content = binary.LittleEndian.AppendUint32(content, uint32(len(p.Entries)))
		for i, e := range p.Entries {
			if content, err = appendName(content, e.Name); err != nil {
				return nil, err
			}
			content = append(content, e.Enc)
			content = binary.LittleEndian.AppendUint32(content, uint32(len(e.Payload)))
			content = binary.LittleEndian.AppendUint32(content, uint32(len(seqs[i])))
			for _, idx := range seqs[i] {
				content = binary.LittleEndian.AppendUint32(content, uint32(idx))
			}
		}
	default:
		return nil, fmt.Errorf("%v: %w", layout, ErrLayout)
	}

	switch comp {
	case PackCompNone:
	case PackCompZlib:
		content, err = zlibCompress(content)
	case PackCompZstd:
		content, err = zstdCompress(content)
	default:
		return nil, fmt.Errorf("%v: %w", comp, ErrCompression)
	}
	if err != nil {
		return nil, fmt.Errorf("compress pack (%v): %w", comp, err)
	}

	out := make([]byte, 0, len(packMagic)+2+len(content))
	out = append(out, packMagic...)
	out = append(out, version, uint8(comp))
	return append(out, content...), nil
}

func appendName(b []byte, name string) ([]byte, error) {
	if len(name) > 0xFFFF {
		return nil, fmt.Errorf("entry name of %d bytes is too long", len(name))
	}
	b = binary.LittleEndian.AppendUint16(b, uint16(len(name)))
	return append(b, name...), nil
}

// UnmarshalPack parses a .voplpack and reports the compression it used.
func UnmarshalPack(data []byte) (*Pack, PackCompression, error) {
	if len(data) < len(packMagic)+2 || string(data[:len(packMagic)]) != packMagic {
		return nil, 0, ErrNotPack
	}
	version := data[8]
	comp := PackCompression(data[9])
	content := data[10:]
	var err error
	switch comp {
	case PackCompNone:
	case PackCompZlib:
		content, err = zlibDecompress(content)
	case PackCompZstd:
		content, err = zstdDecompress(content)
	default:
		return nil, 0, fmt.Errorf("%v: %w", comp, ErrCompression)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("decompress pack (%v): %w", comp, err)
	}
	if version != packVersion1 && version != packVersion2 {
		return nil, 0, fmt.Errorf("voplpack v%d: %w", version, ErrVersion)
	}

	r := &byteReader{data: content}
	hdr := VOPLHeader{Ver: r.u8(), BPP: r.u8(), W: r.u8(), H: r.u8(), D: r.u8(), Pal: r.u16()}
	layout := LayoutRaw
	if version >= packVersion2 {
		layout = PackLayout(r.u8())
	}
	if r.err != nil {
		return nil, 0, fmt.Errorf("pack header: %w", ErrPayload)
	}

	pack := &Pack{Header: hdr}
	switch layout {
	case LayoutRaw:
		n := r.u32()
		for i := uint32(0); i < n && r.err == nil; i++ {
			name := r.name()
			enc := r.u8()
			payload := r.bytes(int(r.u32()))
			pack.Entries = append(pack.Entries, PackEntry{Name: name, Enc: enc, Payload: payload})
		}
	case LayoutCDC:
		_, _, maxSz := r.u32(), r.u32(), r.u32()
		nBlocks := r.u32()
		var blocks [][]byte
		for i := uint32(0); i < nBlocks && r.err == nil; i++ {
			blocks = append(blocks, r.bytes(int(r.u32())))
		}
		n := r.u32()
		for i := uint32(0); i < n && r.err == nil; i++ {
			name := r.name()
			enc := r.u8()
			rawLen := r.u32()
			seqLen := r.u32()
			var payload []byte
			for j := uint32(0); j < seqLen && r.err == nil; j++ {
				idx := r.u32()
				if idx >= uint32(len(blocks)) {
					return nil, 0, fmt.Errorf("%s: chunk %d of %d: %w", name, idx, len(blocks), ErrPayload)
				}
				payload = append(payload, blocks[idx]...)
				if uint64(len(payload)) > uint64(rawLen)+uint64(maxSz) {
					return nil, 0, fmt.Errorf("%s: chunk sequence overruns %d bytes: %w", name, rawLen, ErrPayload)
				}
			}
			if uint32(len(payload)) != rawLen && r.err == nil {
				return nil, 0, fmt.Errorf("%s: rebuilt %d bytes, want %d: %w", name, len(payload), rawLen, ErrPayload)
			}
			pack.Entries = append(pack.Entries, PackEntry{Name: name, Enc: enc, Payload: payload})
		}
	default:
		return nil, 0, fmt.Errorf("%v: %w", layout, ErrLayout)
	}
	if r.err != nil {
		return nil, 0, fmt.Errorf("pack content truncated: %w", ErrPayload)
	}
	return pack, comp, nil
}

// byteReader reads little-endian fields and latches the first short read.
type byteReader struct {
	data []byte
	pos  int
	err  error
}

func (r *byteReader) take(n int) []byte {
	if r.err != nil || n < 0 || r.pos+n > len(r.data) {
		r.err = ErrPayload
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *byteReader) u8() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *byteReader) u16() uint16 {
	if b := r.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *byteReader) u32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *byteReader) bytes(n int) []byte {
	return append([]byte(nil), r.take(n)...)
}

func (r *byteReader) name() string { return string(r.take(int(r.u16()))) }
