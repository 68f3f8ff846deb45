package vopl

import "errors"

var (
	ErrNotVOPL     = errors.New("not a VOPL file")
	ErrVersion     = errors.New("unsupported version")
	ErrDims        = errors.New("grid extents must be within 1..255")
	ErrPayload     = errors.New("corrupt payload")
	ErrEncoding    = errors.New("unknown encoding")
	ErrNotPack     = errors.New("not a VOPLPACK file")
	ErrCompression = errors.New("unsupported compression")
	ErrLayout      = errors.New("unsupported pack layout")
	ErrHeader      = errors.New("inconsistent headers")
	ErrRLE         = errors.New("malformed RLE")
	ErrColor       = errors.New("colour does not fit the bit depth")
)
