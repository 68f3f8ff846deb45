//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/voxelsplace/hypersponge/api"
	"github.com/voxelsplace/hypersponge/sponge"
	"github.com/voxelsplace/hypersponge/vopl"
)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

func result(b []byte, err error) any {
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(b)
}

// rle2vopl(w, h, d, "count,colour,...")
func rle2vopl(this js.Value, args []js.Value) any {
	if len(args) < 4 {
		return js.ValueOf("usage: rle2vopl(w, h, d, rle)")
	}
	return result(api.RLEToVOPLBytes(args[0].Int(), args[1].Int(), args[2].Int(), args[3].String()))
}

func vopl2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing vopl bytes")
	}
	return result(api.VOPLToGLB(bytesFromJS(args[0])))
}

func voplpack2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing pack bytes")
	}
	return result(api.VOPLPACKToGLB(bytesFromJS(args[0])))
}

func packVopls(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing files object")
	}
	filesObj := args[0]
	files := map[string][]byte{}
	keys := js.Global().Get("Object").Call("keys", filesObj)
	for i := 0; i < keys.Length(); i++ {
		k := keys.Index(i).String()
		files[k] = bytesFromJS(filesObj.Get(k))
	}
	return result(api.PackVOPLs(files, vopl.LayoutCDC, vopl.PackCompZstd))
}

func unpackVoplpack(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing pack bytes")
	}
	files, err := api.UnpackVOPLPACKToMemory(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	// object mapping names -> Uint8Array
	out := js.Global().Get("Object").New()
	for name, b := range files {
		out.Set(name, bytesToJS(b))
	}
	return out
}

// spongeSlice(level, w, resolution) returns the rational cross-section at w
// as .vopl bytes.
func spongeSlice(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return js.ValueOf("usage: spongeSlice(level, w, resolution)")
	}
	n := args[2].Int()
	if err := api.CheckSliceSide(n); err != nil {
		return js.ValueOf(err.Error())
	}
	cs, err := sponge.SliceAt(args[1].Float(), n, args[0].Int())
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return result(api.SliceToVOPLBytes(cs))
}

// spongeMember(level, x, y, z, w) with coordinates as strings like "1/3".
func spongeMember(this js.Value, args []js.Value) any {
	if len(args) < 5 {
		return js.ValueOf("usage: spongeMember(level, x, y, z, w)")
	}
	var p [4]sponge.Coord
	for i := range p {
		c, err := sponge.ParseCoord(args[i+1].String())
		if err != nil {
			return js.ValueOf(err.Error())
		}
		p[i] = c
	}
	ok, err := sponge.IsMember(p[0], p[1], p[2], p[3], args[0].Int())
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return js.ValueOf(ok)
}

func main() {
	js.Global().Set("rle2vopl", js.FuncOf(rle2vopl))
	js.Global().Set("vopl2glb", js.FuncOf(vopl2glb))
	js.Global().Set("voplpack2glb", js.FuncOf(voplpack2glb))
	js.Global().Set("packVopls", js.FuncOf(packVopls))
	js.Global().Set("unpackVoplpack", js.FuncOf(unpackVoplpack))
	js.Global().Set("spongeSlice", js.FuncOf(spongeSlice))
	js.Global().Set("spongeMember", js.FuncOf(spongeMember))
	select {}
}
