package api

import (
	"bytes"
	"fmt"
	"math"
	"path"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelsplace/hypersponge/vopl"
)

// Document collects greedy meshes into one glTF scene. Colours come from the
// per-vertex COLOR_0 attribute over a single opaque material.
type Document struct {
	doc *gltf.Document
}

// NewDocument starts an empty scene.
func NewDocument(generator string) *Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = generator
	doc.Materials = []*gltf.Material{{Name: "palette", AlphaMode: gltf.AlphaOpaque}}
	return &Document{doc: doc}
}

// AddGrid meshes g and adds it as a named node, shifted by offset. Empty
// grids add nothing.
func (d *Document) AddGrid(name string, g *vopl.VoxelGrid, offset [3]float32) {
	mesh := vopl.GenerateMesh(g)
	if len(mesh.Vertices) == 0 {
		return
	}
	positions := make([][3]float32, len(mesh.Vertices))
	colors := make([][4]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		for a := range 3 {
			positions[i][a] = v.Position[a] + offset[a]
		}
		colors[i] = vopl.Linear(vopl.Palette[v.Color])
	}

	doc := d.doc
	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, positions),
			gltf.NORMAL:   modeler.WriteNormal(doc, flatNormals(positions, mesh.Indices)),
			gltf.COLOR_0:  modeler.WriteColor(doc, colors),
		},
		Indices:  gltf.Index(modeler.WriteIndices(doc, mesh.Indices)),
		Material: gltf.Index(0),
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
}

// Nodes is the number of meshes added so far.
func (d *Document) Nodes() int { return len(d.doc.Nodes) }

// GLB encodes the scene as binary glTF.
func (d *Document) GLB() ([]byte, error) {
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(d.doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Save writes the scene to a .glb file.
func (d *Document) Save(filename string) error {
	return gltf.SaveBinary(d.doc, filename)
}

// flatNormals gives every vertex the normal of the last face using it. The
// mesher never shares vertices between quads, so each one gets its own face.
func flatNormals(pos [][3]float32, idx []uint32) [][3]float32 {
	normals := make([][3]float32, len(pos))
	for i := 0; i+2 < len(idx); i += 3 {
		p0, p1, p2 := pos[idx[i]], pos[idx[i+1]], pos[idx[i+2]]
		a := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		b := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		n := [3]float32{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
		if l := float32(math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))); l > 0 {
			n[0], n[1], n[2] = n[0]/l, n[1]/l, n[2]/l
		}
		normals[idx[i]], normals[idx[i+1]], normals[idx[i+2]] = n, n, n
	}
	return normals
}

// TileOffset places item i of n on a square floor grid with a one-voxel gap
// between neighbours, so a whole sequence can be viewed side by side.
func TileOffset(i, n int, w, d int) [3]float32 {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	return [3]float32{float32((i % cols) * (w + 1)), 0, float32((i / cols) * (d + 1))}
}

// GridsToGLB lays grids out side by side in one scene.
func GridsToGLB(names []string, grids []*vopl.VoxelGrid) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("no grids")
	}
	doc := NewDocument("hypersponge voplpack -> glb")
	for i, g := range grids {
		doc.AddGrid(path.Base(names[i]), g, TileOffset(i, len(grids), g.W, g.D))
	}
	return doc.GLB()
}

// VOPLToGLB meshes a single .vopl file.
func VOPLToGLB(voplBytes []byte) ([]byte, error) {
	g, err := vopl.Decode(voplBytes)
	if err != nil {
		return nil, err
	}
	doc := NewDocument("hypersponge vopl -> glb")
	doc.AddGrid("grid", g, [3]float32{})
	return doc.GLB()
}

// VOPLPACKToGLB meshes every entry of a .voplpack.
func VOPLPACKToGLB(packBytes []byte) ([]byte, error) {
	names, grids, err := PackGrids(packBytes)
	if err != nil {
		return nil, err
	}
	return GridsToGLB(names, grids)
}
