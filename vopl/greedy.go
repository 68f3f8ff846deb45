package vopl

// Vertex is a mesh corner carrying the palette index of its face.
type Vertex struct {
	Position [3]float32
	Color    uint8
}

// Mesh is an indexed triangle list, two triangles per quad.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Quads returns the number of quads in the mesh.
func (m *Mesh) Quads() int { return len(m.Indices) / 6 }

// face describes one of the six axis-aligned face directions: the axis the
// face is perpendicular to, the sign of its normal and the two in-plane axes.
type face struct {
	perp, u, v int
	positive   bool
}

var faces = [6]face{
	{0, 1, 2, true}, {0, 1, 2, false},
	{1, 0, 2, true}, {1, 0, 2, false},
	{2, 0, 1, true}, {2, 0, 1, false},
}

// GenerateMesh merges the visible faces of g into maximal same-colour
// rectangles, one plane at a time.
func GenerateMesh(g *VoxelGrid) *Mesh {
	mesh := &Mesh{}
	dims := [3]int{g.W, g.H, g.D}
	at := func(p [3]int) uint8 { return g.Get(p[0], p[1], p[2]) }

	for _, f := range faces {
		nu, nv := dims[f.u], dims[f.v]
		mask := make([]uint8, nu*nv)
		for p := 0; p < dims[f.perp]; p++ {
			clear(mask)
			for u := 0; u < nu; u++ {
				for v := 0; v < nv; v++ {
					var pos [3]int
					pos[f.perp], pos[f.u], pos[f.v] = p, u, v
					c := at(pos)
					if c == 0 {
						continue
					}
					if f.positive {
						pos[f.perp]++
					} else {
						pos[f.perp]--
					}
					// Get is 0 outside the grid, so border faces are visible
					if at(pos) == 0 {
						mask[u*nv+v] = c
					}
				}
			}
			mergePlane(mesh, f, p, mask, nu, nv)
		}
	}
	return mesh
}

// mergePlane grows rectangles along v first, then along u, consuming mask.
func mergePlane(mesh *Mesh, f face, p int, mask []uint8, nu, nv int) {
	for u := 0; u < nu; u++ {
		for v := 0; v < nv; {
			c := mask[u*nv+v]
			if c == 0 {
				v++
				continue
			}
			w := 1
			for v+w < nv && mask[u*nv+v+w] == c {
				w++
			}
			h := 1
		grow:
			for u+h < nu {
				for k := v; k < v+w; k++ {
					if mask[(u+h)*nv+k] != c {
						break grow
					}
				}
				h++
			}
			for hu := u; hu < u+h; hu++ {
				clear(mask[hu*nv+v : hu*nv+v+w])
			}
			addQuad(mesh, f, p, u, v, h, w, c)
			v += w
		}
	}
}

// addQuad emits the quad covering [u,u+h) x [v,v+w) on plane p, wound
// counter-clockwise when seen from outside.
func addQuad(mesh *Mesh, f face, p, u, v, h, w int, c uint8) {
	var base [3]float32
	base[f.perp] = float32(p)
	if f.positive {
		base[f.perp]++
	}
	corner := func(du, dv int) Vertex {
		pos := base
		pos[f.u] = float32(u + du)
		pos[f.v] = float32(v + dv)
		return Vertex{Position: pos, Color: c}
	}
	quad := [4]Vertex{corner(0, 0), corner(h, 0), corner(h, w), corner(0, w)}

	// (u,v,perp) is right-handed for perp x and z, left-handed for y
	if f.positive == (f.perp == 1) {
		quad[1], quad[3] = quad[3], quad[1]
	}
	base0 := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, quad[:]...)
	mesh.Indices = append(mesh.Indices, base0, base0+1, base0+2, base0, base0+2, base0+3)
}
