// Package export converts loaded areas into glTF scenes.
package export

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/utils/gltfutils"
	"github.com/mogaika/freescape/world"
)

// EGA palette used for face colours. Index 0 is transparent.
var Palette = [16][4]uint8{
	{0x00, 0x00, 0x00, 0x00}, {0x00, 0x00, 0xaa, 0xff}, {0x00, 0xaa, 0x00, 0xff}, {0x00, 0xaa, 0xaa, 0xff},
	{0xaa, 0x00, 0x00, 0xff}, {0xaa, 0x00, 0xaa, 0xff}, {0xaa, 0x55, 0x00, 0xff}, {0xaa, 0xaa, 0xaa, 0xff},
	{0x55, 0x55, 0x55, 0xff}, {0x55, 0x55, 0xff, 0xff}, {0x55, 0xff, 0x55, 0xff}, {0x55, 0xff, 0xff, 0xff},
	{0xff, 0x55, 0x55, 0xff}, {0xff, 0x55, 0xff, 0xff}, {0xff, 0xff, 0x55, 0xff}, {0xff, 0xff, 0xff, 0xff},
}

type geometry struct {
	positions [][3]float32
	colors    [][4]uint8
	indices   []uint32
}

func (g *geometry) empty() bool { return len(g.indices) == 0 }

// quad adds two triangles for corners given in winding order.
func (g *geometry) quad(colour uint8, corners ...mgl32.Vec3) {
	if colour == 0 || int(colour) >= len(Palette) {
		return
	}
	g.polygon(Palette[colour], corners)
}

func (g *geometry) polygon(colour [4]uint8, corners []mgl32.Vec3) {
	first := uint32(len(g.positions))
	for _, c := range corners {
		g.positions = append(g.positions, c)
		g.colors = append(g.colors, colour)
	}
	for i := 1; i+1 < len(corners); i++ {
		g.indices = append(g.indices, first, first+uint32(i), first+uint32(i)+1)
	}
}

// box adds the six faces of a frustum whose bottom and top rectangles are
// given as corner lists. Colours are in -X +X -Y +Y -Z +Z order.
func (g *geometry) box(colours []uint8, b, t [4]mgl32.Vec3) {
	colour := func(i int) uint8 {
		if i < len(colours) {
			return colours[i]
		}
		return 0
	}
	g.quad(colour(0), b[0], b[3], t[3], t[0])
	g.quad(colour(1), b[1], t[1], t[2], b[2])
	g.quad(colour(2), b[0], b[1], b[2], b[3])
	g.quad(colour(3), t[0], t[3], t[2], t[1])
	g.quad(colour(4), b[0], t[0], t[1], b[1])
	g.quad(colour(5), b[3], b[2], t[2], t[3])
}

func rect(x0, x1, z0, z1, y float32) [4]mgl32.Vec3 {
	return [4]mgl32.Vec3{{x0, y, z0}, {x1, y, z0}, {x1, y, z1}, {x0, y, z1}}
}

// pyramid builds the frustum in a frame where the pyramid points up along Y,
// then maps it onto the real axis.
func (g *geometry) pyramid(o *world.GeometricObject) {
	origin, size := o.Origin(), o.Size()
	ords := o.Ordinates
	if len(ords) < 4 {
		return
	}

	// axis permutation: local (u, h, v) to world components
	var u, h, v int
	flip := false
	switch o.Type() {
	case world.TYPE_EAST_PYRAMID, world.TYPE_WEST_PYRAMID:
		u, h, v = 1, 0, 2
		flip = o.Type() == world.TYPE_WEST_PYRAMID
	case world.TYPE_NORTH_PYRAMID, world.TYPE_SOUTH_PYRAMID:
		u, h, v = 0, 2, 1
		flip = o.Type() == world.TYPE_SOUTH_PYRAMID
	default:
		u, h, v = 0, 1, 2
		flip = o.Type() == world.TYPE_DOWN_PYRAMID
	}

	toWorld := func(p mgl32.Vec3) mgl32.Vec3 {
		var w mgl32.Vec3
		w[u], w[h], w[v] = p[0], p[1], p[2]
		return origin.Add(w)
	}
	base := rect(0, size[u], 0, size[v], 0)
	apex := rect(ords[0], ords[2], ords[1], ords[3], size[h])
	if flip {
		base, apex = rect(ords[0], ords[2], ords[1], ords[3], 0), rect(0, size[u], 0, size[v], size[h])
	}
	var b, t [4]mgl32.Vec3
	for i := range base {
		b[i], t[i] = toWorld(base[i]), toWorld(apex[i])
	}
	g.box(o.Colours, b, t)
}

func objectGeometry(o *world.GeometricObject) *geometry {
	g := &geometry{}
	origin, size := o.Origin(), o.Size()
	colour := func(i int) uint8 {
		if i < len(o.Colours) {
			return o.Colours[i]
		}
		return 0
	}

	switch t := o.Type(); {
	case t == world.TYPE_CUBE:
		end := origin.Add(size)
		g.box(o.Colours, rect(origin[0], end[0], origin[2], end[2], origin[1]),
			rect(origin[0], end[0], origin[2], end[2], end[1]))
	case t == world.TYPE_RECTANGLE:
		end := origin.Add(size)
		var corners []mgl32.Vec3
		switch {
		case size[0] == 0:
			corners = []mgl32.Vec3{{origin[0], origin[1], origin[2]}, {origin[0], end[1], origin[2]}, {origin[0], end[1], end[2]}, {origin[0], origin[1], end[2]}}
		case size[1] == 0:
			corners = []mgl32.Vec3{{origin[0], origin[1], origin[2]}, {end[0], origin[1], origin[2]}, {end[0], origin[1], end[2]}, {origin[0], origin[1], end[2]}}
		default:
			corners = []mgl32.Vec3{{origin[0], origin[1], origin[2]}, {end[0], origin[1], origin[2]}, {end[0], end[1], origin[2]}, {origin[0], end[1], origin[2]}}
		}
		g.quad(colour(0), corners...)
		g.quad(colour(1), corners[3], corners[2], corners[1], corners[0])
	case t.IsPyramid():
		g.pyramid(o)
	case t == world.TYPE_LINE:
		// lines have no area, exported as a degenerate triangle
		vs := o.Vertices()
		if len(vs) == 2 {
			g.quad(colour(0), vs[0], vs[1], vs[1])
		}
	case t.IsPolygon():
		vs := o.Vertices()
		g.quad(colour(0), vs...)
		reversed := make([]mgl32.Vec3, len(vs))
		for i := range vs {
			reversed[len(vs)-1-i] = vs[i]
		}
		g.quad(colour(1), reversed...)
	}
	return g
}

func (g *geometry) write(doc *gltf.Document, name string) uint32 {
	return gltfutils.AddMesh(doc, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, g.indices)),
			Attributes: map[string]uint32{
				"POSITION": modeler.WritePosition(doc, g.positions),
				"COLOR_0":  modeler.WriteColor(doc, g.colors),
			},
		}},
	})
}

// ExportArea adds a node for the area with one child per visible drawable object.
func ExportArea(doc *gltf.Document, a *world.Area) (uint32, error) {
	log := utils.Channel(utils.ChannelParser)
	node := &gltf.Node{Name: fmt.Sprintf("area_%d", a.ID)}
	if a.Name != "" {
		node.Name += "_" + a.Name
	}
	if a.Scale != 0 {
		s := 1 / float32(a.Scale)
		node.Scale = [3]float32{s, s, s}
	}

	for _, obj := range a.DrawableObjects() {
		geom, ok := obj.(*world.GeometricObject)
		if !ok || !obj.Flags().Active() {
			continue
		}
		g := objectGeometry(geom)
		if g.empty() {
			log.Debugf("Area %d object %d (%v) has no visible faces", a.ID, obj.ID(), obj.Type())
			continue
		}
		name := fmt.Sprintf("o%d_%s", obj.ID(), obj.Type())
		child := gltfutils.AddNode(doc, &gltf.Node{Name: name, Mesh: gltf.Index(g.write(doc, name))})
		node.Children = append(node.Children, child)
	}
	if len(node.Children) == 0 {
		return 0, errors.Errorf("Area %d has nothing to export", a.ID)
	}
	return gltfutils.AddRootNode(doc, node), nil
}

// ExportWorld exports every area that has geometry, in file order.
func ExportWorld(w *world.World) (*gltf.Document, error) {
	doc := gltfutils.NewDocument()
	exported := 0
	for _, id := range w.AreaIDs() {
		if _, err := ExportArea(doc, w.Area(id)); err != nil {
			utils.Log.Warnf("Skipping area %d: %v", id, err)
			continue
		}
		exported++
	}
	if exported == 0 {
		return nil, errors.Errorf("World %s has no geometry", w.Release.Name)
	}
	return doc, nil
}

func WriteWorld(out io.Writer, w *world.World) error {
	doc, err := ExportWorld(w)
	if err != nil {
		return err
	}
	return errors.Wrapf(gltfutils.ExportBinary(out, doc), "Failed to encode glTF")
}
