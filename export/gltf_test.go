package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/export"
	"github.com/mogaika/freescape/pack/loader"
	"github.com/mogaika/freescape/pack/loader/loadertest"
	"github.com/mogaika/freescape/utils/gltfutils"
	"github.com/mogaika/freescape/world"
)

func TestExportDriller(t *testing.T) {
	rel, err := config.GetRelease("driller-dos-ega")
	if err != nil {
		t.Fatal(err)
	}
	exe := loadertest.Executable(*rel, loadertest.DrillerWorld().Encode(rel.Platform), loadertest.DrillerMessages())
	w, err := loader.LoadRelease(bytes.NewReader(exe), *rel)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := export.ExportWorld(w)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Scenes[0].Nodes) != 2 {
		t.Errorf("Exported %d areas, want 2 (library area has only hidden objects)", len(doc.Scenes[0].Nodes))
	}
	// cube and triangle of the first area, cube of the second
	if len(doc.Meshes) != 3 {
		t.Errorf("Exported %d meshes", len(doc.Meshes))
	}
	first := doc.Nodes[doc.Scenes[0].Nodes[0]]
	if !strings.HasPrefix(first.Name, "area_1") || len(first.Children) != 2 {
		t.Errorf("First area node %q with %d children", first.Name, len(first.Children))
	}

	var buf bytes.Buffer
	if err := export.WriteWorld(&buf, w); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
		t.Errorf("Output is not a binary glTF: % x", buf.Bytes()[:4])
	}
}

func TestExportAreaFaces(t *testing.T) {
	a := world.NewArea(3)
	objs := []world.Object{
		world.NewGeometricObject(1, world.TYPE_CUBE, 0, mgl32.Vec3{}, mgl32.Vec3{32, 32, 32}, []uint8{1, 0, 2, 0, 3, 0}, nil),
		world.NewGeometricObject(2, world.TYPE_UP_PYRAMID, 0, mgl32.Vec3{64, 0, 0}, mgl32.Vec3{32, 32, 32}, []uint8{1, 1, 1, 1, 1, 1}, []float32{8, 8, 24, 24}),
		world.NewGeometricObject(3, world.TYPE_RECTANGLE, 0, mgl32.Vec3{}, mgl32.Vec3{0, 32, 32}, []uint8{0, 0}, nil),
	}
	for _, obj := range objs {
		if err := a.AddObject(obj); err != nil {
			t.Fatal(err)
		}
	}

	doc := gltfutils.NewDocument()
	node, err := export.ExportArea(doc, a)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(doc.Nodes[node].Children); n != 2 {
		t.Errorf("%d children, want cube and pyramid only", n)
	}
	// three coloured cube faces, six pyramid faces
	for i, want := range []uint32{3 * 6, 6 * 6} {
		acc := doc.Accessors[*doc.Meshes[i].Primitives[0].Indices]
		if acc.Count != want {
			t.Errorf("Mesh %d: %d indices, want %d", i, acc.Count, want)
		}
	}

	empty := world.NewArea(4)
	if _, err := export.ExportArea(doc, empty); err == nil {
		t.Errorf("Expected error for empty area")
	}
}
