package engine_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/engine"
	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/world"
)

func cube(id uint16, origin, size mgl32.Vec3) *world.GeometricObject {
	return world.NewGeometricObject(id, world.TYPE_CUBE, 0, origin, size, make([]uint8, 6), nil)
}

func assemble(t *testing.T, src string) fcl.Instructions {
	t.Helper()
	program, err := fcl.Assemble(src)
	if err != nil {
		t.Fatalf("Failed to assemble %q: %v", src, err)
	}
	return program
}

func withCondition(t *testing.T, obj *world.GeometricObject, src string) *world.GeometricObject {
	t.Helper()
	obj.SetCondition(assemble(t, src), src)
	return obj
}

func newArea(t *testing.T, id uint16, entrance mgl32.Vec3, objs ...world.Object) *world.Area {
	t.Helper()
	a := world.NewArea(id)
	a.Scale = 1
	if err := a.AddObject(world.NewEntrance(1, 0, entrance, mgl32.Vec3{})); err != nil {
		t.Fatal(err)
	}
	for _, obj := range objs {
		if err := a.AddObject(obj); err != nil {
			t.Fatal(err)
		}
	}
	return a
}

func newWorld(t *testing.T, areas ...*world.Area) *world.World {
	t.Helper()
	w := world.NewWorld(config.Release{Name: "test"})
	for _, a := range areas {
		if err := w.AddArea(a); err != nil {
			t.Fatal(err)
		}
	}
	w.StartArea = areas[0].ID
	w.StartEntrance = 1
	w.InitialEnergy = 20
	w.InitialShield = 30
	w.Snapshot()
	return w
}

func newGame(t *testing.T, w *world.World, modify ...func(*engine.Options)) (*engine.Game, *engine.RecordingCollaborators) {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.StrictLogic = true
	for _, m := range modify {
		m(&opts)
	}
	rec := &engine.RecordingCollaborators{}
	g, err := engine.NewGame(w, rec, opts)
	if err != nil {
		t.Fatal(err)
	}
	rec.Reset()
	return g, rec
}

func expectPanic(t *testing.T, f func()) (v interface{}) {
	t.Helper()
	defer func() {
		if v = recover(); v == nil {
			t.Errorf("Expected panic")
		}
	}()
	f()
	return nil
}

func sounds(rec *engine.RecordingCollaborators) []int {
	var ids []int
	for _, e := range rec.Events {
		if e.Kind == engine.EVENT_SOUND {
			ids = append(ids, e.Args[0])
		}
	}
	return ids
}

func dumpState(g *engine.Game) string {
	return utils.SDump(g.State)
}
