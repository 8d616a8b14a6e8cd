package world_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/world"
)

func cube(id uint16, x, y, z, size float32) *world.GeometricObject {
	return world.NewGeometricObject(id, world.TYPE_CUBE, 0,
		mgl32.Vec3{x, y, z}, mgl32.Vec3{size, size, size}, make([]uint8, 6), nil)
}

func TestFlags(t *testing.T) {
	var f world.Flags
	f.MakeInvisible()
	if !f.IsInvisible() || f != world.FLAG_INVISIBLE {
		t.Errorf("MakeInvisible: %02x", f)
	}
	f.ToggleVisibility()
	if f.IsInvisible() {
		t.Errorf("ToggleVisibility: %02x", f)
	}
	f.Destroy()
	if !f.IsDestroyed() || f.Active() {
		t.Errorf("Destroy: %02x", f)
	}
	f.Restore()
	if f != 0 {
		t.Errorf("Restore: %02x", f)
	}
}

func TestObjectTypeCounts(t *testing.T) {
	for _, test := range []struct {
		typ       world.ObjectType
		colours   int
		ordinates int
	}{
		{world.TYPE_ENTRANCE, 0, 0},
		{world.TYPE_CUBE, 6, 0},
		{world.TYPE_SENSOR, 0, 0},
		{world.TYPE_RECTANGLE, 2, 0},
		{world.TYPE_UP_PYRAMID, 6, 4},
		{world.TYPE_LINE, 2, 6},
		{world.TYPE_TRIANGLE, 2, 9},
		{world.TYPE_QUADRILATERAL, 2, 12},
		{world.TYPE_PENTAGON, 2, 15},
		{world.TYPE_HEXAGON, 2, 18},
		{world.TYPE_GROUP, 0, 0},
	} {
		if c := test.typ.NumberOfColours(); c != test.colours {
			t.Errorf("%v colours = %d, want %d", test.typ, c, test.colours)
		}
		if o := test.typ.NumberOfOrdinates(); o != test.ordinates {
			t.Errorf("%v ordinates = %d, want %d", test.typ, o, test.ordinates)
		}
	}
}

func TestAreaObjects(t *testing.T) {
	a := world.NewArea(1)
	for _, id := range []uint16{5, 2, 9} {
		if err := a.AddObject(cube(id, 0, 0, 0, 32)); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.AddObject(world.NewEntrance(1, 0, mgl32.Vec3{}, mgl32.Vec3{})); err != nil {
		t.Fatal(err)
	}

	err := a.AddObject(cube(2, 0, 0, 0, 32))
	if errors.Cause(err) != world.ErrDuplicateObject {
		t.Errorf("Duplicate id must fail, got %v", err)
	}

	ids := a.ObjectIDs()
	if len(ids) != 3 || ids[0] != 5 || ids[1] != 2 || ids[2] != 9 {
		t.Errorf("Declaration order lost: %v", ids)
	}
	if a.EntranceWithID(1) == nil || a.ObjectWithID(1) != nil {
		t.Errorf("Entrance must live in the entrance table only")
	}

	a.RemoveObject(2)
	if a.ObjectWithID(2) != nil || len(a.DrawableObjects()) != 2 {
		t.Errorf("RemoveObject failed: %v", a.ObjectIDs())
	}
}

func TestAddObjectFromArea(t *testing.T) {
	global := world.NewArea(world.GLOBAL_AREA_ID)
	src := cube(40, 100, 0, 100, 64)
	src.Flags().MakeInvisible()
	if err := global.AddObject(src); err != nil {
		t.Fatal(err)
	}

	a := world.NewArea(3)
	obj, err := a.AddObjectFromArea(40, global)
	if err != nil {
		t.Fatal(err)
	}
	obj.Flags().MakeVisible()
	if !src.Flags().IsInvisible() {
		t.Errorf("Copy must not share flags with the library object")
	}
	if _, err := a.AddObjectFromArea(41, global); errors.Cause(err) != world.ErrNoSuchObject {
		t.Errorf("Missing library object: %v", err)
	}
}

func TestAreaCheckCollisions(t *testing.T) {
	a := world.NewArea(1)
	hidden := cube(2, 0, 0, 0, 100)
	hidden.Flags().MakeInvisible()
	gone := cube(3, 0, 0, 0, 100)
	gone.Flags().Destroy()
	for _, obj := range []world.Object{
		cube(1, 0, 0, 0, 100),
		hidden,
		gone,
		cube(4, 500, 0, 0, 100),
		world.NewSensor(5, 0, mgl32.Vec3{50, 50, 50}, 1, 10, 100, 0),
	} {
		if err := a.AddObject(obj); err != nil {
			t.Fatal(err)
		}
	}

	hits := a.CheckCollisions(utils.NewAABB(mgl32.Vec3{50, 50, 50}, mgl32.Vec3{60, 60, 60}))
	if len(hits) != 1 || hits[0].ID() != 1 {
		t.Errorf("Unexpected hits %s", utils.SDump(hits))
	}
}

func TestPolygonBoundingBox(t *testing.T) {
	tri := world.NewGeometricObject(7, world.TYPE_TRIANGLE, 0, mgl32.Vec3{}, mgl32.Vec3{},
		[]uint8{1, 2}, []float32{0, 0, 0, 64, 32, 0, 0, 96, 0})
	box := tri.BoundingBox()
	if box.Min != (mgl32.Vec3{0, 0, 0}) || box.Max != (mgl32.Vec3{64, 96, 0}) {
		t.Errorf("Box %v", box)
	}
	tri.Translate(mgl32.Vec3{32, 0, 0})
	if tri.BoundingBox().Min[0] != 32 {
		t.Errorf("Translate must move ordinates")
	}
}

func TestGroupAnimation(t *testing.T) {
	a := world.NewArea(1)
	m1 := cube(10, 0, 0, 0, 32)
	m2 := cube(11, 64, 0, 0, 32)
	ops, rest := world.ParseGroupOps([]byte{
		world.GROUP_OP_MOVE, 1, 0, 0,
		world.GROUP_OP_MOVE, 2, 0, 0,
		7,
	})
	if len(ops) != 2 || len(rest) != 1 {
		t.Fatalf("ParseGroupOps: %v %v", ops, rest)
	}
	g := world.NewGroup(20, 0, mgl32.Vec3{}, []uint16{10, 11}, ops)
	for _, obj := range []world.Object{m1, m2, g} {
		if err := a.AddObject(obj); err != nil {
			t.Fatal(err)
		}
	}
	a.Snapshot()

	if err := a.AnimateGroup(20); err != nil {
		t.Fatal(err)
	}
	if err := a.AnimateGroup(20); err != nil {
		t.Fatal(err)
	}
	if m1.Origin()[0] != 64 || m2.Origin()[0] != 128 {
		t.Errorf("After two steps: %v %v", m1.Origin(), m2.Origin())
	}

	m1.Flags().Destroy()
	a.ResetToSnapshot()
	if m1.Origin()[0] != 0 || m2.Origin()[0] != 64 || m1.Flags().IsDestroyed() || g.Cursor() != 0 {
		t.Errorf("Reset failed: %v %v %02x", m1.Origin(), m2.Origin(), *m1.Flags())
	}
}

func TestSensorShouldFire(t *testing.T) {
	s := world.NewSensor(1, 0, mgl32.Vec3{}, 3, 5, 200, 0)
	var fired []uint64
	for tick := uint64(0); tick <= 20; tick++ {
		if s.ShouldFire(tick) {
			fired = append(fired, tick)
		}
	}
	if len(fired) != 4 || fired[0] != 5 || fired[3] != 20 {
		t.Errorf("Fired at %v", fired)
	}
	if !s.InRange(mgl32.Vec3{100, 0, 100}) || s.InRange(mgl32.Vec3{300, 0, 0}) {
		t.Errorf("InRange")
	}
	s.Flags().Destroy()
	if s.ShouldFire(100) {
		t.Errorf("Destroyed sensor must not fire")
	}
}

func TestWorldAreas(t *testing.T) {
	w := world.NewWorld(config.Release{Name: "test"})
	for _, id := range []uint16{3, 1, world.GLOBAL_AREA_ID} {
		if err := w.AddArea(world.NewArea(id)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.AddArea(world.NewArea(1)); errors.Cause(err) != world.ErrDuplicateArea {
		t.Errorf("Duplicate area: %v", err)
	}
	if ids := w.AreaIDs(); ids[0] != 3 || ids[1] != 1 {
		t.Errorf("File order lost: %v", ids)
	}
	if w.GlobalArea() == nil {
		t.Errorf("Missing global area")
	}
}
