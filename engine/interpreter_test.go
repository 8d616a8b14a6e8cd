package engine_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/freescape/engine"
	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/world"
)

var origin = mgl32.Vec3{100, 0, 100}

func TestExecuteCodeGuards(t *testing.T) {
	g, _ := newGame(t, newWorld(t, newArea(t, 1, origin)))
	p := assemble(t, `
IF SHOT? THEN
	INCVAR (v1)
ENDIF
IF COLLIDED? THEN
	INCVAR (v2)
ENDIF
`)

	if g.ExecuteCode(p, false, false) {
		t.Errorf("Program without matching guard reported execution")
	}
	if !g.ExecuteCode(p, true, false) {
		t.Errorf("Shot program not executed")
	}
	if !g.ExecuteCode(p, false, true) {
		t.Errorf("Collided program not executed")
	}
	if g.State.Var(1) != 1 || g.State.Var(2) != 1 {
		t.Errorf("Guards ran wrong blocks: %s", dumpState(g))
	}

	expectPanic(t, func() { g.ExecuteCode(p, true, true) })
}

func TestExecuteCodeEndGuards(t *testing.T) {
	hidden := cube(5, mgl32.Vec3{200, 0, 200}, mgl32.Vec3{4, 4, 4})
	hidden.Flags().MakeInvisible()
	g, _ := newGame(t, newWorld(t, newArea(t, 1, origin, hidden)))

	for _, test := range []struct {
		src  string
		vars map[int]int32
	}{
		{`IF SHOT? THEN
	INCVAR (v1)
	VAR!=? (v1, 5)
	INCVAR (v2)
ENDIF
IF SHOT? THEN
	INCVAR (v3)
ENDIF`, map[int]int32{1: 1, 2: 0, 3: 1}},
		{`IF SHOT? THEN
	SETVAR (v1, 5)
	VAR!=? (v1, 5)
	INCVAR (v2)
ENDIF`, map[int]int32{1: 5, 2: 1}},
		{`IF SHOT? THEN
	SETBIT (3)
	BIT!=? (3, 1)
	INCVAR (v1)
	BIT!=? (4, 1)
	INCVAR (v2)
ENDIF`, map[int]int32{1: 1, 2: 0}},
		{`IF SHOT? THEN
	VIS? (5)
	INCVAR (v1)
ENDIF
IF SHOT? THEN
	INVIS? (5)
	INCVAR (v2)
ENDIF`, map[int]int32{1: 0, 2: 1}},
		{`IF SHOT? THEN
	RINVIS? (1, 5)
	INCVAR (v1)
ENDIF`, map[int]int32{1: 1}},
	} {
		if err := g.Reset(); err != nil {
			t.Fatal(err)
		}
		g.ExecuteCode(assemble(t, test.src), true, false)
		for v, want := range test.vars {
			if got := g.State.Var(v); got != want {
				t.Errorf("%s\nv%d = %d, want %d", test.src, v, got, want)
			}
		}
	}
	g.ExecuteCode(assemble(t, "IF SHOT? THEN\nSETBIT (3)\nENDIF\n"), true, false)
	if !g.State.Bit(1, 2) {
		t.Errorf("SETBIT (3) did not set bit index 2 of area 1")
	}
}

func TestExecuteCodeVariables(t *testing.T) {
	g, _ := newGame(t, newWorld(t, newArea(t, 1, origin)))
	g.ExecuteCode(assemble(t, `
IF SHOT? THEN
	ADDVAR (100, v62)
	ADDVAR (-100, v63)
	ADDVAR (1000, v61)
	DECVAR (v7)
ENDIF
`), true, false)

	for v, want := range map[int]int32{
		fcl.VAR_ENERGY: fcl.MAX_ENERGY,
		fcl.VAR_SHIELD: 0,
		fcl.VAR_SCORE:  1000,
		7:              -1,
	} {
		if got := g.State.Var(v); got != want {
			t.Errorf("v%d = %d, want %d", v, got, want)
		}
	}
}

func TestVisibilityPullsFromLibrary(t *testing.T) {
	library := cube(40, mgl32.Vec3{10, 0, 10}, mgl32.Vec3{2, 2, 2})
	library.Flags().MakeInvisible()
	area := newArea(t, 1, origin)
	g, _ := newGame(t, newWorld(t, area, newArea(t, world.GLOBAL_AREA_ID, origin, library)))

	g.ExecuteCode(assemble(t, "IF SHOT? THEN\nINVIS? (40)\nINCVAR (v1)\nENDIF\n"), true, false)
	if g.State.Var(1) != 1 {
		t.Errorf("INVIS? did not see the invisible library object")
	}
	if area.HasObject(40) {
		t.Errorf("INVIS? copied the library object into the area")
	}

	g.ExecuteCode(assemble(t, "IF SHOT? THEN\nVIS (40)\nENDIF\n"), true, false)
	obj := area.ObjectWithID(40)
	if obj == nil {
		t.Fatalf("VIS did not copy the library object")
	}
	if obj.Flags().IsInvisible() {
		t.Errorf("Copied object still invisible")
	}
	if !library.Flags().IsInvisible() {
		t.Errorf("Library object modified")
	}

	if err := g.Reset(); err != nil {
		t.Fatal(err)
	}
	if area.HasObject(40) {
		t.Errorf("Reset kept the copied object")
	}
}

func TestLogicErrors(t *testing.T) {
	w := newWorld(t, newArea(t, 1, origin))
	bad := []string{
		"IF SHOT? THEN\nVIS (99)\nENDIF\n",
		"IF SHOT? THEN\nDESTROY (7, 1)\nENDIF\n",
		"IF SHOT? THEN\nGOTO (9, 1)\nENDIF\n",
		"IF SHOT? THEN\nPRINT (3)\nENDIF\n",
		"IF SHOT? THEN\nSETBIT (40)\nENDIF\n",
	}

	strict, _ := newGame(t, w)
	for _, src := range bad {
		v := expectPanic(t, func() { strict.ExecuteCode(assemble(t, src), true, false) })
		if _, ok := v.(*engine.LogicError); !ok && v != nil {
			t.Errorf("%q panicked with %v", src, v)
		}
	}

	lenient, _ := newGame(t, w, func(o *engine.Options) { o.StrictLogic = false })
	for _, src := range bad {
		if !lenient.ExecuteCode(assemble(t, src+"IF SHOT? THEN\nINCVAR (v1)\nENDIF\n"), true, false) {
			t.Errorf("%q not executed", src)
		}
	}
	if lenient.State.Var(1) != int32(len(bad)) {
		t.Errorf("Logic errors stopped the run: v1 = %d", lenient.State.Var(1))
	}
	if lenient.CurrentArea().ID != 1 {
		t.Errorf("Failed GOTO changed area to %d", lenient.CurrentArea().ID)
	}
}

func TestGotoKeepsRunArea(t *testing.T) {
	for _, stale := range []bool{true, false} {
		first := cube(5, mgl32.Vec3{200, 0, 200}, mgl32.Vec3{4, 4, 4})
		second := cube(5, mgl32.Vec3{200, 0, 200}, mgl32.Vec3{4, 4, 4})
		w := newWorld(t, newArea(t, 1, origin, first), newArea(t, 2, mgl32.Vec3{50, 0, 50}, second))
		g, rec := newGame(t, w, func(o *engine.Options) { o.StaleAreaAfterGoto = stale })

		g.ExecuteCode(assemble(t, "IF SHOT? THEN\nGOTO (2, 1)\nINVIS (5)\nSETBIT (3)\nENDIF\n"), true, false)

		if g.CurrentArea().ID != 2 {
			t.Fatalf("GOTO did not change area")
		}
		if want := (mgl32.Vec3{50, 48, 50}); g.Player.Position != want {
			t.Errorf("Player at %v, want %v", g.Player.Position, want)
		}
		if first.Flags().IsInvisible() != stale || second.Flags().IsInvisible() == stale {
			t.Errorf("stale=%v: first invisible %v, second invisible %v",
				stale, first.Flags().IsInvisible(), second.Flags().IsInvisible())
		}
		if !g.State.Bit(2, 2) || g.State.Bit(1, 2) {
			t.Errorf("stale=%v: bit set in the wrong area: %s", stale, dumpState(g))
		}
		if rec.Count(engine.EVENT_PALETTE) != 1 || rec.Count(engine.EVENT_AREA) != 1 {
			t.Errorf("Collaborator events: %v", rec.Events)
		}
	}
}

func TestCollaboratorRequests(t *testing.T) {
	w := newWorld(t, newArea(t, 1, origin))
	w.Messages = []string{"WELCOME", "GAS FOUND"}
	g, rec := newGame(t, w)

	g.ExecuteCode(assemble(t, `
IF SHOT? THEN
	SOUND (3)
	SYNCSND (4)
	DELAY (10)
	REDRAW
	SPFX (2)
	PRINT (1)
	SWAPJET
ENDIF
`), true, false)

	want := []engine.Event{
		{Kind: engine.EVENT_SOUND, Args: []int{3}},
		{Kind: engine.EVENT_SYNCSND, Args: []int{4}},
		{Kind: engine.EVENT_DELAY, Args: []int{10}},
		{Kind: engine.EVENT_REDRAW},
		{Kind: engine.EVENT_SPFX, Args: []int{2}},
		{Kind: engine.EVENT_PRINT, Args: []int{1}, Text: "GAS FOUND"},
		{Kind: engine.EVENT_VEHICLE, Args: []int{1}},
	}
	if len(rec.Events) != len(want) {
		t.Fatalf("Got events %v, want %v", rec.Events, want)
	}
	for i := range want {
		if rec.Events[i].String() != want[i].String() {
			t.Errorf("Event %d: got %v, want %v", i, rec.Events[i], want[i])
		}
	}
	if !g.Player.Flying || g.Player.Stance != engine.STANCE_FLY {
		t.Errorf("SWAPJET did not switch to flying")
	}
}

func TestExecuteConditionsOrder(t *testing.T) {
	target := withCondition(t, cube(5, mgl32.Vec3{200, 0, 200}, mgl32.Vec3{4, 4, 4}),
		"IF SHOT? THEN\nSETVAR (v1, 1)\nENDIF\n")
	area := newArea(t, 1, origin, target)
	area.AddCondition(assemble(t, "IF SHOT? THEN\nVAR!=? (v1, 1)\nSETVAR (v1, 2)\nENDIF\n"), "")
	w := newWorld(t, area)
	w.AddGlobalCondition(assemble(t, "IF SHOT? THEN\nVAR!=? (v1, 2)\nSETVAR (v1, 3)\nENDIF\n"), "")
	g, _ := newGame(t, w)

	if !g.Shoot(5) {
		t.Fatalf("Shoot missed")
	}
	if g.State.Var(1) != 3 {
		t.Errorf("Conditions ran out of order: v1 = %d", g.State.Var(1))
	}

	target.Flags().Destroy()
	if g.Shoot(5) {
		t.Errorf("Shot a destroyed object")
	}
}

func TestSensorTick(t *testing.T) {
	near := world.NewSensor(6, 0, mgl32.Vec3{100, 48, 120}, 3, 10, 50, 0)
	near.SetCondition(assemble(t, "IF SHOT? THEN\nADDVAR (-1, v62)\nENDIF\n"), "")
	far := world.NewSensor(7, 0, mgl32.Vec3{1000, 0, 1000}, 3, 1, 50, 0)
	far.SetCondition(assemble(t, "IF SHOT? THEN\nADDVAR (-5, v62)\nENDIF\n"), "")
	g, _ := newGame(t, newWorld(t, newArea(t, 1, origin, near, far)))

	fired := 0
	for tick := uint64(1); tick <= 25; tick++ {
		fired += g.Tick(tick)
	}
	if fired != 2 {
		t.Errorf("Sensors fired %d times", fired)
	}
	if got := g.State.Var(fcl.VAR_ENERGY); got != 18 {
		t.Errorf("Energy %d, want 18", got)
	}
	if g.Clock() != 25 {
		t.Errorf("Clock %d", g.Clock())
	}
}

func TestTickAnimatesGroups(t *testing.T) {
	left := cube(5, mgl32.Vec3{300, 0, 300}, mgl32.Vec3{10, 10, 10})
	right := cube(6, mgl32.Vec3{320, 0, 300}, mgl32.Vec3{10, 10, 10})
	ops := []world.GroupOp{
		{Opcode: world.GROUP_OP_MOVE, Offset: mgl32.Vec3{32, 0, 0}},
		{Opcode: world.GROUP_OP_MOVE, Offset: mgl32.Vec3{64, 0, 0}},
		{Opcode: world.GROUP_OP_END},
	}
	grp := world.NewGroup(8, 0, mgl32.Vec3{}, []uint16{5, 6}, ops)
	g, _ := newGame(t, newWorld(t, newArea(t, 1, origin, left, right, grp)))

	for _, test := range []struct {
		tick uint64
		x    float32
	}{{1, 332}, {1, 332}, {2, 364}, {3, 364}, {4, 364}} {
		g.Tick(test.tick)
		if got := left.Origin()[0]; got != test.x {
			t.Errorf("Tick %d: group member at x %v, want %v", test.tick, got, test.x)
		}
		if right.Origin()[0]-left.Origin()[0] != 20 {
			t.Errorf("Tick %d: members drifted apart", test.tick)
		}
	}

	if err := g.Reset(); err != nil {
		t.Fatal(err)
	}
	if left.Origin()[0] != 300 || grp.Cursor() != 0 {
		t.Errorf("Reset left member at %v, cursor %d", left.Origin(), grp.Cursor())
	}
}
