package engine

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/world"
)

// CheckCollisions tests the player box against the current area. With
// executeCode set it also runs the collision programs of the touched objects.
func (g *Game) CheckCollisions(executeCode bool) bool {
	if executeCode {
		return g.runCollisionEffects(make(map[world.Object]bool))
	}
	return len(g.current.CheckCollisions(g.PlayerBox())) != 0
}

// runCollisionEffects runs collided programs of the objects touching the
// player, smallest first. Objects in fired are skipped and then recorded.
func (g *Game) runCollisionEffects(fired map[world.Object]bool) bool {
	box := g.PlayerBox().Expand(mgl32.Vec3{0, g.Options.FloorTolerance, 0}, mgl32.Vec3{})
	hits := g.current.CheckCollisions(box)
	g.collisionEffects(hits, fired)
	return len(hits) != 0
}

func (g *Game) collisionEffects(hits []world.Object, fired map[world.Object]bool) {
	area := g.current
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].BoundingBox().Diagonal() < hits[j].BoundingBox().Diagonal()
	})

	log := utils.Channel(utils.ChannelMove)
	large := 0
	for _, obj := range hits {
		if g.current != area {
			break
		}
		if obj.BoundingBox().Diagonal() > g.Options.LargeObjectDiagonal {
			large++
			if large > 1 {
				break
			}
		}
		if fired[obj] {
			continue
		}
		fired[obj] = true
		log.Debugf("Collided with object %d in area %d", obj.ID(), area.ID)
		g.ExecuteObjectCondition(obj, false, true)
	}
}

// sweep moves the player box from start towards end and returns the objects
// it touches first, with the travelled fraction of the move at contact.
// Objects already overlapping the box at start do not stop it.
func (g *Game) sweep(start, end mgl32.Vec3) ([]world.Object, float32) {
	delta := end.Sub(start)
	if delta.Len() == 0 {
		return nil, 1
	}
	from := g.playerBoxAt(start)
	to := g.playerBoxAt(end)
	path := from
	for i := range path.Min {
		path.Min[i] = min(from.Min[i], to.Min[i])
		path.Max[i] = max(from.Max[i], to.Max[i])
	}

	var first []world.Object
	var h float32 = 1
	for _, obj := range g.current.CheckCollisions(path) {
		box := obj.BoundingBox()
		if from.Collides(box) {
			continue
		}
		hit, _ := utils.SweepAABB(from, box, delta)
		switch {
		case hit < h:
			h = hit
			first = []world.Object{obj}
		case hit == h && hit < 1:
			first = append(first, obj)
		}
	}
	return first, h
}

// supported reports whether something holds the player up at the current position.
func (g *Game) supported() bool {
	box := g.PlayerBox()
	if box.Min[1] <= 0 {
		return true
	}
	probe := box.Translate(mgl32.Vec3{0, -g.Options.FloorProbe, 0})
	return len(g.current.CheckCollisions(probe)) != 0
}

// Move steps the player along direction by the current step size and reports
// whether the player ended somewhere other than where it started.
func (g *Game) Move(direction mgl32.Vec3) bool {
	if direction.Len() == 0 {
		return false
	}
	step := g.Options.PlayerSteps[g.Player.StepIndex]
	return g.MoveTo(g.Player.Position.Add(direction.Normalize().Mul(step)))
}

// MoveTo attempts to place the player at candidate, resolving falls, step-ups
// and collision programs. Anything lying between the current position and
// candidate blocks the move.
func (g *Game) MoveTo(candidate mgl32.Vec3) bool {
	log := utils.Channel(utils.ChannelMove)
	area := g.current
	start := g.Player.Position
	fired := make(map[world.Object]bool)

	target := utils.ClampVec3(candidate, 0, g.Options.WorldLimit)
	g.Player.LastPosition = start
	g.Player.Position = target

	if walls, h := g.sweep(start, target); len(walls) != 0 {
		log.Debugf("Path to %v blocked by object %d at %v", target, walls[0].ID(), h)
		g.collisionEffects(walls, fired)
		if g.current == area {
			g.resolveBlocked(start, target, fired)
		}
	} else if !g.CheckCollisions(false) {
		if !g.Player.Flying && !g.fall() {
			log.Debugf("No floor below %v, reverting", g.Player.Position)
			g.Player.Position = start
		} else {
			g.runCollisionEffects(fired)
		}
	} else {
		g.runCollisionEffects(fired)
		if g.current == area {
			g.resolveBlocked(start, target, fired)
		}
	}

	g.ExecuteLocalGlobalConditions(false, true)
	return g.Player.Position != start
}

// fall drops the player one unit at a time until supported.
func (g *Game) fall() bool {
	if g.supported() {
		return true
	}
	from := g.Player.Position
	for i := 0; i < g.Options.MaxFall; i++ {
		g.Player.Position[1]--
		if g.CheckCollisions(false) {
			break
		}
		if g.supported() {
			g.collab.PlaySound(SOUND_FALL, false)
			return true
		}
	}
	g.Player.Position = from
	return false
}

// resolveBlocked tries to climb onto the obstacle at target, otherwise the
// player bumps and stays at start.
func (g *Game) resolveBlocked(start, target mgl32.Vec3, fired map[world.Object]bool) {
	if g.Player.Flying {
		g.Player.Position = start
		return
	}
	lift := mgl32.Vec3{0, g.Options.StepUpHeight, 0}
	raised := target.Add(lift)
	if raised[1] <= g.Options.WorldLimit {
		g.Player.Position = raised
		if walls, _ := g.sweep(start.Add(lift), raised); len(walls) == 0 && !g.CheckCollisions(false) {
			utils.Channel(utils.ChannelMove).Debugf("Stepped up to %v", g.Player.Position)
			g.collab.PlaySound(SOUND_STEP_UP, false)
			g.runCollisionEffects(fired)
			return
		}
	}
	g.collab.PlaySound(SOUND_BUMP, false)
	g.Player.Position = start
}
