package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/freescape/utils"
)

// PlayerBox is the player's bounding box at the current position.
func (g *Game) PlayerBox() utils.AABB {
	return g.playerBoxAt(g.Player.Position)
}

func (g *Game) playerBoxAt(pos mgl32.Vec3) utils.AABB {
	scale := g.areaScale()
	height := g.playerHeight()
	return utils.NewAABB(
		mgl32.Vec3{pos[0] - scale, pos[1] - height, pos[2] - scale},
		mgl32.Vec3{pos[0] + scale, pos[1] + scale, pos[2] + scale},
	)
}

// ChangeStance moves between crouching and standing. Flying fixes the stance.
func (g *Game) ChangeStance(delta int) bool {
	if g.Player.Flying {
		return false
	}
	stance := g.Player.Stance + delta
	if stance < STANCE_CROUCH || stance > STANCE_STAND {
		return false
	}

	old := g.Player.Stance
	oldPos := g.Player.Position
	oldHeight := g.playerHeight()
	g.Player.Stance = stance
	g.Player.Position[1] += g.playerHeight() - oldHeight
	if g.CheckCollisions(false) {
		g.Player.Stance = old
		g.Player.Position = oldPos
		return false
	}
	return true
}

func (g *Game) ChangeStep(delta int) bool {
	step := g.Player.StepIndex + delta
	if step < 0 || step >= len(g.Options.PlayerSteps) {
		return false
	}
	g.Player.StepIndex = step
	return true
}

// ToggleFly switches between walking and the flying vehicle.
func (g *Game) ToggleFly() {
	g.Player.Flying = !g.Player.Flying
	oldHeight := g.playerHeight()
	if g.Player.Flying {
		g.Player.Stance = STANCE_FLY
	} else {
		g.Player.Stance = STANCE_STAND
	}
	g.Player.Position[1] += g.playerHeight() - oldHeight
	utils.Channel(utils.ChannelMove).Debugf("Vehicle swapped, flying %v", g.Player.Flying)
	g.collab.VehicleSwapped(g.Player.Flying)
}
