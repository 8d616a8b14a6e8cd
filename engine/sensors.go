package engine

import (
	"github.com/mogaika/freescape/utils"
)

// Tick advances the game clock to tick. When the clock moves forward the
// active groups of the current area take one animation step. Armed sensors
// in range then shoot at the player; the number that fired is returned.
func (g *Game) Tick(tick uint64) int {
	if tick > g.tick {
		g.animateGroups()
	}
	g.tick = tick
	fired := 0
	for _, s := range g.current.Sensors() {
		if !s.InRange(g.Player.Position) || !s.ShouldFire(tick) {
			continue
		}
		utils.Channel(utils.ChannelCode).Debugf("Sensor %d fired at tick %d", s.ID(), tick)
		g.ExecuteObjectCondition(s, true, false)
		fired++
	}
	return fired
}

func (g *Game) animateGroups() {
	a := g.current
	for _, grp := range a.Groups() {
		if !grp.Flags().Active() {
			continue
		}
		if err := a.AnimateGroup(grp.ID()); err != nil {
			g.logicError("Failed to animate group %d: %v", grp.ID(), err)
		}
	}
}

func (g *Game) Clock() uint64 { return g.tick }

func (g *Game) SetClock(tick uint64) { g.tick = tick }
