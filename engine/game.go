// Package engine runs FCL programs and player movement against a loaded world.
package engine

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/world"
)

type Player struct {
	Position     mgl32.Vec3
	LastPosition mgl32.Vec3
	Rotation     mgl32.Vec3
	Stance       int
	StepIndex    int
	Flying       bool
}

// Game is one play session. It is not safe for concurrent use.
type Game struct {
	World   *world.World
	State   *State
	Player  Player
	Options Options

	collab  Collaborators
	current *world.Area
	tick    uint64
}

func NewGame(w *world.World, collab Collaborators, opts Options) (*Game, error) {
	if collab == nil {
		collab = NopCollaborators{}
	}
	g := &Game{
		World:   w,
		State:   NewState(),
		Options: opts,
		collab:  collab,
	}
	if err := g.Reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset starts a new game: object state restored, variables reset, player at the start entrance.
func (g *Game) Reset() error {
	g.World.ResetToSnapshot()
	g.State.Reset(g.World)
	g.Player = Player{Stance: STANCE_STAND, StepIndex: 1}
	g.tick = 0
	g.current = nil
	if err := g.GotoArea(g.World.StartArea, g.World.StartEntrance); err != nil {
		return errors.Wrapf(err, "Failed to enter start area")
	}
	return nil
}

func (g *Game) CurrentArea() *world.Area {
	return g.current
}

func (g *Game) SetCollaborators(c Collaborators) {
	if c == nil {
		c = NopCollaborators{}
	}
	g.collab = c
}

// playerHeight is the eye height above the feet in the current area.
func (g *Game) playerHeight() float32 {
	stance := g.Player.Stance
	if stance < 0 {
		stance = 0
	}
	if stance >= len(g.Options.PlayerHeights) {
		stance = len(g.Options.PlayerHeights) - 1
	}
	return g.Options.PlayerHeights[stance] * g.areaScale()
}

func (g *Game) areaScale() float32 {
	if g.current == nil || g.current.Scale == 0 {
		return 1
	}
	return float32(g.current.Scale)
}

// GotoArea moves the player to an entrance of another area.
func (g *Game) GotoArea(areaID, entranceID uint16) error {
	a := g.World.Area(areaID)
	if a == nil {
		return errors.Errorf("Area %d does not exist", areaID)
	}
	e := a.EntranceWithID(entranceID)
	if e == nil {
		return errors.Errorf("Entrance %d does not exist in area %d", entranceID, areaID)
	}

	var from uint16
	if g.current != nil {
		from = g.current.ID
	}
	g.current = a

	pos := e.Origin()
	pos[1] += g.playerHeight()
	g.Player.Position = pos
	g.Player.LastPosition = pos
	g.Player.Rotation = e.Rotation

	utils.Channel(utils.ChannelCode).Debugf("Entered area %d at entrance %d (%v)", areaID, entranceID, pos)
	g.collab.SwapPalette(areaID)
	g.collab.AreaChanged(from, areaID, entranceID)
	return nil
}

// Message returns the text PRINT shows for index.
func (g *Game) Message(index int) string {
	text, ok := g.World.Message(index)
	if !ok {
		g.logicError("message %d does not exist", index)
	}
	return text
}

// EnterArea makes areaID current without moving the player, as when a saved game is restored.
func (g *Game) EnterArea(areaID uint16) error {
	a := g.World.Area(areaID)
	if a == nil {
		return errors.Errorf("Area %d does not exist", areaID)
	}
	g.current = a
	g.collab.SwapPalette(areaID)
	return nil
}
