package web

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/freescape/engine"
	"github.com/mogaika/freescape/pack/stream"
	"github.com/mogaika/freescape/world"
)

type worldView struct {
	Release       string           `json:"release"`
	Areas         []uint16         `json:"areas"`
	StartArea     uint16           `json:"start_area"`
	StartEntrance uint16           `json:"start_entrance"`
	Energy        uint8            `json:"energy"`
	Shield        uint8            `json:"shield"`
	Globals       int              `json:"globals"`
	Messages      []string         `json:"messages"`
	Warnings      []stream.Warning `json:"warnings"`
}

type objectView struct {
	ID        uint16     `json:"id"`
	Type      string     `json:"type"`
	Flags     uint8      `json:"flags"`
	Origin    mgl32.Vec3 `json:"origin"`
	Size      mgl32.Vec3 `json:"size"`
	Condition string     `json:"condition,omitempty"`
}

type areaView struct {
	ID         uint16       `json:"id"`
	Name       string       `json:"name,omitempty"`
	Flags      uint8        `json:"flags"`
	Scale      uint8        `json:"scale"`
	Sky        uint8        `json:"sky"`
	Ground     uint8        `json:"ground"`
	Entrances  []objectView `json:"entrances"`
	Objects    []objectView `json:"objects"`
	Conditions []string     `json:"conditions"`
}

func newObjectView(obj world.Object) objectView {
	return objectView{
		ID:        obj.ID(),
		Type:      obj.Type().String(),
		Flags:     uint8(*obj.Flags()),
		Origin:    obj.Origin(),
		Size:      obj.Size(),
		Condition: obj.ConditionSource(),
	}
}

func newWorldView(w *world.World) worldView {
	return worldView{
		Release:       w.Release.Name,
		Areas:         w.AreaIDs(),
		StartArea:     w.StartArea,
		StartEntrance: w.StartEntrance,
		Energy:        w.InitialEnergy,
		Shield:        w.InitialShield,
		Globals:       len(w.GlobalConditions),
		Messages:      w.Messages,
		Warnings:      w.Warnings,
	}
}

func newAreaView(a *world.Area) areaView {
	v := areaView{
		ID:         a.ID,
		Name:       a.Name,
		Flags:      a.Flags,
		Scale:      a.Scale,
		Sky:        a.SkyColour,
		Ground:     a.GroundColour,
		Conditions: a.ConditionSources,
	}
	for _, id := range a.EntranceIDs() {
		v.Entrances = append(v.Entrances, newObjectView(a.EntranceWithID(id)))
	}
	for _, obj := range a.Objects() {
		v.Objects = append(v.Objects, newObjectView(obj))
	}
	return v
}

type playerView struct {
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Vec3 `json:"rotation"`
	Stance   int        `json:"stance"`
	Step     int        `json:"step"`
	Flying   bool       `json:"flying"`
}

type stateView struct {
	Session string            `json:"session"`
	Name    string            `json:"name"`
	Area    uint16            `json:"area"`
	Moved   *bool             `json:"moved,omitempty"`
	Clock   uint64            `json:"clock"`
	Player  playerView        `json:"player"`
	Vars    map[int]int32     `json:"vars"`
	Bits    map[uint16]uint32 `json:"bits"`
	Events  []engine.Event    `json:"events"`
}
