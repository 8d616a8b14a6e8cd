package world

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/pack/stream"
)

var ErrDuplicateArea = errors.New("duplicate area id")

const COLOR_MAP_ENTRIES = 15

// World is the decoded content of one game binary.
type World struct {
	Release config.Release

	Areas     map[uint16]*Area
	areaOrder []uint16

	StartArea     uint16
	StartEntrance uint16

	InitialEnergy  uint8
	InitialShield  uint8
	ReserveEnergy  uint8
	ReserveShield  uint8
	DatabaseSize   uint32
	ColorMap       [COLOR_MAP_ENTRIES][4]uint8
	DemoDataOffset uint32

	GlobalConditions       []fcl.Instructions
	GlobalConditionSources []string

	Messages []string
	Warnings []stream.Warning
}

func NewWorld(release config.Release) *World {
	return &World{Release: release, Areas: make(map[uint16]*Area)}
}

func (w *World) AddArea(a *Area) error {
	if _, ok := w.Areas[a.ID]; ok {
		return errors.Wrapf(ErrDuplicateArea, "Area %d", a.ID)
	}
	w.Areas[a.ID] = a
	w.areaOrder = append(w.areaOrder, a.ID)
	return nil
}

func (w *World) Area(id uint16) *Area {
	return w.Areas[id]
}

// GlobalArea is the shared object library, nil when the binary has none.
func (w *World) GlobalArea() *Area {
	return w.Areas[GLOBAL_AREA_ID]
}

// AreaIDs returns area ids in file order.
func (w *World) AreaIDs() []uint16 {
	return append([]uint16(nil), w.areaOrder...)
}

func (w *World) SortedAreaIDs() []uint16 {
	ids := w.AreaIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *World) AddGlobalCondition(program fcl.Instructions, source string) {
	w.GlobalConditions = append(w.GlobalConditions, program)
	w.GlobalConditionSources = append(w.GlobalConditionSources, source)
}

// Snapshot records the state of every area for new-game resets.
func (w *World) Snapshot() {
	for _, a := range w.Areas {
		a.Snapshot()
	}
}

func (w *World) ResetToSnapshot() {
	for _, a := range w.Areas {
		a.ResetToSnapshot()
	}
}

func (w *World) Message(idx int) (string, bool) {
	if idx < 0 || idx >= len(w.Messages) {
		return "", false
	}
	return w.Messages[idx], true
}
