package world

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/utils"
)

var (
	ErrDuplicateObject = errors.New("duplicate object id")
	ErrNoSuchObject    = errors.New("no such object")
)

type GasPocket struct {
	X, Y   uint8
	Radius uint8
}

type Area struct {
	ID    uint16
	Flags uint8
	Scale uint8

	SkyColour           uint8
	GroundColour        uint8
	UsualBackground     uint8
	UnderFireBackground uint8
	Paper               uint8
	Ink                 uint8
	ExtraColours        []uint8

	Name        string
	GasPocket   *GasPocket
	RiddleIndex int

	Conditions       []fcl.Instructions
	ConditionSources []string

	Entrances     map[uint16]*Entrance
	RoomStructure *RoomStructure
	Connections   *AreaConnections

	objects map[uint16]Object
	order   []uint16

	snapshot map[uint16]objectState
}

type objectState struct {
	flags  Flags
	origin mgl32.Vec3
}

func NewArea(id uint16) *Area {
	return &Area{
		ID:          id,
		RiddleIndex: -1,
		Entrances:   make(map[uint16]*Entrance),
		objects:     make(map[uint16]Object),
	}
}

// SetColoursFromFlags derives sky and ground colours from the area flag byte.
// Zero maps to 255, meaning no colour.
func (a *Area) SetColoursFromFlags() {
	a.SkyColour = a.Flags & 0x0f
	a.GroundColour = a.Flags >> 4
	if a.SkyColour == 0 {
		a.SkyColour = 255
	}
	if a.GroundColour == 0 {
		a.GroundColour = 255
	}
}

func (a *Area) AddCondition(program fcl.Instructions, source string) {
	a.Conditions = append(a.Conditions, program)
	a.ConditionSources = append(a.ConditionSources, source)
}

func (a *Area) ObjectWithID(id uint16) Object {
	return a.objects[id]
}

func (a *Area) EntranceWithID(id uint16) *Entrance {
	return a.Entrances[id]
}

func (a *Area) HasObject(id uint16) bool {
	_, ok := a.objects[id]
	return ok
}

// AddObject appends obj in declaration order. Entrances go into the entrance table.
func (a *Area) AddObject(obj Object) error {
	id := obj.ID()
	if e, ok := obj.(*Entrance); ok {
		if _, exists := a.Entrances[id]; exists {
			return errors.Wrapf(ErrDuplicateObject, "Entrance %d in area %d", id, a.ID)
		}
		a.Entrances[id] = e
		return nil
	}
	if _, exists := a.objects[id]; exists {
		return errors.Wrapf(ErrDuplicateObject, "Object %d in area %d", id, a.ID)
	}
	a.objects[id] = obj
	a.order = append(a.order, id)
	return nil
}

// AddObjectFromArea copies object id out of the shared library area.
// The existing object is returned when this area already has one with that id.
func (a *Area) AddObjectFromArea(id uint16, global *Area) (Object, error) {
	if obj := a.objects[id]; obj != nil {
		return obj, nil
	}
	if global == nil {
		return nil, errors.Wrapf(ErrNoSuchObject, "Object %d: no global area", id)
	}
	src := global.ObjectWithID(id)
	if src == nil {
		return nil, errors.Wrapf(ErrNoSuchObject, "Object %d in global area", id)
	}
	obj := src.Duplicate()
	if err := a.AddObject(obj); err != nil {
		return nil, err
	}
	utils.Channel(utils.ChannelCode).Debugf("Area %d: added object %d from global area", a.ID, id)
	return obj, nil
}

func (a *Area) RemoveObject(id uint16) {
	if _, ok := a.objects[id]; !ok {
		return
	}
	delete(a.objects, id)
	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i:i], a.order[i+1:]...)
			break
		}
	}
}

// Objects returns every object in declaration order.
func (a *Area) Objects() []Object {
	objs := make([]Object, 0, len(a.order))
	for _, id := range a.order {
		objs = append(objs, a.objects[id])
	}
	return objs
}

func (a *Area) ObjectIDs() []uint16 {
	return append([]uint16(nil), a.order...)
}

func (a *Area) DrawableObjects() []Object {
	objs := make([]Object, 0, len(a.order))
	for _, id := range a.order {
		if obj := a.objects[id]; obj.Drawable() {
			objs = append(objs, obj)
		}
	}
	return objs
}

func (a *Area) Sensors() []*Sensor {
	var sensors []*Sensor
	for _, id := range a.order {
		if s, ok := a.objects[id].(*Sensor); ok {
			sensors = append(sensors, s)
		}
	}
	return sensors
}

func (a *Area) Groups() []*Group {
	var groups []*Group
	for _, id := range a.order {
		if g, ok := a.objects[id].(*Group); ok {
			groups = append(groups, g)
		}
	}
	return groups
}

func (a *Area) EntranceIDs() []uint16 {
	ids := make([]uint16, 0, len(a.Entrances))
	for id := range a.Entrances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CheckCollisions returns the active drawable objects intersecting box, in declaration order.
func (a *Area) CheckCollisions(box utils.AABB) []Object {
	var hits []Object
	for _, id := range a.order {
		obj := a.objects[id]
		if !obj.Drawable() || !obj.Flags().Active() {
			continue
		}
		if obj.BoundingBox().Collides(box) {
			hits = append(hits, obj)
		}
	}
	return hits
}

// AnimateGroup advances group id one step and moves its members.
func (a *Area) AnimateGroup(id uint16) error {
	g, ok := a.objects[id].(*Group)
	if !ok {
		return errors.Wrapf(ErrNoSuchObject, "Group %d in area %d", id, a.ID)
	}
	return a.moveMembers(g, g.Step())
}

func (a *Area) ResetGroup(id uint16) error {
	g, ok := a.objects[id].(*Group)
	if !ok {
		return errors.Wrapf(ErrNoSuchObject, "Group %d in area %d", id, a.ID)
	}
	return a.moveMembers(g, g.Reset())
}

func (a *Area) moveMembers(g *Group, delta mgl32.Vec3) error {
	if delta == (mgl32.Vec3{}) {
		return nil
	}
	for _, mid := range g.Members {
		m := a.objects[mid]
		if m == nil {
			return errors.Wrapf(ErrNoSuchObject, "Member %d of group %d in area %d", mid, g.ID(), a.ID)
		}
		m.Translate(delta)
	}
	return nil
}

// Snapshot records the object state restored by ResetToSnapshot.
func (a *Area) Snapshot() {
	a.snapshot = make(map[uint16]objectState, len(a.objects))
	for id, obj := range a.objects {
		a.snapshot[id] = objectState{flags: *obj.Flags(), origin: obj.Origin()}
	}
}

// ResetToSnapshot restores the area to the last Snapshot. Objects added since are removed.
func (a *Area) ResetToSnapshot() {
	if a.snapshot == nil {
		return
	}
	for _, id := range a.ObjectIDs() {
		obj := a.objects[id]
		st, ok := a.snapshot[id]
		if !ok {
			a.RemoveObject(id)
			continue
		}
		if g, ok := obj.(*Group); ok {
			g.Reset()
		}
		if s, ok := obj.(*Sensor); ok {
			s.ResetTimer()
		}
		*obj.Flags() = st.flags
		obj.Translate(st.origin.Sub(obj.Origin()))
	}
}

// ObjectFlags returns the flag byte of every object, keyed by id.
func (a *Area) ObjectFlags() map[uint16]Flags {
	flags := make(map[uint16]Flags, len(a.objects))
	for id, obj := range a.objects {
		flags[id] = *obj.Flags()
	}
	return flags
}
