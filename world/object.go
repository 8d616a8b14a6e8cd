package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/utils"
)

// IDs from 250 up are reserved for equipment spawned at runtime.
const FIRST_RESERVED_ID = 250

const (
	ID_ROOM_STRUCTURE       = 255
	ID_AREA_CONNECTIONS     = 254
	GLOBAL_AREA_ID          = 255
	ORIGIN_SCALE            = 32
	ENTRANCE_ROTATION_SCALE = 5
)

func IsReservedID(id uint16) bool { return id >= FIRST_RESERVED_ID }

type Object interface {
	ID() uint16
	Type() ObjectType
	Flags() *Flags
	Origin() mgl32.Vec3
	Size() mgl32.Vec3
	BoundingBox() utils.AABB
	// Drawable objects are rendered and take part in collisions
	Drawable() bool
	Condition() fcl.Instructions
	ConditionSource() string
	Translate(delta mgl32.Vec3)
	Duplicate() Object
}

type base struct {
	id              uint16
	typ             ObjectType
	flags           Flags
	origin          mgl32.Vec3
	size            mgl32.Vec3
	condition       fcl.Instructions
	conditionSource string
}

func (o *base) ID() uint16                  { return o.id }
func (o *base) Type() ObjectType            { return o.typ }
func (o *base) Flags() *Flags               { return &o.flags }
func (o *base) Origin() mgl32.Vec3          { return o.origin }
func (o *base) Size() mgl32.Vec3            { return o.size }
func (o *base) Condition() fcl.Instructions { return o.condition }
func (o *base) ConditionSource() string     { return o.conditionSource }
func (o *base) Drawable() bool              { return false }

func (o *base) BoundingBox() utils.AABB {
	return utils.NewAABB(o.origin, o.origin.Add(o.size))
}

func (o *base) Translate(delta mgl32.Vec3) {
	o.origin = o.origin.Add(delta)
}

// SetCondition attaches a decoded program and its source text.
func (o *base) SetCondition(program fcl.Instructions, source string) {
	o.condition = program
	o.conditionSource = source
}

func newBase(id uint16, typ ObjectType, flags Flags, origin, size mgl32.Vec3) base {
	return base{id: id, typ: typ, flags: flags, origin: origin, size: size}
}

// GeometricObject is a cube, rectangle, pyramid, line or polygon.
type GeometricObject struct {
	base
	Colours   []uint8
	Ordinates []float32
}

func NewGeometricObject(id uint16, typ ObjectType, flags Flags, origin, size mgl32.Vec3, colours []uint8, ordinates []float32) *GeometricObject {
	return &GeometricObject{
		base:      newBase(id, typ, flags, origin, size),
		Colours:   colours,
		Ordinates: ordinates,
	}
}

func (o *GeometricObject) Drawable() bool { return true }

// Vertices returns ordinate triples of a line or polygon.
func (o *GeometricObject) Vertices() []mgl32.Vec3 {
	if !o.typ.IsPolygon() {
		return nil
	}
	vs := make([]mgl32.Vec3, 0, len(o.Ordinates)/3)
	for i := 0; i+2 < len(o.Ordinates); i += 3 {
		vs = append(vs, mgl32.Vec3{o.Ordinates[i], o.Ordinates[i+1], o.Ordinates[i+2]})
	}
	return vs
}

func (o *GeometricObject) BoundingBox() utils.AABB {
	vs := o.Vertices()
	if len(vs) == 0 {
		return o.base.BoundingBox()
	}
	box := utils.NewAABB(vs[0], vs[0])
	for _, v := range vs[1:] {
		for i := range v {
			box.Min[i] = min(box.Min[i], v[i])
			box.Max[i] = max(box.Max[i], v[i])
		}
	}
	return box
}

func (o *GeometricObject) Translate(delta mgl32.Vec3) {
	o.base.Translate(delta)
	if o.typ.IsPolygon() {
		for i := range o.Ordinates {
			o.Ordinates[i] += delta[i%3]
		}
	}
}

func (o *GeometricObject) Duplicate() Object {
	c := *o
	c.Colours = append([]uint8(nil), o.Colours...)
	c.Ordinates = append([]float32(nil), o.Ordinates...)
	return &c
}

// Entrance is a spawn point. It is never drawn.
type Entrance struct {
	base
	Rotation mgl32.Vec3
}

func NewEntrance(id uint16, flags Flags, origin, rotation mgl32.Vec3) *Entrance {
	return &Entrance{base: newBase(id, TYPE_ENTRANCE, flags, origin, mgl32.Vec3{}), Rotation: rotation}
}

func (o *Entrance) Duplicate() Object {
	c := *o
	return &c
}

// Sensor is a trap that periodically fires at the player.
type Sensor struct {
	base
	Colour         uint8
	FiringInterval uint8
	FiringRange    uint16
	Axis           uint8

	lastFired uint64
}

func NewSensor(id uint16, flags Flags, origin mgl32.Vec3, colour, interval uint8, firingRange uint16, axis uint8) *Sensor {
	return &Sensor{
		base:           newBase(id, TYPE_SENSOR, flags, origin, mgl32.Vec3{}),
		Colour:         colour,
		FiringInterval: interval,
		FiringRange:    firingRange,
		Axis:           axis,
	}
}

// ShouldFire reports whether the firing interval elapsed at tick and arms the next shot.
func (o *Sensor) ShouldFire(tick uint64) bool {
	if o.FiringInterval == 0 || !o.flags.Active() {
		return false
	}
	if tick < o.lastFired+uint64(o.FiringInterval) {
		return false
	}
	o.lastFired = tick
	return true
}

// InRange reports whether p is within firing range of the sensor.
func (o *Sensor) InRange(p mgl32.Vec3) bool {
	if o.FiringRange == 0 {
		return true
	}
	return p.Sub(o.origin).Len() <= float32(o.FiringRange)
}

func (o *Sensor) ResetTimer() { o.lastFired = 0 }

func (o *Sensor) Duplicate() Object {
	c := *o
	return &c
}

// RoomStructure is the raw border geometry shared by rooms.
type RoomStructure struct {
	base
	Data []byte
}

func NewRoomStructure(data []byte) *RoomStructure {
	return &RoomStructure{base: newBase(ID_ROOM_STRUCTURE, TYPE_ENTRANCE, 0, mgl32.Vec3{}, mgl32.Vec3{}), Data: data}
}

func (o *RoomStructure) Duplicate() Object {
	c := *o
	c.Data = append([]byte(nil), o.Data...)
	return &c
}

// AreaConnections is the neighbour table used for border transitions.
type AreaConnections struct {
	base
	Data []byte
}

func NewAreaConnections(data []byte) *AreaConnections {
	return &AreaConnections{base: newBase(ID_AREA_CONNECTIONS, TYPE_ENTRANCE, 0, mgl32.Vec3{}, mgl32.Vec3{}), Data: data}
}

// Neighbour returns the area on the given edge, zero means none.
func (o *AreaConnections) Neighbour(dir int) (uint8, bool) {
	if dir < 0 || dir >= len(o.Data) || o.Data[dir] == 0 {
		return 0, false
	}
	return o.Data[dir], true
}

func (o *AreaConnections) Duplicate() Object {
	c := *o
	c.Data = append([]byte(nil), o.Data...)
	return &c
}
