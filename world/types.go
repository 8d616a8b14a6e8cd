package world

import "fmt"

type ObjectType uint8

const (
	TYPE_ENTRANCE ObjectType = iota
	TYPE_CUBE
	TYPE_SENSOR
	TYPE_RECTANGLE
	TYPE_EAST_PYRAMID
	TYPE_WEST_PYRAMID
	TYPE_UP_PYRAMID
	TYPE_DOWN_PYRAMID
	TYPE_NORTH_PYRAMID
	TYPE_SOUTH_PYRAMID
	TYPE_LINE
	TYPE_TRIANGLE
	TYPE_QUADRILATERAL
	TYPE_PENTAGON
	TYPE_HEXAGON
	TYPE_GROUP
)

const TYPE_MASK = 0x1f

var objectTypeNames = [...]string{
	"entrance", "cube", "sensor", "rectangle",
	"east pyramid", "west pyramid", "up pyramid", "down pyramid", "north pyramid", "south pyramid",
	"line", "triangle", "quadrilateral", "pentagon", "hexagon", "group",
}

func (t ObjectType) String() string {
	if int(t) < len(objectTypeNames) {
		return objectTypeNames[t]
	}
	return fmt.Sprintf("type %d", uint8(t))
}

func (t ObjectType) Known() bool { return t <= TYPE_GROUP }

func (t ObjectType) IsPyramid() bool {
	return t >= TYPE_EAST_PYRAMID && t <= TYPE_SOUTH_PYRAMID
}

// IsPolygon reports the types described by an explicit ordinate list.
func (t ObjectType) IsPolygon() bool {
	return t >= TYPE_LINE && t <= TYPE_HEXAGON
}

func (t ObjectType) IsPlanar() bool {
	return t == TYPE_RECTANGLE || t.IsPolygon()
}

func (t ObjectType) IsGeometric() bool {
	return t == TYPE_CUBE || t.IsPlanar() || t.IsPyramid()
}

// NumberOfColours is the count of 4-bit face colours stored for the type.
func (t ObjectType) NumberOfColours() int {
	switch {
	case t == TYPE_CUBE, t.IsPyramid():
		return 6
	case t.IsPlanar():
		return 2
	default:
		return 0
	}
}

func (t ObjectType) NumberOfOrdinates() int {
	switch {
	case t.IsPyramid():
		return 4
	case t.IsPolygon():
		return 3 * (2 + int(t) - int(TYPE_LINE))
	default:
		return 0
	}
}
