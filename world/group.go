package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	GROUP_OP_END  = 0x00
	GROUP_OP_MOVE = 0x01
	GROUP_OP_SIZE = 4
)

// GroupOp places the group at Offset relative to its origin.
type GroupOp struct {
	Opcode uint8
	Offset mgl32.Vec3
}

// Group is a rigid assembly of objects of the same area. Members are held by ID
// and every move is routed through the owning Area.
type Group struct {
	base
	Members    []uint16
	Operations []GroupOp

	step   int
	offset mgl32.Vec3
}

func NewGroup(id uint16, flags Flags, origin mgl32.Vec3, members []uint16, ops []GroupOp) *Group {
	return &Group{base: newBase(id, TYPE_GROUP, flags, origin, mgl32.Vec3{}), Members: members, Operations: ops}
}

// ParseGroupOps splits an animation payload into 4-byte records.
// Trailing bytes that do not form a record are returned as the remainder.
func ParseGroupOps(data []byte) ([]GroupOp, []byte) {
	ops := make([]GroupOp, 0, len(data)/GROUP_OP_SIZE)
	for len(data) >= GROUP_OP_SIZE {
		ops = append(ops, GroupOp{
			Opcode: data[0],
			Offset: mgl32.Vec3{float32(data[1]), float32(data[2]), float32(data[3])}.Mul(ORIGIN_SCALE),
		})
		data = data[GROUP_OP_SIZE:]
	}
	return ops, data
}

// Step advances the animation cursor and returns the translation to apply to members.
// The cursor wraps after the last record and parks on an END record.
func (g *Group) Step() mgl32.Vec3 {
	if len(g.Operations) == 0 {
		return mgl32.Vec3{}
	}
	op := g.Operations[g.step]
	if op.Opcode == GROUP_OP_END {
		return mgl32.Vec3{}
	}
	g.step = (g.step + 1) % len(g.Operations)
	delta := op.Offset.Sub(g.offset)
	g.offset = op.Offset
	return delta
}

// Reset rewinds the animation and returns the translation back to the rest position.
func (g *Group) Reset() mgl32.Vec3 {
	delta := g.offset.Mul(-1)
	g.step = 0
	g.offset = mgl32.Vec3{}
	return delta
}

func (g *Group) Cursor() int { return g.step }

func (g *Group) Duplicate() Object {
	c := *g
	c.Members = append([]uint16(nil), g.Members...)
	c.Operations = append([]GroupOp(nil), g.Operations...)
	return &c
}
