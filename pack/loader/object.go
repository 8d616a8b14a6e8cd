package loader

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/freescape/pack/stream"
	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/world"
)

// Logical bytes a sensor stores ahead of its condition.
const SENSOR_HEADER_SIZE = 5

// loadObject decodes one record:
// [flagsAndType] [3 position] [3 size] [id] [byteSize] payload
func (l *binaryLoader) loadObject() (world.Object, error) {
	start := l.r.Pos()
	raw, err := l.r.ReadByteField()
	if err != nil {
		return nil, err
	}
	typ := world.ObjectType(raw & world.TYPE_MASK)
	flags := world.Flags(raw &^ world.TYPE_MASK)

	position, err := l.r.ReadArray(3)
	if err != nil {
		return nil, err
	}
	size, err := l.r.ReadArray(3)
	if err != nil {
		return nil, err
	}
	var id8, byteSize uint8
	if err := l.readBytes(&id8, &byteSize); err != nil {
		return nil, err
	}
	id := uint16(id8)
	if err := l.r.CheckObjectSize(int(byteSize), id, uint8(typ)); err != nil {
		return nil, err
	}
	remaining := int(byteSize) - stream.MinObjectSize
	origin := scaled(position, world.ORIGIN_SCALE)
	extent := scaled(size, world.ORIGIN_SCALE)

	utils.Channel(utils.ChannelParser).Debugf("Object %d (%v) at 0x%x, %d payload bytes", id, typ, start, remaining)

	if typ == world.TYPE_ENTRANCE && (id == world.ID_ROOM_STRUCTURE || id == world.ID_AREA_CONNECTIONS) {
		payload, err := l.r.ReadArray(remaining)
		if err != nil {
			return nil, err
		}
		data := make([]byte, 0, 6+len(payload))
		data = append(data, position...)
		data = append(data, size...)
		data = append(data, payload...)
		if id == world.ID_ROOM_STRUCTURE {
			return world.NewRoomStructure(data), nil
		}
		return world.NewAreaConnections(data), nil
	}

	switch {
	case typ == world.TYPE_ENTRANCE:
		if _, err := l.r.ReadArray(remaining); err != nil {
			return nil, err
		}
		return world.NewEntrance(id, flags, origin, scaled(size, world.ENTRANCE_ROTATION_SCALE)), nil

	case typ == world.TYPE_SENSOR:
		if remaining < SENSOR_HEADER_SIZE {
			return nil, stream.NewDecodeError(stream.ErrInconsistentData, start,
				"sensor %d has %d payload bytes", id, remaining)
		}
		var colour, interval, axis uint8
		if err := l.readBytes(&colour, &interval); err != nil {
			return nil, err
		}
		firingRange, err := l.r.ReadField(16)
		if err != nil {
			return nil, err
		}
		if err := l.readBytes(&axis); err != nil {
			return nil, err
		}
		s := world.NewSensor(id, flags, origin, colour, interval, uint16(firingRange/uint32(l.r.FieldWidth())), axis)
		return s, l.attachCondition(s, remaining-SENSOR_HEADER_SIZE)

	case typ == world.TYPE_GROUP:
		members := make([]uint16, 0, 3)
		for _, m := range size {
			if m != 0 {
				members = append(members, uint16(m))
			}
		}
		payload, err := l.r.ReadArray(remaining)
		if err != nil {
			return nil, err
		}
		ops, rest := world.ParseGroupOps(payload)
		if len(rest) != 0 {
			utils.Channel(utils.ChannelParser).Debugf("Group %d: %d trailing animation bytes", id, len(rest))
		}
		return world.NewGroup(id, flags, origin, members, ops), nil

	case typ.IsGeometric():
		return l.loadGeometric(id, typ, flags, start, remaining, origin, extent)
	}

	return nil, stream.NewDecodeError(stream.ErrInconsistentData, start, "object %d has unknown type %d", id, typ)
}

func (l *binaryLoader) loadGeometric(id uint16, typ world.ObjectType, flags world.Flags,
	start int64, remaining int, origin, extent mgl32.Vec3) (world.Object, error) {

	colourBytes := typ.NumberOfColours() / 2
	ordinateCount := typ.NumberOfOrdinates()
	if colourBytes+ordinateCount > remaining {
		return nil, stream.NewDecodeError(stream.ErrInconsistentData, start,
			"%v %d needs %d payload bytes, has %d", typ, id, colourBytes+ordinateCount, remaining)
	}

	packed, err := l.r.ReadArray(colourBytes)
	if err != nil {
		return nil, err
	}
	colours := make([]uint8, 0, 2*colourBytes)
	for _, b := range packed {
		colours = append(colours, b&0x0f, b>>4)
	}

	raw, err := l.r.ReadArray(ordinateCount)
	if err != nil {
		return nil, err
	}
	ordinates := make([]float32, len(raw))
	for i, o := range raw {
		ordinates[i] = float32(o) * world.ORIGIN_SCALE
	}

	obj := world.NewGeometricObject(id, typ, flags, origin, extent, colours, ordinates)
	return obj, l.attachCondition(obj, remaining-colourBytes-ordinateCount)
}

func (l *binaryLoader) attachCondition(obj conditionSetter, length int) error {
	if length <= 0 {
		return nil
	}
	program, source, err := l.readCondition(length)
	if err != nil {
		return errors.Wrapf(err, "Failed to read object condition")
	}
	obj.SetCondition(program, source)
	return nil
}
