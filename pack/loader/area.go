package loader

import (
	"github.com/pkg/errors"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/pack/stream"
	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/world"
)

const (
	AREA_NAME_LENGTH   = 12
	AREA_EXTRA_COLOURS = 4
)

func (l *binaryLoader) loadArea(areaOffset uint32) (*world.Area, error) {
	base := l.offset + int64(areaOffset)
	if err := l.r.Seek(base); err != nil {
		return nil, err
	}

	var flags, numObjects, areaNumber uint8
	if err := l.readBytes(&flags, &numObjects, &areaNumber); err != nil {
		return nil, errors.Wrapf(err, "Failed to read area header")
	}
	conditionPtr, err := l.r.ReadField(16)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read condition pointer")
	}

	a := world.NewArea(uint16(areaNumber))
	a.Flags = flags
	a.SetColoursFromFlags()
	if err := l.readBytes(&a.Scale, &a.UsualBackground, &a.UnderFireBackground, &a.Paper, &a.Ink); err != nil {
		return nil, errors.Wrapf(err, "Failed to read area %d palette", a.ID)
	}
	if err := l.loadAreaVariant(a); err != nil {
		return nil, errors.Wrapf(err, "Failed to read area %d variant fields", a.ID)
	}
	utils.Channel(utils.ChannelParser).Debugf("Area %d: %d objects, scale %d, conditions at 0x%x",
		a.ID, numObjects, a.Scale, base+int64(conditionPtr))

	for i := 0; i < int(numObjects); i++ {
		pos := l.r.Pos()
		obj, err := l.loadObject()
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to load object #%d of area %d", i, a.ID)
		}
		if err := addToArea(a, obj); err != nil {
			return nil, stream.NewDecodeError(stream.ErrDuplicateID, pos, "%v", err)
		}
	}

	if pos := l.r.Pos(); pos != base+int64(conditionPtr) {
		return nil, stream.NewDecodeError(stream.ErrOffsetMismatch, pos,
			"area %d objects end at 0x%x, condition table declared at 0x%x", a.ID, pos, base+int64(conditionPtr))
	}

	if err := l.loadConditions(a.AddCondition); err != nil {
		return nil, errors.Wrapf(err, "Failed to load conditions of area %d", a.ID)
	}
	return a, nil
}

func (l *binaryLoader) loadAreaVariant(a *world.Area) error {
	game := l.release.Game
	switch game {
	case config.Driller:
		gp := &world.GasPocket{}
		if err := l.readBytes(&gp.X, &gp.Y, &gp.Radius); err != nil {
			return err
		}
		a.GasPocket = gp
	case config.DarkSide, config.TotalEclipse:
		if !l.r.Platform().IsAmigaAtari() {
			extra, err := l.r.ReadArray(AREA_EXTRA_COLOURS)
			if err != nil {
				return err
			}
			a.ExtraColours = extra
		}
	}

	if game == config.DarkSide || game == config.TotalEclipse || game == config.CastleMaster {
		name, err := l.r.ReadArray(AREA_NAME_LENGTH)
		if err != nil {
			return err
		}
		a.Name = utils.DecodeString(l.cm, name)
	}

	if game == config.CastleMaster {
		riddle, err := l.r.ReadByteField()
		if err != nil {
			return err
		}
		if riddle != 0 {
			a.RiddleIndex = int(riddle) - 1
		}
	}
	return nil
}

func addToArea(a *world.Area, obj world.Object) error {
	switch o := obj.(type) {
	case *world.RoomStructure:
		if a.RoomStructure != nil {
			return errors.Errorf("room structure declared twice in area %d", a.ID)
		}
		a.RoomStructure = o
		return nil
	case *world.AreaConnections:
		if a.Connections != nil {
			return errors.Errorf("area connections declared twice in area %d", a.ID)
		}
		a.Connections = o
		return nil
	}
	return a.AddObject(obj)
}

// conditionSetter is implemented by every object variant that may carry a program.
type conditionSetter interface {
	SetCondition(program fcl.Instructions, source string)
}
