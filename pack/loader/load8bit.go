// Package loader decodes Freescape world binaries into the world model.
package loader

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/pack/stream"
	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/world"
)

type DecodeError = stream.DecodeError

// Logical header positions, multiplied by the field width on disk.
const (
	HEADER_COLOR_MAP  = 0x0a
	HEADER_POINTERS   = 0x46
	HEADER_AREA_INDEX = 0xc8
)

type binaryLoader struct {
	r       *stream.Reader
	release config.Release
	offset  int64
	cm      *charmap.Charmap
}

func newBinaryLoader(r io.ReadSeeker, release config.Release, offset int64) *binaryLoader {
	return &binaryLoader{
		r:       stream.NewReader(r, release.Platform),
		release: release,
		offset:  offset,
		cm:      config.GetEncoding(release.Platform),
	}
}

func (l *binaryLoader) seekLogical(pos int64) error {
	return l.r.Seek(l.offset + pos*l.r.FieldWidth())
}

func (l *binaryLoader) readBytes(fields ...*uint8) error {
	for _, f := range fields {
		v, err := l.r.ReadByteField()
		if err != nil {
			return err
		}
		*f = v
	}
	return nil
}

func scaled(b []byte, scale float32) mgl32.Vec3 {
	return mgl32.Vec3{float32(b[0]), float32(b[1]), float32(b[2])}.Mul(scale)
}

// Load8bitBinary decodes the world database that starts at offset.
func Load8bitBinary(r io.ReadSeeker, release config.Release, offset int64) (*world.World, error) {
	l := newBinaryLoader(r, release, offset)
	log := utils.Channel(utils.ChannelParser)
	w := world.NewWorld(release)

	if err := l.seekLogical(0); err != nil {
		return nil, err
	}
	areaCount, err := l.r.ReadByteField()
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read area count")
	}
	if w.DatabaseSize, err = l.r.ReadField(16); err != nil {
		return nil, errors.Wrapf(err, "Failed to read database size")
	}
	var startArea, startEntrance, unknown uint8
	if err := l.readBytes(&startArea, &startEntrance, &unknown,
		&w.InitialEnergy, &w.InitialShield, &w.ReserveEnergy, &w.ReserveShield); err != nil {
		return nil, errors.Wrapf(err, "Failed to read header")
	}
	w.StartArea = uint16(startArea)
	w.StartEntrance = uint16(startEntrance)
	log.Debugf("%d areas, db size %d, start %d/%d, unknown %d", areaCount, w.DatabaseSize, startArea, startEntrance, unknown)

	if err := l.seekLogical(HEADER_COLOR_MAP); err != nil {
		return nil, err
	}
	for i := range w.ColorMap {
		entry, err := l.r.ReadArray(4)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read color map entry %d", i)
		}
		copy(w.ColorMap[i][:], entry)
	}

	if err := l.seekLogical(HEADER_POINTERS); err != nil {
		return nil, err
	}
	if w.DemoDataOffset, err = l.r.ReadField(16); err != nil {
		return nil, errors.Wrapf(err, "Failed to read demo data pointer")
	}
	globalPtr, err := l.r.ReadField(16)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read global condition pointer")
	}

	if err := l.r.Seek(offset + int64(globalPtr)); err != nil {
		return nil, err
	}
	if err := l.loadConditions(func(p fcl.Instructions, s string) { w.AddGlobalCondition(p, s) }); err != nil {
		return nil, errors.Wrapf(err, "Failed to load global conditions")
	}

	if err := l.seekLogical(HEADER_AREA_INDEX); err != nil {
		return nil, err
	}
	areaOffsets := make([]uint32, areaCount)
	for i := range areaOffsets {
		if areaOffsets[i], err = l.r.ReadField(16); err != nil {
			return nil, errors.Wrapf(err, "Failed to read offset of area %d", i)
		}
	}

	for i, areaOffset := range areaOffsets {
		a, err := l.loadArea(areaOffset)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to load area #%d at 0x%x", i, offset+int64(areaOffset))
		}
		if err := w.AddArea(a); err != nil {
			return nil, stream.NewDecodeError(stream.ErrDuplicateID, offset+int64(areaOffset), "%v", err)
		}
	}

	if w.Area(w.StartArea) == nil {
		return nil, stream.NewDecodeError(stream.ErrInconsistentData, offset, "start area %d not present", w.StartArea)
	}

	w.Warnings = l.r.Warnings()
	w.Snapshot()
	log.Infof("Loaded %s: %d areas, %d global conditions, %d warnings",
		release.Name, len(w.Areas), len(w.GlobalConditions), len(w.Warnings))
	return w, nil
}

// loadConditions reads a [count] ([length] [tokens])* table.
func (l *binaryLoader) loadConditions(add func(fcl.Instructions, string)) error {
	count, err := l.r.ReadByteField()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		length, err := l.r.ReadByteField()
		if err != nil {
			return errors.Wrapf(err, "Failed to read length of condition %d", i)
		}
		if length == 0 {
			continue
		}
		program, source, err := l.readCondition(int(length))
		if err != nil {
			return errors.Wrapf(err, "Condition %d", i)
		}
		add(program, source)
	}
	return nil
}

func (l *binaryLoader) readCondition(length int) (fcl.Instructions, string, error) {
	pos := l.r.Pos()
	tokens, err := l.r.ReadArray(length)
	if err != nil {
		return nil, "", err
	}
	source, program, err := fcl.Detokenise(tokens)
	if err != nil {
		return nil, "", errors.Wrapf(err, "Failed to detokenise %d bytes at 0x%x", length, pos)
	}
	return program, source, nil
}
