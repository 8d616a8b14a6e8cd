// Package savestate captures and persists play sessions.
package savestate

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/freescape/engine"
	"github.com/mogaika/freescape/world"
)

const (
	SNAPSHOT_MAGIC   = "FSAV"
	SNAPSHOT_VERSION = 1
)

var ErrBadSnapshot = errors.New("bad snapshot")

type ObjectFlags struct {
	ID    uint16
	Flags world.Flags
}

type AreaFlags struct {
	Area    uint16
	Objects []ObjectFlags
}

// Snapshot is everything needed to resume a game on the same world.
type Snapshot struct {
	Release  string
	Area     uint16
	Stance   uint8
	Step     uint8
	Flying   bool
	Clock    uint64
	Position [3]SerializedDouble
	Rotation [3]CompactSerializedDouble

	Vars  map[int]int32
	Bits  map[uint16]uint32
	Areas []AreaFlags
}

func encodeVec(v mgl32.Vec3) (r [3]SerializedDouble) {
	for i := range v {
		r[i] = EncodeDouble(float64(v[i]))
	}
	return r
}

func decodeVec(r [3]SerializedDouble) (v mgl32.Vec3) {
	for i := range r {
		v[i] = float32(DecodeDouble(r[i]))
	}
	return v
}

// Capture records the state of g.
func Capture(g *engine.Game) *Snapshot {
	s := &Snapshot{
		Release:  g.World.Release.Name,
		Area:     g.CurrentArea().ID,
		Stance:   uint8(g.Player.Stance),
		Step:     uint8(g.Player.StepIndex),
		Flying:   g.Player.Flying,
		Clock:    g.Clock(),
		Position: encodeVec(g.Player.Position),
		Vars:     make(map[int]int32, len(g.State.Vars)),
		Bits:     make(map[uint16]uint32, len(g.State.Bits)),
	}
	for i := range g.Player.Rotation {
		s.Rotation[i] = EncodeCompactDouble(float64(g.Player.Rotation[i]))
	}
	for k, v := range g.State.Vars {
		s.Vars[k] = v
	}
	for k, v := range g.State.Bits {
		s.Bits[k] = v
	}
	for _, id := range g.World.SortedAreaIDs() {
		a := g.World.Area(id)
		af := AreaFlags{Area: id}
		for _, oid := range a.ObjectIDs() {
			af.Objects = append(af.Objects, ObjectFlags{ID: oid, Flags: *a.ObjectWithID(oid).Flags()})
		}
		s.Areas = append(s.Areas, af)
	}
	return s
}

// Restore puts g into the captured state. Objects the game copied from the
// global area are copied again.
func (s *Snapshot) Restore(g *engine.Game) error {
	if s.Release != g.World.Release.Name {
		return errors.Errorf("Snapshot of %q cannot be restored into %q", s.Release, g.World.Release.Name)
	}
	if err := s.checkPlayer(g.Options); err != nil {
		return err
	}
	g.World.ResetToSnapshot()

	global := g.World.GlobalArea()
	for _, af := range s.Areas {
		a := g.World.Area(af.Area)
		if a == nil {
			return errors.Wrapf(ErrBadSnapshot, "Area %d does not exist", af.Area)
		}
		for _, of := range af.Objects {
			obj := a.ObjectWithID(of.ID)
			if obj == nil {
				var err error
				if obj, err = a.AddObjectFromArea(of.ID, global); err != nil {
					return errors.Wrapf(err, "Failed to restore object %d of area %d", of.ID, af.Area)
				}
			}
			*obj.Flags() = of.Flags
		}
	}

	g.State.Vars = make(map[int]int32, len(s.Vars))
	for k, v := range s.Vars {
		g.State.Vars[k] = v
	}
	g.State.Bits = make(map[uint16]uint32, len(s.Bits))
	for k, v := range s.Bits {
		g.State.Bits[k] = v
	}

	if err := g.EnterArea(s.Area); err != nil {
		return errors.Wrapf(err, "Failed to restore current area")
	}
	g.Player.Stance = int(s.Stance)
	g.Player.StepIndex = int(s.Step)
	g.Player.Flying = s.Flying
	g.Player.Position = decodeVec(s.Position)
	g.Player.LastPosition = g.Player.Position
	for i := range s.Rotation {
		g.Player.Rotation[i] = float32(DecodeCompactDouble(s.Rotation[i]))
	}
	g.SetClock(s.Clock)
	return nil
}

// checkPlayer rejects player fields the movement engine cannot index.
func (s *Snapshot) checkPlayer(opts engine.Options) error {
	if s.Stance > engine.STANCE_FLY || int(s.Stance) >= len(opts.PlayerHeights) {
		return errors.Wrapf(ErrBadSnapshot, "Stance %d out of range", s.Stance)
	}
	if s.Flying != (s.Stance == engine.STANCE_FLY) {
		return errors.Wrapf(ErrBadSnapshot, "Stance %d does not match flying %v", s.Stance, s.Flying)
	}
	if int(s.Step) >= len(opts.PlayerSteps) {
		return errors.Wrapf(ErrBadSnapshot, "Step %d out of range, %d steps", s.Step, len(opts.PlayerSteps))
	}
	return nil
}

type snapshotHeader struct {
	Magic   [4]byte
	Version uint16
	Area    uint16
	Stance  uint8
	Step    uint8
	Flying  uint8
	_       uint8
	Clock   uint64
}

// Marshal returns the snapshot as written by Encode.
func (s *Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the snapshot big-endian to out. Maps are written in key order.
func (s *Snapshot) Encode(out io.Writer) error {
	var err error
	w := func(v interface{}) {
		if err == nil {
			err = binary.Write(out, binary.BigEndian, v)
		}
	}

	h := snapshotHeader{Version: SNAPSHOT_VERSION, Area: s.Area, Stance: s.Stance, Step: s.Step, Clock: s.Clock}
	copy(h.Magic[:], SNAPSHOT_MAGIC)
	if s.Flying {
		h.Flying = 1
	}
	w(&h)

	if len(s.Release) > 0xff {
		return errors.Errorf("Release name too long: %d", len(s.Release))
	}
	w(uint8(len(s.Release)))
	w([]byte(s.Release))

	w(&s.Position)
	w(&s.Rotation)

	vars := make([]int, 0, len(s.Vars))
	for k := range s.Vars {
		vars = append(vars, k)
	}
	sort.Ints(vars)
	w(uint16(len(vars)))
	for _, k := range vars {
		if k < 0 || k > 0xffff {
			return errors.Errorf("Variable index %d out of range", k)
		}
		w(uint16(k))
		w(s.Vars[k])
	}

	bits := make([]int, 0, len(s.Bits))
	for k := range s.Bits {
		bits = append(bits, int(k))
	}
	sort.Ints(bits)
	w(uint16(len(bits)))
	for _, k := range bits {
		w(uint16(k))
		w(s.Bits[uint16(k)])
	}

	w(uint16(len(s.Areas)))
	for _, af := range s.Areas {
		w(af.Area)
		w(uint16(len(af.Objects)))
		for _, of := range af.Objects {
			w(of.ID)
			w(uint8(of.Flags))
		}
	}
	if err != nil {
		return errors.Wrapf(err, "Failed to write snapshot")
	}
	return nil
}

func Unmarshal(data []byte) (*Snapshot, error) {
	r := bytes.NewReader(data)
	var err error
	read := func(v interface{}) {
		if err == nil {
			err = binary.Read(r, binary.BigEndian, v)
		}
	}

	var h snapshotHeader
	read(&h)
	if err != nil {
		return nil, errors.Wrapf(ErrBadSnapshot, "Failed to read header: %v", err)
	}
	if string(h.Magic[:]) != SNAPSHOT_MAGIC {
		return nil, errors.Wrapf(ErrBadSnapshot, "Wrong magic %q", h.Magic[:])
	}
	if h.Version != SNAPSHOT_VERSION {
		return nil, errors.Wrapf(ErrBadSnapshot, "Unsupported version %d", h.Version)
	}
	if h.Stance > engine.STANCE_FLY || h.Flying > 1 {
		return nil, errors.Wrapf(ErrBadSnapshot, "Bad player stance %d flying %d", h.Stance, h.Flying)
	}
	s := &Snapshot{
		Area:   h.Area,
		Stance: h.Stance,
		Step:   h.Step,
		Flying: h.Flying != 0,
		Clock:  h.Clock,
		Vars:   make(map[int]int32),
		Bits:   make(map[uint16]uint32),
	}

	var nameLen uint8
	read(&nameLen)
	name := make([]byte, nameLen)
	if err == nil {
		_, err = io.ReadFull(r, name)
	}
	s.Release = string(name)

	read(&s.Position)
	read(&s.Rotation)

	var count uint16
	read(&count)
	for i := 0; i < int(count) && err == nil; i++ {
		var k uint16
		var v int32
		read(&k)
		read(&v)
		s.Vars[int(k)] = v
	}

	read(&count)
	for i := 0; i < int(count) && err == nil; i++ {
		var k uint16
		var v uint32
		read(&k)
		read(&v)
		s.Bits[k] = v
	}

	read(&count)
	for i := 0; i < int(count) && err == nil; i++ {
		var af AreaFlags
		var objects uint16
		read(&af.Area)
		read(&objects)
		for j := 0; j < int(objects) && err == nil; j++ {
			var of ObjectFlags
			var f uint8
			read(&of.ID)
			read(&f)
			of.Flags = world.Flags(f)
			af.Objects = append(af.Objects, of)
		}
		s.Areas = append(s.Areas, af)
	}

	if err != nil {
		return nil, errors.Wrapf(ErrBadSnapshot, "Truncated snapshot: %v", err)
	}
	if r.Len() != 0 {
		return nil, errors.Wrapf(ErrBadSnapshot, "%d trailing bytes", r.Len())
	}
	return s, nil
}
