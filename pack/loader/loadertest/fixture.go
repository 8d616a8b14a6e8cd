// Package loadertest builds synthetic world binaries for tests.
package loadertest

import (
	"bytes"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/utils"
)

const (
	headerColorMap  = 0x0a
	headerPointers  = 0x46
	headerAreaIndex = 0xc8
	objectHeader    = 9
)

type Object struct {
	Raw      byte // flags | type
	Position [3]byte
	Size     [3]byte
	ID       byte
	Payload  []byte
	// ByteSize overrides the declared record size when non-zero
	ByteSize byte
}

type Area struct {
	Flags      byte
	Number     byte
	Scale      byte
	Palette    [4]byte
	Variant    []byte
	Objects    []Object
	Conditions [][]byte
	// ConditionPtrAdjust is added to the declared condition table offset
	ConditionPtrAdjust int
}

type World struct {
	StartArea     byte
	StartEntrance byte
	Vitals        [4]byte
	ColorMap      [15][4]byte
	Globals       [][]byte
	Areas         []Area
}

// fieldWriter mirrors stream.Reader: on wide platforms every logical byte is a
// big-endian word and 16-bit values are stored halved.
type fieldWriter struct {
	buf  bytes.Buffer
	wide bool
}

func (w *fieldWriter) byte8(v byte) {
	if w.wide {
		w.buf.WriteByte(0)
	}
	w.buf.WriteByte(v)
}

func (w *fieldWriter) bytes8(bs ...byte) {
	for _, b := range bs {
		w.byte8(b)
	}
}

func (w *fieldWriter) word16(v int) {
	if w.wide {
		v /= 2
		w.byte8(byte(v))
		w.byte8(byte(v >> 8))
	} else {
		w.buf.WriteByte(byte(v))
		w.buf.WriteByte(byte(v >> 8))
	}
}

func (w *fieldWriter) width() int {
	if w.wide {
		return 2
	}
	return 1
}

func (w *fieldWriter) logical() int {
	return w.buf.Len() / w.width()
}

func (w *fieldWriter) padTo(logical int) {
	for w.logical() < logical {
		w.byte8(0)
	}
}

func (w *fieldWriter) conditions(conds [][]byte) {
	w.byte8(byte(len(conds)))
	for _, c := range conds {
		w.byte8(byte(len(c)))
		w.bytes8(c...)
	}
}

func (a *Area) encode(wide bool) []byte {
	objs := &fieldWriter{wide: wide}
	for _, o := range a.Objects {
		objs.byte8(o.Raw)
		objs.bytes8(o.Position[:]...)
		objs.bytes8(o.Size[:]...)
		objs.byte8(o.ID)
		size := byte(objectHeader + len(o.Payload))
		if o.ByteSize != 0 {
			size = o.ByteSize
		}
		objs.byte8(size)
		objs.bytes8(o.Payload...)
	}

	out := &fieldWriter{wide: wide}
	headerLogical := 3 + 2 + 1 + len(a.Palette) + len(a.Variant)
	conditionPtr := (headerLogical+objs.logical())*out.width() + a.ConditionPtrAdjust

	out.byte8(a.Flags)
	out.byte8(byte(len(a.Objects)))
	out.byte8(a.Number)
	out.word16(conditionPtr)
	out.byte8(a.Scale)
	out.bytes8(a.Palette[:]...)
	out.bytes8(a.Variant...)
	out.buf.Write(objs.buf.Bytes())
	out.conditions(a.Conditions)
	return out.buf.Bytes()
}

// Encode lays the world out the way the loader expects at the release offset.
func (w *World) Encode(platform config.Platform) []byte {
	wide := platform.IsAmigaAtari()
	hdr := &fieldWriter{wide: wide}

	globalsStart := (headerAreaIndex + 2*len(w.Areas)) * hdr.width()
	globals := &fieldWriter{wide: wide}
	globals.conditions(w.Globals)

	blobs := make([][]byte, len(w.Areas))
	offsets := make([]int, len(w.Areas))
	next := globalsStart + globals.buf.Len()
	for i := range w.Areas {
		blobs[i] = w.Areas[i].encode(wide)
		offsets[i] = next
		next += len(blobs[i])
	}

	hdr.byte8(byte(len(w.Areas)))
	hdr.word16(next)
	hdr.byte8(w.StartArea)
	hdr.byte8(w.StartEntrance)
	hdr.byte8(0)
	hdr.bytes8(w.Vitals[:]...)
	hdr.padTo(headerColorMap)
	for _, c := range w.ColorMap {
		hdr.bytes8(c[:]...)
	}
	hdr.padTo(headerPointers)
	hdr.word16(0)
	hdr.word16(globalsStart)
	hdr.padTo(headerAreaIndex)
	for _, off := range offsets {
		hdr.word16(off)
	}

	out := hdr.buf.Bytes()
	out = append(out, globals.buf.Bytes()...)
	for _, b := range blobs {
		out = append(out, b...)
	}
	return out
}

// Executable embeds a world and a message table at the release offsets.
func Executable(release config.Release, world []byte, messages []string) []byte {
	size := release.WorldOffset + int64(len(world))
	msgEnd := release.MessagesOffset + int64(release.MessageCount*release.MessageLength)
	if msgEnd > size {
		size = msgEnd
	}
	exe := make([]byte, size)
	copy(exe[release.WorldOffset:], world)

	cm := config.GetEncoding(release.Platform)
	for i := 0; i < release.MessageCount; i++ {
		text := ""
		if i < len(messages) {
			text = messages[i]
		}
		off := release.MessagesOffset + int64(i*release.MessageLength)
		copy(exe[off:], utils.StringToBytes(cm, text, release.MessageLength))
	}
	return exe
}
