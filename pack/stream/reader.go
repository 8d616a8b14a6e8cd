package stream

import (
	"encoding/binary"
	"io"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/utils"
)

// MinObjectSize is the size of the smallest possible object record on disk.
const MinObjectSize = 9

// Reader reads logical 8 and 16 bit fields of a world binary. On Amiga and
// AtariST every logical byte occupies a big-endian word and 16-bit fields
// hold word offsets, so they are doubled on read.
type Reader struct {
	r        io.ReadSeeker
	platform config.Platform
	warnings []Warning
}

func NewReader(r io.ReadSeeker, platform config.Platform) *Reader {
	return &Reader{r: r, platform: platform}
}

func (r *Reader) Platform() config.Platform {
	return r.platform
}

// FieldWidth is the number of bytes a logical byte takes on disk.
func (r *Reader) FieldWidth() int64 {
	if r.platform.IsAmigaAtari() {
		return 2
	}
	return 1
}

func (r *Reader) Pos() int64 {
	pos, err := r.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return pos
}

func (r *Reader) Seek(pos int64) error {
	if _, err := r.r.Seek(pos, io.SeekStart); err != nil {
		return NewDecodeError(ErrTruncated, pos, "seek failed: %v", err)
	}
	return nil
}

func (r *Reader) Warnings() []Warning {
	return r.warnings
}

func (r *Reader) warn(offset int64, value uint16, msg string) {
	w := Warning{Offset: offset, Value: value, Msg: msg}
	r.warnings = append(r.warnings, w)
	utils.Channel(utils.ChannelParser).Warn(w.String())
}

func (r *Reader) read(n int) ([]byte, error) {
	pos := r.Pos()
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, NewDecodeError(ErrTruncated, pos, "wanted %d bytes: %v", n, err)
	}
	return buf, nil
}

func (r *Reader) readWordBE() (uint16, error) {
	buf, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// ReadField reads one logical field of 8 or 16 bits.
func (r *Reader) ReadField(bits int) (uint32, error) {
	if bits != 8 && bits != 16 {
		return 0, NewDecodeError(ErrInvalidArgument, r.Pos(), "field of %d bits", bits)
	}

	if !r.platform.IsAmigaAtari() {
		buf, err := r.read(bits / 8)
		if err != nil {
			return 0, err
		}
		if bits == 8 {
			return uint32(buf[0]), nil
		}
		return uint32(binary.LittleEndian.Uint16(buf)), nil
	}

	if bits == 8 {
		pos := r.Pos()
		value, err := r.readWordBE()
		if err != nil {
			return 0, err
		}
		if value >= 256 {
			r.warn(pos, value, "8-bit field larger than 255, clamping")
			value &= 0xff
		}
		return uint32(value), nil
	}

	pos := r.Pos()
	lo, err := r.readWordBE()
	if err != nil {
		return 0, err
	}
	hi, err := r.readWordBE()
	if err != nil {
		return 0, err
	}
	if lo >= 256 {
		r.warn(pos, lo, "16-bit field low half larger than 255, clamping")
		lo &= 0xff
	}
	if hi >= 256 {
		r.warn(pos+2, hi, "16-bit field high half larger than 255, clamping")
		hi &= 0xff
	}
	return 2 * (256*uint32(hi) + uint32(lo)), nil
}

func (r *Reader) ReadByteField() (uint8, error) {
	v, err := r.ReadField(8)
	return uint8(v), err
}

// ReadArray reads n logical bytes.
func (r *Reader) ReadArray(n int) ([]byte, error) {
	result := make([]byte, n)
	for i := range result {
		v, err := r.ReadByteField()
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

// CheckObjectSize validates the declared on-disk size of an object record.
func (r *Reader) CheckObjectSize(size int, objectID uint16, objectType uint8) error {
	if size < MinObjectSize {
		return NewDecodeError(ErrObjectTooSmall, r.Pos(),
			"not enough bytes %d to read object %d with type %d", size, objectID, objectType)
	}
	return nil
}
