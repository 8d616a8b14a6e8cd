package savestate

import (
	"math"
)

const (
	DOUBLE_EXPONENT_BIAS = 16383
	DOUBLE_EXPONENT_MAX  = 0x7fff
	DOUBLE_SIGN_BIT      = 0x8000

	float64ExponentBias = 1023
	float64Fraction     = 52
)

// SerializedDouble stores a double as a 64-bit significand with an explicit
// integer bit and a 15-bit biased exponent. Bit 15 of SignAndExponent is the sign.
type SerializedDouble struct {
	SignificandHigh uint32
	SignificandLow  uint32
	SignAndExponent uint16
}

// CompactSerializedDouble keeps the upper 32 bits of the significand only.
type CompactSerializedDouble struct {
	Significand     uint32
	SignAndExponent uint16
}

func (d SerializedDouble) Significand() uint64 {
	return uint64(d.SignificandHigh)<<32 | uint64(d.SignificandLow)
}

func (d SerializedDouble) Negative() bool { return d.SignAndExponent&DOUBLE_SIGN_BIT != 0 }

func (d SerializedDouble) Exponent() int {
	return int(d.SignAndExponent&DOUBLE_EXPONENT_MAX) - DOUBLE_EXPONENT_BIAS
}

func (d SerializedDouble) Compact() CompactSerializedDouble {
	return CompactSerializedDouble{Significand: d.SignificandHigh, SignAndExponent: d.SignAndExponent}
}

func (c CompactSerializedDouble) Expand() SerializedDouble {
	return SerializedDouble{SignificandHigh: c.Significand, SignAndExponent: c.SignAndExponent}
}

// EncodeDouble is exact for every float64, subnormals included.
func EncodeDouble(v float64) SerializedDouble {
	bits := math.Float64bits(v)
	var sign uint16
	if bits>>63 != 0 {
		sign = DOUBLE_SIGN_BIT
	}
	exp := int(bits>>float64Fraction) & 0x7ff
	frac := bits & (1<<float64Fraction - 1)

	var significand uint64
	var biased uint16
	switch {
	case exp == 0x7ff:
		// infinities keep only the integer bit, NaNs keep their payload
		biased = DOUBLE_EXPONENT_MAX
		significand = 1<<63 | frac<<11
	case exp == 0 && frac == 0:
	case exp == 0:
		shift := 0
		for frac&(1<<float64Fraction) == 0 {
			frac <<= 1
			shift++
		}
		significand = frac << 11
		biased = uint16(1 - float64ExponentBias - shift + DOUBLE_EXPONENT_BIAS)
	default:
		significand = 1<<63 | frac<<11
		biased = uint16(exp - float64ExponentBias + DOUBLE_EXPONENT_BIAS)
	}

	return SerializedDouble{
		SignificandHigh: uint32(significand >> 32),
		SignificandLow:  uint32(significand),
		SignAndExponent: sign | biased,
	}
}

func DecodeDouble(d SerializedDouble) float64 {
	significand := d.Significand()
	neg := d.Negative()
	var v float64

	switch biased := d.SignAndExponent & DOUBLE_EXPONENT_MAX; {
	case biased == DOUBLE_EXPONENT_MAX:
		if significand<<1 != 0 {
			return math.NaN()
		}
		v = math.Inf(1)
	case significand == 0:
		v = 0
	default:
		// float64(significand) rounds to 53 bits
		v = math.Ldexp(float64(significand), d.Exponent()-63)
	}
	if neg {
		v = math.Copysign(v, -1)
	}
	return v
}

// EncodeCompactDouble truncates the significand to 32 bits.
func EncodeCompactDouble(v float64) CompactSerializedDouble {
	return EncodeDouble(v).Compact()
}

func DecodeCompactDouble(c CompactSerializedDouble) float64 {
	return DecodeDouble(c.Expand())
}
