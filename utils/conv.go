package utils

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DecodeString decodes a zero-terminated buffer with cm and trims the
// space padding fixed-length game strings carry.
func DecodeString(cm *charmap.Charmap, bs []byte) string {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(cm.NewDecoder(), bs[0:n])
	if err != nil {
		panic(err)
	}

	return strings.TrimRight(string(s), " ")
}

func StringToBytes(cm *charmap.Charmap, s string, bufSize int) []byte {
	bs, _, err := transform.Bytes(cm.NewEncoder(), []byte(s))
	if err != nil {
		panic(err)
	}
	if len(bs) < bufSize {
		r := make([]byte, bufSize)
		copy(r, bs)
		for i := len(bs); i < bufSize; i++ {
			r[i] = ' '
		}
		bs = r
	} else if len(bs) > bufSize {
		bs = bs[:bufSize]
	}
	return bs
}

func Read24bitUint(bin []byte) uint32 {
	return uint32(bin[0]) | uint32(bin[1])<<8 | uint32(bin[2])<<16
}
