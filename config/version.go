package config

import (
	"strings"

	"github.com/pkg/errors"
)

type Game int

const (
	GameUnknown Game = iota
	Driller
	DarkSide
	TotalEclipse
	CastleMaster
)

var gameNames = map[Game]string{
	GameUnknown:  "unknown",
	Driller:      "driller",
	DarkSide:     "darkside",
	TotalEclipse: "eclipse",
	CastleMaster: "castle",
}

func (g Game) String() string {
	if n, ok := gameNames[g]; ok {
		return n
	}
	return "unknown"
}

func ParseGame(name string) (Game, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for g, n := range gameNames {
		if n == name && g != GameUnknown {
			return g, nil
		}
	}
	return GameUnknown, errors.Errorf("Unknown game %q", name)
}

type Platform int

const (
	PlatformUnknown Platform = iota
	DOS
	ZXSpectrum
	AmstradCPC
	C64
	Amiga
	AtariST
)

var platformNames = map[Platform]string{
	PlatformUnknown: "unknown",
	DOS:             "dos",
	ZXSpectrum:      "zx",
	AmstradCPC:      "cpc",
	C64:             "c64",
	Amiga:           "amiga",
	AtariST:         "atari",
}

func (p Platform) String() string {
	if n, ok := platformNames[p]; ok {
		return n
	}
	return "unknown"
}

// IsAmigaAtari reports whether the platform stores every logical byte
// of the world binary inside a big-endian 16-bit word.
func (p Platform) IsAmigaAtari() bool {
	return p == Amiga || p == AtariST
}

func ParsePlatform(name string) (Platform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range platformNames {
		if n == name && p != PlatformUnknown {
			return p, nil
		}
	}
	return PlatformUnknown, errors.Errorf("Unknown platform %q", name)
}
