package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// code pages the text tables of each platform were authored in
var platformCharMaps = map[Platform]*charmap.Charmap{
	DOS:     charmap.CodePage437,
	Amiga:   charmap.ISO8859_1,
	AtariST: charmap.ISO8859_1,
}

// used by platforms without an entry, the 8-bit micros ship plain ascii
var defaultCharMap *charmap.Charmap = charmap.Windows1252

func LookupEncoding(name string) (*charmap.Charmap, error) {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				return cm, nil
			}
		}
	}
	return nil, errors.Errorf("Failed to find encoding %q", name)
}

// SetEncoding overrides the code page of platforms. Without platforms it
// replaces the default used by platforms that have no code page of their own.
func SetEncoding(name string, platforms ...Platform) error {
	cm, err := LookupEncoding(name)
	if err != nil {
		return err
	}
	if len(platforms) == 0 {
		defaultCharMap = cm
	}
	for _, p := range platforms {
		platformCharMaps[p] = cm
	}
	return nil
}

func ListEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

// GetEncoding returns the code page strings of platform p are decoded with.
func GetEncoding(p Platform) *charmap.Charmap {
	if cm, ok := platformCharMaps[p]; ok {
		return cm
	}
	return defaultCharMap
}
