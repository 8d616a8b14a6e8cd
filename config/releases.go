package config

import (
	_ "embed"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed releases.yaml
var releasesYAML []byte

// Release describes where the world data lives inside one shipped executable.
type Release struct {
	Name           string   `yaml:"name" json:"name"`
	GameName       string   `yaml:"game" json:"game"`
	PlatformName   string   `yaml:"platform" json:"platform"`
	File           string   `yaml:"file" json:"file"`
	WorldOffset    int64    `yaml:"world_offset" json:"world_offset"`
	MessagesOffset int64    `yaml:"messages_offset" json:"messages_offset"`
	MessageLength  int      `yaml:"message_length" json:"message_length"`
	MessageCount   int      `yaml:"message_count" json:"message_count"`
	ColorDepth     int      `yaml:"color_depth" json:"color_depth"`
	Game           Game     `yaml:"-" json:"-"`
	Platform       Platform `yaml:"-" json:"-"`
}

var releases map[string]*Release

func ParseReleases(data []byte) (map[string]*Release, error) {
	var list []*Release
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal releases")
	}

	result := make(map[string]*Release, len(list))
	for _, r := range list {
		var err error
		if r.Game, err = ParseGame(r.GameName); err != nil {
			return nil, errors.Wrapf(err, "Release %q", r.Name)
		}
		if r.Platform, err = ParsePlatform(r.PlatformName); err != nil {
			return nil, errors.Wrapf(err, "Release %q", r.Name)
		}
		if _, dup := result[r.Name]; dup {
			return nil, errors.Errorf("Release %q declared twice", r.Name)
		}
		result[r.Name] = r
	}
	return result, nil
}

func loadReleases() map[string]*Release {
	if releases == nil {
		var err error
		if releases, err = ParseReleases(releasesYAML); err != nil {
			panic(err)
		}
	}
	return releases
}

func GetRelease(name string) (*Release, error) {
	if r, ok := loadReleases()[name]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, errors.Errorf("Unknown release %q", name)
}

func ListReleases() []string {
	list := make([]string, 0, len(loadReleases()))
	for name := range loadReleases() {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
