package loader

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/pack"
	"github.com/mogaika/freescape/world"
)

func init() {
	for _, game := range []config.Game{config.Driller, config.DarkSide, config.TotalEclipse, config.CastleMaster} {
		pack.SetHandler(game, LoadRelease)
	}
}

// LoadRelease decodes the world and message table of a known release.
func LoadRelease(r io.ReadSeeker, release config.Release) (*world.World, error) {
	w, err := Load8bitBinary(r, release, release.WorldOffset)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load world of %s", release.Name)
	}
	if w.Messages, err = LoadMessages(r, release); err != nil {
		return nil, errors.Wrapf(err, "Failed to load messages of %s", release.Name)
	}
	return w, nil
}
