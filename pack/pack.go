// Package pack routes a release to the world loader registered for its game.
package pack

import (
	"fmt"
	"io"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/vfs"
	"github.com/mogaika/freescape/world"
)

type WorldLoader func(r io.ReadSeeker, release config.Release) (*world.World, error)

var gHandlers map[config.Game]WorldLoader = make(map[config.Game]WorldLoader, 0)

func SetHandler(game config.Game, ldr WorldLoader) {
	gHandlers[game] = ldr
}

func CallHandler(release config.Release, r io.ReadSeeker) (*world.World, error) {
	if h, found := gHandlers[release.Game]; found {
		return h(r, release)
	} else {
		return nil, fmt.Errorf("[pack] Cannot find handler for game '%v'", release.Game)
	}
}

// Load decodes the world of release from the file it names inside d.
func Load(d vfs.Directory, release config.Release) (*world.World, error) {
	f, err := vfs.DirectoryGetFile(d, release.File)
	if err != nil {
		return nil, fmt.Errorf("[pack] Cannot get file '%s': %v", release.File, err)
	}

	r, err := vfs.OpenFileAndGetReader(f)
	if err != nil {
		return nil, fmt.Errorf("[pack] Cannot get instance of '%s': %v", release.File, err)
	}
	defer f.Close()

	w, err := CallHandler(release, r)
	if err != nil {
		return nil, fmt.Errorf("[pack] Handler error: %w", err)
	}

	return w, nil
}
