package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mogaika/freescape/config"
	"github.com/mogaika/freescape/engine"
	"github.com/mogaika/freescape/export"
	"github.com/mogaika/freescape/pack"
	"github.com/mogaika/freescape/pack/loader"
	"github.com/mogaika/freescape/savestate"
	"github.com/mogaika/freescape/status"
	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/vfs"
	"github.com/mogaika/freescape/web"
	"github.com/mogaika/freescape/world"
)

func main() {
	var addr, dir, release, file, offset, gltfPath, saves, encoding string
	var dump, validate, strict bool
	flag.StringVar(&addr, "i", "", "Address of inspector server, empty to skip")
	flag.StringVar(&dir, "dir", ".", "Path to folder with game files")
	flag.StringVar(&release, "release", "", "Release name: "+strings.Join(config.ListReleases(), ", "))
	flag.StringVar(&file, "file", "", "Game file name override")
	flag.StringVar(&offset, "offset", "", "World offset override (0x prefix for hex)")
	flag.BoolVar(&dump, "dump", false, "Dump decoded world")
	flag.StringVar(&gltfPath, "gltf", "", "Export area geometry to glb file")
	flag.BoolVar(&validate, "validate", false, "Check every FCL reference of the world")
	flag.StringVar(&saves, "saves", "", "Save slot database path, empty to disable saving")
	flag.StringVar(&encoding, "encoding", "", "Charmap override for the release text")
	flag.BoolVar(&strict, "strict", false, "Panic on FCL logic errors")
	flag.Parse()

	log := utils.Log

	if release == "" {
		flag.PrintDefaults()
		return
	}
	known, err := config.GetRelease(release)
	if err != nil {
		log.Fatal(err)
	}
	rel := *known
	if encoding != "" {
		if err := config.SetEncoding(encoding, rel.Platform); err != nil {
			log.Fatalf("%v, known: %v", err, config.ListEncodings())
		}
	}
	if file != "" {
		rel.File = file
	}
	if offset != "" {
		if rel.WorldOffset, err = strconv.ParseInt(offset, 0, 64); err != nil {
			log.Fatalf("Bad offset %q: %v", offset, err)
		}
	}

	d := vfs.NewDirectoryDriver(dir)
	load := func() (*world.World, error) {
		return pack.Load(d, rel)
	}

	w, err := load()
	if err != nil {
		log.Fatal(err)
	}
	status.Info("Loaded %s: %d areas", rel.Name, len(w.Areas))

	if dump {
		fmt.Println(utils.SDump(w))
	}

	if validate {
		dangling := loader.Validate(w)
		for _, dg := range dangling {
			fmt.Println(dg)
		}
		if len(dangling) != 0 {
			log.Fatalf("%d dangling references", len(dangling))
		}
		log.Infof("All FCL references of %s resolve", rel.Name)
	}

	if gltfPath != "" {
		f, err := os.Create(gltfPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := export.WriteWorld(f, w); err != nil {
			f.Close()
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
		log.Infof("Exported %s", gltfPath)
	}

	if addr == "" {
		return
	}

	var store *savestate.Store
	if saves != "" {
		if store, err = savestate.Open(saves); err != nil {
			log.Fatal(err)
		}
		defer store.Close()
	}

	opts := engine.DefaultOptions()
	opts.StrictLogic = strict
	if err := web.StartServer(addr, &web.Loaded{
		World:    w,
		NewWorld: load,
		Options:  opts,
		Store:    store,
	}); err != nil {
		log.Fatal(err)
	}
}
