package utils

import (
	"math/rand"
	"sync"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out silly names, never the same one twice.
type RandomNameGenerator struct {
	mu    sync.Mutex
	used  map[string]struct{}
	Seed  int64
	ready bool
}

func (rng *RandomNameGenerator) RandomName() string {
	rng.mu.Lock()
	defer rng.mu.Unlock()
	if !rng.ready {
		rng.used = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(rng.Seed)))
		rng.ready = true
	}
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
	}
}
