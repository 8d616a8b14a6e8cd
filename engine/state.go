package engine

import (
	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/world"
)

const BITS_PER_AREA = 32

// State holds the game variables and the per-area bit words.
type State struct {
	Vars map[int]int32
	Bits map[uint16]uint32
}

func NewState() *State {
	return &State{Vars: make(map[int]int32), Bits: make(map[uint16]uint32)}
}

// Reset prepares the state for a new game.
func (s *State) Reset(w *world.World) {
	s.Vars = make(map[int]int32)
	s.Bits = make(map[uint16]uint32)
	s.Vars[fcl.VAR_ENERGY] = int32(w.InitialEnergy)
	s.Vars[fcl.VAR_SHIELD] = int32(w.InitialShield)
}

func (s *State) Var(index int) int32 {
	return s.Vars[index]
}

func clampVar(index int, v int32) int32 {
	var limit int32
	switch index {
	case fcl.VAR_ENERGY:
		limit = fcl.MAX_ENERGY
	case fcl.VAR_SHIELD:
		limit = fcl.MAX_SHIELD
	default:
		return v
	}
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

func (s *State) SetVar(index int, v int32) {
	s.Vars[index] = clampVar(index, v)
}

func (s *State) AddVar(index int, delta int32) {
	s.SetVar(index, s.Vars[index]+delta)
}

// Bit reads bit index (0-based) of an area's bit word.
func (s *State) Bit(area uint16, index int) bool {
	return s.Bits[area]>>uint(index)&1 != 0
}

func (s *State) SetBit(area uint16, index int)    { s.Bits[area] |= 1 << uint(index) }
func (s *State) ClearBit(area uint16, index int)  { s.Bits[area] &^= 1 << uint(index) }
func (s *State) ToggleBit(area uint16, index int) { s.Bits[area] ^= 1 << uint(index) }

func (s *State) Clone() *State {
	c := NewState()
	for k, v := range s.Vars {
		c.Vars[k] = v
	}
	for k, v := range s.Bits {
		c.Bits[k] = v
	}
	return c
}

// Equal compares the states, treating absent entries as zero.
func (s *State) Equal(o *State) bool {
	for k, v := range s.Vars {
		if o.Vars[k] != v {
			return false
		}
	}
	for k, v := range o.Vars {
		if s.Vars[k] != v {
			return false
		}
	}
	for k, v := range s.Bits {
		if o.Bits[k] != v {
			return false
		}
	}
	for k, v := range o.Bits {
		if s.Bits[k] != v {
			return false
		}
	}
	return true
}
