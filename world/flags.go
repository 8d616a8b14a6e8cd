package world

// Flags is the per-object state byte. Bit positions match the on-disk flag byte.
type Flags uint8

const (
	FLAG_DESTROYED Flags = 0x20
	FLAG_INVISIBLE Flags = 0x40
)

func (f Flags) IsInvisible() bool { return f&FLAG_INVISIBLE != 0 }
func (f Flags) IsDestroyed() bool { return f&FLAG_DESTROYED != 0 }

func (f *Flags) MakeInvisible()    { *f |= FLAG_INVISIBLE }
func (f *Flags) MakeVisible()      { *f &^= FLAG_INVISIBLE }
func (f *Flags) ToggleVisibility() { *f ^= FLAG_INVISIBLE }
func (f *Flags) Destroy()          { *f |= FLAG_DESTROYED }
func (f *Flags) Restore()          { *f &^= FLAG_DESTROYED }

// Active reports whether the object takes part in collisions and rendering.
func (f Flags) Active() bool {
	return !f.IsInvisible() && !f.IsDestroyed()
}
