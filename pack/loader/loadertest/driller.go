package loadertest

// Object ids and layout of the Driller fixture.
const (
	DrillerStartArea     = 1
	DrillerSecondArea    = 2
	DrillerLibraryArea   = 255
	DrillerEntrance      = 1
	DrillerCube          = 2
	DrillerHiddenPanel   = 3
	DrillerTriangle      = 4
	DrillerSensor        = 5
	DrillerGroup         = 6
	DrillerRemoteCube    = 7
	DrillerLibraryObject = 40
)

func DrillerMessages() []string {
	return []string{"WELCOME", "GAS FOUND", "RIG PLACED", "OUT OF ENERGY"}
}

// DrillerWorld is a small but complete Driller-layout world: two rooms, a
// shared object library and global conditions, with every FCL reference resolvable.
func DrillerWorld() *World {
	w := &World{
		StartArea:     DrillerStartArea,
		StartEntrance: DrillerEntrance,
		Vitals:        [4]byte{48, 40, 63, 63},
		Globals: [][]byte{
			{0x09, 10},   // collided: INCVAR (v10)
			{0x8c, 4},    // shot: SETBIT (4)
			{0x9e, 40},   // shot: VIS? (40)
			{0x14, 9, 3}, // collided: SETVAR (v9, 3)
		},
	}
	for i := range w.ColorMap {
		w.ColorMap[i] = [4]byte{byte(i), byte(i * 2), byte(i * 3), 0xff}
	}

	w.Areas = []Area{
		{
			Flags:   0x21,
			Number:  DrillerStartArea,
			Scale:   4,
			Palette: [4]byte{1, 2, 3, 4},
			Variant: []byte{10, 20, 5},
			Objects: []Object{
				{Raw: 0x00, Position: [3]byte{10, 0, 10}, Size: [3]byte{0, 18, 0}, ID: DrillerEntrance},
				{Raw: 0x01, Position: [3]byte{20, 0, 20}, Size: [3]byte{4, 4, 4}, ID: DrillerCube,
					Payload: []byte{0x21, 0x43, 0x65, 0x05, DrillerCube, 0x81, 50, 0, 0}},
				{Raw: 0x43, Position: [3]byte{30, 0, 30}, Size: [3]byte{0, 4, 4}, ID: DrillerHiddenPanel,
					Payload: []byte{0x11}},
				{Raw: 0x0b, Position: [3]byte{40, 0, 40}, Size: [3]byte{2, 2, 0}, ID: DrillerTriangle,
					Payload: []byte{0x77, 40, 0, 40, 42, 0, 40, 40, 2, 40}},
				{Raw: 0x02, Position: [3]byte{50, 2, 50}, ID: DrillerSensor,
					Payload: []byte{3, 10, 0x90, 0x01, 1, 0x82, 0xff}},
				{Raw: 0x0f, Position: [3]byte{0, 0, 0}, Size: [3]byte{DrillerCube, DrillerHiddenPanel, 0}, ID: DrillerGroup,
					Payload: []byte{1, 1, 0, 0, 1, 2, 0, 0}},
				{Raw: 0x00, Position: [3]byte{0, DrillerSecondArea, 0}, ID: 254, Payload: []byte{0, 0}},
				{Raw: 0x00, Position: [3]byte{1, 2, 3}, Size: [3]byte{4, 5, 6}, ID: 255},
			},
			Conditions: [][]byte{
				{0x0b, 5, 1, 0x12, DrillerSecondArea, DrillerEntrance}, // collided: VAR!=? (v5, 1) GOTO (2, 1)
				{0x8b, 5, 2, 0x83, DrillerHiddenPanel},                 // shot: VAR!=? (v5, 2) TOGVIS (3)
			},
		},
		{
			Number:  DrillerSecondArea,
			Scale:   2,
			Palette: [4]byte{5, 6, 7, 8},
			Variant: []byte{0, 0, 0},
			Objects: []Object{
				{Raw: 0x00, Position: [3]byte{5, 0, 5}, ID: DrillerEntrance},
				{Raw: 0x01, Position: [3]byte{8, 0, 8}, Size: [3]byte{2, 2, 2}, ID: DrillerRemoteCube,
					Payload: []byte{0x11, 0x11, 0x11, 0x87, DrillerStartArea, DrillerHiddenPanel}},
			},
			Conditions: [][]byte{
				{0x04, DrillerLibraryObject}, // collided: VIS (40)
			},
		},
		{
			Number:  DrillerLibraryArea,
			Scale:   1,
			Variant: []byte{0, 0, 0},
			Objects: []Object{
				{Raw: 0x41, Position: [3]byte{60, 0, 60}, Size: [3]byte{2, 2, 2}, ID: DrillerLibraryObject,
					Payload: []byte{0x22, 0x22, 0x22}},
			},
		},
	}
	return w
}
