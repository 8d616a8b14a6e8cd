package engine

// Options tunes the movement engine and interpreter compatibility behaviour.
type Options struct {
	// player height per stance (crouch, stand, fly), multiplied by the area scale
	PlayerHeights []float32
	// distance moved per step for each step tier
	PlayerSteps []float32

	MaxFall             int
	StepUpHeight        float32
	FloorProbe          float32
	FloorTolerance      float32
	LargeObjectDiagonal float32
	WorldLimit          float32

	// StaleAreaAfterGoto keeps resolving unqualified object ids against the
	// area a run started in after that run executed GOTO. Bit words always
	// belong to the current area.
	StaleAreaAfterGoto bool
	// StrictLogic panics on references to missing areas or objects instead of
	// logging and skipping the instruction.
	StrictLogic bool
}

const (
	STANCE_CROUCH = 0
	STANCE_STAND  = 1
	STANCE_FLY    = 2
)

// Sounds requested by the movement engine.
const (
	SOUND_BUMP    = 2
	SOUND_FALL    = 3
	SOUND_STEP_UP = 4
)

func DefaultOptions() Options {
	return Options{
		PlayerHeights:       []float32{16, 48, 80},
		PlayerSteps:         []float32{1, 10, 25, 50},
		MaxFall:             65,
		StepUpHeight:        64,
		FloorProbe:          2,
		FloorTolerance:      1,
		LargeObjectDiagonal: 3000,
		WorldLimit:          8128,
		StaleAreaAfterGoto:  true,
	}
}
