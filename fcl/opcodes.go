package fcl

import (
	"fmt"

	"github.com/pkg/errors"
)

const OPCODE_COUNT = 35

type operand struct {
	Value int32
	Var   bool
}

func (o operand) String() string {
	if o.Var {
		return fmt.Sprintf("v%d", o.Value)
	}
	return fmt.Sprintf("%d", o.Value)
}

// opcodeSpec owns the payload layout of a single opcode.
type opcodeSpec struct {
	name     string
	mnemonic string
	args     int
	// parse decodes exactly args payload bytes
	parse func(op uint8, b []byte) *Instruction
	// encode produces exactly args payload bytes
	encode func(i *Instruction) ([]byte, error)
	// operands used by the text form, nil when the instruction has none
	operands func(i *Instruction) []operand
	// build is the inverse of operands, it rejects operand sets this opcode can not encode
	build func(op uint8, ops []operand) (*Instruction, error)
}

func u8(v int32) ([]byte, error) {
	if v < 0 || v > 0xff {
		return nil, errors.Errorf("Operand %d does not fit into byte", v)
	}
	return []byte{byte(v)}, nil
}

func s8(v int32) ([]byte, error) {
	if v < -128 || v > 127 {
		return nil, errors.Errorf("Operand %d does not fit into signed byte", v)
	}
	return []byte{byte(int8(v))}, nil
}

func noArgs(t Token) opcodeSpec {
	return opcodeSpec{
		parse: func(op uint8, b []byte) *Instruction {
			return &Instruction{Type: t, Opcode: op}
		},
		encode: func(i *Instruction) ([]byte, error) { return nil, nil },
		build: func(op uint8, ops []operand) (*Instruction, error) {
			if len(ops) != 0 {
				return nil, errors.Errorf("Expected no operands")
			}
			return &Instruction{Type: t, Opcode: op}, nil
		},
	}
}

// oneArg covers opcodes with a single unsigned byte stored in Source.
func oneArg(t Token) opcodeSpec {
	return opcodeSpec{
		args: 1,
		parse: func(op uint8, b []byte) *Instruction {
			return &Instruction{Type: t, Opcode: op, Source: int32(b[0])}
		},
		encode: func(i *Instruction) ([]byte, error) { return u8(i.Source) },
		operands: func(i *Instruction) []operand {
			return []operand{{Value: i.Source}}
		},
		build: func(op uint8, ops []operand) (*Instruction, error) {
			if len(ops) != 1 || ops[0].Var {
				return nil, errors.Errorf("Expected one numeric operand")
			}
			return &Instruction{Type: t, Opcode: op, Source: ops[0].Value}, nil
		},
	}
}

// objectArg covers the unqualified object operations.
func objectArg(t Token, dest int32) opcodeSpec {
	s := oneArg(t)
	parse := s.parse
	s.parse = func(op uint8, b []byte) *Instruction {
		i := parse(op, b)
		i.Destination = dest
		return i
	}
	build := s.build
	s.build = func(op uint8, ops []operand) (*Instruction, error) {
		i, err := build(op, ops)
		if i != nil {
			i.Destination = dest
		}
		return i, err
	}
	return s
}

// areaObjectArgs covers the area qualified object operations, payload [area, object].
func areaObjectArgs(t Token, dest int32) opcodeSpec {
	return opcodeSpec{
		args: 2,
		parse: func(op uint8, b []byte) *Instruction {
			return &Instruction{Type: t, Opcode: op, Additional: int32(b[0]), Source: int32(b[1]), Destination: dest, Qualified: true}
		},
		encode: func(i *Instruction) ([]byte, error) {
			a, err := u8(i.Additional)
			if err != nil {
				return nil, err
			}
			o, err := u8(i.Source)
			if err != nil {
				return nil, err
			}
			return append(a, o...), nil
		},
		operands: func(i *Instruction) []operand {
			return []operand{{Value: i.Additional}, {Value: i.Source}}
		},
		build: func(op uint8, ops []operand) (*Instruction, error) {
			if len(ops) != 2 || ops[0].Var || ops[1].Var {
				return nil, errors.Errorf("Expected area and object operands")
			}
			return &Instruction{Type: t, Opcode: op, Additional: ops[0].Value, Source: ops[1].Value, Destination: dest, Qualified: true}, nil
		},
	}
}

// fixedVarAdd covers ADDVAR forms whose target variable is implied by the opcode.
func fixedVarAdd(variable int32) opcodeSpec {
	return opcodeSpec{
		args: 1,
		parse: func(op uint8, b []byte) *Instruction {
			return &Instruction{Type: TOKEN_ADDVAR, Opcode: op, Source: variable, Destination: int32(int8(b[0]))}
		},
		encode: func(i *Instruction) ([]byte, error) { return s8(i.Destination) },
		operands: func(i *Instruction) []operand {
			return []operand{{Value: i.Destination}, {Value: variable, Var: true}}
		},
		build: func(op uint8, ops []operand) (*Instruction, error) {
			if len(ops) != 2 || ops[0].Var || !ops[1].Var || ops[1].Value != variable {
				return nil, errors.Errorf("Expected amount and v%d", variable)
			}
			if _, err := s8(ops[0].Value); err != nil {
				return nil, err
			}
			return &Instruction{Type: TOKEN_ADDVAR, Opcode: op, Source: variable, Destination: ops[0].Value}, nil
		},
	}
}

// stepVar covers the increment and decrement opcodes.
func stepVar(t Token) opcodeSpec {
	return opcodeSpec{
		args: 1,
		parse: func(op uint8, b []byte) *Instruction {
			return &Instruction{Type: t, Opcode: op, Source: int32(b[0]), Destination: 1}
		},
		encode: func(i *Instruction) ([]byte, error) { return u8(i.Source) },
		operands: func(i *Instruction) []operand {
			return []operand{{Value: i.Source, Var: true}}
		},
		build: func(op uint8, ops []operand) (*Instruction, error) {
			if len(ops) != 1 || !ops[0].Var {
				return nil, errors.Errorf("Expected variable operand")
			}
			return &Instruction{Type: t, Opcode: op, Source: ops[0].Value, Destination: 1}, nil
		},
	}
}

// varValue covers opcodes with payload [variable, value].
func varValue(t Token) opcodeSpec {
	return opcodeSpec{
		args: 2,
		parse: func(op uint8, b []byte) *Instruction {
			return &Instruction{Type: t, Opcode: op, Source: int32(b[0]), Destination: int32(b[1])}
		},
		encode: func(i *Instruction) ([]byte, error) {
			if _, err := u8(i.Source); err != nil {
				return nil, err
			}
			if _, err := u8(i.Destination); err != nil {
				return nil, err
			}
			return []byte{byte(i.Source), byte(i.Destination)}, nil
		},
		operands: func(i *Instruction) []operand {
			return []operand{{Value: i.Source, Var: true}, {Value: i.Destination}}
		},
		build: func(op uint8, ops []operand) (*Instruction, error) {
			if len(ops) != 2 || !ops[0].Var || ops[1].Var {
				return nil, errors.Errorf("Expected variable and value operands")
			}
			return &Instruction{Type: t, Opcode: op, Source: ops[0].Value, Destination: ops[1].Value}, nil
		},
	}
}

// twoArgs covers opcodes with two plain byte operands in Source and Destination.
func twoArgs(t Token) opcodeSpec {
	s := varValue(t)
	s.operands = func(i *Instruction) []operand {
		return []operand{{Value: i.Source}, {Value: i.Destination}}
	}
	s.build = func(op uint8, ops []operand) (*Instruction, error) {
		if len(ops) != 2 || ops[0].Var || ops[1].Var {
			return nil, errors.Errorf("Expected two numeric operands")
		}
		return &Instruction{Type: t, Opcode: op, Source: ops[0].Value, Destination: ops[1].Value}, nil
	}
	return s
}

func addScore() opcodeSpec {
	return opcodeSpec{
		args: 3,
		parse: func(op uint8, b []byte) *Instruction {
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			return &Instruction{Type: TOKEN_ADDVAR, Opcode: op, Source: VAR_SCORE, Destination: v}
		},
		encode: func(i *Instruction) ([]byte, error) {
			if i.Destination < 0 || i.Destination > 0xffffff {
				return nil, errors.Errorf("Score addend %d does not fit into 24 bits", i.Destination)
			}
			v := uint32(i.Destination)
			return []byte{byte(v), byte(v >> 8), byte(v >> 16)}, nil
		},
		operands: func(i *Instruction) []operand {
			return []operand{{Value: i.Destination}, {Value: VAR_SCORE, Var: true}}
		},
		build: func(op uint8, ops []operand) (*Instruction, error) {
			if len(ops) != 2 || ops[0].Var || !ops[1].Var || ops[1].Value != VAR_SCORE {
				return nil, errors.Errorf("Expected amount and v%d", VAR_SCORE)
			}
			if ops[0].Value < 0 || ops[0].Value > 0xffffff {
				return nil, errors.Errorf("Score addend %d does not fit into 24 bits", ops[0].Value)
			}
			return &Instruction{Type: TOKEN_ADDVAR, Opcode: op, Source: VAR_SCORE, Destination: ops[0].Value}, nil
		},
	}
}

func named(name, mnemonic string, s opcodeSpec) opcodeSpec {
	s.name = name
	s.mnemonic = mnemonic
	return s
}

var opcodeTable = [OPCODE_COUNT]opcodeSpec{
	0:  named("nop", "NOP", noArgs(TOKEN_NOP)),
	1:  named("add score", "ADDVAR", addScore()),
	2:  named("add energy", "ADDVAR", fixedVarAdd(VAR_ENERGY)),
	3:  named("toggle visibility", "TOGVIS", objectArg(TOKEN_TOGVIS, 0)),
	4:  named("make visible", "VIS", objectArg(TOKEN_VIS, 0)),
	5:  named("make invisible", "INVIS", objectArg(TOKEN_INVIS, 0)),
	6:  named("toggle visibility in area", "TOGVIS", areaObjectArgs(TOKEN_TOGVIS, 0)),
	7:  named("make visible in area", "VIS", areaObjectArgs(TOKEN_VIS, 0)),
	8:  named("make invisible in area", "INVIS", areaObjectArgs(TOKEN_INVIS, 0)),
	9:  named("increment variable", "INCVAR", stepVar(TOKEN_ADDVAR)),
	10: named("decrement variable", "DECVAR", stepVar(TOKEN_SUBVAR)),
	11: named("end if variable not equal", "VAR!=?", varValue(TOKEN_VARNOTEQ)),
	12: named("set bit", "SETBIT", oneArg(TOKEN_SETBIT)),
	13: named("clear bit", "CLEARBIT", oneArg(TOKEN_CLEARBIT)),
	14: named("end if bit not equal", "BIT!=?", twoArgs(TOKEN_BITNOTEQ)),
	15: named("sound", "SOUND", oneArg(TOKEN_SOUND)),
	16: named("destroy", "DESTROY", objectArg(TOKEN_DESTROY, 0)),
	17: named("destroy in area", "DESTROY", areaObjectArgs(TOKEN_DESTROY, 0)),
	18: named("goto", "GOTO", twoArgs(TOKEN_GOTO)),
	19: named("add shield", "ADDVAR", fixedVarAdd(VAR_SHIELD)),
	20: named("set variable", "SETVAR", varValue(TOKEN_SETVAR)),
	21: named("swap vehicle", "SWAPJET", noArgs(TOKEN_SWAPJET)),
	22: named("reserved", "OP22", noArgs(TOKEN_UNKNOWN)),
	23: named("reserved", "OP23", noArgs(TOKEN_UNKNOWN)),
	24: named("reserved", "OP24", oneArg(TOKEN_UNKNOWN)),
	25: named("special effect", "SPFX", oneArg(TOKEN_SPFX)),
	26: named("redraw", "REDRAW", noArgs(TOKEN_REDRAW)),
	27: named("delay", "DELAY", oneArg(TOKEN_DELAY)),
	28: named("synchronous sound", "SYNCSND", oneArg(TOKEN_SYNCSND)),
	29: named("toggle bit", "TOGGLEBIT", oneArg(TOKEN_TOGGLEBIT)),
	30: named("end if invisible", "VIS?", objectArg(TOKEN_INVISQ, 1)),
	31: named("end if visible", "INVIS?", objectArg(TOKEN_INVISQ, 0)),
	32: named("end if invisible in area", "RVIS?", areaObjectArgs(TOKEN_INVISQ, 1)),
	33: named("end if visible in area", "RINVIS?", areaObjectArgs(TOKEN_INVISQ, 0)),
	34: named("print", "PRINT", oneArg(TOKEN_PRINT)),
}

// OpcodeArgs returns the payload byte count of an opcode.
func OpcodeArgs(op uint8) (int, bool) {
	if int(op) >= OPCODE_COUNT {
		return 0, false
	}
	return opcodeTable[op].args, true
}

// OpcodeName returns a human readable description of an opcode.
func OpcodeName(op uint8) string {
	if int(op) >= OPCODE_COUNT {
		return "unknown"
	}
	return opcodeTable[op].name
}
