// Package fcl decodes, encodes and assembles Freescape Command Language programs.
package fcl

import (
	"fmt"
	"strings"
)

type Token int

const (
	TOKEN_UNKNOWN Token = iota
	TOKEN_NOP
	TOKEN_ADDVAR
	TOKEN_SUBVAR
	TOKEN_SETVAR
	TOKEN_VARNOTEQ
	TOKEN_SETBIT
	TOKEN_CLEARBIT
	TOKEN_TOGGLEBIT
	TOKEN_BITNOTEQ
	TOKEN_VIS
	TOKEN_INVIS
	TOKEN_TOGVIS
	TOKEN_INVISQ
	TOKEN_DESTROY
	TOKEN_GOTO
	TOKEN_SOUND
	TOKEN_SYNCSND
	TOKEN_DELAY
	TOKEN_REDRAW
	TOKEN_SWAPJET
	TOKEN_SPFX
	TOKEN_PRINT
	TOKEN_SHOTQ
	TOKEN_COLLIDEDQ
)

var tokenNames = [...]string{
	"UNKNOWN", "NOP", "ADDVAR", "SUBVAR", "SETVAR", "VARNOTEQ", "SETBIT", "CLEARBIT",
	"TOGGLEBIT", "BITNOTEQ", "VIS", "INVIS", "TOGVIS", "INVISQ", "DESTROY", "GOTO",
	"SOUND", "SYNCSND", "DELAY", "REDRAW", "SWAPJET", "SPFX", "PRINT", "SHOTQ", "COLLIDEDQ",
}

func (t Token) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TOKEN_%d", int(t))
}

// Game variables touched by the fixed-target opcodes.
const (
	VAR_SCORE  = 61
	VAR_ENERGY = 62
	VAR_SHIELD = 63

	MAX_ENERGY = 63
	MAX_SHIELD = 63
)

// Instruction is one decoded FCL operation.
//
// Operand layout by type:
//
//	ADDVAR, SUBVAR, SETVAR, VARNOTEQ: Source variable, Destination amount/value
//	SETBIT, CLEARBIT, TOGGLEBIT: Source bit (1-based); BITNOTEQ adds Destination value
//	VIS, INVIS, TOGVIS, DESTROY: Source object, Additional area when Qualified
//	INVISQ: as above, Destination 1 ends the block when the object is invisible,
//	        0 when it is visible
//	GOTO: Source area, Destination entrance
//	SOUND, SYNCSND, DELAY, SPFX, PRINT: Source argument
//
// SHOTQ and COLLIDEDQ own the guarded block in Then.
type Instruction struct {
	Type        Token
	Opcode      uint8
	Source      int32
	Destination int32
	Additional  int32
	Qualified   bool
	Then        Instructions
}

type Instructions []*Instruction

func (i *Instruction) IsPredicate() bool {
	return i.Type == TOKEN_SHOTQ || i.Type == TOKEN_COLLIDEDQ
}

// IsEndGuard reports whether the instruction ends its block when its test fails.
func (i *Instruction) IsEndGuard() bool {
	return i.Type == TOKEN_VARNOTEQ || i.Type == TOKEN_BITNOTEQ || i.Type == TOKEN_INVISQ
}

func (i *Instruction) String() string {
	switch i.Type {
	case TOKEN_SHOTQ:
		return "IF SHOT? THEN"
	case TOKEN_COLLIDEDQ:
		return "IF COLLIDED? THEN"
	}
	if int(i.Opcode) >= len(opcodeTable) {
		return fmt.Sprintf("<UNKNOWN %d>", i.Opcode)
	}
	spec := &opcodeTable[i.Opcode]
	if spec.operands == nil {
		return spec.mnemonic
	}
	ops := spec.operands(i)
	parts := make([]string, len(ops))
	for j, op := range ops {
		parts[j] = op.String()
	}
	return spec.mnemonic + " (" + strings.Join(parts, ", ") + ")"
}

// Source renders a predicate-partitioned program in the text form Assemble reads.
func (is Instructions) Source() string {
	var sb strings.Builder
	for _, ins := range is {
		sb.WriteString(ins.String())
		sb.WriteByte('\n')
		if ins.IsPredicate() {
			for _, sub := range ins.Then {
				sb.WriteString("\t")
				sb.WriteString(sub.String())
				sb.WriteByte('\n')
			}
			sb.WriteString("ENDIF\n")
		}
	}
	return sb.String()
}

// Count returns the number of non-predicate instructions in the program.
func (is Instructions) Count() int {
	n := 0
	for _, ins := range is {
		if ins.IsPredicate() {
			n += ins.Then.Count()
		} else {
			n++
		}
	}
	return n
}

// Walk calls fn for every instruction, descending into guarded blocks.
func (is Instructions) Walk(fn func(*Instruction)) {
	for _, ins := range is {
		fn(ins)
		if ins.Then != nil {
			ins.Then.Walk(fn)
		}
	}
}
