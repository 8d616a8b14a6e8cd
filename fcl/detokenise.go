package fcl

import (
	"strings"

	"github.com/mogaika/freescape/pack/stream"
	"github.com/mogaika/freescape/utils"
)

const (
	MODE_SHOT_BIT = 0x80
	OPCODE_MASK   = 0x3f
)

// Detokenise turns an 8-bit FCL token stream into a program of SHOTQ/COLLIDEDQ
// blocks and its source text. Every result ends with at least one block, even for
// an empty stream. Operands cut short by the end of the stream stop decoding.
func Detokenise(tokens []byte) (string, Instructions, error) {
	var sb strings.Builder
	var program Instructions
	var run Instructions
	mode := TOKEN_COLLIDEDQ

	flush := func() {
		program = append(program, &Instruction{Type: mode, Then: run})
		sb.WriteString("ENDIF\n")
		run = nil
	}

	for pos := 0; pos < len(tokens); {
		b := tokens[pos]
		newMode := TOKEN_COLLIDEDQ
		if b&MODE_SHOT_BIT != 0 {
			newMode = TOKEN_SHOTQ
		}
		if pos == 0 || newMode != mode {
			if pos != 0 {
				flush()
			}
			mode = newMode
			sb.WriteString((&Instruction{Type: mode}).String())
			sb.WriteByte('\n')
		}

		op := b & OPCODE_MASK
		if int(op) >= OPCODE_COUNT {
			return "", nil, stream.NewDecodeError(stream.ErrUnknownOpcode, int64(pos),
				"Unknown FCL opcode %d (token 0x%02x)", op, b)
		}
		pos++

		spec := &opcodeTable[op]
		if pos+spec.args > len(tokens) {
			utils.Channel(utils.ChannelParser).Debugf("FCL opcode %d truncated at %d", op, pos-1)
			break
		}
		ins := spec.parse(op, tokens[pos:pos+spec.args])
		pos += spec.args

		run = append(run, ins)
		sb.WriteByte('\t')
		sb.WriteString(ins.String())
		sb.WriteByte('\n')
	}

	if len(tokens) == 0 {
		sb.WriteString((&Instruction{Type: mode}).String())
		sb.WriteByte('\n')
	}
	flush()

	return sb.String(), program, nil
}
