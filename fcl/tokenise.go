package fcl

import (
	"github.com/pkg/errors"
)

// Tokenise encodes a predicate-partitioned program back into FCL tokens.
// Empty blocks produce no bytes.
func Tokenise(program Instructions) ([]byte, error) {
	var buf []byte
	for i, block := range program {
		var modeBit byte
		switch block.Type {
		case TOKEN_SHOTQ:
			modeBit = MODE_SHOT_BIT
		case TOKEN_COLLIDEDQ:
		default:
			return nil, errors.Errorf("Top level instruction %d is %v, expected SHOTQ or COLLIDEDQ", i, block.Type)
		}
		for j, ins := range block.Then {
			if int(ins.Opcode) >= OPCODE_COUNT {
				return nil, errors.Errorf("Instruction %d.%d has unknown opcode %d", i, j, ins.Opcode)
			}
			payload, err := opcodeTable[ins.Opcode].encode(ins)
			if err != nil {
				return nil, errors.Wrapf(err, "Failed to encode instruction %d.%d %v", i, j, ins)
			}
			buf = append(buf, ins.Opcode|modeBit)
			buf = append(buf, payload...)
		}
	}
	return buf, nil
}
