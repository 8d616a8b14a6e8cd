package fcl_test

import (
	"bytes"
	"testing"

	"github.com/Pallinder/go-randomdata"
	"github.com/pkg/errors"

	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/pack/stream"
	"github.com/mogaika/freescape/utils"
)

func TestDetokenisePartitioning(t *testing.T) {
	tokens := []byte{
		0x01, 10, 0, 0, // collided: ADDVAR score
		0x84, 5, // shot: VIS 5
		0x89, 3, // shot: INCVAR v3
		0x05, 6, // collided: INVIS 6
	}
	text, program, err := fcl.Detokenise(tokens)
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		mode  fcl.Token
		types []fcl.Token
	}{
		{fcl.TOKEN_COLLIDEDQ, []fcl.Token{fcl.TOKEN_ADDVAR}},
		{fcl.TOKEN_SHOTQ, []fcl.Token{fcl.TOKEN_VIS, fcl.TOKEN_ADDVAR}},
		{fcl.TOKEN_COLLIDEDQ, []fcl.Token{fcl.TOKEN_INVIS}},
	}
	if len(program) != len(want) {
		t.Fatalf("Got %d blocks, want %d:\n%s", len(program), len(want), utils.SDump(program))
	}
	for i, w := range want {
		if program[i].Type != w.mode {
			t.Errorf("Block %d is %v, want %v", i, program[i].Type, w.mode)
		}
		if len(program[i].Then) != len(w.types) {
			t.Errorf("Block %d has %d instructions, want %d", i, len(program[i].Then), len(w.types))
			continue
		}
		for j, typ := range w.types {
			if program[i].Then[j].Type != typ {
				t.Errorf("Block %d instruction %d is %v, want %v", i, j, program[i].Then[j].Type, typ)
			}
		}
	}
	if program.Count() != 4 {
		t.Errorf("Count() = %d", program.Count())
	}

	const wantText = "IF COLLIDED? THEN\n\tADDVAR (10, v61)\nENDIF\n" +
		"IF SHOT? THEN\n\tVIS (5)\n\tINCVAR (v3)\nENDIF\n" +
		"IF COLLIDED? THEN\n\tINVIS (6)\nENDIF\n"
	if text != wantText {
		t.Errorf("Source text mismatch:\n%s\nwant:\n%s", text, wantText)
	}
	if program.Source() != wantText {
		t.Errorf("Instructions.Source() mismatch:\n%s", program.Source())
	}
}

func TestDetokeniseEmpty(t *testing.T) {
	_, program, err := fcl.Detokenise(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(program) != 1 || !program[0].IsPredicate() || len(program[0].Then) != 0 {
		t.Errorf("Empty stream must produce one empty block:\n%s", utils.SDump(program))
	}
}

func TestDetokeniseTrailingFlush(t *testing.T) {
	_, program, err := fcl.Detokenise([]byte{0x84, 1, 0x80})
	if err != nil {
		t.Fatal(err)
	}
	if len(program) != 1 || program[0].Type != fcl.TOKEN_SHOTQ || len(program[0].Then) != 2 {
		t.Fatalf("Unexpected program:\n%s", utils.SDump(program))
	}
	if program[0].Then[1].Type != fcl.TOKEN_NOP {
		t.Errorf("Last instruction is %v", program[0].Then[1].Type)
	}
}

func TestDetokeniseOperands(t *testing.T) {
	for _, test := range []struct {
		tokens []byte
		typ    fcl.Token
		src    int32
		dst    int32
		add    int32
		qual   bool
	}{
		{[]byte{0x01, 0x40, 0x42, 0x0f}, fcl.TOKEN_ADDVAR, fcl.VAR_SCORE, 1000000, 0, false},
		{[]byte{0x02, 0xfb}, fcl.TOKEN_ADDVAR, fcl.VAR_ENERGY, -5, 0, false},
		{[]byte{0x13, 0x0a}, fcl.TOKEN_ADDVAR, fcl.VAR_SHIELD, 10, 0, false},
		{[]byte{0x0a, 7}, fcl.TOKEN_SUBVAR, 7, 1, 0, false},
		{[]byte{0x0b, 7, 9}, fcl.TOKEN_VARNOTEQ, 7, 9, 0, false},
		{[]byte{0x0e, 4, 1}, fcl.TOKEN_BITNOTEQ, 4, 1, 0, false},
		{[]byte{0x07, 2, 33}, fcl.TOKEN_VIS, 33, 0, 2, true},
		{[]byte{0x11, 2, 33}, fcl.TOKEN_DESTROY, 33, 0, 2, true},
		{[]byte{0x12, 3, 1}, fcl.TOKEN_GOTO, 3, 1, 0, false},
		{[]byte{0x14, 40, 200}, fcl.TOKEN_SETVAR, 40, 200, 0, false},
		{[]byte{0x1e, 12}, fcl.TOKEN_INVISQ, 12, 1, 0, false},
		{[]byte{0x1f, 12}, fcl.TOKEN_INVISQ, 12, 0, 0, false},
		{[]byte{0x21, 5, 12}, fcl.TOKEN_INVISQ, 12, 0, 5, true},
		{[]byte{0x22, 17}, fcl.TOKEN_PRINT, 17, 0, 0, false},
	} {
		_, program, err := fcl.Detokenise(test.tokens)
		if err != nil {
			t.Errorf("%x: %v", test.tokens, err)
			continue
		}
		ins := program[0].Then[0]
		if ins.Type != test.typ || ins.Source != test.src || ins.Destination != test.dst ||
			ins.Additional != test.add || ins.Qualified != test.qual {
			t.Errorf("%x: got %s", test.tokens, utils.SDump(ins))
		}
	}
}

func TestDetokeniseUnknownOpcode(t *testing.T) {
	_, _, err := fcl.Detokenise([]byte{0x04, 1, 0x3f})
	if err == nil {
		t.Fatal("Expected error for opcode 63")
	}
	var de *stream.DecodeError
	if !errors.As(err, &de) || de.Kind != stream.ErrUnknownOpcode || de.Offset != 2 {
		t.Errorf("Unexpected error %v", err)
	}
}

func TestDetokeniseTruncated(t *testing.T) {
	_, program, err := fcl.Detokenise([]byte{0x04, 1, 0x12, 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(program) != 1 || len(program[0].Then) != 1 || program[0].Then[0].Type != fcl.TOKEN_VIS {
		t.Errorf("Truncated GOTO must be dropped:\n%s", utils.SDump(program))
	}
}

func randomProgram(instructions int) []byte {
	var tokens []byte
	for i := 0; i < instructions; i++ {
		op := uint8(randomdata.Number(0, fcl.OPCODE_COUNT))
		if randomdata.Boolean() {
			op |= fcl.MODE_SHOT_BIT
		}
		tokens = append(tokens, op)
		args, _ := fcl.OpcodeArgs(op & fcl.OPCODE_MASK)
		for j := 0; j < args; j++ {
			tokens = append(tokens, byte(randomdata.Number(0, 256)))
		}
	}
	return tokens
}

func TestTokeniseRoundTrip(t *testing.T) {
	for i := 0; i < 200; i++ {
		tokens := randomProgram(randomdata.Number(1, 24))
		_, program, err := fcl.Detokenise(tokens)
		if err != nil {
			t.Fatalf("%x: %v", tokens, err)
		}
		encoded, err := fcl.Tokenise(program)
		if err != nil {
			t.Fatalf("%x: %v", tokens, err)
		}
		if !bytes.Equal(encoded, tokens) {
			t.Fatalf("Round trip mismatch:\n%x\n%x", tokens, encoded)
		}

		_, again, err := fcl.Detokenise(encoded)
		if err != nil {
			t.Fatal(err)
		}
		if again.Count() != program.Count() || len(again) != len(program) {
			t.Fatalf("Partitioning changed for %x", tokens)
		}
		for j := range again {
			if again[j].Type != program[j].Type {
				t.Fatalf("Block %d mode changed for %x", j, tokens)
			}
		}
	}
}

func TestTokeniseRejectsBareInstruction(t *testing.T) {
	_, program, _ := fcl.Detokenise([]byte{0x04, 1})
	if _, err := fcl.Tokenise(program[0].Then); err == nil {
		t.Error("Expected error for instruction outside of a block")
	}
}
