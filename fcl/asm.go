package fcl

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	LEX_KEYWORD = iota
	LEX_VAR
	LEX_NUMBER
	LEX_LPAREN
	LEX_RPAREN
	LEX_COMMA
	LEX_NEWLINE
	LEX_COMMENT
)

var lexer *lexmachine.Lexer

// mnemonic -> candidate opcodes, in opcode order
var mnemonics = make(map[string][]uint8)

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`[A-Z][A-Z0-9]*([!][=])?[?]?`), getToken(LEX_KEYWORD))
	lexer.Add([]byte(`v[0-9]+`), getToken(LEX_VAR))
	lexer.Add([]byte(`[\+\-]?[0-9]+`), getToken(LEX_NUMBER))
	lexer.Add([]byte(`\(`), getToken(LEX_LPAREN))
	lexer.Add([]byte(`\)`), getToken(LEX_RPAREN))
	lexer.Add([]byte(`,`), getToken(LEX_COMMA))
	lexer.Add([]byte(`(\n|\r|\r\n)+`), getToken(LEX_NEWLINE))
	lexer.Add([]byte(`//[^\n]*`), getToken(LEX_COMMENT))
	lexer.Add([]byte(`( |\t)+`), skip)

	for op := range opcodeTable {
		m := opcodeTable[op].mnemonic
		mnemonics[m] = append(mnemonics[m], uint8(op))
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

type asmState struct {
	program Instructions
	block   *Instruction
}

// Assemble parses the text produced by Detokenise back into a program.
func Assemble(text string) (Instructions, error) {
	scanner, err := lexer.Scanner([]byte(text))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	st := &asmState{program: make(Instructions, 0, 2)}
	line := make([]*lexmachine.Token, 0, 8)

	for Itok, err, eos := scanner.Next(); !eos; Itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		tok := Itok.(*lexmachine.Token)

		switch tok.Type {
		case LEX_COMMENT:
		case LEX_NEWLINE:
			if err := st.line(line); err != nil {
				return nil, err
			}
			line = line[:0]
		default:
			line = append(line, tok)
		}
	}
	if err := st.line(line); err != nil {
		return nil, err
	}
	if st.block != nil {
		return nil, errors.Errorf("Missing ENDIF for block started on %v", st.block)
	}
	return st.program, nil
}

func lexeme(tok *lexmachine.Token) string {
	return string(tok.Lexeme)
}

func (st *asmState) line(toks []*lexmachine.Token) error {
	if len(toks) == 0 {
		return nil
	}
	first := toks[0]
	if first.Type != LEX_KEYWORD {
		return errors.Errorf("Expected keyword on line %v (%q)", first.StartLine, first.Lexeme)
	}

	switch kw := lexeme(first); kw {
	case "IF":
		if st.block != nil {
			return errors.Errorf("Nested block on line %v", first.StartLine)
		}
		if len(toks) != 3 || lexeme(toks[2]) != "THEN" {
			return errors.Errorf("Malformed IF on line %v", first.StartLine)
		}
		switch lexeme(toks[1]) {
		case "SHOT?":
			st.block = &Instruction{Type: TOKEN_SHOTQ}
		case "COLLIDED?":
			st.block = &Instruction{Type: TOKEN_COLLIDEDQ}
		default:
			return errors.Errorf("Unknown predicate %q on line %v", toks[1].Lexeme, first.StartLine)
		}
		st.program = append(st.program, st.block)
		return nil
	case "ENDIF":
		if st.block == nil {
			return errors.Errorf("ENDIF without IF on line %v", first.StartLine)
		}
		st.block = nil
		return nil
	default:
		if st.block == nil {
			return errors.Errorf("Instruction %q outside of block on line %v", kw, first.StartLine)
		}
		ops, err := parseOperands(toks[1:])
		if err != nil {
			return errors.Wrapf(err, "Failed to parse operands on line %v", first.StartLine)
		}
		ins, err := buildInstruction(kw, ops)
		if err != nil {
			return errors.Wrapf(err, "Failed to assemble line %v", first.StartLine)
		}
		st.block.Then = append(st.block.Then, ins)
		return nil
	}
}

func parseOperands(toks []*lexmachine.Token) ([]operand, error) {
	if len(toks) == 0 {
		return nil, nil
	}
	if toks[0].Type != LEX_LPAREN || toks[len(toks)-1].Type != LEX_RPAREN {
		return nil, errors.Errorf("Operands must be wrapped in parentheses")
	}
	toks = toks[1 : len(toks)-1]

	ops := make([]operand, 0, 2)
	for i, tok := range toks {
		if i%2 == 1 {
			if tok.Type != LEX_COMMA {
				return nil, errors.Errorf("Expected comma, got %q", tok.Lexeme)
			}
			continue
		}
		var op operand
		s := lexeme(tok)
		switch tok.Type {
		case LEX_VAR:
			op.Var = true
			s = s[1:]
		case LEX_NUMBER:
		default:
			return nil, errors.Errorf("Unexpected operand %q", tok.Lexeme)
		}
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "Bad number %q", tok.Lexeme)
		}
		op.Value = int32(v)
		ops = append(ops, op)
	}
	if len(toks) > 0 && len(toks)%2 == 0 {
		return nil, errors.Errorf("Trailing comma")
	}
	return ops, nil
}

func buildInstruction(mnemonic string, ops []operand) (*Instruction, error) {
	candidates, ok := mnemonics[mnemonic]
	if !ok {
		return nil, errors.Errorf("Unknown instruction %q", mnemonic)
	}
	var lastErr error
	for _, op := range candidates {
		ins, err := opcodeTable[op].build(op, ops)
		if err == nil {
			return ins, nil
		}
		lastErr = err
	}
	return nil, errors.Wrapf(lastErr, "No encoding of %s accepts %v", mnemonic, ops)
}
