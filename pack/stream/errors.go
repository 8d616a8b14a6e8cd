package stream

import "fmt"

type ErrorKind int

const (
	ErrTruncated ErrorKind = iota
	ErrInvalidArgument
	ErrObjectTooSmall
	ErrUnknownOpcode
	ErrOffsetMismatch
	ErrDuplicateID
	ErrInconsistentData
)

var errorKindNames = map[ErrorKind]string{
	ErrTruncated:        "truncated stream",
	ErrInvalidArgument:  "invalid argument",
	ErrObjectTooSmall:   "object too small",
	ErrUnknownOpcode:    "unknown opcode",
	ErrOffsetMismatch:   "offset mismatch",
	ErrDuplicateID:      "duplicate id",
	ErrInconsistentData: "inconsistent data",
}

func (k ErrorKind) String() string {
	return errorKindNames[k]
}

// DecodeError is a fatal format error. The load that produced it must be abandoned.
type DecodeError struct {
	Kind   ErrorKind
	Offset int64
	Msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at 0x%x (%v): %s", e.Offset, e.Kind, e.Msg)
}

func NewDecodeError(kind ErrorKind, offset int64, format string, a ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, a...)}
}

// Warning is a recoverable field anomaly. The value was clamped, decoding continued.
type Warning struct {
	Offset int64
	Value  uint16
	Msg    string
}

func (w Warning) String() string {
	return fmt.Sprintf("0x%x: %s (value 0x%x)", w.Offset, w.Msg, w.Value)
}
