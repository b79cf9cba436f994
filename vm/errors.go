package vm

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every failure the machine records matches exactly
// one of them.
var (
	// ErrEndOfProgram means a decode was attempted with no bytes left.
	ErrEndOfProgram = errors.New("end of program")

	ErrTruncatedInstruction    = errors.New("truncated instruction")
	ErrUnsupportedOpcode       = errors.New("unsupported opcode")
	ErrRegisterIndexOutOfRange = errors.New("register index out of range")
	ErrArgumentShapeMismatch   = errors.New("argument shape mismatch")
)

// TruncatedInstructionError reports an opcode whose operands run past the
// end of the program.
type TruncatedInstructionError struct {
	Op     Opcode
	Offset int // offset of the first byte of the instruction, prefix included
	Argc   int // operands the resolved shape requires
	Need   int // operand bytes required
	Have   int // operand bytes available
}

func (e *TruncatedInstructionError) Error() string {
	return fmt.Sprintf("truncated instruction: %s at %04X needs %d operand(s) in %d byte(s), %d available",
		e.Op, e.Offset, e.Argc, e.Need, e.Have)
}

func (e *TruncatedInstructionError) Is(target error) bool {
	return target == ErrTruncatedInstruction
}

// UnsupportedOpcodeError reports a successfully decoded opcode that has no
// dispatch handler.
type UnsupportedOpcodeError struct {
	Op     Opcode
	Offset int
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("unsupported opcode %s (0x%02X) at %04X", e.Op, byte(e.Op), e.Offset)
}

func (e *UnsupportedOpcodeError) Is(target error) bool {
	return target == ErrUnsupportedOpcode
}

// RegisterIndexOutOfRangeError reports an operand addressing a register
// beyond the register file.
type RegisterIndexOutOfRangeError struct {
	Op    Opcode
	Index int
}

func (e *RegisterIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: register index %d out of range (%d registers)", e.Op, e.Index, NumRegisters)
}

func (e *RegisterIndexOutOfRangeError) Is(target error) bool {
	return target == ErrRegisterIndexOutOfRange
}

// ArgumentShapeMismatchError reports a handler given operands of a shape it
// does not accept. The opcode table and the dispatcher disagree.
type ArgumentShapeMismatchError struct {
	Op   Opcode
	Want Shape
	Got  Shape
}

func (e *ArgumentShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: argument shape mismatch: want %s, got %s", e.Op, e.Want, e.Got)
}

func (e *ArgumentShapeMismatchError) Is(target error) bool {
	return target == ErrArgumentShapeMismatch
}
