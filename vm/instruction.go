package vm

import "fmt"

// Instruction is one decoded instruction. It is produced fresh by every
// decode and is not retained by the machine.
type Instruction struct {
	Op     Opcode
	Ext    Extension // prefix consumed ahead of Op, if any
	Args   Args
	Offset int // offset of the first byte, prefix included
	Size   int // bytes consumed, prefix included
}

// Shape returns the resolved operand shape the instruction was decoded with.
func (in Instruction) Shape() Shape {
	if in.Args == nil {
		return ShapeOf(in.Op).Widen(in.Ext)
	}
	return in.Args.Shape()
}

func (in Instruction) String() string {
	name := in.Op.Name()
	if in.Ext != ExtNone {
		name = in.Ext.Opcode().Name() + " " + name
	}
	if in.Args == nil {
		return name
	}
	if ops := in.Args.String(); ops != "" {
		return fmt.Sprintf("%s %s", name, ops)
	}
	return name
}
