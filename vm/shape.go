package vm

import (
	"fmt"
	"strings"
)

// Width is the encoded size of one operand in bits.
type Width uint8

const (
	WidthNone Width = 0
	Width8    Width = 8
	Width16   Width = 16
	Width24   Width = 24
)

// Bytes returns the number of program bytes an operand of this width uses.
func (w Width) Bytes() int {
	return int(w) / 8
}

// ArgSpec describes one operand slot.
type ArgSpec struct {
	Width  Width
	Signed bool
}

func (a ArgSpec) String() string {
	if a.Width == WidthNone {
		return "-"
	}
	if a.Signed {
		return fmt.Sprintf("i%d", a.Width)
	}
	return fmt.Sprintf("u%d", a.Width)
}

// MaxArgs is the largest operand count any opcode takes.
const MaxArgs = 3

// Shape is an opcode's operand layout: how many operands follow the opcode
// byte and the width and signedness of each.
type Shape struct {
	Argc uint8
	Args [MaxArgs]ArgSpec
}

var (
	u8  = ArgSpec{Width: Width8}
	i8  = ArgSpec{Width: Width8, Signed: true}
	u16 = ArgSpec{Width: Width16}
	i16 = ArgSpec{Width: Width16, Signed: true}
	u24 = ArgSpec{Width: Width24}
)

// Base shapes, as declared by the opcode table.
var (
	shapeNone   = Shape{}
	shapeU8     = Shape{Argc: 1, Args: [MaxArgs]ArgSpec{u8}}
	shapeU16    = Shape{Argc: 1, Args: [MaxArgs]ArgSpec{u16}}
	shapeI16    = Shape{Argc: 1, Args: [MaxArgs]ArgSpec{i16}}
	shapeU24    = Shape{Argc: 1, Args: [MaxArgs]ArgSpec{u24}}
	shapeU8U8   = Shape{Argc: 2, Args: [MaxArgs]ArgSpec{u8, u8}}
	shapeU8I8   = Shape{Argc: 2, Args: [MaxArgs]ArgSpec{u8, i8}}
	shapeU8U16  = Shape{Argc: 2, Args: [MaxArgs]ArgSpec{u8, u16}}
	shapeU8U8U8 = Shape{Argc: 3, Args: [MaxArgs]ArgSpec{u8, u8, u8}}
)

// Shapes only reachable through an extension prefix.
var (
	shapeU16U8    = Shape{Argc: 2, Args: [MaxArgs]ArgSpec{u16, u8}}
	shapeU16U16   = Shape{Argc: 2, Args: [MaxArgs]ArgSpec{u16, u16}}
	shapeU16I8    = Shape{Argc: 2, Args: [MaxArgs]ArgSpec{u16, i8}}
	shapeU8I16    = Shape{Argc: 2, Args: [MaxArgs]ArgSpec{u8, i16}}
	shapeU16I16   = Shape{Argc: 2, Args: [MaxArgs]ArgSpec{u16, i16}}
	shapeU16U8U8  = Shape{Argc: 3, Args: [MaxArgs]ArgSpec{u16, u8, u8}}
	shapeU8U16U8  = Shape{Argc: 3, Args: [MaxArgs]ArgSpec{u8, u16, u8}}
	shapeU16U16U8 = Shape{Argc: 3, Args: [MaxArgs]ArgSpec{u16, u16, u8}}
)

// shapeTable is indexed by the raw opcode value. Entries for OpMax, OpInvalid
// and the unused range between them are the zero-operand shape.
var shapeTable = buildShapeTable()

func buildShapeTable() (t [256]Shape) {
	group := func(s Shape, ops ...Opcode) {
		for _, op := range ops {
			t[op] = s
		}
	}

	group(shapeNone,
		OpNOP, OpEXT1, OpEXT2, OpEXT3, OpSTOP)

	group(shapeU8,
		OpLOADI0, OpLOADI1, OpLOADI2, OpLOADI3,
		OpLOADNIL, OpLOADSELF, OpLOADT, OpLOADF,
		OpEXCEPT, OpPOPERR, OpRAISE, OpEPUSH, OpEPOP,
		OpCALL, OpRETURN, OpRETURNBLK, OpBREAK,
		OpARYCAT, OpARYPUSH, OpSTRCAT,
		OpRANGEINC, OpRANGEEXC, OpOCLASS,
		OpALIAS, OpSCLASS, OpTCLASS, OpERR)

	group(shapeU16, OpJMP)
	group(shapeI16, OpONERR)
	group(shapeU24, OpENTER)

	group(shapeU8U8,
		OpMOVE, OpLOADL, OpLOADSYM,
		OpGETGV, OpSETGV, OpGETSV, OpSETSV, OpGETIV, OpSETIV, OpGETCV, OpSETCV,
		OpGETCONST, OpSETCONST, OpGETMCNST, OpSETMCNST,
		OpRESCUE, OpSENDV, OpSENDVB, OpSUPER, OpKARG, OpKARG2,
		OpADD, OpSUB, OpSUBI, OpMUL, OpDIV, OpEQ, OpLT, OpLE, OpGT, OpGE,
		OpARRAY, OpARRAY2, OpAREF, OpASET, OpAPOST,
		OpSTRING, OpHASH, OpHASHADD,
		OpLAMBDA, OpBLOCK, OpMETHOD, OpCLASS, OpMODULE, OpEXEC, OpDEF, OpUNDEF)

	group(shapeU8I8, OpLOADI)
	group(shapeU8U16, OpJMPIF, OpJMPNOT, OpARGARY, OpBLKPUSH)
	group(shapeU8U8U8, OpGETUPVAR, OpSETUPVAR, OpSEND, OpSENDB, OpADDI)

	return t
}

// ShapeOf returns the declared operand shape of op. It is defined for every
// opcode value, including OpMax and OpInvalid, which take no operands.
func ShapeOf(op Opcode) Shape {
	return shapeTable[op]
}

// LegalShapes returns the closed set of shapes the opcode table may declare.
func LegalShapes() []Shape {
	return []Shape{
		shapeNone, shapeU8, shapeU16, shapeI16, shapeU24,
		shapeU8U8, shapeU8I8, shapeU8U16, shapeU8U8U8,
	}
}

// Consistent reports whether exactly the first Argc operand slots carry a
// width. A table entry that fails this check would misalign every decode
// that follows it.
func (s Shape) Consistent() bool {
	if s.Argc > MaxArgs {
		return false
	}
	for i, a := range s.Args {
		if (i < int(s.Argc)) != (a.Width != WidthNone) {
			return false
		}
		if a.Width == WidthNone && a.Signed {
			return false
		}
	}
	return true
}

// ByteLen returns the number of operand bytes following the opcode byte.
func (s Shape) ByteLen() int {
	n := 0
	for i := 0; i < int(s.Argc) && i < MaxArgs; i++ {
		n += s.Args[i].Width.Bytes()
	}
	return n
}

// Widen applies an extension prefix: the selected 8-bit operands become
// 16-bit. Absent operands and operands already 16 bits or wider are left
// alone, and signedness never changes.
func (s Shape) Widen(ext Extension) Shape {
	if ext.first() {
		s.Args[0] = widen(s.Args[0])
	}
	if ext.second() {
		s.Args[1] = widen(s.Args[1])
	}
	return s
}

func widen(a ArgSpec) ArgSpec {
	if a.Width == Width8 {
		a.Width = Width16
	}
	return a
}

func (s Shape) String() string {
	if s.Argc == 0 {
		return "()"
	}
	parts := make([]string, 0, s.Argc)
	for i := 0; i < int(s.Argc) && i < MaxArgs; i++ {
		parts = append(parts, s.Args[i].String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Extension selects which operands an EXT prefix widens.
type Extension uint8

const (
	ExtNone   Extension = iota
	ExtFirst            // EXT1
	ExtSecond           // EXT2
	ExtBoth             // EXT3
)

func (e Extension) first() bool  { return e == ExtFirst || e == ExtBoth }
func (e Extension) second() bool { return e == ExtSecond || e == ExtBoth }

// Opcode returns the prefix opcode that encodes e, or OpNOP for ExtNone.
func (e Extension) Opcode() Opcode {
	switch e {
	case ExtFirst:
		return OpEXT1
	case ExtSecond:
		return OpEXT2
	case ExtBoth:
		return OpEXT3
	}
	return OpNOP
}

func (e Extension) String() string {
	switch e {
	case ExtNone:
		return "none"
	case ExtFirst:
		return "first"
	case ExtSecond:
		return "second"
	case ExtBoth:
		return "both"
	}
	return fmt.Sprintf("Extension(%d)", uint8(e))
}
