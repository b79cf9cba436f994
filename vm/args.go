package vm

import "fmt"

// Args holds the decoded operands of one instruction. The set of
// implementations is closed: there is exactly one type per operand shape
// the decoder can produce, and each reports the shape it carries.
type Args interface {
	Shape() Shape
	String() string
	args()
}

// None is the operand set of a zero-argument instruction.
type None struct{}

// U8 is a single unsigned 8-bit operand.
type U8 struct{ A uint8 }

// U16 is a single unsigned 16-bit operand.
type U16 struct{ A uint16 }

// I16 is a single signed 16-bit operand.
type I16 struct{ A int16 }

// U24 is a single 24-bit operand kept as its three raw bytes, most
// significant first. Combining them is left to the consumer.
type U24 struct{ A [3]byte }

// Two-operand shapes.
type U8U8 struct{ A, B uint8 }

type U16U8 struct {
	A uint16
	B uint8
}

type U8U16 struct {
	A uint8
	B uint16
}

type U16U16 struct{ A, B uint16 }

type U8I8 struct {
	A uint8
	B int8
}

type U16I8 struct {
	A uint16
	B int8
}

type U8I16 struct {
	A uint8
	B int16
}

type U16I16 struct {
	A uint16
	B int16
}

// Three-operand shapes.
type U8U8U8 struct{ A, B, C uint8 }

type U16U8U8 struct {
	A    uint16
	B, C uint8
}

type U8U16U8 struct {
	A uint8
	B uint16
	C uint8
}

type U16U16U8 struct {
	A, B uint16
	C    uint8
}

func (None) Shape() Shape { return shapeNone }
func (U8) Shape() Shape { return shapeU8 }
func (U16) Shape() Shape { return shapeU16 }
func (I16) Shape() Shape { return shapeI16 }
func (U24) Shape() Shape { return shapeU24 }
func (U8U8) Shape() Shape { return shapeU8U8 }
func (U16U8) Shape() Shape { return shapeU16U8 }
func (U8U16) Shape() Shape { return shapeU8U16 }
func (U16U16) Shape() Shape { return shapeU16U16 }
func (U8I8) Shape() Shape { return shapeU8I8 }
func (U16I8) Shape() Shape { return shapeU16I8 }
func (U8I16) Shape() Shape { return shapeU8I16 }
func (U16I16) Shape() Shape { return shapeU16I16 }
func (U8U8U8) Shape() Shape { return shapeU8U8U8 }
func (U16U8U8) Shape() Shape { return shapeU16U8U8 }
func (U8U16U8) Shape() Shape { return shapeU8U16U8 }
func (U16U16U8) Shape() Shape { return shapeU16U16U8 }

func (None) args() {}
func (U8) args() {}
func (U16) args() {}
func (I16) args() {}
func (U24) args() {}
func (U8U8) args() {}
func (U16U8) args() {}
func (U8U16) args() {}
func (U16U16) args() {}
func (U8I8) args() {}
func (U16I8) args() {}
func (U8I16) args() {}
func (U16I16) args() {}
func (U8U8U8) args() {}
func (U16U8U8) args() {}
func (U8U16U8) args() {}
func (U16U16U8) args() {}

func (None) String() string { return "" }
func (a U8) String() string { return fmt.Sprintf("%d", a.A) }
func (a U16) String() string { return fmt.Sprintf("%d", a.A) }
func (a I16) String() string { return fmt.Sprintf("%d", a.A) }
func (a U24) String() string { return fmt.Sprintf("0x%02X%02X%02X", a.A[0], a.A[1], a.A[2]) }
func (a U8U8) String() string { return fmt.Sprintf("%d, %d", a.A, a.B) }
func (a U16U8) String() string { return fmt.Sprintf("%d, %d", a.A, a.B) }
func (a U8U16) String() string { return fmt.Sprintf("%d, %d", a.A, a.B) }
func (a U16U16) String() string { return fmt.Sprintf("%d, %d", a.A, a.B) }
func (a U8I8) String() string { return fmt.Sprintf("%d, %d", a.A, a.B) }
func (a U16I8) String() string { return fmt.Sprintf("%d, %d", a.A, a.B) }
func (a U8I16) String() string { return fmt.Sprintf("%d, %d", a.A, a.B) }
func (a U16I16) String() string { return fmt.Sprintf("%d, %d", a.A, a.B) }
func (a U8U8U8) String() string { return fmt.Sprintf("%d, %d, %d", a.A, a.B, a.C) }
func (a U16U8U8) String() string { return fmt.Sprintf("%d, %d, %d", a.A, a.B, a.C) }
func (a U8U16U8) String() string { return fmt.Sprintf("%d, %d, %d", a.A, a.B, a.C) }
func (a U16U16U8) String() string { return fmt.Sprintf("%d, %d, %d", a.A, a.B, a.C) }

// newArgs builds the operand value for a resolved shape from raw operand
// words. raw holds each operand zero-extended; signed slots are
// reinterpreted at their own width. The second result is false for a shape
// no Args type represents, which means the opcode table and this switch
// have drifted apart.
func newArgs(s Shape, raw [MaxArgs]uint32, wide [3]byte) (Args, bool) {
	switch s {
	case shapeNone:
		return None{}, true
	case shapeU8:
		return U8{uint8(raw[0])}, true
	case shapeU16:
		return U16{uint16(raw[0])}, true
	case shapeI16:
		return I16{int16(uint16(raw[0]))}, true
	case shapeU24:
		return U24{wide}, true
	case shapeU8U8:
		return U8U8{uint8(raw[0]), uint8(raw[1])}, true
	case shapeU16U8:
		return U16U8{uint16(raw[0]), uint8(raw[1])}, true
	case shapeU8U16:
		return U8U16{uint8(raw[0]), uint16(raw[1])}, true
	case shapeU16U16:
		return U16U16{uint16(raw[0]), uint16(raw[1])}, true
	case shapeU8I8:
		return U8I8{uint8(raw[0]), int8(uint8(raw[1]))}, true
	case shapeU16I8:
		return U16I8{uint16(raw[0]), int8(uint8(raw[1]))}, true
	case shapeU8I16:
		return U8I16{uint8(raw[0]), int16(uint16(raw[1]))}, true
	case shapeU16I16:
		return U16I16{uint16(raw[0]), int16(uint16(raw[1]))}, true
	case shapeU8U8U8:
		return U8U8U8{uint8(raw[0]), uint8(raw[1]), uint8(raw[2])}, true
	case shapeU16U8U8:
		return U16U8U8{uint16(raw[0]), uint8(raw[1]), uint8(raw[2])}, true
	case shapeU8U16U8:
		return U8U16U8{uint8(raw[0]), uint16(raw[1]), uint8(raw[2])}, true
	case shapeU16U16U8:
		return U16U16U8{uint16(raw[0]), uint16(raw[1]), uint8(raw[2])}, true
	}
	return nil, false
}
