package vm

import (
	"bytes"
	"testing"
)

func TestBuilderEmit(t *testing.T) {
	tests := []struct {
		name     string
		op       Opcode
		operands []int
		want     []byte
	}{
		{"no operands", OpNOP, nil, []byte{byte(OpNOP)}},
		{"narrow pair", OpMOVE, []int{1, 2}, []byte{byte(OpMOVE), 1, 2}},
		{"wide first", OpMOVE, []int{300, 2}, []byte{byte(OpEXT1), byte(OpMOVE), 0x01, 0x2C, 2}},
		{"wide second", OpMOVE, []int{1, 256}, []byte{byte(OpEXT2), byte(OpMOVE), 1, 0x01, 0x00}},
		{"wide both", OpMOVE, []int{256, 256}, []byte{byte(OpEXT3), byte(OpMOVE), 1, 0, 1, 0}},
		{"signed fits", OpLOADI, []int{0, -128}, []byte{byte(OpLOADI), 0, 0x80}},
		{"signed widened", OpLOADI, []int{0, 500}, []byte{byte(OpEXT2), byte(OpLOADI), 0, 0x01, 0xF4}},
		{"native u16", OpJMP, []int{0x1234}, []byte{byte(OpJMP), 0x12, 0x34}},
		{"native i16", OpONERR, []int{-2}, []byte{byte(OpONERR), 0xFF, 0xFE}},
		{"u24", OpENTER, []int{0x123456}, []byte{byte(OpENTER), 0x12, 0x34, 0x56}},
		{"three operands", OpSEND, []int{1, 2, 3}, []byte{byte(OpSEND), 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			if err := b.Emit(tt.op, tt.operands...); err != nil {
				t.Fatalf("Emit: %v", err)
			}
			if !bytes.Equal(b.Bytes(), tt.want) {
				t.Errorf("Bytes() = % X, want % X", b.Bytes(), tt.want)
			}
			if b.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", b.Len(), len(tt.want))
			}
		})
	}
}

func TestBuilderEmitErrors(t *testing.T) {
	tests := []struct {
		name     string
		op       Opcode
		operands []int
	}{
		{"invalid opcode", OpInvalid, nil},
		{"max sentinel", OpMax, nil},
		{"extension prefix", OpEXT2, nil},
		{"too few operands", OpMOVE, []int{1}},
		{"too many operands", OpNOP, []int{1}},
		{"negative unsigned", OpMOVE, []int{-1, 0}},
		{"unsigned overflow", OpMOVE, []int{1 << 16, 0}},
		{"signed overflow", OpLOADI, []int{0, 40000}},
		{"third operand never widens", OpSEND, []int{1, 2, 300}},
		{"u16 overflow", OpJMP, []int{1 << 16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			if err := b.Emit(tt.op, tt.operands...); err == nil {
				t.Fatalf("Emit(%s, %v) succeeded, want error", tt.op, tt.operands)
			}
			if b.Len() != 0 {
				t.Errorf("failed Emit wrote % X", b.Bytes())
			}
		})
	}
}

func TestBuilderEmitExt(t *testing.T) {
	b := NewBuilder()
	if err := b.EmitExt(ExtSecond, OpLOADI, 3, 7); err != nil {
		t.Fatalf("EmitExt: %v", err)
	}
	want := []byte{byte(OpEXT2), byte(OpLOADI), 3, 0, 7}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("Bytes() = % X, want % X", b.Bytes(), want)
	}

	if err := b.EmitExt(ExtNone, OpLOADI, 0, 500); err == nil {
		t.Error("EmitExt without widening accepted an 8-bit overflow")
	}
}

func TestBuilderEmitLoadI(t *testing.T) {
	for _, v := range []int16{0, 1, -1, 127, -128, 500, 32767, -32768} {
		b := NewBuilder()
		b.EmitLoadI(2, v)
		b.EmitStop()

		in, err := NewDecoder(b.Bytes()).Decode()
		if err != nil {
			t.Fatalf("EmitLoadI(2, %d): Decode: %v", v, err)
		}
		args, ok := in.Args.(U8I16)
		if !ok || args.A != 2 || args.B != v {
			t.Errorf("EmitLoadI(2, %d) decoded as %s", v, in)
		}
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.Emit(OpSEND, 1, 2, 3)
	b.Emit(OpJMPIF, 4, 0xBEEF)
	b.Emit(OpMOVE, 1000, 2)
	b.EmitRaw(byte(OpNOP))
	b.EmitStop()

	want := []string{
		"SEND 1, 2, 3",
		"JMPIF 4, 48879",
		"EXT1 MOVE 1000, 2",
		"NOP",
		"STOP",
	}
	d := NewDecoder(b.Bytes())
	for i, w := range want {
		in, err := d.Decode()
		if err != nil {
			t.Fatalf("instruction %d: %v", i, err)
		}
		if in.String() != w {
			t.Errorf("instruction %d = %q, want %q", i, in.String(), w)
		}
	}
	if d.HasMore() {
		t.Errorf("%d trailing bytes", d.Remaining())
	}
}
