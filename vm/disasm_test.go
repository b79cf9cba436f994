package vm

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDisassembleLines(t *testing.T) {
	b := NewBuilder()
	b.Emit(OpNOP)
	b.EmitLoadI(0, 500)
	b.Emit(OpONERR, -4)
	b.Emit(OpENTER, 0x040000)
	b.EmitStop()

	want := []string{
		"0000  NOP",
		"0001  EXT2 LOADI 0, 500",
		"0006  ONERR -4",
		"0009  ENTER 0x040000",
		"000D  STOP",
	}
	if diff := cmp.Diff(want, DisassembleLines(b.Bytes())); diff != "" {
		t.Errorf("DisassembleLines mismatch (-want +got):\n%s", diff)
	}
	if n := InstructionCount(b.Bytes()); n != len(want) {
		t.Errorf("InstructionCount = %d, want %d", n, len(want))
	}
}

func TestDisassembleStopsAtError(t *testing.T) {
	code := []byte{byte(OpNOP), byte(OpMOVE), 1}
	lines := DisassembleLines(code)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.HasPrefix(lines[1], "0001  <truncated instruction: MOVE") {
		t.Errorf("error line = %q", lines[1])
	}
	if n := InstructionCount(code); n != 1 {
		t.Errorf("InstructionCount = %d, want 1", n)
	}
}

func TestDisassembleInvalid(t *testing.T) {
	got := Disassemble([]byte{0xFF, byte(OpSTOP)})
	want := "0000  INVALID\n0001  STOP"
	if got != want {
		t.Errorf("Disassemble = %q, want %q", got, want)
	}
}

func TestDisassembleEmpty(t *testing.T) {
	if got := Disassemble(nil); got != "" {
		t.Errorf("Disassemble(nil) = %q, want empty", got)
	}
}
