package vm

import (
	"fmt"
	"strings"
)

// DisassembleLines decodes code from the start and returns one line per
// instruction. Decoding stops at the first error, which is reported as the
// final line.
func DisassembleLines(code []byte) []string {
	var lines []string
	d := NewDecoder(code)
	for d.HasMore() {
		pos := d.Pos()
		in, err := d.Decode()
		if err != nil {
			lines = append(lines, fmt.Sprintf("%04X  <%v>", pos, err))
			break
		}
		lines = append(lines, fmt.Sprintf("%04X  %s", in.Offset, in))
	}
	return lines
}

// Disassemble returns a full listing of code.
func Disassemble(code []byte) string {
	return strings.Join(DisassembleLines(code), "\n")
}

// InstructionCount returns the number of instructions that decode cleanly
// from the start of code.
func InstructionCount(code []byte) int {
	count := 0
	d := NewDecoder(code)
	for d.HasMore() {
		if _, err := d.Decode(); err != nil {
			break
		}
		count++
	}
	return count
}
