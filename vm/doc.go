// Package vm implements the decode and dispatch core of a register-based
// bytecode virtual machine.
//
// This package contains:
//   - The opcode table mapping every opcode to its operand shape
//   - A decoder that folds EXT1/EXT2/EXT3 prefixes into the instruction
//     that follows them and rejects truncated instructions atomically
//   - The fetch-decode-execute loop over a 32-slot register file
//   - A program builder and disassembler
//
// Only STOP, NOP, MOVE (as a stub) and LOADI have runtime behaviour. Every
// other opcode decodes normally and then fails dispatch as unsupported.
package vm
