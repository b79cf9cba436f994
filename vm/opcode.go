package vm

import "fmt"

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode represents a single bytecode instruction.
// Numbering is positional and must not be reordered: externally produced
// programs depend on it.
type Opcode byte

// Loads and moves
const (
	OpNOP     Opcode = iota // no operation
	OpMOVE                  // R(a) = R(b)
	OpLOADL                 // R(a) = Pool(b)
	OpLOADI                 // R(a) = immediate b
	OpLOADI0                // R(a) = 0
	OpLOADI1                // R(a) = 1
	OpLOADI2                // R(a) = 2
	OpLOADI3                // R(a) = 3
	OpLOADSYM               // R(a) = Syms(b)
	OpLOADNIL               // R(a) = nil
	OpLOADSELF              // R(a) = self
	OpLOADT                 // R(a) = true
	OpLOADF                 // R(a) = false
)

// Variable access
const (
	OpGETGV    Opcode = iota + OpLOADF + 1 // R(a) = getglobal(Syms(b))
	OpSETGV                                // setglobal(Syms(b), R(a))
	OpGETSV                                // R(a) = Special[Syms(b)]
	OpSETSV                                // Special[Syms(b)] = R(a)
	OpGETIV                                // R(a) = ivget(Syms(b))
	OpSETIV                                // ivset(Syms(b), R(a))
	OpGETCV                                // R(a) = cvget(Syms(b))
	OpSETCV                                // cvset(Syms(b), R(a))
	OpGETCONST                             // R(a) = constget(Syms(b))
	OpSETCONST                             // constset(Syms(b), R(a))
	OpGETMCNST                             // R(a) = R(a)::Syms(b)
	OpSETMCNST                             // R(a+1)::Syms(b) = R(a)
	OpGETUPVAR                             // R(a) = uvget(b, c)
	OpSETUPVAR                             // uvset(b, c, R(a))
)

// Control flow and exceptions
const (
	OpJMP    Opcode = iota + OpSETUPVAR + 1 // pc = a
	OpJMPIF                                 // if R(a) pc = b
	OpJMPNOT                                // if !R(a) pc = b
	OpONERR                                 // rescue_push(a)
	OpEXCEPT                                // R(a) = exc
	OpRESCUE                                // R(b) = R(a).isa?(R(b))
	OpPOPERR                                // a.times { rescue_pop() }
	OpRAISE                                 // raise(R(a))
	OpEPUSH                                 // ensure_push(SEQ[a])
	OpEPOP                                  // a.times { ensure_pop().call }
)

// Calls and returns
const (
	OpSENDV     Opcode = iota + OpEPOP + 1 // R(a) = call(R(a), Syms(b), *R(a+1))
	OpSENDVB                               // R(a) = call(R(a), Syms(b), *R(a+1), &R(a+2))
	OpSEND                                 // R(a) = call(R(a), Syms(b), R(a+1), ..., R(a+c))
	OpSENDB                                // R(a) = call(R(a), Syms(b), R(a+1), ..., R(a+c), &R(a+c+1))
	OpCALL                                 // R(0) = self.call(frame.argc, frame.argv)
	OpSUPER                                // R(a) = super(R(a+1), ..., R(a+b+1))
	OpARGARY                               // R(a) = argument array (16=m5:r1:m5:d1:lv4)
	OpENTER                                // arg setup according to flags (23=m5:o5:r1:m5:k5:d1:b1)
	OpKARG                                 // R(a) = kdict[Syms(b)]
	OpKARG2                                // R(a) = kdict[Syms(b)]; kdict.rm(Syms(b))
	OpRETURN                               // return R(a) (normal)
	OpRETURNBLK                            // return R(a) (in-block return)
	OpBREAK                                // break R(a)
	OpBLKPUSH                              // R(a) = block (16=m5:r1:m5:d1:lv4)
)

// Arithmetic and comparison
const (
	OpADD  Opcode = iota + OpBLKPUSH + 1 // R(a) = R(a)+R(a+1)
	OpADDI                               // R(a) = R(a)+mrb_int(c)
	OpSUB                                // R(a) = R(a)-R(a+1)
	OpSUBI                               // R(a) = R(a)-C
	OpMUL                                // R(a) = R(a)*R(a+1)
	OpDIV                                // R(a) = R(a)/R(a+1)
	OpEQ                                 // R(a) = R(a)==R(a+1)
	OpLT                                 // R(a) = R(a)<R(a+1)
	OpLE                                 // R(a) = R(a)<=R(a+1)
	OpGT                                 // R(a) = R(a)>R(a+1)
	OpGE                                 // R(a) = R(a)>=R(a+1)
)

// Collections and strings
const (
	OpARRAY    Opcode = iota + OpGE + 1 // R(a) = ary_new(R(a),R(a+1)..R(a+b))
	OpARRAY2                            // R(a) = ary_new(R(b),R(b+1)..R(b+c))
	OpARYCAT                            // ary_cat(R(a),R(a+1))
	OpARYPUSH                           // ary_push(R(a),R(a+1))
	OpAREF                              // R(a) = R(b)[c]
	OpASET                              // R(b)[c] = R(a)
	OpAPOST                             // *R(a),R(a+1)..R(a+c) = R(a)[b..]
	OpSTRING                            // R(a) = str_dup(Lit(b))
	OpSTRCAT                            // str_cat(R(a),R(a+1))
	OpHASH                              // R(a) = hash_new(R(a),R(a+1)..R(a+b))
	OpHASHADD                           // R(a) = hash_push(R(a),R(a+1)..R(a+b))
)

// Closures, classes and methods
const (
	OpLAMBDA   Opcode = iota + OpHASHADD + 1 // R(a) = lambda(SEQ[b],L_LAMBDA)
	OpBLOCK                                  // R(a) = lambda(SEQ[b],L_BLOCK)
	OpMETHOD                                 // R(a) = lambda(SEQ[b],L_METHOD)
	OpRANGEINC                               // R(a) = range_new(R(a),R(a+1),FALSE)
	OpRANGEEXC                               // R(a) = range_new(R(a),R(a+1),TRUE)
	OpOCLASS                                 // R(a) = ::Object
	OpCLASS                                  // R(a) = newclass(R(a),Syms(b),R(a+1))
	OpMODULE                                 // R(a) = newmodule(R(a),Syms(b))
	OpEXEC                                   // R(a) = blockexec(R(a),SEQ[b])
	OpDEF                                    // R(a).newmethod(Syms(b),R(a+1))
	OpALIAS                                  // alias_method(target_class,Syms(a),Syms(b))
	OpUNDEF                                  // undef_method(target_class,Syms(a))
	OpSCLASS                                 // R(a) = R(a).singleton_class
	OpTCLASS                                 // R(a) = target_class
	OpERR                                    // raise(LocalJumpError, Lit(a))
)

// Operand extension prefixes and termination
const (
	OpEXT1 Opcode = iota + OpERR + 1 // make 1st operand 16bit
	OpEXT2                           // make 2nd operand 16bit
	OpEXT3                           // make 1st and 2nd operands 16bit
	OpSTOP                           // stop VM
)

const (
	// OpMax marks one past the last real opcode. It is never executable.
	OpMax Opcode = OpSTOP + 1

	// OpInvalid is what every byte at or above OpMax decodes to.
	OpInvalid Opcode = 0xFF
)

// ---------------------------------------------------------------------------
// Conversion
// ---------------------------------------------------------------------------

// OpcodeFromByte converts a raw program byte to an opcode. The conversion is
// total: bytes outside the defined range normalize to OpInvalid.
func OpcodeFromByte(b byte) Opcode {
	if b < byte(OpMax) {
		return Opcode(b)
	}
	return OpInvalid
}

// Byte returns the wire encoding of the opcode.
func (op Opcode) Byte() byte {
	return byte(op)
}

// Valid reports whether op is a real, executable-in-principle opcode.
func (op Opcode) Valid() bool {
	return op < OpMax
}

// Extension reports which operand-widening prefix op is, if any.
func (op Opcode) Extension() (Extension, bool) {
	switch op {
	case OpEXT1:
		return ExtFirst, true
	case OpEXT2:
		return ExtSecond, true
	case OpEXT3:
		return ExtBoth, true
	}
	return ExtNone, false
}

// ---------------------------------------------------------------------------
// Names
// ---------------------------------------------------------------------------

var opcodeNames = [OpMax]string{
	OpNOP: "NOP", OpMOVE: "MOVE", OpLOADL: "LOADL", OpLOADI: "LOADI",
	OpLOADI0: "LOADI_0", OpLOADI1: "LOADI_1", OpLOADI2: "LOADI_2", OpLOADI3: "LOADI_3",
	OpLOADSYM: "LOADSYM", OpLOADNIL: "LOADNIL", OpLOADSELF: "LOADSELF",
	OpLOADT: "LOADT", OpLOADF: "LOADF",

	OpGETGV: "GETGV", OpSETGV: "SETGV", OpGETSV: "GETSV", OpSETSV: "SETSV",
	OpGETIV: "GETIV", OpSETIV: "SETIV", OpGETCV: "GETCV", OpSETCV: "SETCV",
	OpGETCONST: "GETCONST", OpSETCONST: "SETCONST",
	OpGETMCNST: "GETMCNST", OpSETMCNST: "SETMCNST",
	OpGETUPVAR: "GETUPVAR", OpSETUPVAR: "SETUPVAR",

	OpJMP: "JMP", OpJMPIF: "JMPIF", OpJMPNOT: "JMPNOT",
	OpONERR: "ONERR", OpEXCEPT: "EXCEPT", OpRESCUE: "RESCUE", OpPOPERR: "POPERR",
	OpRAISE: "RAISE", OpEPUSH: "EPUSH", OpEPOP: "EPOP",

	OpSENDV: "SENDV", OpSENDVB: "SENDVB", OpSEND: "SEND", OpSENDB: "SENDB",
	OpCALL: "CALL", OpSUPER: "SUPER", OpARGARY: "ARGARY", OpENTER: "ENTER",
	OpKARG: "KARG", OpKARG2: "KARG2", OpRETURN: "RETURN", OpRETURNBLK: "RETURN_BLK",
	OpBREAK: "BREAK", OpBLKPUSH: "BLKPUSH",

	OpADD: "ADD", OpADDI: "ADDI", OpSUB: "SUB", OpSUBI: "SUBI",
	OpMUL: "MUL", OpDIV: "DIV", OpEQ: "EQ", OpLT: "LT", OpLE: "LE", OpGT: "GT", OpGE: "GE",

	OpARRAY: "ARRAY", OpARRAY2: "ARRAY2", OpARYCAT: "ARYCAT", OpARYPUSH: "ARYPUSH",
	OpAREF: "AREF", OpASET: "ASET", OpAPOST: "APOST",
	OpSTRING: "STRING", OpSTRCAT: "STRCAT", OpHASH: "HASH", OpHASHADD: "HASHADD",

	OpLAMBDA: "LAMBDA", OpBLOCK: "BLOCK", OpMETHOD: "METHOD",
	OpRANGEINC: "RANGE_INC", OpRANGEEXC: "RANGE_EXC",
	OpOCLASS: "OCLASS", OpCLASS: "CLASS", OpMODULE: "MODULE", OpEXEC: "EXEC",
	OpDEF: "DEF", OpALIAS: "ALIAS", OpUNDEF: "UNDEF",
	OpSCLASS: "SCLASS", OpTCLASS: "TCLASS", OpERR: "ERR",

	OpEXT1: "EXT1", OpEXT2: "EXT2", OpEXT3: "EXT3", OpSTOP: "STOP",
}

// Name returns the mnemonic for an opcode.
func (op Opcode) Name() string {
	switch {
	case op < OpMax:
		return opcodeNames[op]
	case op == OpMax:
		return "MAX"
	case op == OpInvalid:
		return "INVALID"
	}
	return fmt.Sprintf("UNKNOWN_%02X", byte(op))
}

// String implements the Stringer interface.
func (op Opcode) String() string {
	return op.Name()
}

// AllOpcodes returns every real opcode in numeric order.
func AllOpcodes() []Opcode {
	ops := make([]Opcode, 0, OpMax)
	for op := OpNOP; op < OpMax; op++ {
		ops = append(ops, op)
	}
	return ops
}
