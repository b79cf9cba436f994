package vm

import (
	"github.com/google/uuid"
)

// NumRegisters is the size of the register file.
const NumRegisters = 32

// Machine fetches, decodes and executes a program against a private
// register file. It is not safe for concurrent use; each machine owns its
// registers, cursor and status outright.
type Machine struct {
	id     uuid.UUID
	regs   [NumRegisters]int32
	dec    *Decoder
	status Status
	steps  uint64

	tracer          Tracer
	shapeAssertions bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithTracer installs an observability hook called once per step.
func WithTracer(t Tracer) Option {
	return func(m *Machine) {
		m.tracer = t
	}
}

// WithShapeAssertions makes an argument shape mismatch panic instead of
// failing the machine. Mismatches mean the opcode table and the dispatcher
// disagree, so tests turn this on to surface them loudly.
func WithShapeAssertions(enabled bool) Option {
	return func(m *Machine) {
		m.shapeAssertions = enabled
	}
}

// NewMachine creates a machine loaded with program.
func NewMachine(program []byte, opts ...Option) *Machine {
	m := &Machine{id: uuid.New()}
	for _, opt := range opts {
		opt(m)
	}
	m.Load(program)
	return m
}

// Load replaces the program and resets registers, program counter and
// status. The buffer is copied, so later changes by the caller are not seen.
func (m *Machine) Load(program []byte) {
	code := make([]byte, len(program))
	copy(code, program)
	m.dec = NewDecoder(code)
	m.regs = [NumRegisters]int32{}
	m.status = Status{State: Running}
	m.steps = 0
}

// ID returns the machine's instance identifier.
func (m *Machine) ID() uuid.UUID {
	return m.id
}

// Status returns the current status.
func (m *Machine) Status() Status {
	return m.status
}

// PC returns the offset of the next byte to decode.
func (m *Machine) PC() int {
	return m.dec.Pos()
}

// ProgramLen returns the length of the loaded program.
func (m *Machine) ProgramLen() int {
	return m.dec.Len()
}

// Program returns a copy of the loaded program.
func (m *Machine) Program() []byte {
	code := make([]byte, len(m.dec.code))
	copy(code, m.dec.code)
	return code
}

// Steps returns the number of steps taken while running.
func (m *Machine) Steps() uint64 {
	return m.steps
}

// Registers returns a copy of the register file.
func (m *Machine) Registers() [NumRegisters]int32 {
	return m.regs
}

// Register returns register i, or false if i is outside the register file.
func (m *Machine) Register(i int) (int32, bool) {
	if i < 0 || i >= NumRegisters {
		return 0, false
	}
	return m.regs[i], true
}

// RunOnce performs exactly one step.
func (m *Machine) RunOnce() Status {
	return m.Step()
}

// Run steps until the machine halts or fails and returns the final status.
// Calling Run on a stopped machine changes nothing.
func (m *Machine) Run() Status {
	for m.status.State == Running {
		m.Step()
	}
	return m.status
}

// Step decodes and executes one instruction. It does nothing once the
// machine has halted or failed.
func (m *Machine) Step() Status {
	if m.status.State != Running {
		return m.status
	}
	m.steps++
	pc := m.dec.Pos()

	in, err := m.dec.Decode()
	if err != nil {
		m.fail(err)
		m.trace(EventFailed, pc, nil)
		return m.status
	}

	m.execute(in)

	switch m.status.State {
	case Halted:
		m.trace(EventHalted, pc, &in)
	case Failed:
		m.trace(EventFailed, pc, &in)
	default:
		m.trace(EventExecuted, pc, &in)
	}
	return m.status
}

// execute dispatches a decoded instruction.
func (m *Machine) execute(in Instruction) {
	switch in.Op {
	case OpSTOP:
		m.status = Status{State: Halted}

	case OpNOP:
		// Do nothing

	case OpMOVE:
		// Register-to-register moves are not wired up yet; the instruction
		// decodes and is accepted but has no effect.

	case OpLOADI:
		args, ok := in.Args.(U8I16)
		if !ok {
			m.shapeMismatch(in, shapeU8I16)
			return
		}
		if int(args.A) >= NumRegisters {
			m.fail(&RegisterIndexOutOfRangeError{Op: in.Op, Index: int(args.A)})
			return
		}
		m.regs[args.A] = int32(args.B)

	default:
		m.fail(&UnsupportedOpcodeError{Op: in.Op, Offset: in.Offset})
	}
}

func (m *Machine) shapeMismatch(in Instruction, want Shape) {
	err := &ArgumentShapeMismatchError{Op: in.Op, Want: want, Got: in.Shape()}
	if m.shapeAssertions {
		panic(err)
	}
	m.fail(err)
}

func (m *Machine) fail(err error) {
	m.status = Status{State: Failed, Err: err}
}

func (m *Machine) trace(kind EventKind, pc int, in *Instruction) {
	if m.tracer == nil {
		return
	}
	m.tracer.Trace(Event{
		Kind:        kind,
		Machine:     m.id,
		Step:        m.steps,
		Offset:      pc,
		Instruction: in,
		Status:      m.status,
	})
}
