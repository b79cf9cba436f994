// Package dist carries machine state across process boundaries. A snapshot
// is a point-in-time, read-only view of a machine encoded as canonical CBOR,
// so two hosts running the same program can compare their results byte for
// byte.
package dist

import (
	"crypto/sha256"
	"fmt"

	"github.com/chazu/rite/vm"
)

// Snapshot is the externally visible state of one machine.
type Snapshot struct {
	Machine     [16]byte               `cbor:"1,keyasint"`
	ProgramHash [32]byte               `cbor:"2,keyasint"`
	PC          int                    `cbor:"3,keyasint"`
	Steps       uint64                 `cbor:"4,keyasint"`
	State       vm.State               `cbor:"5,keyasint"`
	Reason      string                 `cbor:"6,keyasint,omitempty"` // set only when State is Failed
	Registers   [vm.NumRegisters]int32 `cbor:"7,keyasint"`
}

// Capture records the current state of m.
func Capture(m *vm.Machine) *Snapshot {
	st := m.Status()
	return &Snapshot{
		Machine:     m.ID(),
		ProgramHash: sha256.Sum256(m.Program()),
		PC:          m.PC(),
		Steps:       m.Steps(),
		State:       st.State,
		Reason:      st.Reason(),
		Registers:   m.Registers(),
	}
}

// Reproduce runs program on a fresh machine for the same number of steps
// recorded in s and reports the first difference, if any. Execution is
// deterministic, so a mismatch means the snapshot was not produced by this
// program or by a compatible machine.
func Reproduce(s *Snapshot, program []byte) error {
	if h := sha256.Sum256(program); h != s.ProgramHash {
		return fmt.Errorf("dist: program hash mismatch: snapshot %x, program %x", s.ProgramHash, h)
	}

	m := vm.NewMachine(program)
	for m.Steps() < s.Steps && !m.Status().Terminal() {
		m.Step()
	}
	got := Capture(m)

	if got.Steps != s.Steps {
		return fmt.Errorf("dist: machine stopped after %d steps, snapshot has %d", got.Steps, s.Steps)
	}
	if got.PC != s.PC {
		return fmt.Errorf("dist: pc mismatch: snapshot %04X, replay %04X", s.PC, got.PC)
	}
	if got.State != s.State || got.Reason != s.Reason {
		return fmt.Errorf("dist: status mismatch: snapshot %s %q, replay %s %q", s.State, s.Reason, got.State, got.Reason)
	}
	for i := range s.Registers {
		if got.Registers[i] != s.Registers[i] {
			return fmt.Errorf("dist: register %d mismatch: snapshot %d, replay %d", i, s.Registers[i], got.Registers[i])
		}
	}
	return nil
}
