package dist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/chazu/rite/vm"
)

func sampleProgram() []byte {
	b := vm.NewBuilder()
	b.EmitLoadI(0, 500)
	b.EmitLoadI(7, -3)
	b.Emit(vm.OpNOP)
	b.EmitStop()
	return b.Bytes()
}

func TestSnapshot_CBORRoundTrip(t *testing.T) {
	m := vm.NewMachine(sampleProgram())
	m.RunOnce()
	m.RunOnce()
	s := Capture(m)

	data, err := MarshalSnapshot(s)
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}

	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if got.Registers[0] != 500 || got.Registers[7] != -3 {
		t.Errorf("registers: r0 = %d, r7 = %d", got.Registers[0], got.Registers[7])
	}
	if got.Machine != m.ID() {
		t.Error("Machine ID mismatch")
	}
}

func TestSnapshot_CanonicalEncoding(t *testing.T) {
	prog := sampleProgram()
	a := vm.NewMachine(prog)
	b := vm.NewMachine(prog)
	a.Run()
	b.Run()

	sa, sb := Capture(a), Capture(b)
	// Identity aside, two machines running the same program agree exactly.
	sb.Machine = sa.Machine

	da, err := MarshalSnapshot(sa)
	if err != nil {
		t.Fatal(err)
	}
	db, err := MarshalSnapshot(sb)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(da, db) {
		t.Errorf("encodings differ:\n% X\n% X", da, db)
	}
}

func TestSnapshot_FailedState(t *testing.T) {
	m := vm.NewMachine([]byte{0xFF})
	m.Run()
	s := Capture(m)

	if s.State != vm.Failed || !strings.Contains(s.Reason, "unsupported opcode") {
		t.Fatalf("captured state %s, reason %q", s.State, s.Reason)
	}

	data, err := MarshalSnapshot(s)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}
	if got.Reason != s.Reason {
		t.Errorf("Reason: got %q, want %q", got.Reason, s.Reason)
	}
}

func TestUnmarshalSnapshot_RejectsFailedWithoutReason(t *testing.T) {
	data, err := cbor.Marshal(&Snapshot{State: vm.Failed})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalSnapshot(data); err == nil {
		t.Error("expected error for failed snapshot without a reason")
	}
}

func TestUnmarshalSnapshot_Garbage(t *testing.T) {
	if _, err := UnmarshalSnapshot([]byte{0xFF, 0x00}); err == nil {
		t.Error("expected error for invalid CBOR")
	}
}

func TestReproduce(t *testing.T) {
	prog := sampleProgram()
	m := vm.NewMachine(prog)
	m.RunOnce()
	m.RunOnce()

	s := Capture(m)
	if err := Reproduce(s, prog); err != nil {
		t.Errorf("Reproduce mid-run: %v", err)
	}

	m.Run()
	if err := Reproduce(Capture(m), prog); err != nil {
		t.Errorf("Reproduce after halt: %v", err)
	}
}

func TestReproduce_Mismatch(t *testing.T) {
	prog := sampleProgram()
	m := vm.NewMachine(prog)
	m.Run()

	t.Run("program", func(t *testing.T) {
		other := append([]byte{byte(vm.OpNOP)}, prog...)
		if err := Reproduce(Capture(m), other); err == nil {
			t.Error("expected hash mismatch")
		}
	})

	t.Run("register", func(t *testing.T) {
		s := Capture(m)
		s.Registers[0]++
		err := Reproduce(s, prog)
		if err == nil || !strings.Contains(err.Error(), "register 0") {
			t.Errorf("err = %v, want register 0 mismatch", err)
		}
	})

	t.Run("steps", func(t *testing.T) {
		s := Capture(m)
		s.Steps += 10
		if err := Reproduce(s, prog); err == nil {
			t.Error("expected step count mismatch")
		}
	})
}
