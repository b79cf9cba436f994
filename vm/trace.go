package vm

import (
	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

// EventKind classifies a trace event.
type EventKind uint8

const (
	EventExecuted EventKind = iota // an instruction ran and the machine is still running
	EventHalted                    // STOP was executed
	EventFailed                    // decode or dispatch failed
)

func (k EventKind) String() string {
	switch k {
	case EventExecuted:
		return "executed"
	case EventHalted:
		return "halted"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// Event describes the outcome of one step.
type Event struct {
	Kind    EventKind
	Machine uuid.UUID
	Step    uint64 // 1-based count of steps taken, this one included
	Offset  int    // program counter before the step

	// Instruction is nil when decoding failed.
	Instruction *Instruction
	Status      Status
}

// Tracer receives one event per step taken by a running machine.
type Tracer interface {
	Trace(Event)
}

// TraceFunc adapts a function to the Tracer interface.
type TraceFunc func(Event)

func (f TraceFunc) Trace(e Event) { f(e) }

// LogTracer returns a Tracer that writes events to log: executed
// instructions at debug level, halts at info and failures at error.
func LogTracer(log commonlog.Logger) Tracer {
	return TraceFunc(func(e Event) {
		kv := []any{"machine", e.Machine.String(), "step", e.Step, "pc", e.Offset}
		if e.Instruction != nil {
			kv = append(kv, "instruction", e.Instruction.String())
		}
		switch e.Kind {
		case EventExecuted:
			log.Debug("executed", kv...)
		case EventHalted:
			log.Info("halted", kv...)
		case EventFailed:
			log.Error("failed", append(kv, "reason", e.Status.Reason())...)
		}
	})
}
