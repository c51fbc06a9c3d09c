package utility

import (
	"testing"
	"time"
)

func Test_GetExecutionID(t *testing.T) {
	first := GetExecutionID()
	second := GetExecutionID()

	if first != second {
		t.Error("GetExecutionID should be stable across calls")
	}

	reset := ResetExecutionID()
	if reset == first {
		t.Error("ResetExecutionID should produce a new id")
	}
	if got := GetExecutionID(); got != reset {
		t.Error("GetExecutionID should return the reset id")
	}
}

func Test_CreateTraceID(t *testing.T) {
	seen := make(map[TraceID]struct{})
	for i := 0; i < 1000; i++ {
		id := CreateTraceID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate trace id %d after %d iterations", id, i)
		}
		seen[id] = struct{}{}
	}
}

func Test_ParseTraceID(t *testing.T) {
	before := time.Now()
	id := CreateTraceID()
	after := time.Now()

	timestamp, machine, seq := ParseTraceID(id)

	if timestamp.Before(before.Add(-time.Second)) || timestamp.After(after.Add(time.Second)) {
		t.Errorf("parsed timestamp %v outside creation window [%v, %v]", timestamp, before, after)
	}
	if machine > maxMachine {
		t.Errorf("machine %d exceeds %d", machine, maxMachine)
	}
	if seq > maxSequence {
		t.Errorf("sequence %d exceeds %d", seq, maxSequence)
	}
}
