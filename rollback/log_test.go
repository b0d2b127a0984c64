package rollback

import (
	"fmt"
	"testing"

	"parkflow-allocator/requests"
)

func TestLog_AppendAndSize(t *testing.T) {
	l := NewLog()
	if l.Size() != 0 {
		t.Fatalf("new log size = %d, want 0", l.Size())
	}
	l.Append(OperationRecord{ID: "OP-1", RequestID: "REQ-1", SlotID: "slot-1", PreviousSlotState: true, PreviousReqState: requests.Requested})
	if l.Size() != 1 {
		t.Fatalf("size after append = %d, want 1", l.Size())
	}
}

func TestLog_Snapshot_PreservesAppendOrder(t *testing.T) {
	l := NewLog()
	l.Append(OperationRecord{ID: "OP-1"})
	l.Append(OperationRecord{ID: "OP-2"})
	l.Append(OperationRecord{ID: "OP-3"})

	snap := l.Snapshot()
	if len(snap) != 3 || snap[0].ID != "OP-1" || snap[1].ID != "OP-2" || snap[2].ID != "OP-3" {
		t.Fatalf("Snapshot() order mismatch: %#v", snap)
	}

	// Snapshot must be a copy: mutating it must not affect the log.
	snap[0].ID = "mutated"
	if l.Snapshot()[0].ID != "OP-1" {
		t.Fatalf("Snapshot() leaked internal storage")
	}
}

func TestLog_PopK(t *testing.T) {
	tests := []struct {
		name     string
		numItems int
		k        int
		wantLen  int
		wantIDs  []string
	}{
		{name: "pop fewer than size", numItems: 3, k: 1, wantLen: 1, wantIDs: []string{"OP-3"}},
		{name: "pop exact size", numItems: 3, k: 3, wantLen: 3, wantIDs: []string{"OP-3", "OP-2", "OP-1"}},
		{name: "pop more than size", numItems: 2, k: 5, wantLen: 2, wantIDs: []string{"OP-2", "OP-1"}},
		{name: "pop zero", numItems: 2, k: 0, wantLen: 0, wantIDs: nil},
		{name: "pop from empty log", numItems: 0, k: 3, wantLen: 0, wantIDs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLog()
			for i := 1; i <= tt.numItems; i++ {
				l.Append(OperationRecord{ID: idFor(i)})
			}
			popped := l.PopK(tt.k)
			if len(popped) != tt.wantLen {
				t.Fatalf("PopK() len = %d, want %d", len(popped), tt.wantLen)
			}
			for i, rec := range popped {
				if rec.ID != tt.wantIDs[i] {
					t.Errorf("PopK()[%d] = %q, want %q", i, rec.ID, tt.wantIDs[i])
				}
			}
			remaining := tt.numItems - tt.wantLen
			if l.Size() != remaining {
				t.Errorf("Size() after PopK = %d, want %d", l.Size(), remaining)
			}
		})
	}
}

func idFor(i int) string {
	return fmt.Sprintf("OP-%d", i)
}
