package mailbox

import "testing"

func TestLatestPutWins(t *testing.T) {
	m := New[int]()
	if m.HasJob() {
		t.Fatal("new mailbox should be empty")
	}
	if m.Put(1) {
		t.Fatal("first put should not report a replacement")
	}
	if !m.Put(2) {
		t.Fatal("second put should replace the pending job")
	}

	j := m.TryTake()
	if j == nil || *j != 2 {
		t.Fatalf("TryTake = %v, want 2", j)
	}
	if m.TryTake() != nil {
		t.Fatal("mailbox should be empty after take")
	}
}

func TestMergeFoldsIntoPending(t *testing.T) {
	m := New[int]()
	sum := func(pending, next int) int { return pending + next }

	if m.Merge(3, sum) {
		t.Fatal("merge into an empty mailbox should not report a fold")
	}
	if !m.Merge(4, sum) {
		t.Fatal("merge should fold into the pending job")
	}
	if j := m.TryTake(); j == nil || *j != 7 {
		t.Fatalf("TryTake = %v, want 7", j)
	}
}
