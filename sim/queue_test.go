package sim

import (
	"testing"
)

func pendingIDs(pq *PendingQueue) []int64 {
	ids := make([]int64, 0, pq.Len())
	for _, j := range pq.Items() {
		ids = append(ids, j.ID)
	}
	return ids
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPendingQueue_PreservesInsertionOrder(t *testing.T) {
	pq := &PendingQueue{}
	pq.Enqueue(&Job{ID: 1})
	pq.Enqueue(&Job{ID: 2})
	pq.Enqueue(&Job{ID: 3})

	if got, want := pendingIDs(pq), []int64{1, 2, 3}; !int64SliceEqual(got, want) {
		t.Errorf("queue order: got %v, want %v", got, want)
	}
}

func TestPendingQueue_Remove_KeepsRestInOrder(t *testing.T) {
	pq := &PendingQueue{}
	pq.Enqueue(&Job{ID: 1})
	pq.Enqueue(&Job{ID: 2})
	pq.Enqueue(&Job{ID: 3})

	if !pq.Remove(2) {
		t.Fatal("Remove(2): got false, want true")
	}
	if got, want := pendingIDs(pq), []int64{1, 3}; !int64SliceEqual(got, want) {
		t.Errorf("queue order after remove: got %v, want %v", got, want)
	}
	if pq.Remove(2) {
		t.Error("Remove(2) twice: got true, want false")
	}
}

func TestPendingQueue_PrependFront_InsertsAtFront(t *testing.T) {
	pq := &PendingQueue{}
	pq.Enqueue(&Job{ID: 1})
	pq.Enqueue(&Job{ID: 2})
	pq.PrependFront(&Job{ID: 9})

	if got, want := pendingIDs(pq), []int64{9, 1, 2}; !int64SliceEqual(got, want) {
		t.Errorf("queue order after prepend: got %v, want %v", got, want)
	}
}
