package sim

import (
	"testing"
)

func TestFIFOScheduler_EarliestSubmitWins(t *testing.T) {
	sched := &FIFOScheduler{}
	pending := []*Job{
		{ID: 3, SubmitTime: 30},
		{ID: 1, SubmitTime: 10},
		{ID: 2, SubmitTime: 20},
	}
	got := sched.SelectJob(pending, 100)
	if got == nil || got.ID != 1 {
		t.Errorf("FIFO: got %v, want job 1", got)
	}
}

func TestFIFOScheduler_TieBreaksByID(t *testing.T) {
	sched := &FIFOScheduler{}
	pending := []*Job{
		{ID: 5, SubmitTime: 10},
		{ID: 2, SubmitTime: 10},
	}
	got := sched.SelectJob(pending, 100)
	if got == nil || got.ID != 2 {
		t.Errorf("FIFO tie-break: got %v, want job 2", got)
	}
}

func TestSJFScheduler_SmallestGPUDemandWins(t *testing.T) {
	sched := &SJFScheduler{}
	pending := []*Job{
		{ID: 1, NumGPU: 4, SubmitTime: 0},
		{ID: 2, NumGPU: 1, SubmitTime: 1},
		{ID: 3, NumGPU: 2, SubmitTime: 2},
	}
	got := sched.SelectJob(pending, 100)
	if got == nil || got.ID != 2 {
		t.Errorf("SJF: got %v, want job 2 (num_gpu=1)", got)
	}
}

func TestSJFScheduler_TieBreaksByEarliestSubmit(t *testing.T) {
	sched := &SJFScheduler{}
	pending := []*Job{
		{ID: 1, NumGPU: 2, SubmitTime: 5},
		{ID: 2, NumGPU: 2, SubmitTime: 3},
	}
	got := sched.SelectJob(pending, 100)
	if got == nil || got.ID != 2 {
		t.Errorf("SJF tie-break: got %v, want job 2", got)
	}
}

func TestShortestScheduler_SmallestRemainingWins(t *testing.T) {
	sched := &ShortestScheduler{}
	pending := []*Job{
		{ID: 1, Iterations: 10, Duration: 2.0},                          // remaining 20
		{ID: 2, Iterations: 10, Duration: 1.0, ElapsedExecution: 4.0},   // remaining 6
		{ID: 3, Iterations: 5, Duration: 2.0},                           // remaining 10
	}
	got := sched.SelectJob(pending, 100)
	if got == nil || got.ID != 2 {
		t.Errorf("Shortest: got %v, want job 2 (remaining 6)", got)
	}
}

func TestShortestGPUScheduler_SmallestGPUTimeProductWins(t *testing.T) {
	sched := &ShortestGPUScheduler{}
	pending := []*Job{
		{ID: 1, NumGPU: 1, Iterations: 10, Duration: 2.0}, // 1 * 20 = 20
		{ID: 2, NumGPU: 4, Iterations: 4, Duration: 1.0},  // 4 * 4 = 16
		{ID: 3, NumGPU: 2, Iterations: 9, Duration: 1.0},  // 2 * 9 = 18
	}
	got := sched.SelectJob(pending, 100)
	if got == nil || got.ID != 2 {
		t.Errorf("Shortest-GPU: got %v, want job 2 (gpu-time 16)", got)
	}
}

func TestSchedulers_EmptyPendingReturnsNil(t *testing.T) {
	for _, name := range SchedulerNames() {
		sched, err := NewScheduler(name)
		if err != nil {
			t.Fatalf("NewScheduler(%q): %v", name, err)
		}
		if got := sched.SelectJob(nil, 0); got != nil {
			t.Errorf("%s on empty pending: got %v, want nil", name, got)
		}
	}
}

func TestSchedulers_DoNotReorderPending(t *testing.T) {
	pending := []*Job{
		{ID: 1, NumGPU: 4, Iterations: 10, Duration: 3.0, SubmitTime: 0},
		{ID: 2, NumGPU: 1, Iterations: 2, Duration: 1.0, SubmitTime: 1},
		{ID: 3, NumGPU: 2, Iterations: 5, Duration: 2.0, SubmitTime: 2},
	}
	for _, name := range SchedulerNames() {
		sched, err := NewScheduler(name)
		if err != nil {
			t.Fatalf("NewScheduler(%q): %v", name, err)
		}
		sched.SelectJob(pending, 500)
		for i, want := range []int64{1, 2, 3} {
			if pending[i].ID != want {
				t.Errorf("%s reordered pending: index %d got job %d, want %d", name, i, pending[i].ID, want)
			}
		}
	}
}

func TestSchedulers_Deterministic(t *testing.T) {
	pending := []*Job{
		{ID: 1, NumGPU: 4, Iterations: 10, Duration: 3.0, SubmitTime: 0, ModelName: "resnet50"},
		{ID: 2, NumGPU: 1, Iterations: 2, Duration: 1.0, SubmitTime: 1, ModelName: "bert-base"},
		{ID: 3, NumGPU: 2, Iterations: 5, Duration: 2.0, SubmitTime: 2, ModelName: "resnet101"},
		{ID: 4, NumGPU: 2, Iterations: 5, Duration: 2.0, SubmitTime: 2, ModelName: "resnet152"},
	}
	for _, name := range SchedulerNames() {
		sched, err := NewScheduler(name)
		if err != nil {
			t.Fatalf("NewScheduler(%q): %v", name, err)
		}
		first := sched.SelectJob(pending, 700)
		for trial := 0; trial < 5; trial++ {
			if got := sched.SelectJob(pending, 700); got != first {
				t.Errorf("%s not deterministic: got %v then %v", name, first, got)
			}
		}
	}
}

func TestNewScheduler_UnknownName(t *testing.T) {
	if _, err := NewScheduler("round-robin"); err == nil {
		t.Error("NewScheduler(\"round-robin\"): got nil error, want ErrPolicyNotFound")
	}
}
