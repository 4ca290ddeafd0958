package sim

import (
	"fmt"
	"sort"
)

// Scheduler selects at most one pending job to attempt placement for in
// the current tick. Implementations must not mutate job state and must be
// deterministic: for a fixed pending set and fixed tie-break rule, the
// same job is selected every time.
//
// Returning a job that cannot fit anywhere is not an error; the job stays
// PENDING and is reconsidered next tick.
type Scheduler interface {
	Name() string
	SelectJob(pending []*Job, clock float64) *Job
}

// schedulerFactories maps registry names to constructors. New policies
// register under a unique name without modifying the manager.
var schedulerFactories = map[string]func() Scheduler{
	"fifo":                func() Scheduler { return &FIFOScheduler{} },
	"sjf":                 func() Scheduler { return &SJFScheduler{} },
	"shortest":            func() Scheduler { return &ShortestScheduler{} },
	"shortest-gpu":        func() Scheduler { return &ShortestGPUScheduler{} },
	"hybrid-priority":     func() Scheduler { return NewHybridPriorityScheduler() },
	"predictive-backfill": func() Scheduler { return NewPredictiveBackfillScheduler() },
	"smart-batch":         func() Scheduler { return NewSmartBatchScheduler() },
}

// RegisterScheduler adds a scheduler constructor under a unique name.
// Returns an error if the name is already taken.
func RegisterScheduler(name string, factory func() Scheduler) error {
	if _, exists := schedulerFactories[name]; exists {
		return fmt.Errorf("scheduler %q already registered", name)
	}
	schedulerFactories[name] = factory
	return nil
}

// NewScheduler creates a Scheduler by registry name.
// Unknown names return ErrPolicyNotFound.
func NewScheduler(name string) (Scheduler, error) {
	factory, ok := schedulerFactories[name]
	if !ok {
		return nil, fmt.Errorf("scheduler %q: %w", name, ErrPolicyNotFound)
	}
	return factory(), nil
}

// SchedulerNames returns the registered scheduler names, sorted.
func SchedulerNames() []string {
	names := make([]string, 0, len(schedulerFactories))
	for name := range schedulerFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FIFOScheduler selects the pending job with the earliest submit time,
// ties broken by ascending ID.
type FIFOScheduler struct{}

func (f *FIFOScheduler) Name() string { return "fifo" }

func (f *FIFOScheduler) SelectJob(pending []*Job, _ float64) *Job {
	return minJob(pending, func(a, b *Job) bool {
		if a.SubmitTime != b.SubmitTime {
			return a.SubmitTime < b.SubmitTime
		}
		return a.ID < b.ID
	})
}

// SJFScheduler selects the job with the smallest GPU demand,
// ties broken by earliest submit time then ascending ID.
// Warning: SJF can starve large jobs under sustained load of small ones.
type SJFScheduler struct{}

func (s *SJFScheduler) Name() string { return "sjf" }

func (s *SJFScheduler) SelectJob(pending []*Job, _ float64) *Job {
	return minJob(pending, func(a, b *Job) bool {
		if a.NumGPU != b.NumGPU {
			return a.NumGPU < b.NumGPU
		}
		return earlierSubmit(a, b)
	})
}

// ShortestScheduler selects the job with the smallest remaining execution
// time estimate, ties broken by earliest submit time then ascending ID.
type ShortestScheduler struct{}

func (s *ShortestScheduler) Name() string { return "shortest" }

func (s *ShortestScheduler) SelectJob(pending []*Job, _ float64) *Job {
	return minJob(pending, func(a, b *Job) bool {
		if a.RemainingTime() != b.RemainingTime() {
			return a.RemainingTime() < b.RemainingTime()
		}
		return earlierSubmit(a, b)
	})
}

// ShortestGPUScheduler selects the job with the smallest remaining
// GPU-time product (NumGPU * remaining time), ties broken by earliest
// submit time then ascending ID.
type ShortestGPUScheduler struct{}

func (s *ShortestGPUScheduler) Name() string { return "shortest-gpu" }

func (s *ShortestGPUScheduler) SelectJob(pending []*Job, _ float64) *Job {
	return minJob(pending, func(a, b *Job) bool {
		ga, gb := float64(a.NumGPU)*a.RemainingTime(), float64(b.NumGPU)*b.RemainingTime()
		if ga != gb {
			return ga < gb
		}
		return earlierSubmit(a, b)
	})
}

// earlierSubmit is the shared tie-break: earliest submit time, then ID.
func earlierSubmit(a, b *Job) bool {
	if a.SubmitTime != b.SubmitTime {
		return a.SubmitTime < b.SubmitTime
	}
	return a.ID < b.ID
}

// minJob returns the minimum of pending under less without reordering the
// caller's slice. Returns nil for an empty set.
func minJob(pending []*Job, less func(a, b *Job) bool) *Job {
	if len(pending) == 0 {
		return nil
	}
	best := pending[0]
	for _, j := range pending[1:] {
		if less(j, best) {
			best = j
		}
	}
	return best
}

// maxJob is minJob with the comparison flipped; score-based policies use
// it to pick the highest-scoring job.
func maxJob(pending []*Job, less func(a, b *Job) bool) *Job {
	return minJob(pending, func(a, b *Job) bool { return less(b, a) })
}
