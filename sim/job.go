// Defines the Job struct that models a single training job in the simulation.
// Tracks GPU demand, submitted work, lifecycle state, and time accounting.

package sim

import (
	"fmt"
)

// JobState represents the lifecycle state of a job.
//
// EVENT from the original state set is intentionally absent: it was a
// notification tag attached to a transition, not a resting state, and is
// modeled here by TransitionEvent (see metrics.go).
type JobState string

const (
	StateAdded   JobState = "ADDED"
	StatePending JobState = "PENDING"
	StateRunning JobState = "RUNNING"
	StateEnd     JobState = "END"
	StateError   JobState = "ERROR"
)

// Job models a single job's lifecycle in the simulation.
// Each job has:
// - a static resource demand (NumGPU) and amount of work (Iterations, Duration)
// - state tracking with submit/start/end timestamps
// - elapsed-time accumulators advanced by the manager each tick
// - the node and GPU slots it currently occupies while RUNNING
type Job struct {
	ID int64 // Unique identifier, monotonic, assigned at submission

	NumGPU     int     // GPUs required, fixed at submission
	ModelName  string  // Workload label, no semantic effect on scheduling
	Iterations int     // Total work units
	Duration   float64 // Simulated seconds of execution per work unit

	State      JobState
	SubmitTime float64 // Clock value when the job was submitted

	Started   bool    // Tracks whether StartTime has been set
	StartTime float64 // Clock value of the first PENDING → RUNNING transition
	EndTime   float64 // Clock value of the transition to END (or ERROR)

	ElapsedExecution float64 // Accumulated simulated execution time (RUNNING ticks)
	ElapsedPending   float64 // Accumulated simulated queue time (PENDING ticks)

	PreemptionCount int // Times the job was forced RUNNING → PENDING before completion
	ResumeCount     int // Times the job re-entered RUNNING after a preemption

	AssignedNodeID int   // Node currently hosting the job; -1 while not RUNNING
	AssignedGPUs   []int // Slot indices held on AssignedNodeID; empty while not RUNNING
}

// TotalWork is the completion target in simulated seconds.
// A job ends when ElapsedExecution first reaches Iterations*Duration.
func (j *Job) TotalWork() float64 {
	return float64(j.Iterations) * j.Duration
}

// RemainingTime estimates how much simulated execution the job still needs.
func (j *Job) RemainingTime() float64 {
	remaining := j.TotalWork() - j.ElapsedExecution
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Finished reports whether the job has accumulated its total work.
func (j *Job) Finished() bool {
	return j.ElapsedExecution >= j.TotalWork()
}

// Terminal reports whether the job can no longer change state.
func (j *Job) Terminal() bool {
	return j.State == StateEnd || j.State == StateError
}

func (j *Job) String() string {
	return fmt.Sprintf("Job: (ID: %d, State: %s, NumGPU: %d, Model: %s, Remaining: %.2fs)",
		j.ID, j.State, j.NumGPU, j.ModelName, j.RemainingTime())
}
