// Tracks simulation-wide and per-job performance metrics such as job
// completion time, GPU utilization, and resource fragmentation.

package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// TransitionEvent is the one-way notification emitted for every job state
// transition. It carries the transient event tag from the core to the
// collector; EVENT is not a resting job state.
type TransitionEvent struct {
	JobID int64
	From  JobState
	To    JobState
	Clock float64
}

// TickSnapshot is emitted once at the end of every UpdateSimulation call.
type TickSnapshot struct {
	Clock            float64
	PerNodeFreeSlots map[int]int // node ID -> free slot count
	PendingCount     int
	RunningCount     int
}

// MetricsCollector receives lifecycle events and per-tick snapshots from
// the ClusterManager. Strictly one-way: nothing a collector does feeds
// back into scheduling.
type MetricsCollector interface {
	RecordTransition(ev TransitionEvent)
	RecordSnapshot(snap TickSnapshot)
}

// NopCollector discards everything. Useful for tests and policy sweeps
// where only final job state matters.
type NopCollector struct{}

func (NopCollector) RecordTransition(TransitionEvent) {}
func (NopCollector) RecordSnapshot(TickSnapshot)      {}

// Collector aggregates statistics about the simulation for final
// reporting. Completion times are reconstructed from the transition
// stream alone: submission is the transition into PENDING, completion the
// transition into END.
type Collector struct {
	perNodeTotal map[int]int // node ID -> total slots, for utilization

	submitClock map[int64]float64 // job ID -> clock at first PENDING
	startClock  map[int64]float64 // job ID -> clock at first RUNNING

	completionTimes []float64 // END clock - submit clock, per completed job
	executionTimes  []float64 // END clock - first RUNNING clock
	errorCount      int

	utilization   []float64 // occupied fraction per tick, in [0, 1]
	fragmentation []float64 // per-tick fragmentation score
	snapshots     int
}

// NewCollector creates a collector for a cluster whose node capacities
// are given as node ID -> total GPU slots.
func NewCollector(perNodeTotal map[int]int) *Collector {
	totals := make(map[int]int, len(perNodeTotal))
	for id, n := range perNodeTotal {
		totals[id] = n
	}
	return &Collector{
		perNodeTotal: totals,
		submitClock:  make(map[int64]float64),
		startClock:   make(map[int64]float64),
	}
}

func (c *Collector) RecordTransition(ev TransitionEvent) {
	switch ev.To {
	case StatePending:
		if _, seen := c.submitClock[ev.JobID]; !seen {
			c.submitClock[ev.JobID] = ev.Clock
		}
	case StateRunning:
		if _, seen := c.startClock[ev.JobID]; !seen {
			c.startClock[ev.JobID] = ev.Clock
		}
	case StateEnd:
		if submitted, seen := c.submitClock[ev.JobID]; seen {
			c.completionTimes = append(c.completionTimes, ev.Clock-submitted)
		}
		if started, seen := c.startClock[ev.JobID]; seen {
			c.executionTimes = append(c.executionTimes, ev.Clock-started)
		}
	case StateError:
		c.errorCount++
	}
}

func (c *Collector) RecordSnapshot(snap TickSnapshot) {
	totalSlots := 0
	freeSlots := 0
	frag := 0.0
	for nodeID, total := range c.perNodeTotal {
		free, ok := snap.PerNodeFreeSlots[nodeID]
		if !ok {
			continue
		}
		totalSlots += total
		freeSlots += free
		if free > 0 && free < total {
			frag += float64(free) / float64(total)
		}
	}
	if totalSlots > 0 {
		c.utilization = append(c.utilization, float64(totalSlots-freeSlots)/float64(totalSlots))
	}
	c.fragmentation = append(c.fragmentation, frag)
	c.snapshots++
}

// CompletedJobs returns the number of completions observed.
func (c *Collector) CompletedJobs() int {
	return len(c.completionTimes)
}

// ErrorJobs returns the number of ERROR transitions observed.
func (c *Collector) ErrorJobs() int {
	return c.errorCount
}

// AverageJCT is the mean submit-to-completion time across completed jobs.
func (c *Collector) AverageJCT() float64 {
	if len(c.completionTimes) == 0 {
		return 0
	}
	return stat.Mean(c.completionTimes, nil)
}

// AverageExecutionTime is the mean first-start-to-completion time.
func (c *Collector) AverageExecutionTime() float64 {
	if len(c.executionTimes) == 0 {
		return 0
	}
	return stat.Mean(c.executionTimes, nil)
}

// GPUUtilization is the mean occupied slot fraction over all ticks, in
// percent.
func (c *Collector) GPUUtilization() float64 {
	if len(c.utilization) == 0 {
		return 0
	}
	return stat.Mean(c.utilization, nil) * 100
}

// ResourceFragmentation is the mean per-tick fragmentation score: the sum
// over partially occupied nodes of their free fraction.
func (c *Collector) ResourceFragmentation() float64 {
	if len(c.fragmentation) == 0 {
		return 0
	}
	return stat.Mean(c.fragmentation, nil)
}

// Print displays aggregated metrics at the end of the simulation.
func (c *Collector) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Completed Jobs        : %d\n", c.CompletedJobs())
	fmt.Printf("Failed Jobs           : %d\n", c.ErrorJobs())
	if c.CompletedJobs() > 0 {
		fmt.Printf("Average JCT           : %.2fs\n", c.AverageJCT())
		fmt.Printf("Average Execution     : %.2fs\n", c.AverageExecutionTime())
	}
	if c.snapshots > 0 {
		fmt.Printf("GPU Utilization       : %.1f%%\n", c.GPUUtilization())
		fmt.Printf("Fragmentation         : %.2f\n", c.ResourceFragmentation())
	}
}
