// Implements the ClusterManager, the orchestrator that owns the job
// queue, the node set, the active scheduler/placement policies, and the
// per-tick simulation loop.

package sim

import (
	"errors"
	"fmt"
	"sort"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// ClusterManager drives the simulation. All state changes happen
// synchronously inside SubmitJob, UpdateSimulation, and PreemptJob; there
// is no background execution, so no locking is needed.
type ClusterManager struct {
	// RunID identifies this simulation instance in logs and status
	// output; multiple managers can coexist in one process.
	RunID string

	nodes     []*Node       // ascending ID order
	nodesByID map[int]*Node

	pending   *PendingQueue
	running   []*Job // RUNNING jobs in start order
	completed []*Job // terminal, append-only
	failed    []*Job // terminal, append-only
	jobs      map[int64]*Job

	scheduler Scheduler
	placement PlacementScheme
	collector MetricsCollector

	clock       float64
	nextJobID   int64
	maxNodeGPUs int // largest single-node capacity; bounds placeable NumGPU
}

// NewClusterManager builds a manager over the given topology with the
// default policies (fifo, first-fit). A nil collector gets a Collector
// sized to the topology. Panics on an invalid topology; configs loaded
// via LoadClusterConfig are already validated.
func NewClusterManager(cfg ClusterConfig, collector MetricsCollector) *ClusterManager {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("NewClusterManager: %v", err))
	}

	nodes := cfg.BuildNodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	byID := make(map[int]*Node, len(nodes))
	maxGPUs := 0
	perNodeTotal := make(map[int]int, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
		perNodeTotal[n.ID] = n.TotalGPUs
		if n.TotalGPUs > maxGPUs {
			maxGPUs = n.TotalGPUs
		}
	}
	if collector == nil {
		collector = NewCollector(perNodeTotal)
	}

	scheduler, err := NewScheduler("fifo")
	if err != nil {
		panic(err)
	}
	placement, err := NewPlacement("first-fit")
	if err != nil {
		panic(err)
	}

	m := &ClusterManager{
		RunID:       uuid.NewV4().String(),
		nodes:       nodes,
		nodesByID:   byID,
		pending:     &PendingQueue{},
		jobs:        make(map[int64]*Job),
		scheduler:   scheduler,
		placement:   placement,
		collector:   collector,
		maxNodeGPUs: maxGPUs,
	}
	logrus.Infof("cluster %s: %d nodes, largest node %d GPUs", m.RunID[:8], len(nodes), maxGPUs)
	return m
}

// Clock returns the current simulated time.
func (m *ClusterManager) Clock() float64 {
	return m.clock
}

// SchedulerName returns the active scheduler's registry name.
func (m *ClusterManager) SchedulerName() string {
	return m.scheduler.Name()
}

// PlacementName returns the active placement scheme's registry name.
func (m *ClusterManager) PlacementName() string {
	return m.placement.Name()
}

// SetScheduler swaps the active scheduler by registry name, effective on
// the next tick. RUNNING jobs are unaffected. On an unknown name the
// prior scheduler stays active and ErrPolicyNotFound is returned.
func (m *ClusterManager) SetScheduler(name string) error {
	scheduler, err := NewScheduler(name)
	if err != nil {
		return err
	}
	m.scheduler = scheduler
	logrus.Infof("cluster %s: switched to %s scheduler", m.RunID[:8], name)
	return nil
}

// SetPlacement swaps the active placement scheme by registry name, with
// the same semantics as SetScheduler.
func (m *ClusterManager) SetPlacement(name string) error {
	placement, err := NewPlacement(name)
	if err != nil {
		return err
	}
	m.placement = placement
	logrus.Infof("cluster %s: switched to %s placement", m.RunID[:8], name)
	return nil
}

// SubmitJob validates the parameters, creates a job, and enqueues it as
// PENDING at the current clock. Invalid submissions are rejected
// synchronously: the returned error is an *InvalidJobSpecError, the
// pending queue is untouched, and the rejected job is recorded in the
// failed pool with state ERROR so status and metrics consumers see it.
func (m *ClusterManager) SubmitJob(numGPU, iterations int, modelName string, duration float64) (int64, error) {
	var reason string
	switch {
	case numGPU < 1:
		reason = fmt.Sprintf("num_gpu must be positive, got %d", numGPU)
	case iterations < 1:
		reason = fmt.Sprintf("iterations must be positive, got %d", iterations)
	case duration <= 0:
		reason = fmt.Sprintf("duration must be positive, got %v", duration)
	case numGPU > m.maxNodeGPUs:
		reason = fmt.Sprintf("num_gpu %d exceeds largest node capacity %d, unplaceable", numGPU, m.maxNodeGPUs)
	}

	m.nextJobID++
	job := &Job{
		ID:             m.nextJobID,
		NumGPU:         numGPU,
		ModelName:      modelName,
		Iterations:     iterations,
		Duration:       duration,
		State:          StateAdded,
		SubmitTime:     m.clock,
		AssignedNodeID: -1,
	}
	m.jobs[job.ID] = job

	if reason != "" {
		job.EndTime = m.clock
		m.transition(job, StateError)
		m.failed = append(m.failed, job)
		logrus.Warnf("cluster %s: rejected job %d: %s", m.RunID[:8], job.ID, reason)
		return job.ID, &InvalidJobSpecError{Reason: reason}
	}

	m.transition(job, StatePending)
	m.pending.Enqueue(job)
	logrus.Infof("cluster %s: submitted job %d: %d GPUs, %s, work %.2fs",
		m.RunID[:8], job.ID, numGPU, modelName, job.TotalWork())
	return job.ID, nil
}

// UpdateSimulation advances the clock by dt and runs one tick: time
// accounting, then the completion sweep, then the scheduling/placement
// sweep, then a snapshot emission. Completions precede placements so
// slots freed this tick are reusable this tick. Job-level failures are
// absorbed into the ERROR state; this method never panics on them.
func (m *ClusterManager) UpdateSimulation(dt float64) {
	if dt <= 0 {
		logrus.Warnf("cluster %s: ignoring tick with non-positive dt %v", m.RunID[:8], dt)
		return
	}
	m.clock += dt

	for _, job := range m.running {
		job.ElapsedExecution += dt
	}
	for _, job := range m.pending.Items() {
		job.ElapsedPending += dt
	}

	m.sweepCompletions()
	m.scheduleJobs()

	m.collector.RecordSnapshot(m.snapshot())
}

// sweepCompletions retires every RUNNING job that has accumulated its
// total work.
func (m *ClusterManager) sweepCompletions() {
	still := m.running[:0]
	for _, job := range m.running {
		if !job.Finished() {
			still = append(still, job)
			continue
		}
		m.releaseAllocation(job)
		job.EndTime = m.clock
		m.transition(job, StateEnd)
		m.completed = append(m.completed, job)
		logrus.Infof("cluster %s: completed job %d at %.2fs (jct %.2fs)",
			m.RunID[:8], job.ID, m.clock, job.EndTime-job.SubmitTime)
	}
	m.running = still
}

// scheduleJobs runs the per-tick placement sweep: as long as the
// scheduler selects a job and placement succeeds, jobs start. The first
// placement failure for the selected job ends the sweep, preserving the
// scheduler's selection semantics (lower-ranked jobs are not tried once
// the chosen one cannot be placed).
func (m *ClusterManager) scheduleJobs() {
	for m.pending.Len() > 0 {
		job := m.scheduler.SelectJob(m.pending.Items(), m.clock)
		if job == nil {
			return
		}

		decision, ok := m.placement.PlaceJob(job, m.nodes)
		if !ok {
			logrus.Debugf("cluster %s: no placement for job %d (%d GPUs), deferring to next tick",
				m.RunID[:8], job.ID, job.NumGPU)
			return
		}

		err := m.applyPlacement(job, decision)
		if errors.Is(err, ErrAllocationConflict) {
			// Stale decision. Ask the scheme for one fresh decision for
			// the same job, then defer the job to the next tick.
			logrus.Warnf("cluster %s: stale placement for job %d, re-deciding", m.RunID[:8], job.ID)
			decision, ok = m.placement.PlaceJob(job, m.nodes)
			if !ok {
				return
			}
			err = m.applyPlacement(job, decision)
			if errors.Is(err, ErrAllocationConflict) {
				return
			}
		}

		var violation *InvariantViolationError
		if errors.As(err, &violation) {
			m.failJob(job, err)
			continue
		}

		m.startJob(job, decision)
	}
}

// applyPlacement atomically re-validates and applies a placement
// decision. Decisions are advisory, not authoritative: the slot check in
// Node.Allocate guards against any future extension that interleaves
// placement computation with allocation.
func (m *ClusterManager) applyPlacement(job *Job, decision PlacementDecision) error {
	node, ok := m.nodesByID[decision.NodeID]
	if !ok {
		return &InvariantViolationError{JobID: job.ID,
			Reason: fmt.Sprintf("placement named unknown node %d", decision.NodeID)}
	}
	if len(decision.Slots) != job.NumGPU {
		return &InvariantViolationError{JobID: job.ID,
			Reason: fmt.Sprintf("placement returned %d slots for a %d GPU job", len(decision.Slots), job.NumGPU)}
	}
	seen := make(map[int]bool, len(decision.Slots))
	for _, slot := range decision.Slots {
		if seen[slot] {
			return &InvariantViolationError{JobID: job.ID,
				Reason: fmt.Sprintf("placement repeated slot %d on node %d", slot, decision.NodeID)}
		}
		seen[slot] = true
	}
	return node.Allocate(job.ID, decision.Slots)
}

// startJob moves a placed job PENDING → RUNNING.
func (m *ClusterManager) startJob(job *Job, decision PlacementDecision) {
	m.pending.Remove(job.ID)

	if !job.Started {
		job.Started = true
		job.StartTime = m.clock
	} else {
		job.ResumeCount++
	}
	job.AssignedNodeID = decision.NodeID
	job.AssignedGPUs = append([]int(nil), decision.Slots...)
	sort.Ints(job.AssignedGPUs)

	m.transition(job, StateRunning)
	m.running = append(m.running, job)
	logrus.Infof("cluster %s: started job %d on node %d with GPUs %v",
		m.RunID[:8], job.ID, decision.NodeID, job.AssignedGPUs)
}

// PreemptJob forces a RUNNING job back to PENDING: its exact slot set is
// freed, its preemption count is incremented, and it re-enters the queue
// at the front. Accumulated execution time is preserved.
func (m *ClusterManager) PreemptJob(jobID int64) error {
	idx := -1
	for i, job := range m.running {
		if job.ID == jobID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("preempt job %d: not running", jobID)
	}
	job := m.running[idx]
	m.running = append(m.running[:idx], m.running[idx+1:]...)

	m.releaseAllocation(job)
	job.PreemptionCount++
	m.transition(job, StatePending)
	m.pending.PrependFront(job)
	logrus.Infof("cluster %s: preempted job %d (count %d)", m.RunID[:8], job.ID, job.PreemptionCount)
	return nil
}

// failJob retires a job with ERROR. Fatal for the job only: it leaves
// the active pools, holds no slots, and the loop continues.
func (m *ClusterManager) failJob(job *Job, cause error) {
	m.pending.Remove(job.ID)
	for i, running := range m.running {
		if running.ID == job.ID {
			m.running = append(m.running[:i], m.running[i+1:]...)
			break
		}
	}
	m.releaseAllocation(job)
	job.EndTime = m.clock
	m.transition(job, StateError)
	m.failed = append(m.failed, job)
	logrus.Errorf("cluster %s: job %d failed: %v", m.RunID[:8], job.ID, cause)
}

// releaseAllocation frees whatever slots the job holds and clears its
// assignment fields.
func (m *ClusterManager) releaseAllocation(job *Job) {
	if job.AssignedNodeID >= 0 {
		if node, ok := m.nodesByID[job.AssignedNodeID]; ok {
			node.Release(job.ID)
		}
	}
	job.AssignedNodeID = -1
	job.AssignedGPUs = nil
}

// transition changes the job's state and emits the event to the
// collector. The event itself is the transient EVENT notification; jobs
// only rest in the five JobState values.
func (m *ClusterManager) transition(job *Job, to JobState) {
	from := job.State
	job.State = to
	m.collector.RecordTransition(TransitionEvent{
		JobID: job.ID,
		From:  from,
		To:    to,
		Clock: m.clock,
	})
}

func (m *ClusterManager) snapshot() TickSnapshot {
	free := make(map[int]int, len(m.nodes))
	for _, node := range m.nodes {
		free[node.ID] = node.FreeGPUs()
	}
	return TickSnapshot{
		Clock:            m.clock,
		PerNodeFreeSlots: free,
		PendingCount:     m.pending.Len(),
		RunningCount:     len(m.running),
	}
}
