// Read-only status snapshots for external reporting. Nothing here can
// mutate simulation state; print_status-style consumers render these.

package sim

import "sort"

// JobStatus is a point-in-time copy of one job's externally visible state.
type JobStatus struct {
	ID               int64
	State            JobState
	NumGPU           int
	ModelName        string
	SubmitTime       float64
	Started          bool
	StartTime        float64
	EndTime          float64
	ElapsedExecution float64
	ElapsedPending   float64
	RemainingTime    float64
	PreemptionCount  int
	ResumeCount      int
	AssignedNodeID   int
	AssignedGPUs     []int
}

// NodeStatus is a point-in-time copy of one node's occupancy.
type NodeStatus struct {
	ID          int
	TotalGPUs   int
	FreeGPUs    int
	Utilization float64
}

// SystemStatus is the full read-only snapshot returned by Status.
type SystemStatus struct {
	RunID     string
	Clock     float64
	Scheduler string
	Placement string

	PendingJobs   int
	RunningJobs   int
	CompletedJobs int
	FailedJobs    int

	Jobs  []JobStatus  // every job ever submitted, ascending ID
	Nodes []NodeStatus // ascending node ID
}

// Status returns a consistent snapshot of all jobs and nodes. The copies
// share no mutable state with the manager.
func (m *ClusterManager) Status() SystemStatus {
	status := SystemStatus{
		RunID:         m.RunID,
		Clock:         m.clock,
		Scheduler:     m.scheduler.Name(),
		Placement:     m.placement.Name(),
		PendingJobs:   m.pending.Len(),
		RunningJobs:   len(m.running),
		CompletedJobs: len(m.completed),
		FailedJobs:    len(m.failed),
	}

	ids := make([]int64, 0, len(m.jobs))
	for id := range m.jobs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		job := m.jobs[id]
		status.Jobs = append(status.Jobs, JobStatus{
			ID:               job.ID,
			State:            job.State,
			NumGPU:           job.NumGPU,
			ModelName:        job.ModelName,
			SubmitTime:       job.SubmitTime,
			Started:          job.Started,
			StartTime:        job.StartTime,
			EndTime:          job.EndTime,
			ElapsedExecution: job.ElapsedExecution,
			ElapsedPending:   job.ElapsedPending,
			RemainingTime:    job.RemainingTime(),
			PreemptionCount:  job.PreemptionCount,
			ResumeCount:      job.ResumeCount,
			AssignedNodeID:   job.AssignedNodeID,
			AssignedGPUs:     append([]int(nil), job.AssignedGPUs...),
		})
	}

	for _, node := range m.nodes {
		status.Nodes = append(status.Nodes, NodeStatus{
			ID:          node.ID,
			TotalGPUs:   node.TotalGPUs,
			FreeGPUs:    node.FreeGPUs(),
			Utilization: node.Utilization(),
		})
	}
	return status
}
