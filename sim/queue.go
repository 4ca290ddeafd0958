// Implements the PendingQueue, which holds all jobs waiting for placement.
// Jobs are enqueued at submission in arrival order; schedulers select from
// the queue without reordering it.

package sim

import (
	"fmt"
	"strings"
)

// PendingQueue holds PENDING jobs in insertion order. Insertion order is
// preserved across ticks; execution order is whatever the active
// Scheduler decides.
type PendingQueue struct {
	queue []*Job
}

// Enqueue adds a job to the back of the queue.
func (pq *PendingQueue) Enqueue(j *Job) {
	pq.queue = append(pq.queue, j)
}

// PrependFront inserts a job at the front of the queue.
// Used for preemption: a job evicted from its node is reconsidered first
// under arrival-order policies.
func (pq *PendingQueue) PrependFront(j *Job) {
	if j == nil {
		panic("PrependFront: job must not be nil")
	}
	pq.queue = append([]*Job{j}, pq.queue...)
}

// Remove deletes the job with the given ID, preserving the order of the
// rest. Returns false if the job is not queued.
func (pq *PendingQueue) Remove(jobID int64) bool {
	for i, j := range pq.queue {
		if j.ID == jobID {
			pq.queue = append(pq.queue[:i], pq.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns the queue contents for iteration. The returned slice is
// the queue's internal storage -- callers may read it but MUST NOT append
// to, reorder, or reslice it.
func (pq *PendingQueue) Items() []*Job {
	return pq.queue
}

// Len returns the number of queued jobs.
func (pq *PendingQueue) Len() int {
	return len(pq.queue)
}

func (pq *PendingQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, j := range pq.queue {
		sb.WriteString(fmt.Sprint(j))
		if i < len(pq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
