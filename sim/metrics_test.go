package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_AverageJCTFromTransitionStream(t *testing.T) {
	c := NewCollector(map[int]int{0: 4})

	// Job 1: submitted at 0, done at 10. Job 2: submitted at 2, done at 8.
	c.RecordTransition(TransitionEvent{JobID: 1, From: StateAdded, To: StatePending, Clock: 0})
	c.RecordTransition(TransitionEvent{JobID: 2, From: StateAdded, To: StatePending, Clock: 2})
	c.RecordTransition(TransitionEvent{JobID: 1, From: StatePending, To: StateRunning, Clock: 1})
	c.RecordTransition(TransitionEvent{JobID: 2, From: StatePending, To: StateRunning, Clock: 3})
	c.RecordTransition(TransitionEvent{JobID: 1, From: StateRunning, To: StateEnd, Clock: 10})
	c.RecordTransition(TransitionEvent{JobID: 2, From: StateRunning, To: StateEnd, Clock: 8})

	assert.Equal(t, 2, c.CompletedJobs())
	assert.Equal(t, 8.0, c.AverageJCT())              // mean(10, 6)
	assert.Equal(t, 7.0, c.AverageExecutionTime())    // mean(9, 5)
}

func TestCollector_PreemptionDoesNotResetStart(t *testing.T) {
	c := NewCollector(map[int]int{0: 4})

	c.RecordTransition(TransitionEvent{JobID: 1, From: StateAdded, To: StatePending, Clock: 0})
	c.RecordTransition(TransitionEvent{JobID: 1, From: StatePending, To: StateRunning, Clock: 1})
	c.RecordTransition(TransitionEvent{JobID: 1, From: StateRunning, To: StatePending, Clock: 4})
	c.RecordTransition(TransitionEvent{JobID: 1, From: StatePending, To: StateRunning, Clock: 6})
	c.RecordTransition(TransitionEvent{JobID: 1, From: StateRunning, To: StateEnd, Clock: 9})

	// Execution time measures from the first start, and the re-queue must
	// not shift the recorded submit clock.
	assert.Equal(t, 8.0, c.AverageExecutionTime())
	assert.Equal(t, 9.0, c.AverageJCT())
}

func TestCollector_ErrorTransitionsCounted(t *testing.T) {
	c := NewCollector(map[int]int{0: 4})
	c.RecordTransition(TransitionEvent{JobID: 1, From: StateAdded, To: StateError, Clock: 0})
	assert.Equal(t, 1, c.ErrorJobs())
	assert.Equal(t, 0, c.CompletedJobs())
}

func TestCollector_UtilizationAndFragmentation(t *testing.T) {
	c := NewCollector(map[int]int{0: 4, 1: 4})

	// Tick 1: node 0 fully used, node 1 idle: 50% used, no partial node.
	c.RecordSnapshot(TickSnapshot{Clock: 1, PerNodeFreeSlots: map[int]int{0: 0, 1: 4}})
	// Tick 2: node 0 half used, node 1 idle: 25% used, fragmentation 0.5.
	c.RecordSnapshot(TickSnapshot{Clock: 2, PerNodeFreeSlots: map[int]int{0: 2, 1: 4}})

	assert.InDelta(t, 37.5, c.GPUUtilization(), 1e-9)
	assert.InDelta(t, 0.25, c.ResourceFragmentation(), 1e-9)
}

func TestManager_EmitsSnapshotEveryTick(t *testing.T) {
	cfg := DefaultClusterConfig(2, 4)
	c := NewCollector(map[int]int{0: 4, 1: 4})
	m := NewClusterManager(cfg, c)

	_, err := m.SubmitJob(4, 100, "a", 1.0)
	require.NoError(t, err)
	m.UpdateSimulation(1.0)
	m.UpdateSimulation(1.0)

	assert.Equal(t, 2, c.snapshots)
	// One node fully busy, one idle on both ticks.
	assert.InDelta(t, 50.0, c.GPUUtilization(), 1e-9)
}
