package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJob_TotalWork_IsIterationsTimesDuration(t *testing.T) {
	job := &Job{Iterations: 10, Duration: 2.0}
	assert.Equal(t, 20.0, job.TotalWork())
}

func TestJob_RemainingTime_ClampsAtZero(t *testing.T) {
	job := &Job{Iterations: 3, Duration: 1.0, ElapsedExecution: 5.0}
	assert.Equal(t, 0.0, job.RemainingTime())
	assert.True(t, job.Finished())
}

func TestJob_RemainingTime_BeforeStart(t *testing.T) {
	job := &Job{Iterations: 4, Duration: 2.5}
	assert.Equal(t, 10.0, job.RemainingTime())
	assert.False(t, job.Finished())
}

func TestJob_Terminal(t *testing.T) {
	for _, state := range []JobState{StateAdded, StatePending, StateRunning} {
		job := &Job{State: state}
		assert.False(t, job.Terminal(), "state %s", state)
	}
	for _, state := range []JobState{StateEnd, StateError} {
		job := &Job{State: state}
		assert.True(t, job.Terminal(), "state %s", state)
	}
}
