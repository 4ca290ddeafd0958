package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_SameSeedSameStream(t *testing.T) {
	spec := DefaultWorkloadSpec(7, 30)

	genA, err := NewGenerator(spec)
	require.NoError(t, err)
	genB, err := NewGenerator(spec)
	require.NoError(t, err)

	assert.Equal(t, genA.Generate(), genB.Generate())
}

func TestGenerator_DifferentSeedsDiverge(t *testing.T) {
	specA := DefaultWorkloadSpec(1, 30)
	specB := DefaultWorkloadSpec(2, 30)

	genA, err := NewGenerator(specA)
	require.NoError(t, err)
	genB, err := NewGenerator(specB)
	require.NoError(t, err)

	assert.NotEqual(t, genA.Generate(), genB.Generate())
}

func TestGenerator_ArrivalsSortedAndBounded(t *testing.T) {
	spec := DefaultWorkloadSpec(42, 100)
	gen, err := NewGenerator(spec)
	require.NoError(t, err)

	arrivals := gen.Generate()
	require.Len(t, arrivals, 100)

	prev := 0.0
	for i, a := range arrivals {
		assert.GreaterOrEqual(t, a.SubmitTime, prev, "arrival %d out of order", i)
		prev = a.SubmitTime

		assert.GreaterOrEqual(t, a.NumGPU, 1)
		assert.LessOrEqual(t, a.NumGPU, spec.GPU.Max)
		assert.GreaterOrEqual(t, a.Iterations, spec.Iterations.Min)
		assert.LessOrEqual(t, a.Iterations, spec.Iterations.Max)
		assert.Greater(t, a.Duration, 0.0)
		assert.Contains(t, spec.Models, a.ModelName)
	}
}

func TestNewGenerator_RejectsInvalidSpec(t *testing.T) {
	spec := DefaultWorkloadSpec(1, 10)
	spec.Arrival.Rate = 0
	_, err := NewGenerator(spec)
	assert.Error(t, err)
}
