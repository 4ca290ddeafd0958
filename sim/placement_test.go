package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstFit_TakesLowestSlotsOnFirstFittingNode(t *testing.T) {
	nodeA := NewNode(0, 4, 16, 64, 100)
	nodeB := NewNode(1, 4, 16, 64, 100)
	require.NoError(t, nodeA.Allocate(9, []int{0, 1}))

	scheme := &FirstFitPlacement{}
	decision, ok := scheme.PlaceJob(&Job{ID: 1, NumGPU: 2}, []*Node{nodeA, nodeB})

	require.True(t, ok)
	assert.Equal(t, 0, decision.NodeID)
	assert.Equal(t, []int{2, 3}, decision.Slots)
}

func TestFirstFit_SkipsFullNodes(t *testing.T) {
	nodeA := NewNode(0, 2, 16, 64, 100)
	nodeB := NewNode(1, 4, 16, 64, 100)
	require.NoError(t, nodeA.Allocate(9, []int{0, 1}))

	scheme := &FirstFitPlacement{}
	decision, ok := scheme.PlaceJob(&Job{ID: 1, NumGPU: 1}, []*Node{nodeA, nodeB})

	require.True(t, ok)
	assert.Equal(t, 1, decision.NodeID)
	assert.Equal(t, []int{0}, decision.Slots)
}

// Divergence case: free = {3 on A, 1 on B}, job needs 1 GPU.
// Best-fit picks B (tightest fit), first-fit picks A (first with capacity).
func TestBestFit_DivergesFromFirstFit(t *testing.T) {
	makeNodes := func() []*Node {
		nodeA := NewNode(0, 4, 16, 64, 100)
		nodeB := NewNode(1, 4, 16, 64, 100)
		require.NoError(t, nodeA.Allocate(8, []int{0}))          // 3 free on A
		require.NoError(t, nodeB.Allocate(9, []int{0, 1, 2}))    // 1 free on B
		return []*Node{nodeA, nodeB}
	}
	job := &Job{ID: 1, NumGPU: 1}

	firstFit, ok := (&FirstFitPlacement{}).PlaceJob(job, makeNodes())
	require.True(t, ok)
	assert.Equal(t, 0, firstFit.NodeID)

	bestFit, ok := (&BestFitPlacement{}).PlaceJob(job, makeNodes())
	require.True(t, ok)
	assert.Equal(t, 1, bestFit.NodeID)
	assert.Equal(t, []int{3}, bestFit.Slots)
}

func TestBestFit_TieBreaksByAscendingNodeID(t *testing.T) {
	nodeA := NewNode(3, 4, 16, 64, 100)
	nodeB := NewNode(1, 4, 16, 64, 100)

	decision, ok := (&BestFitPlacement{}).PlaceJob(&Job{ID: 1, NumGPU: 2}, []*Node{nodeA, nodeB})

	require.True(t, ok)
	assert.Equal(t, 1, decision.NodeID)
}

func TestPlacement_NoSpanningAcrossNodes(t *testing.T) {
	nodes := []*Node{
		NewNode(0, 2, 16, 64, 100),
		NewNode(1, 2, 16, 64, 100),
	}
	// 3 GPUs fit in the cluster total but on no single node.
	job := &Job{ID: 1, NumGPU: 3}

	_, ok := (&FirstFitPlacement{}).PlaceJob(job, nodes)
	assert.False(t, ok)
	_, ok = (&BestFitPlacement{}).PlaceJob(job, nodes)
	assert.False(t, ok)
}

func TestPlacement_DoesNotMutateNodes(t *testing.T) {
	nodes := []*Node{NewNode(0, 4, 16, 64, 100)}
	job := &Job{ID: 1, NumGPU: 2}

	for _, name := range PlacementNames() {
		scheme, err := NewPlacement(name)
		require.NoError(t, err)
		_, ok := scheme.PlaceJob(job, nodes)
		require.True(t, ok)
		assert.Equal(t, 4, nodes[0].FreeGPUs(), "%s mutated node state", name)
	}
}

func TestNewPlacement_UnknownName(t *testing.T) {
	_, err := NewPlacement("spread")
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}
