package sim

import (
	"fmt"
	"sort"
)

// PlacementDecision names a node and the exact GPU slots a job should
// occupy there. Decisions are advisory: the manager applies them and
// re-validates slot freedom at apply time.
type PlacementDecision struct {
	NodeID int
	Slots  []int // Slot indices on NodeID, len == job.NumGPU
}

// PlacementScheme maps a job to a node plus concrete GPU slots, or
// reports that no placement is currently possible. Implementations must
// not mutate node state and must scan nodes in a deterministic order.
//
// Neither scheme spans a job across nodes, so a job demanding more GPUs
// than any single node's capacity is unplaceable.
type PlacementScheme interface {
	Name() string
	PlaceJob(job *Job, nodes []*Node) (PlacementDecision, bool)
}

var placementFactories = map[string]func() PlacementScheme{
	"first-fit": func() PlacementScheme { return &FirstFitPlacement{} },
	"best-fit":  func() PlacementScheme { return &BestFitPlacement{} },
}

// RegisterPlacement adds a placement constructor under a unique name.
// Returns an error if the name is already taken.
func RegisterPlacement(name string, factory func() PlacementScheme) error {
	if _, exists := placementFactories[name]; exists {
		return fmt.Errorf("placement %q already registered", name)
	}
	placementFactories[name] = factory
	return nil
}

// NewPlacement creates a PlacementScheme by registry name.
// Unknown names return ErrPolicyNotFound.
func NewPlacement(name string) (PlacementScheme, error) {
	factory, ok := placementFactories[name]
	if !ok {
		return nil, fmt.Errorf("placement %q: %w", name, ErrPolicyNotFound)
	}
	return factory(), nil
}

// PlacementNames returns the registered placement names, sorted.
func PlacementNames() []string {
	names := make([]string, 0, len(placementFactories))
	for name := range placementFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FirstFitPlacement scans nodes in ascending ID order and takes the
// lowest-indexed free slots on the first node with enough capacity.
type FirstFitPlacement struct{}

func (f *FirstFitPlacement) Name() string { return "first-fit" }

func (f *FirstFitPlacement) PlaceJob(job *Job, nodes []*Node) (PlacementDecision, bool) {
	for _, node := range sortedByID(nodes) {
		if node.CanFit(job.NumGPU) {
			return PlacementDecision{
				NodeID: node.ID,
				Slots:  node.FreeSlots()[:job.NumGPU],
			}, true
		}
	}
	return PlacementDecision{}, false
}

// BestFitPlacement picks, among nodes with enough capacity, the one whose
// leftover free-slot count after the allocation is smallest, minimizing
// fragmentation. Ties break by ascending node ID.
type BestFitPlacement struct{}

func (b *BestFitPlacement) Name() string { return "best-fit" }

func (b *BestFitPlacement) PlaceJob(job *Job, nodes []*Node) (PlacementDecision, bool) {
	var best *Node
	bestLeftover := 0
	for _, node := range sortedByID(nodes) {
		free := node.FreeGPUs()
		if free < job.NumGPU {
			continue
		}
		leftover := free - job.NumGPU
		if best == nil || leftover < bestLeftover {
			best = node
			bestLeftover = leftover
		}
	}
	if best == nil {
		return PlacementDecision{}, false
	}
	return PlacementDecision{
		NodeID: best.ID,
		Slots:  best.FreeSlots()[:job.NumGPU],
	}, true
}

// sortedByID returns a copy of nodes in ascending ID order so schemes
// never depend on the caller's slice order.
func sortedByID(nodes []*Node) []*Node {
	sorted := make([]*Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return sorted
}
