// Defines the Node struct that models a fixed-capacity GPU machine.
// Slot ownership is the only resource contended by the allocation logic;
// CPU, memory, and network ceilings are carried for fragmentation scoring.

package sim

import (
	"fmt"
	"sort"
)

// freeSlot marks an unowned GPU slot in the allocation map.
// Job IDs are monotonic from 1, so 0 is never a valid owner.
const freeSlot int64 = 0

// Node represents a compute node with a fixed pool of GPU slots.
// Slots are mutated only by the ClusterManager, after a placement
// decision has been re-validated.
type Node struct {
	ID          int     // Node identifier, fixed at construction
	TotalGPUs   int     // GPU slot count, fixed at construction
	CPUCores    int     // Static ceiling, not contended
	MemoryGB    int     // Static ceiling, not contended
	NetworkGbps float64 // Static ceiling, not contended

	allocation []int64 // slot index -> owning job ID, freeSlot when unowned
}

// NewNode creates a node with totalGPUs free slots.
// Panics if totalGPUs < 1; topology is validated at load time.
func NewNode(id, totalGPUs, cpuCores, memoryGB int, networkGbps float64) *Node {
	if totalGPUs < 1 {
		panic(fmt.Sprintf("NewNode: node %d must have at least 1 GPU, got %d", id, totalGPUs))
	}
	return &Node{
		ID:          id,
		TotalGPUs:   totalGPUs,
		CPUCores:    cpuCores,
		MemoryGB:    memoryGB,
		NetworkGbps: networkGbps,
		allocation:  make([]int64, totalGPUs),
	}
}

// FreeGPUs returns the number of unowned slots.
func (n *Node) FreeGPUs() int {
	free := 0
	for _, owner := range n.allocation {
		if owner == freeSlot {
			free++
		}
	}
	return free
}

// FreeSlots returns the unowned slot indices in ascending order.
func (n *Node) FreeSlots() []int {
	slots := make([]int, 0, len(n.allocation))
	for idx, owner := range n.allocation {
		if owner == freeSlot {
			slots = append(slots, idx)
		}
	}
	return slots
}

// CanFit reports whether numGPU slots are currently free.
func (n *Node) CanFit(numGPU int) bool {
	return n.FreeGPUs() >= numGPU
}

// SlotOwner returns the job owning the given slot, or 0 if free.
func (n *Node) SlotOwner(slot int) int64 {
	return n.allocation[slot]
}

// SlotsOwnedBy returns the slot indices held by jobID, ascending.
func (n *Node) SlotsOwnedBy(jobID int64) []int {
	var slots []int
	for idx, owner := range n.allocation {
		if owner == jobID {
			slots = append(slots, idx)
		}
	}
	return slots
}

// Allocate grants the given slots to jobID. The check-then-set is atomic
// with respect to the single-threaded loop: if any slot is out of range
// or already owned, or the same slot is requested twice, nothing is
// mutated and ErrAllocationConflict is returned so the manager can
// re-decide placement.
func (n *Node) Allocate(jobID int64, slots []int) error {
	seen := make(map[int]bool, len(slots))
	for _, slot := range slots {
		if slot < 0 || slot >= n.TotalGPUs {
			return fmt.Errorf("node %d: slot %d out of range [0,%d): %w",
				n.ID, slot, n.TotalGPUs, ErrAllocationConflict)
		}
		if seen[slot] {
			return fmt.Errorf("node %d: slot %d requested twice: %w",
				n.ID, slot, ErrAllocationConflict)
		}
		seen[slot] = true
		if n.allocation[slot] != freeSlot {
			return fmt.Errorf("node %d: slot %d already owned by job %d: %w",
				n.ID, slot, n.allocation[slot], ErrAllocationConflict)
		}
	}
	for _, slot := range slots {
		n.allocation[slot] = jobID
	}
	return nil
}

// Release frees every slot owned by jobID and returns the freed indices.
func (n *Node) Release(jobID int64) []int {
	freed := n.SlotsOwnedBy(jobID)
	for _, slot := range freed {
		n.allocation[slot] = freeSlot
	}
	sort.Ints(freed)
	return freed
}

// Utilization returns the occupied fraction of slots in [0, 1].
func (n *Node) Utilization() float64 {
	return float64(n.TotalGPUs-n.FreeGPUs()) / float64(n.TotalGPUs)
}

// IsIdle reports whether no slot is owned.
func (n *Node) IsIdle() bool {
	return n.FreeGPUs() == n.TotalGPUs
}

// IsFull reports whether every slot is owned.
func (n *Node) IsFull() bool {
	return n.FreeGPUs() == 0
}

func (n *Node) String() string {
	return fmt.Sprintf("Node: (ID: %d, Used: %d/%d GPUs)", n.ID, n.TotalGPUs-n.FreeGPUs(), n.TotalGPUs)
}
