package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeSpec describes one node in a cluster topology file.
type NodeSpec struct {
	ID          int     `yaml:"id"`
	GPUs        int     `yaml:"gpus"`
	CPUCores    int     `yaml:"cpu_cores,omitempty"`    // default 16
	MemoryGB    int     `yaml:"memory_gb,omitempty"`    // default 64
	NetworkGbps float64 `yaml:"network_gbps,omitempty"` // default 100
}

// ClusterConfig is the top-level cluster topology.
// Loaded from YAML via LoadClusterConfig(path).
type ClusterConfig struct {
	Nodes []NodeSpec `yaml:"nodes"`
}

// Per-node defaults applied when the topology file omits a field.
const (
	defaultCPUCores    = 16
	defaultMemoryGB    = 64
	defaultNetworkGbps = 100.0
)

// DefaultClusterConfig is a uniform topology of numNodes nodes with
// gpusPerNode slots each, node IDs counting from 0.
func DefaultClusterConfig(numNodes, gpusPerNode int) ClusterConfig {
	cfg := ClusterConfig{Nodes: make([]NodeSpec, numNodes)}
	for i := range cfg.Nodes {
		cfg.Nodes[i] = NodeSpec{ID: i, GPUs: gpusPerNode}
	}
	return cfg
}

// LoadClusterConfig reads and validates a YAML topology file.
func LoadClusterConfig(path string) (ClusterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClusterConfig{}, fmt.Errorf("read cluster config: %w", err)
	}
	var cfg ClusterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ClusterConfig{}, fmt.Errorf("parse cluster config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ClusterConfig{}, err
	}
	return cfg, nil
}

// Validate checks the topology for emptiness, duplicate IDs, and
// non-positive capacities.
func (cfg ClusterConfig) Validate() error {
	if len(cfg.Nodes) == 0 {
		return fmt.Errorf("cluster config: no nodes defined")
	}
	seen := make(map[int]bool, len(cfg.Nodes))
	for _, spec := range cfg.Nodes {
		if spec.GPUs < 1 {
			return fmt.Errorf("cluster config: node %d has %d GPUs, need at least 1", spec.ID, spec.GPUs)
		}
		if seen[spec.ID] {
			return fmt.Errorf("cluster config: duplicate node id %d", spec.ID)
		}
		seen[spec.ID] = true
	}
	return nil
}

// BuildNodes constructs the Node set described by the topology, applying
// per-node defaults for omitted static ceilings.
func (cfg ClusterConfig) BuildNodes() []*Node {
	nodes := make([]*Node, 0, len(cfg.Nodes))
	for _, spec := range cfg.Nodes {
		cpu := spec.CPUCores
		if cpu == 0 {
			cpu = defaultCPUCores
		}
		mem := spec.MemoryGB
		if mem == 0 {
			mem = defaultMemoryGB
		}
		net := spec.NetworkGbps
		if net == 0 {
			net = defaultNetworkGbps
		}
		nodes = append(nodes, NewNode(spec.ID, spec.GPUs, cpu, mem, net))
	}
	return nodes
}
