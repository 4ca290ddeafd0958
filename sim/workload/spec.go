// Package workload generates synthetic job streams for the simulator.
// A WorkloadSpec describes the arrival process and job shape
// distributions; the Generator turns it into a deterministic, seeded
// sequence of job arrivals for the CLI to submit.
package workload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ArrivalSpec configures the inter-arrival time process.
type ArrivalSpec struct {
	// Rate is the mean number of job arrivals per simulated second.
	// Inter-arrival gaps are drawn from an exponential distribution with
	// this rate, giving a Poisson arrival process.
	Rate float64 `yaml:"rate"`
}

// GPUSpec configures the GPU demand distribution: a Beta(alpha, beta)
// draw scaled onto [1, max]. Alpha = Beta = 2 approximates a normal bump
// centered on half the node.
type GPUSpec struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
	Max   int     `yaml:"max"`
}

// DurationSpec configures the per-iteration duration distribution, a
// Weibull(k, lambda) in simulated seconds.
type DurationSpec struct {
	Lambda float64 `yaml:"lambda"`
	K      float64 `yaml:"k"`
}

// IterationsSpec bounds the uniformly drawn iteration count.
type IterationsSpec struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// WorkloadSpec is the top-level workload configuration.
// Loaded from YAML via LoadWorkloadSpec(path).
type WorkloadSpec struct {
	Seed       int64          `yaml:"seed"`
	Count      int            `yaml:"count"`
	Arrival    ArrivalSpec    `yaml:"arrival"`
	GPU        GPUSpec        `yaml:"gpu"`
	Duration   DurationSpec   `yaml:"duration"`
	Iterations IterationsSpec `yaml:"iterations"`
	Models     []string       `yaml:"models,omitempty"`
}

// DefaultWorkloadSpec is a small mixed workload sized for the default
// 4-node, 4-GPU topology.
func DefaultWorkloadSpec(seed int64, count int) WorkloadSpec {
	return WorkloadSpec{
		Seed:       seed,
		Count:      count,
		Arrival:    ArrivalSpec{Rate: 0.5},
		GPU:        GPUSpec{Alpha: 2, Beta: 2, Max: 4},
		Duration:   DurationSpec{Lambda: 10, K: 3},
		Iterations: IterationsSpec{Min: 1, Max: 5},
		Models:     []string{"resnet50", "bert-base", "transformer-xl", "lstm-lm"},
	}
}

// LoadWorkloadSpec reads and validates a YAML workload file.
func LoadWorkloadSpec(path string) (WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WorkloadSpec{}, fmt.Errorf("read workload spec: %w", err)
	}
	var spec WorkloadSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return WorkloadSpec{}, fmt.Errorf("parse workload spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return WorkloadSpec{}, err
	}
	return spec, nil
}

// Validate rejects specs the generator cannot draw from.
func (s WorkloadSpec) Validate() error {
	if s.Count < 1 {
		return fmt.Errorf("workload spec: count must be positive, got %d", s.Count)
	}
	if s.Arrival.Rate <= 0 {
		return fmt.Errorf("workload spec: arrival rate must be positive, got %v", s.Arrival.Rate)
	}
	if s.GPU.Max < 1 {
		return fmt.Errorf("workload spec: gpu max must be positive, got %d", s.GPU.Max)
	}
	if s.GPU.Alpha <= 0 || s.GPU.Beta <= 0 {
		return fmt.Errorf("workload spec: gpu alpha/beta must be positive, got %v/%v", s.GPU.Alpha, s.GPU.Beta)
	}
	if s.Duration.Lambda <= 0 || s.Duration.K <= 0 {
		return fmt.Errorf("workload spec: duration lambda/k must be positive, got %v/%v", s.Duration.Lambda, s.Duration.K)
	}
	if s.Iterations.Min < 1 || s.Iterations.Max < s.Iterations.Min {
		return fmt.Errorf("workload spec: iterations range [%d,%d] invalid", s.Iterations.Min, s.Iterations.Max)
	}
	return nil
}
