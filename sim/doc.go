// Package sim provides the core discrete-time simulation engine for a
// GPU cluster scheduler.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - job.go: Job lifecycle (ADDED → PENDING → RUNNING → END/ERROR) and work accounting
//   - node.go: per-node GPU slot ownership and allocation bookkeeping
//   - cluster.go: the ClusterManager tick loop (accounting, completions, scheduling, placement)
//
// # Architecture
//
// The engine is single-threaded and tick-driven: all state changes happen
// synchronously inside SubmitJob and UpdateSimulation. Callers control the
// pace of simulated time by choosing dt and call frequency.
//
// # Key Interfaces
//
// The extension points are small interfaces selected by registry name:
//   - Scheduler: pick at most one pending job to attempt placement for this tick
//   - PlacementScheme: map a job to a node and a concrete set of GPU slots
//   - MetricsCollector: receive lifecycle transitions and per-tick snapshots
//
// Workload generation lives in the sim/workload sub-package.
package sim
