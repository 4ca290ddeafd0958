package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gpusim/gpusim/sim"
	"github.com/gpusim/gpusim/sim/workload"
)

var (
	topologyPath string  // Cluster topology YAML (empty = uniform default)
	numNodes     int     // Default topology: node count
	gpusPerNode  int     // Default topology: GPUs per node
	workloadPath string  // Workload spec YAML (empty = generated default)
	seed         int64   // Seed for workload generation
	jobCount     int     // Number of jobs in the default workload
	schedName    string  // Scheduler registry name
	placeName    string  // Placement registry name
	dt           float64 // Simulated seconds per tick
	horizon      float64 // Simulation cutoff in simulated seconds
)

// runCmd executes one simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one cluster simulation and print the metrics report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTopology()
		if err != nil {
			return err
		}
		arrivals, err := loadArrivals(cfg)
		if err != nil {
			return err
		}

		collector := sim.NewCollector(perNodeTotals(cfg))
		manager := sim.NewClusterManager(cfg, collector)
		if err := manager.SetScheduler(schedName); err != nil {
			return err
		}
		if err := manager.SetPlacement(placeName); err != nil {
			return err
		}

		drive(manager, arrivals)

		printStatus(manager.Status())
		collector.Print()
		logrus.Info("Simulation complete.")
		return nil
	},
}

func loadTopology() (sim.ClusterConfig, error) {
	if topologyPath != "" {
		return sim.LoadClusterConfig(topologyPath)
	}
	return sim.DefaultClusterConfig(numNodes, gpusPerNode), nil
}

func loadArrivals(cfg sim.ClusterConfig) ([]workload.JobArrival, error) {
	var spec workload.WorkloadSpec
	if workloadPath != "" {
		loaded, err := workload.LoadWorkloadSpec(workloadPath)
		if err != nil {
			return nil, err
		}
		spec = loaded
	} else {
		spec = workload.DefaultWorkloadSpec(seed, jobCount)
		spec.GPU.Max = maxNodeGPUs(cfg)
	}
	gen, err := workload.NewGenerator(spec)
	if err != nil {
		return nil, err
	}
	return gen.Generate(), nil
}

func perNodeTotals(cfg sim.ClusterConfig) map[int]int {
	totals := make(map[int]int, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		totals[n.ID] = n.GPUs
	}
	return totals
}

func maxNodeGPUs(cfg sim.ClusterConfig) int {
	max := 0
	for _, n := range cfg.Nodes {
		if n.GPUs > max {
			max = n.GPUs
		}
	}
	return max
}

// drive replays the arrival stream against the manager, submitting each
// job on the first tick at or after its submit time, and keeps ticking
// until all work drains or the horizon cuts the run off.
func drive(manager *sim.ClusterManager, arrivals []workload.JobArrival) {
	next := 0
	for manager.Clock() < horizon {
		for next < len(arrivals) && arrivals[next].SubmitTime <= manager.Clock() {
			a := arrivals[next]
			if _, err := manager.SubmitJob(a.NumGPU, a.Iterations, a.ModelName, a.Duration); err != nil {
				logrus.Warnf("submission rejected: %v", err)
			}
			next++
		}
		manager.UpdateSimulation(dt)

		status := manager.Status()
		if next == len(arrivals) && status.PendingJobs == 0 && status.RunningJobs == 0 {
			return
		}
	}
	logrus.Warnf("horizon %.1fs reached before the workload drained", horizon)
}

func printStatus(status sim.SystemStatus) {
	fmt.Println("==================================================")
	fmt.Println("GPU CLUSTER STATUS")
	fmt.Println("==================================================")
	fmt.Printf("Run: %s\n", status.RunID)
	fmt.Printf("Time: %.1fs\n", status.Clock)
	fmt.Printf("Jobs: %d pending, %d running, %d completed, %d failed\n",
		status.PendingJobs, status.RunningJobs, status.CompletedJobs, status.FailedJobs)
	fmt.Printf("Scheduler: %s, Placement: %s\n", status.Scheduler, status.Placement)
	fmt.Println("Node Status:")
	for _, node := range status.Nodes {
		fmt.Printf("  node_%d: %d/%d GPUs used (%.1f%%)\n",
			node.ID, node.TotalGPUs-node.FreeGPUs, node.TotalGPUs, node.Utilization*100)
	}
	fmt.Println("==================================================")
}

func init() {
	runCmd.Flags().StringVar(&topologyPath, "topology", "", "Cluster topology YAML file")
	runCmd.Flags().IntVar(&numNodes, "nodes", 4, "Node count for the default topology")
	runCmd.Flags().IntVar(&gpusPerNode, "gpus-per-node", 4, "GPUs per node for the default topology")
	runCmd.Flags().StringVar(&workloadPath, "workload", "", "Workload spec YAML file")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for workload generation")
	runCmd.Flags().IntVar(&jobCount, "jobs", 50, "Number of jobs in the default workload")
	runCmd.Flags().StringVar(&schedName, "scheduler", "fifo", fmt.Sprintf("Scheduler %v", sim.SchedulerNames()))
	runCmd.Flags().StringVar(&placeName, "placement", "first-fit", fmt.Sprintf("Placement %v", sim.PlacementNames()))
	runCmd.Flags().Float64Var(&dt, "dt", 1.0, "Simulated seconds per tick")
	runCmd.Flags().Float64Var(&horizon, "horizon", 86400.0, "Simulation cutoff in simulated seconds")

	rootCmd.AddCommand(runCmd)
}
