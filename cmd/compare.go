package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gpusim/gpusim/sim"
)

var compareSchedulers []string

// compareCmd replays the same workload under several schedulers and
// prints one report line per policy, so their queueing behavior can be
// compared head to head on identical arrivals.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Replay one workload under multiple schedulers and compare metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTopology()
		if err != nil {
			return err
		}
		arrivals, err := loadArrivals(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("%-20s %-10s %12s %12s %10s %10s\n",
			"scheduler", "placement", "avg-jct(s)", "util(%)", "completed", "failed")
		for _, name := range compareSchedulers {
			collector := sim.NewCollector(perNodeTotals(cfg))
			manager := sim.NewClusterManager(cfg, collector)
			if err := manager.SetScheduler(name); err != nil {
				return err
			}
			if err := manager.SetPlacement(placeName); err != nil {
				return err
			}

			drive(manager, arrivals)

			fmt.Printf("%-20s %-10s %12.2f %12.1f %10d %10d\n",
				name, placeName, collector.AverageJCT(), collector.GPUUtilization(),
				collector.CompletedJobs(), collector.ErrorJobs())
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&topologyPath, "topology", "", "Cluster topology YAML file")
	compareCmd.Flags().IntVar(&numNodes, "nodes", 4, "Node count for the default topology")
	compareCmd.Flags().IntVar(&gpusPerNode, "gpus-per-node", 4, "GPUs per node for the default topology")
	compareCmd.Flags().StringVar(&workloadPath, "workload", "", "Workload spec YAML file")
	compareCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for workload generation")
	compareCmd.Flags().IntVar(&jobCount, "jobs", 50, "Number of jobs in the default workload")
	compareCmd.Flags().StringSliceVar(&compareSchedulers, "schedulers", sim.SchedulerNames(),
		"Schedulers to compare")
	compareCmd.Flags().StringVar(&placeName, "placement", "first-fit", fmt.Sprintf("Placement %v", sim.PlacementNames()))
	compareCmd.Flags().Float64Var(&dt, "dt", 1.0, "Simulated seconds per tick")
	compareCmd.Flags().Float64Var(&horizon, "horizon", 86400.0, "Simulation cutoff in simulated seconds")

	rootCmd.AddCommand(compareCmd)
}
