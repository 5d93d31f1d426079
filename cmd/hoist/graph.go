package main

import (
	"fmt"

	"github.com/aretw0/hoist/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the fleet topology",
	Long:  `Outputs a Mermaid diagram (graph LR) of the fleet's processes, channels and signals.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := mustLoadConfig(cmd)
		fmt.Print(graph.GenerateMermaid(graph.FleetTopology(cfg), nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
