package cmd

import (
	"github.com/huangsam/roomspot/core"
	"github.com/spf13/cobra"
)

// metricsCmd displays the scoring signals and their weights.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the scoring signals and their weights",
	Long: `Show the signals that make up a room's score and the weight of each.

Provides transparency into how rooms are ranked, including:
- Signal names and what they measure
- The value range of each signal
- The weighted formula used for the final score
- Custom weights if configured via .roomspot.yaml

The room-info service is not contacted.

Examples:
  # Show the default weights
  roomspot metrics

  # View with custom weights from a config file
  roomspot metrics --config .roomspot.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("Cannot display metrics", core.ExecuteMetrics)
	},
}
