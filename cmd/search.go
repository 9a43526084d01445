package cmd

import (
	"github.com/huangsam/roomspot/core"
	"github.com/spf13/cobra"
)

// searchCmd ranks the rooms that are free during the requested window.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Show the best free rooms for a time window.",
	Long: `Find rooms at a campus location that are free during a time window and rank them.

Allocations are read from the local cache and refreshed from the room-info
service when the cache does not cover the window. Each room is scored on:
- Availability for the whole window
- Travel time from the requested location
- Whether it was already used earlier today
- How well its type suits quiet work
- How long it stays free
- How small it is

Examples:
  # Best rooms in the main building area for the next hour
  roomspot search --location "Zürich Zentrum"

  # Rooms in HG for two hours starting at 14:00 today
  roomspot search --location "Zürich Zentrum" --building HG --when 14:00 --hours 2

  # Explain the ranking and include room details
  roomspot search --location "Zürich Hönggerberg" --detail --explain

  # Export the ranking to CSV
  roomspot search --location "Zürich Zentrum" --output csv --output-file rooms.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("Cannot run room search", core.ExecuteSearch)
	},
}
