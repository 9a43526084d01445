package cmd

import (
	"github.com/huangsam/roomspot/core"
	"github.com/spf13/cobra"
)

// roomsCmd groups room directory operations.
var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Browse and refresh the room directory",
	Long: `Browse the room directory and refresh cached allocations.

Subcommands:
  list    - Show the rooms of a location or building
  refresh - Download the directory and, with --location, the allocations of its rooms

Examples:
  # List every room in HG
  roomspot rooms list --location "Zürich Zentrum" --building HG

  # Warm the cache for tomorrow morning
  roomspot rooms refresh --location "Zürich Zentrum" --when 2025-03-11T08:00 --hours 4`,
}

// roomsListCmd prints the room directory.
var roomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rooms from the cached directory",
	Long: `List rooms from the room directory, downloading it first when none is cached.

Filters:
- --location limits the list to one campus area
- --building limits the list to one building code

Use --force-refresh to download the directory again.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("Cannot list rooms", core.ExecuteRoomsList)
	},
}

// roomsRefreshCmd downloads the directory and allocations.
var roomsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the room directory and allocations into the cache",
	Long: `Download the room directory from the room-info service and store it in the cache.

With --location, the allocations of every matching room are downloaded as well,
covering the window given by --when and --hours. Rooms that fail to download are
reported and skipped.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExecutor("Cannot refresh rooms", core.ExecuteRoomsRefresh)
	},
}
