// Package cmd defines the command-line interface for roomspot.
package cmd

import (
	"strings"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(roomsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the rooms subcommands to the parent rooms command
	roomsCmd.AddCommand(roomsListCmd)
	roomsCmd.AddCommand(roomsRefreshCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("location", "", "Campus area to search: "+strings.Join(schema.AllLocations, ", "))
	rootCmd.PersistentFlags().StringP("building", "b", "", "Restrict results to one building code (e.g. HG)")
	rootCmd.PersistentFlags().String("when", "", "Window start as RFC3339, YYYY-MM-DDTHH:MM or HH:MM today (default now)")
	rootCmd.PersistentFlags().Float64("hours", contract.DefaultHours, "Window length in hours")
	rootCmd.PersistentFlags().Bool("force-refresh", false, "Download allocations even when the cache covers the window")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-room metadata (location, type, seats, free time)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent fetch workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log fetch progress to stderr")
	rootCmd.PersistentFlags().String("timezone", contract.DefaultTimezone, "Timezone used to interpret --when and campus hours")
	rootCmd.PersistentFlags().String("base-url", contract.DefaultBaseURL, "Base URL of the room-info service")
	rootCmd.PersistentFlags().String("request-timeout", contract.DefaultRequestTimeout.String(), "Timeout for each room-info request")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Search history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for search history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of searchCmd to Viper
	searchCmd.Flags().Bool("explain", false, "Print the signals that contributed most to each score")
	if err := viper.BindPFlags(searchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding search flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
