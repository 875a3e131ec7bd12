// Package cmd defines the command-line interface for dhtcli.
package cmd

import (
	"io"
	"os"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/internal/iocache"
	"github.com/huangsam/dhtcli/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// stderr receives logs for commands that do not own a terminal console.
var stderr io.Writer = os.Stderr

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("peer-id", "", "Identity of the local node (default: generated)")
	rootCmd.PersistentFlags().StringSlice("peers", nil, "Comma-separated list of peers known at startup")
	rootCmd.PersistentFlags().Int("event-buffer", contract.DefaultEventBuffer, "Capacity of the event stream")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Entry store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for the entry store (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("eventlog-backend", "", "Event log backend: sqlite or mysql or postgresql or none (empty disables recording)")
	rootCmd.PersistentFlags().String("eventlog-db-connect", "", "Database connection string for the event log (must differ from store-db-connect)")
	rootCmd.PersistentFlags().String("prompt", string(schema.OkPrompt), "Prompt style: ok or hash")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Event output format for log: text or json or yaml")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (overrides -v)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v warn, -vv info, -vvv debug, -vvvv trace)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	storeMigrateCmd.Flags().String("migration-set", string(iocache.EntriesMigrations), "Migration set: entries or eventlog")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
