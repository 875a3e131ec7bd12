package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subcommandNames(c *cobra.Command) []string {
	var names []string
	for _, sub := range c.Commands() {
		names = append(names, sub.Name())
	}
	return names
}

func TestCommandTree(t *testing.T) {
	names := subcommandNames(rootCmd)
	for _, want := range []string{"repl", "log", "store", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
	assert.ElementsMatch(t, []string{"status", "clear", "migrate", "export"}, subcommandNames(storeCmd))
}

func TestPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	for _, name := range []string{
		"config", "peer-id", "peers", "event-buffer",
		"store-backend", "store-db-connect", "eventlog-backend", "eventlog-db-connect",
		"prompt", "output", "output-file", "width", "log-level", "verbose", "color",
	} {
		assert.NotNil(t, flags.Lookup(name), "missing flag %s", name)
	}

	verbose := flags.ShorthandLookup("v")
	require.NotNil(t, verbose)
	assert.Equal(t, "verbose", verbose.Name)

	migrate := storeMigrateCmd.Flags()
	require.NotNil(t, migrate.Lookup("target-version"))
	assert.Equal(t, "-1", migrate.Lookup("target-version").DefValue)
	assert.Equal(t, "entries", migrate.Lookup("migration-set").DefValue)
}

func TestSqlitePath(t *testing.T) {
	assert.Equal(t, "/tmp/default.db", sqlitePath("", "/tmp/default.db"))
	assert.Equal(t, "/tmp/custom.db", sqlitePath("/tmp/custom.db", "/tmp/default.db"))
}
