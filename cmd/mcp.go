package cmd

import (
	"fmt"

	"github.com/huangsam/dhtcli/core"
	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/internal/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the cache MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents read and change the cache via standard tools.`,
	Args:  cobra.NoArgs,
	// Logs go to stderr; stdio carries the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		cache, events, err := core.NewBuilder(cfg, storeManager.GetEntryStore()).MakeChannel(rootCtx)
		if err != nil {
			return fmt.Errorf("failed to start cache: %w", err)
		}

		var sink contract.EventSink
		if store := storeManager.GetEventLogStore(); store != nil {
			sink = store
		}
		wait := startConsumer(rootCtx, log.Logger, sink, events)

		err = mcp.StartMCPServer(rootCtx, cache, version)
		_ = cache.Close()
		wait()
		return err
	},
}
