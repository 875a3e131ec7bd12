// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the cache MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(cache contract.Cache, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"DHT Cache Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{cache: cache}

	// --- 1. Tool: get_hash ---
	s.AddTool(mcp.NewTool("get_hash",
		mcp.WithDescription("Return the current content hash of the cache."),
	), h.handleGetHash)

	// --- 2. Tool: list_peers ---
	s.AddTool(mcp.NewTool("list_peers",
		mcp.WithDescription("List the known peers with their last announced hash."),
	), h.handleListPeers)

	// --- 3. Tool: publish ---
	s.AddTool(mcp.NewTool("publish",
		mcp.WithDescription("Publish a volatile message. It is delivered to peers but never stored."),
		mcp.WithString("value", mcp.Description("The message as JSON text."), mcp.Required()),
	), h.handlePublish)

	// --- 4. Tool: put_entry ---
	s.AddTool(mcp.NewTool("put_entry",
		mcp.WithDescription("Insert or replace a persistent entry keyed by topic and uuid."),
		mcp.WithString("topic", mcp.Description("Entry topic."), mcp.Required()),
		mcp.WithString("uuid", mcp.Description("Entry identifier within the topic."), mcp.Required()),
		mcp.WithString("value", mcp.Description("The entry value as JSON text."), mcp.Required()),
	), h.handlePutEntry)

	// --- 5. Tool: delete_entry ---
	s.AddTool(mcp.NewTool("delete_entry",
		mcp.WithDescription("Remove a persistent entry keyed by topic and uuid."),
		mcp.WithString("topic", mcp.Description("Entry topic."), mcp.Required()),
		mcp.WithString("uuid", mcp.Description("Entry identifier within the topic."), mcp.Required()),
	), h.handleDeleteEntry)

	return s
}

// StartMCPServer serves the cache tools over stdio until the input closes.
func StartMCPServer(_ context.Context, cache contract.Cache, version string) error {
	s := NewMCPServer(cache, version)
	return server.ServeStdio(s)
}
