package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/internal/outwriter"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	cache contract.Cache
}

func (h *toolHandler) handleGetHash(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hash, err := h.cache.GetHash(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hash failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(map[string]string{"hash": hash.String()}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListPeers(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	peers, err := h.cache.Peers(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("peers failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(outwriter.PeerViews(peers), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handlePublish(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value, err := jsonArgument(request, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.cache.Send(ctx, value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("publish failed: %v", err)), nil
	}
	return mcp.NewToolResultText("published"), nil
}

func (h *toolHandler) handlePutEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, uuid, err := keyArguments(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := jsonArgument(request, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.cache.Put(ctx, topic, uuid, value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("put failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("stored %s/%s", topic, uuid)), nil
}

func (h *toolHandler) handleDeleteEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, uuid, err := keyArguments(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.cache.Del(ctx, topic, uuid); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s/%s", topic, uuid)), nil
}

// keyArguments reads the required topic and uuid arguments.
func keyArguments(request mcp.CallToolRequest) (string, string, error) {
	topic := strings.TrimSpace(request.GetString("topic", ""))
	if topic == "" {
		return "", "", fmt.Errorf("topic is required")
	}
	uuid := strings.TrimSpace(request.GetString("uuid", ""))
	if uuid == "" {
		return "", "", fmt.Errorf("uuid is required")
	}
	return topic, uuid, nil
}

// jsonArgument reads a required argument holding JSON text.
func jsonArgument(request mcp.CallToolRequest, name string) (json.RawMessage, error) {
	raw := strings.TrimSpace(request.GetString(name, ""))
	if raw == "" {
		return nil, fmt.Errorf("%s is required", name)
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("%s must be valid JSON", name)
	}
	return json.RawMessage(raw), nil
}
