package repl

import (
	"context"
	"fmt"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"
)

// PromptFunc computes the next prompt text after a successful command.
// It only sees the read-only view of the cache.
type PromptFunc func(ctx context.Context, c contract.CacheReader) (string, error)

// StaticPrompt always returns text.
func StaticPrompt(text string) PromptFunc {
	return func(context.Context, contract.CacheReader) (string, error) {
		return text, nil
	}
}

// HashPrompt shows the short content hash and the number of known peers.
func HashPrompt(ctx context.Context, c contract.CacheReader) (string, error) {
	h, err := c.GetHash(ctx)
	if err != nil {
		return "", err
	}
	peers, err := c.Peers(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s [%d peers]", h.Short(), len(peers)), nil
}

// PromptFor returns the prompt updater for a configured mode.
func PromptFor(mode schema.PromptMode) PromptFunc {
	if mode == schema.HashPrompt {
		return HashPrompt
	}
	return StaticPrompt(contract.DefaultPrompt)
}
