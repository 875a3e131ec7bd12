package repl

import (
	"context"
	"fmt"
	"strings"
)

// execute runs one command against the cache.
func (r *REPL) execute(ctx context.Context, inv Invocation) (Outcome, error) {
	args := inv.Args
	switch inv.Command.Kind {
	case HashCmd:
		h, err := r.cache.GetHash(ctx)
		if err != nil {
			return Outcome{}, &CacheError{Op: "hash", Err: err}
		}
		return outputOf(fmt.Sprintf("Current hash: %s", h)), nil

	case PeersCmd:
		peers, err := r.cache.Peers(ctx)
		if err != nil {
			return Outcome{}, &CacheError{Op: "peers", Err: err}
		}
		var b strings.Builder
		if err := r.writer.WritePeers(&b, peers); err != nil {
			return Outcome{}, fmt.Errorf("failed to render peers: %w", err)
		}
		return outputOf(b.String()), nil

	case DumpCmd:
		return Outcome{}, &ReplError{Kind: NotImplemented, Command: inv.Command.Name}

	case PubCmd:
		if err := r.cache.Send(ctx, args.JSON("value")); err != nil {
			return Outcome{}, &CacheError{Op: "pub", Err: err}
		}
		return Outcome{Kind: NoOutput}, nil

	case PutCmd:
		if err := r.cache.Put(ctx, args.String("topic"), args.String("uuid"), args.JSON("value")); err != nil {
			return Outcome{}, &CacheError{Op: "put", Err: err}
		}
		return Outcome{Kind: NoOutput}, nil

	case DelCmd:
		if err := r.cache.Del(ctx, args.String("topic"), args.String("uuid")); err != nil {
			return Outcome{}, &CacheError{Op: "del", Err: err}
		}
		return Outcome{Kind: NoOutput}, nil

	case QuitCmd:
		return Outcome{Kind: Terminate}, nil

	case HelpCmd:
		return outputOf(HelpText()), nil

	default:
		panic(fmt.Sprintf("unhandled command kind %d", inv.Command.Kind))
	}
}
