package repl

import (
	"errors"
	"fmt"
)

// ReplErrorKind classifies input the dispatcher could not turn into a command.
type ReplErrorKind int

const (
	UnknownCommand ReplErrorKind = iota // No command has this name
	BadArgument                         // Missing, unexpected or unparsable argument
	NotImplemented                      // Command is reserved but has no behavior yet
	InputFailure                        // Reading or tokenizing the line failed
)

var (
	errMissingArgument = errors.New("missing required argument")
	errInvalidJSON     = errors.New("value is not valid JSON")
)

// ReplError reports malformed operator input. The loop always continues after one.
type ReplError struct {
	Kind    ReplErrorKind
	Command string // Command name as typed
	Arg     string // Offending argument name, if any
	Err     error
}

func (e *ReplError) Error() string {
	switch e.Kind {
	case UnknownCommand:
		return fmt.Sprintf("unknown command: %s", e.Command)
	case BadArgument:
		if e.Arg != "" {
			return fmt.Sprintf("%s: bad argument <%s>: %v", e.Command, e.Arg, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	case NotImplemented:
		return fmt.Sprintf("%s: not implemented", e.Command)
	default:
		return fmt.Sprintf("input error: %v", e.Err)
	}
}

func (e *ReplError) Unwrap() error {
	return e.Err
}

// CacheError wraps a failure reported by the cache handle.
type CacheError struct {
	Op  string // Cache operation, e.g. "put"
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
