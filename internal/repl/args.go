package repl

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Args holds the parsed arguments of one invocation.
type Args struct {
	strs   map[string]string
	values map[string]json.RawMessage
}

// String returns a string argument by name.
func (a Args) String(name string) string {
	return a.strs[name]
}

// JSON returns a JSON argument by name.
func (a Args) JSON(name string) json.RawMessage {
	return a.values[name]
}

// Invocation is a resolved command together with its parsed arguments.
type Invocation struct {
	Command *Command
	Args    Args
}

// Parse resolves one input line against the command table.
// It reports ok=false for a blank line.
func Parse(line string) (Invocation, bool, error) {
	sc := &scanner{s: line}
	name, ok, err := sc.next()
	if err != nil {
		return Invocation{}, false, &ReplError{Kind: InputFailure, Err: err}
	}
	if !ok {
		return Invocation{}, false, nil
	}

	cmd, found := Lookup(name)
	if !found {
		return Invocation{}, false, &ReplError{Kind: UnknownCommand, Command: name}
	}

	args := Args{strs: map[string]string{}, values: map[string]json.RawMessage{}}
	for i, spec := range cmd.Args {
		var tok string
		if spec.Type == JSONArg && i == len(cmd.Args)-1 {
			tok = sc.rest()
			ok = tok != ""
		} else {
			tok, ok, err = sc.next()
			if err != nil {
				return Invocation{}, false, &ReplError{Kind: BadArgument, Command: cmd.Name, Arg: spec.Name, Err: err}
			}
		}
		if !ok {
			return Invocation{}, false, &ReplError{Kind: BadArgument, Command: cmd.Name, Arg: spec.Name, Err: errMissingArgument}
		}

		switch spec.Type {
		case JSONArg:
			if !json.Valid([]byte(tok)) {
				return Invocation{}, false, &ReplError{Kind: BadArgument, Command: cmd.Name, Arg: spec.Name, Err: errInvalidJSON}
			}
			args.values[spec.Name] = json.RawMessage(tok)
		default:
			args.strs[spec.Name] = tok
		}
	}

	if extra := sc.rest(); extra != "" {
		return Invocation{}, false, &ReplError{
			Kind:    BadArgument,
			Command: cmd.Name,
			Err:     fmt.Errorf("unexpected argument %q", extra),
		}
	}
	return Invocation{Command: cmd, Args: args}, true, nil
}

var errUnterminatedQuote = errors.New("unterminated quote")

// scanner splits a line into whitespace-separated tokens.
// Single and double quotes group words; a backslash escapes the next byte
// inside double quotes.
type scanner struct {
	s   string
	pos int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func (sc *scanner) skipSpace() {
	for sc.pos < len(sc.s) && isSpace(sc.s[sc.pos]) {
		sc.pos++
	}
}

// rest consumes and returns the remainder of the line, trimmed.
func (sc *scanner) rest() string {
	sc.skipSpace()
	r := strings.TrimSpace(sc.s[sc.pos:])
	sc.pos = len(sc.s)
	return r
}

// next consumes one token. ok is false at the end of the line.
func (sc *scanner) next() (tok string, ok bool, err error) {
	sc.skipSpace()
	if sc.pos >= len(sc.s) {
		return "", false, nil
	}

	var b strings.Builder
	var quote byte
	for sc.pos < len(sc.s) {
		c := sc.s[sc.pos]
		switch {
		case quote == 0 && isSpace(c):
			return b.String(), true, nil
		case quote == 0 && (c == '"' || c == '\''):
			quote = c
		case quote != 0 && c == quote:
			quote = 0
		case quote == '"' && c == '\\' && sc.pos+1 < len(sc.s):
			sc.pos++
			b.WriteByte(sc.s[sc.pos])
		default:
			b.WriteByte(c)
		}
		sc.pos++
	}
	if quote != 0 {
		return "", false, errUnterminatedQuote
	}
	return b.String(), true, nil
}
