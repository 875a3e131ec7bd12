package repl

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		kind    CommandKind
		strs    map[string]string
		values  map[string]string
		errKind ReplErrorKind
		errArg  string
		wantErr bool
	}{
		{name: "no args", line: "hash", kind: HashCmd},
		{name: "case insensitive", line: "  PeErS  ", kind: PeersCmd},
		{name: "json remainder keeps spaces", line: `pub {"a": 1, "b": [1, 2]}`, kind: PubCmd, values: map[string]string{"value": `{"a": 1, "b": [1, 2]}`}},
		{name: "json scalar", line: `pub "hello world"`, kind: PubCmd, values: map[string]string{"value": `"hello world"`}},
		{
			name:   "put",
			line:   `put topic1 uuid1 {"x":1}`,
			kind:   PutCmd,
			strs:   map[string]string{"topic": "topic1", "uuid": "uuid1"},
			values: map[string]string{"value": `{"x":1}`},
		},
		{
			name: "quoted strings",
			line: `del "my topic" 'uuid 1'`,
			kind: DelCmd,
			strs: map[string]string{"topic": "my topic", "uuid": "uuid 1"},
		},
		{name: "escaped quote", line: `del "a\"b" u`, kind: DelCmd, strs: map[string]string{"topic": `a"b`, "uuid": "u"}},
		{name: "unknown command", line: "frobnicate now", errKind: UnknownCommand, wantErr: true},
		{name: "missing argument", line: "del topic1", errKind: BadArgument, errArg: "uuid", wantErr: true},
		{name: "missing json", line: "put topic1 uuid1", errKind: BadArgument, errArg: "value", wantErr: true},
		{name: "invalid json", line: "pub {oops", errKind: BadArgument, errArg: "value", wantErr: true},
		{name: "quit with extra argument", line: "quit extra", errKind: BadArgument, wantErr: true},
		{name: "del with extra argument", line: "del a b c", errKind: BadArgument, wantErr: true},
		{name: "unterminated quote in argument", line: `del "topic uuid`, errKind: BadArgument, errArg: "topic", wantErr: true},
		{name: "unterminated quote in name", line: `"hash`, errKind: InputFailure, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok, err := Parse(tt.line)
			if tt.wantErr {
				var replErr *ReplError
				require.ErrorAs(t, err, &replErr)
				assert.Equal(t, tt.errKind, replErr.Kind)
				assert.Equal(t, tt.errArg, replErr.Arg)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, inv.Command.Kind)
			for k, v := range tt.strs {
				assert.Equal(t, v, inv.Args.String(k))
			}
			for k, v := range tt.values {
				assert.Equal(t, json.RawMessage(v), inv.Args.JSON(k))
			}
		})
	}
}

func TestParseBlank(t *testing.T) {
	for _, line := range []string{"", "   ", "\t\r\n"} {
		_, ok, err := Parse(line)
		assert.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestReplErrorMessages(t *testing.T) {
	assert.Equal(t, "unknown command: frobnicate", (&ReplError{Kind: UnknownCommand, Command: "frobnicate"}).Error())
	assert.Equal(t, "dump: not implemented", (&ReplError{Kind: NotImplemented, Command: "dump"}).Error())

	_, _, err := Parse("del topic1")
	assert.EqualError(t, err, "del: bad argument <uuid>: missing required argument")
	assert.ErrorIs(t, err, errMissingArgument)

	_, _, err = Parse("quit extra")
	assert.EqualError(t, err, `quit: unexpected argument "extra"`)
}

func TestCacheErrorUnwrap(t *testing.T) {
	base := errors.New("storage offline")
	err := &CacheError{Op: "put", Err: base}
	assert.EqualError(t, err, "put failed: storage offline")
	assert.ErrorIs(t, err, base)
}
