package repl

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTableRejectsDuplicates(t *testing.T) {
	_, err := buildTable([]Command{
		{Kind: HashCmd, Name: "hash"},
		{Kind: PeersCmd, Name: "HASH"},
	})
	assert.ErrorContains(t, err, `duplicate command name "HASH"`)
}

func TestCommandTable(t *testing.T) {
	seen := map[CommandKind]bool{}
	for i := range Commands {
		c := &Commands[i]
		assert.False(t, seen[c.Kind], "kind %d registered twice", c.Kind)
		seen[c.Kind] = true

		found, ok := Lookup(c.Name)
		require.True(t, ok)
		assert.Same(t, c, found)
	}
	for _, kind := range []CommandKind{HashCmd, PeersCmd, DumpCmd, PubCmd, PutCmd, DelCmd, QuitCmd, HelpCmd} {
		assert.True(t, seen[kind], "kind %d has no command", kind)
	}
}

func TestUsage(t *testing.T) {
	c, ok := Lookup("put")
	require.True(t, ok)
	assert.Equal(t, "put <topic> <uuid> <value>", c.Usage())
}

func TestHelpText(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "help", []byte(HelpText()))
}
