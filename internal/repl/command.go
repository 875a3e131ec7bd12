package repl

import (
	"fmt"
	"strings"
)

// CommandKind enumerates every console command.
type CommandKind int

const (
	HashCmd CommandKind = iota
	PeersCmd
	DumpCmd
	PubCmd
	PutCmd
	DelCmd
	QuitCmd
	HelpCmd
)

// ArgType is the type a positional argument is parsed into.
type ArgType int

const (
	StringArg ArgType = iota
	// JSONArg consumes the rest of the line when it is the last argument.
	JSONArg
)

// ArgSpec declares one required positional argument.
type ArgSpec struct {
	Name string
	Type ArgType
}

// Command is one entry of the command table.
type Command struct {
	Kind  CommandKind
	Name  string
	About string
	Args  []ArgSpec
}

// Usage returns the command name followed by its argument placeholders.
func (c *Command) Usage() string {
	var b strings.Builder
	b.WriteString(c.Name)
	for _, a := range c.Args {
		fmt.Fprintf(&b, " <%s>", a.Name)
	}
	return b.String()
}

// Commands is the command table, in help order.
var Commands = []Command{
	{Kind: HashCmd, Name: "hash", About: "Print the current cache hash"},
	{Kind: PeersCmd, Name: "peers", About: "Print the peers statistics"},
	{Kind: DumpCmd, Name: "dump", About: "Dump the current dht state"},
	{
		Kind:  PubCmd,
		Name:  "pub",
		About: "Publish a volatile message, it should be a JSON object",
		Args:  []ArgSpec{{Name: "value", Type: JSONArg}},
	},
	{
		Kind:  PutCmd,
		Name:  "put",
		About: "Publish a persistent entry, the value should be a JSON object",
		Args: []ArgSpec{
			{Name: "topic", Type: StringArg},
			{Name: "uuid", Type: StringArg},
			{Name: "value", Type: JSONArg},
		},
	},
	{
		Kind:  DelCmd,
		Name:  "del",
		About: "Unpublish a persistent entry",
		Args: []ArgSpec{
			{Name: "topic", Type: StringArg},
			{Name: "uuid", Type: StringArg},
		},
	},
	{Kind: QuitCmd, Name: "quit", About: "Quit the repl"},
	{Kind: HelpCmd, Name: "help", About: "List the available commands"},
}

// commandsByName indexes Commands by lowercase name.
var commandsByName map[string]*Command

func init() {
	table, err := buildTable(Commands)
	if err != nil {
		panic(err)
	}
	commandsByName = table
}

// buildTable indexes cmds by lowercase name, rejecting duplicates.
func buildTable(cmds []Command) (map[string]*Command, error) {
	table := make(map[string]*Command, len(cmds))
	for i := range cmds {
		c := &cmds[i]
		name := strings.ToLower(c.Name)
		if _, dup := table[name]; dup {
			return nil, fmt.Errorf("duplicate command name %q", c.Name)
		}
		table[name] = c
	}
	return table, nil
}

// Lookup finds a command by name, ignoring case.
func Lookup(name string) (*Command, bool) {
	c, ok := commandsByName[strings.ToLower(name)]
	return c, ok
}

// HelpText lists every command with its usage and description.
func HelpText() string {
	width := 0
	for i := range Commands {
		width = max(width, len(Commands[i].Usage()))
	}
	var b strings.Builder
	for i := range Commands {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, Commands[i].Usage(), Commands[i].About)
	}
	return b.String()
}
