package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format used to render events.
	OutputMode string

	// PromptMode represents how the console prompt is computed after each command.
	PromptMode string

	// DatabaseBackend represents the database backend for persistent entries.
	DatabaseBackend string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	YAMLOut OutputMode = "yaml"
)

// All prompt modes supported.
const (
	OkPrompt   PromptMode = "ok" // default
	HashPrompt PromptMode = "hash"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	YAMLOut: {},
}

// ValidPromptModes lists all valid prompt modes.
var ValidPromptModes = map[PromptMode]struct{}{
	OkPrompt:   {},
	HashPrompt: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
