package contract

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/dhtcli/schema"
	"github.com/rs/zerolog"
)

// Default values for configuration.
const (
	DefaultEventBuffer = 64
	MaxEventBuffer     = 65536
	DefaultPrompt      = "Ok"
	MaxVerbosity       = 4
)

// Config holds the runtime configuration for the console.
// This struct remains the "final, validated" config.
type Config struct {
	PeerID      string   // Identity of the local node ("" = generated)
	StaticPeers []string // Peers known at startup, excluding the local node
	EventBuffer int      // Capacity of the event stream channel

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	EventLogBackend   schema.DatabaseBackend // "" disables event recording
	EventLogDBConnect string                 // Please use env var as this is plaintext

	Prompt        schema.PromptMode
	Output        schema.OutputMode
	OutputFile    string
	Width         int // Terminal width override (0 = auto-detect)
	LogLevel      zerolog.Level
	UseColors     bool
	TargetVersion int // Migration target (-1 = latest, 0 = rollback all)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Node identity ---
	PeerID      string   `mapstructure:"peer-id"`
	Peers       []string `mapstructure:"peers"`
	EventBuffer int      `mapstructure:"event-buffer"`

	// --- Persistence ---
	StoreBackend      string `mapstructure:"store-backend"`
	StoreDBConnect    string `mapstructure:"store-db-connect"`
	EventLogBackend   string `mapstructure:"eventlog-backend"`
	EventLogDBConnect string `mapstructure:"eventlog-db-connect"`

	// --- Presentation ---
	Prompt     string `mapstructure:"prompt"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	LogLevel   string `mapstructure:"log-level"`
	Verbose    int    `mapstructure:"verbose"`
	Color      string `mapstructure:"color"`

	// --- Fields from storeMigrateCmd.Flags() ---
	TargetVersion int `mapstructure:"target-version"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.StaticPeers != nil {
		clone.StaticPeers = slices.Clone(c.StaticPeers)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPeers(cfg, input); err != nil {
		return err
	}
	if err := processLogLevel(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a db-connect string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a db-connect string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the presentation and buffer fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.TargetVersion = input.TargetVersion

	if input.Width < 0 {
		return fmt.Errorf("width must not be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.EventBuffer <= 0 || input.EventBuffer > MaxEventBuffer {
		return fmt.Errorf("event-buffer must be greater than 0 and cannot exceed %d (received %d)", MaxEventBuffer, input.EventBuffer)
	}
	cfg.EventBuffer = input.EventBuffer

	cfg.Prompt = schema.PromptMode(strings.ToLower(input.Prompt))
	if _, ok := schema.ValidPromptModes[cfg.Prompt]; !ok {
		return fmt.Errorf("invalid prompt '%s'. must be ok, hash", input.Prompt)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, yaml", input.Output)
	}
	return nil
}

// processPeers normalizes the local identity and the static peer list.
// Blank and duplicate entries are dropped; listing the local node is an error.
func processPeers(cfg *Config, input *ConfigRawInput) error {
	cfg.PeerID = strings.TrimSpace(input.PeerID)
	if strings.ContainsAny(cfg.PeerID, " \t") {
		return fmt.Errorf("peer-id must not contain whitespace (received %q)", input.PeerID)
	}

	seen := make(map[string]struct{}, len(input.Peers))
	cfg.StaticPeers = nil
	for _, raw := range input.Peers {
		// Env and flag values may arrive as one comma-separated string
		for p := range strings.SplitSeq(raw, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if p == cfg.PeerID {
				return fmt.Errorf("peers must not include the local peer-id %q", p)
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			cfg.StaticPeers = append(cfg.StaticPeers, p)
		}
	}
	return nil
}

// processLogLevel resolves the log level from --log-level, falling back to the -v count.
// The verbosity ladder is 0 error, 1 warn, 2 info, 3 debug, 4+ trace.
func processLogLevel(cfg *Config, input *ConfigRawInput) error {
	if input.Verbose < 0 {
		return fmt.Errorf("verbose must not be negative (received %d)", input.Verbose)
	}
	if input.LogLevel != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(input.LogLevel))
		if err != nil {
			return fmt.Errorf("invalid log-level '%s': %w", input.LogLevel, err)
		}
		cfg.LogLevel = level
		return nil
	}
	cfg.LogLevel = LevelFromVerbosity(input.Verbose)
	return nil
}

// LevelFromVerbosity maps a -v count to a log level.
func LevelFromVerbosity(verbose int) zerolog.Level {
	switch {
	case verbose <= 0:
		return zerolog.ErrorLevel
	case verbose == 1:
		return zerolog.WarnLevel
	case verbose == 2:
		return zerolog.InfoLevel
	case verbose == 3:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// validateBackendConfigs validates store and event log backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Store Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	// --- Event Log Backend Validation ---
	cfg.EventLogBackend = schema.DatabaseBackend(strings.ToLower(input.EventLogBackend))
	if cfg.EventLogBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.EventLogBackend]; !ok {
		return fmt.Errorf("invalid eventlog backend '%s'. must be sqlite, mysql, postgresql, none", input.EventLogBackend)
	}
	cfg.EventLogDBConnect = input.EventLogDBConnect
	if err := ValidateDatabaseConnectionString(cfg.EventLogBackend, cfg.EventLogDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.EventLogBackend == schema.SQLiteBackend {
		storePath := cfg.StoreDBConnect
		if storePath == "" {
			storePath = GetStoreDBFilePath()
		}
		eventsPath := cfg.EventLogDBConnect
		if eventsPath == "" {
			eventsPath = GetEventLogDBFilePath()
		}
		if storePath == eventsPath {
			return fmt.Errorf("store and event log must use different SQLite database files. Both resolve to %q", storePath)
		}
	}
	return nil
}
