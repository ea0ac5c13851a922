package conf

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config represents application configuration
type Config struct {
	// Discord configuration
	Discord DiscordConfig

	// Monitor store configuration
	Store StoreConfig

	// Admin API configuration
	API APIConfig

	// Persist the monitor record before the public post goes out. The
	// legacy order (post first, persist after) can leave a live post with
	// no durable record when the store write fails.
	PersistBeforePost bool

	// Replies configuration (loaded from YAML)
	Replies *RepliesConfig

	// Debug mode
	Debug bool
}

// DiscordConfig contains Discord configuration
type DiscordConfig struct {
	Token         string
	CommandPrefix string
}

// StoreConfig contains monitor store configuration
type StoreConfig struct {
	Backend  string // "file" or "sqlite"
	FilePath string // file backend
	DBPath   string // sqlite backend
}

// APIConfig contains admin API configuration
type APIConfig struct {
	Port int // 0 disables the API server
}

// Store backends
const (
	StoreBackendFile   = "file"
	StoreBackendSQLite = "sqlite"
)

const defaultAPIPort = 9876

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	prefix := os.Getenv("COMMAND_PREFIX")
	if prefix == "" {
		prefix = "!rfr "
	}

	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = StoreBackendFile
	}

	filePath := os.Getenv("DATA_FILE")
	if filePath == "" {
		filePath = "data.json"
	}

	dbPath := os.Getenv("STORE_DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".roles-for-reactions", "monitors.db")
	}

	apiPort := defaultAPIPort
	if val := os.Getenv("API_PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			apiPort = parsed
		}
	}

	// Load replies from YAML
	repliesConfig, _ := LoadRepliesConfig(os.Getenv("REPLIES_CONFIG_PATH"))

	return &Config{
		Discord: DiscordConfig{
			Token:         os.Getenv("DISCORD_TOKEN"),
			CommandPrefix: prefix,
		},
		Store: StoreConfig{
			Backend:  backend,
			FilePath: filePath,
			DBPath:   dbPath,
		},
		API: APIConfig{
			Port: apiPort,
		},
		PersistBeforePost: os.Getenv("PERSIST_BEFORE_POST") != "false",
		Replies:           repliesConfig,
		Debug:             os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return &ConfigError{Field: "DISCORD_TOKEN", Message: "required"}
	}
	if c.Store.Backend != StoreBackendFile && c.Store.Backend != StoreBackendSQLite {
		return &ConfigError{Field: "STORE_BACKEND", Message: "must be 'file' or 'sqlite'"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
