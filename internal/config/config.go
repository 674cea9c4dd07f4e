package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/existflow/croptask/internal/db"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds user preferences
type Config struct {
	ConfirmDelete bool `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete

	// Storage
	Backend       string `yaml:"backend" json:"backend"`               // memory, file, sqlite, postgres, redis
	DataPath      string `yaml:"data_path" json:"data_path"`           // sqlite file or file-backend directory
	PostgresDSN   string `yaml:"postgres_dsn" json:"postgres_dsn"`     // used by the postgres backend
	RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`         // used by the redis backend
	RedisPassword string `yaml:"-" json:"-"`                           // CROPTASK_REDIS_PASSWORD only
	RedisDB       int    `yaml:"redis_db" json:"redis_db"`             // redis logical database
	Namespace     string `yaml:"namespace" json:"namespace"`           // prefix of every persisted key
	ChecklistDays int    `yaml:"checklist_days" json:"checklist_days"` // length of generated checklists

	// HTTP API
	ServerAddr string `yaml:"server_addr" json:"server_addr"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	// yaml key -> value it had before an environment override
	overridden map[string]envOverride
}

type envOverride struct {
	prev    any
	applied any
}

// Dir returns the directory holding config, data and logs
func Dir() (string, error) {
	return db.DefaultDataDir()
}

// DefaultConfig returns default settings without environment overrides
func DefaultConfig() *Config {
	dir, _ := Dir()
	logPath := ""
	if dir != "" {
		logPath = filepath.Join(dir, "logs", "croptask.log")
	}

	return &Config{
		ConfirmDelete: true,
		Backend:       db.BackendSQLite,
		RedisAddr:     "localhost:6379",
		Namespace:     "croptask",
		ChecklistDays: 14,
		ServerAddr:    ":8080",
		LogLevel:      "INFO",
		LogFile:       logPath,
	}
}

// FromEnv returns the defaults with CROPTASK_* variables applied
func FromEnv() *Config {
	cfg := DefaultConfig()
	applyEnv(cfg)
	return cfg
}

type envBinding struct {
	name  string
	key   string // yaml key, empty when the field is never written
	field func(c *Config) any
}

var envBindings = []envBinding{
	{"CROPTASK_BACKEND", "backend", func(c *Config) any { return &c.Backend }},
	{"CROPTASK_DATA_PATH", "data_path", func(c *Config) any { return &c.DataPath }},
	{"CROPTASK_POSTGRES_DSN", "postgres_dsn", func(c *Config) any { return &c.PostgresDSN }},
	{"CROPTASK_REDIS_ADDR", "redis_addr", func(c *Config) any { return &c.RedisAddr }},
	{"CROPTASK_REDIS_PASSWORD", "", func(c *Config) any { return &c.RedisPassword }},
	{"CROPTASK_REDIS_DB", "redis_db", func(c *Config) any { return &c.RedisDB }},
	{"CROPTASK_NAMESPACE", "namespace", func(c *Config) any { return &c.Namespace }},
	{"CROPTASK_CHECKLIST_DAYS", "checklist_days", func(c *Config) any { return &c.ChecklistDays }},
	{"CROPTASK_SERVER_ADDR", "server_addr", func(c *Config) any { return &c.ServerAddr }},
	{"CROPTASK_LOG_LEVEL", "log_level", func(c *Config) any { return &c.LogLevel }},
	{"CROPTASK_LOG_FILE", "log_file", func(c *Config) any { return &c.LogFile }},
	{"CROPTASK_LOG_CONSOLE", "log_console", func(c *Config) any { return &c.LogConsole }},
}

// applyEnv overrides cfg with any CROPTASK_* variables that are set and
// remembers the replaced values so Save writes them back instead
func applyEnv(cfg *Config) {
	if cfg.overridden == nil {
		cfg.overridden = map[string]envOverride{}
	}
	for _, b := range envBindings {
		value := os.Getenv(b.name)
		if value == "" {
			continue
		}

		var o envOverride
		switch p := b.field(cfg).(type) {
		case *string:
			o = envOverride{prev: *p, applied: value}
			*p = value
		case *int:
			n, err := strconv.Atoi(value)
			if err != nil {
				continue
			}
			o = envOverride{prev: *p, applied: n}
			*p = n
		case *bool:
			o = envOverride{prev: *p, applied: value == "true"}
			*p = value == "true"
		}

		if b.key == "" {
			continue
		}
		if existing, seen := cfg.overridden[b.key]; seen {
			o.prev = existing.prev
		}
		cfg.overridden[b.key] = o
	}
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads .env from the working directory if present, then
// ~/.croptask/config.yaml on top of the defaults. CROPTASK_* variables
// win over the file.
func Load() (*Config, error) {
	// A missing .env is the normal case
	_ = godotenv.Load()

	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return FromEnv(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyEnv(cfg)

	return cfg, nil
}

// Save writes config to ~/.croptask/config.yaml. Fields still holding an
// environment value are written with the value they had before it.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.marshalPersisted()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) marshalPersisted() ([]byte, error) {
	if len(c.overridden) == 0 {
		return yaml.Marshal(c)
	}

	var node yaml.Node
	if err := node.Encode(c); err != nil {
		return nil, err
	}
	// mapping nodes alternate key and value
	for i := 0; i+1 < len(node.Content); i += 2 {
		o, ok := c.overridden[node.Content[i].Value]
		// a field changed after loading is persisted as is
		if !ok || node.Content[i+1].Value != fmt.Sprint(o.applied) {
			continue
		}
		var v yaml.Node
		if err := v.Encode(o.prev); err != nil {
			return nil, err
		}
		node.Content[i+1] = &v
	}
	return yaml.Marshal(&node)
}

// StoreOptions maps the storage settings onto db.Options
func (c *Config) StoreOptions() db.Options {
	return db.Options{
		Backend:       c.Backend,
		Path:          c.DataPath,
		DSN:           c.PostgresDSN,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
	}
}
