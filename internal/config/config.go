// Package config provides Viper-based configuration loading for the maze server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds gRPC listener settings.
type ServerConfig struct {
	// GRPCHost is the bind address for the gRPC service.
	GRPCHost string `mapstructure:"grpc_host"`
	// GRPCPort is the TCP port for the gRPC service.
	GRPCPort int `mapstructure:"grpc_port"`
}

// Addr returns the "host:port" gRPC address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.GRPCHost, s.GRPCPort)
}

// WebSocketConfig holds the optional WebSocket listener settings.
type WebSocketConfig struct {
	// Enabled starts the WebSocket listener alongside gRPC.
	Enabled bool `mapstructure:"enabled"`
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// Path is the HTTP path that upgrades to a WebSocket session.
	Path string `mapstructure:"path"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (w WebSocketConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// MazeConfig selects how the shared maze is built.
type MazeConfig struct {
	// OpenCellsX is the number of rooms per row of a generated maze.
	OpenCellsX uint32 `mapstructure:"open_cells_x"`
	// OpenCellsY is the number of rooms per column of a generated maze.
	OpenCellsY uint32 `mapstructure:"open_cells_y"`
	// Seed makes generation reproducible. Zero draws from crypto/rand.
	Seed int64 `mapstructure:"seed"`
	// LayoutFile loads a fixed YAML layout instead of generating one.
	LayoutFile string `mapstructure:"layout_file"`
}

// SessionConfig holds per-connection session limits.
type SessionConfig struct {
	// HubCapacity is the number of player updates retained for slow subscribers.
	HubCapacity int `mapstructure:"hub_capacity"`
	// WriteTimeout bounds one outbound update write.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ReadPollInterval is the idle poll period of the inbound loop.
	ReadPollInterval time.Duration `mapstructure:"read_poll_interval"`
	// MaxWriteFailures is the consecutive write failure count that ends a connection.
	MaxWriteFailures int `mapstructure:"max_write_failures"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File, when set, also writes logs to a rotating file at this path.
	File string `mapstructure:"file"`
	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated files kept.
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAgeDays is the number of days rotated files are kept.
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Maze      MazeConfig      `mapstructure:"maze"`
	Session   SessionConfig   `mapstructure:"session"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// maxOpenCells mirrors the generator's per-axis room limit.
const maxOpenCells = 4096

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateWebSocket(c.WebSocket); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateMaze(c.Maze); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSession(c.Session); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.GRPCHost == "" {
		errs = append(errs, "server.grpc_host must not be empty")
	}
	if s.GRPCPort < 1 || s.GRPCPort > 65535 {
		errs = append(errs, fmt.Sprintf("server.grpc_port must be 1-65535, got %d", s.GRPCPort))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWebSocket(w WebSocketConfig) error {
	if !w.Enabled {
		return nil
	}
	var errs []string
	if w.Port < 1 || w.Port > 65535 {
		errs = append(errs, fmt.Sprintf("websocket.port must be 1-65535, got %d", w.Port))
	}
	if !strings.HasPrefix(w.Path, "/") {
		errs = append(errs, fmt.Sprintf("websocket.path must start with '/', got %q", w.Path))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMaze(m MazeConfig) error {
	if m.LayoutFile != "" {
		return nil
	}
	var errs []string
	if m.OpenCellsX < 1 || m.OpenCellsX > maxOpenCells {
		errs = append(errs, fmt.Sprintf("maze.open_cells_x must be 1-%d, got %d", maxOpenCells, m.OpenCellsX))
	}
	if m.OpenCellsY < 1 || m.OpenCellsY > maxOpenCells {
		errs = append(errs, fmt.Sprintf("maze.open_cells_y must be 1-%d, got %d", maxOpenCells, m.OpenCellsY))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSession(s SessionConfig) error {
	var errs []string
	if s.HubCapacity < 1 {
		errs = append(errs, fmt.Sprintf("session.hub_capacity must be >= 1, got %d", s.HubCapacity))
	}
	if s.WriteTimeout < 0 {
		errs = append(errs, "session.write_timeout must not be negative")
	}
	if s.ReadPollInterval < 0 {
		errs = append(errs, "session.read_poll_interval must not be negative")
	}
	if s.MaxWriteFailures < 0 {
		errs = append(errs, fmt.Sprintf("session.max_write_failures must be >= 0, got %d", s.MaxWriteFailures))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.File != "" && (l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0) {
		return errors.New("logging rotation limits must not be negative")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with MAZEIO_ prefix
	v.SetEnvPrefix("MAZEIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.grpc_host", "127.0.0.1")
	v.SetDefault("server.grpc_port", 50051)

	v.SetDefault("websocket.enabled", false)
	v.SetDefault("websocket.host", "127.0.0.1")
	v.SetDefault("websocket.port", 8080)
	v.SetDefault("websocket.path", "/ws")

	v.SetDefault("maze.open_cells_x", 16)
	v.SetDefault("maze.open_cells_y", 32)
	v.SetDefault("maze.seed", 0)
	v.SetDefault("maze.layout_file", "")

	v.SetDefault("session.hub_capacity", 50)
	v.SetDefault("session.write_timeout", "250ms")
	v.SetDefault("session.read_poll_interval", "250ms")
	v.SetDefault("session.max_write_failures", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}
