// Package config handles loading and validation of the krang process
// configuration. Configuration is a startup-time concern: a malformed file is
// fatal, never a per-command error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/T-One/krang/internal/errors"
	"github.com/T-One/krang/internal/xdg"
)

// TokenEnvVar is the environment variable holding the Discord bot token.
// The token is a secret and is never written to config files or logs.
const TokenEnvVar = "KRANG_DISCORD_TOKEN"

// Duration wraps time.Duration so TOML values like "10s" decode via
// encoding.TextUnmarshaler.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DiscordConfig scopes the bot to explicitly allowed guilds and channels.
// Both lists must be non-empty: an empty allow-list denies everything.
type DiscordConfig struct {
	GuildIDs   []string `toml:"guild_ids"`
	ChannelIDs []string `toml:"channel_ids"`
}

// RuntimeConfig points at the container runtime's Docker-compatible API
// endpoint. The Podman system socket is the default.
type RuntimeConfig struct {
	Endpoint         string   `toml:"endpoint"`
	OperationTimeout Duration `toml:"operation_timeout"`
	LogTail          int      `toml:"log_tail"`
}

// RegistryConfig locates the container registry file.
type RegistryConfig struct {
	File string `toml:"file"`
}

// DatabaseConfig controls the command audit log.
type DatabaseConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// ServerConfig controls the optional admin HTTP server.
type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the complete process configuration, loaded once at startup and
// treated as immutable afterwards.
type Config struct {
	Discord  DiscordConfig  `toml:"discord"`
	Runtime  RuntimeConfig  `toml:"runtime"`
	Registry RegistryConfig `toml:"registry"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Endpoint:         "unix:///run/podman/podman.sock",
			OperationTimeout: Duration(10 * time.Second),
			LogTail:          30,
		},
		Registry: RegistryConfig{
			File: "containers.yaml",
		},
		Database: DatabaseConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    8085,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the path the config is loaded from when no explicit
// path is given: ./krang.toml if present, else the XDG config directory.
func DefaultPath() string {
	if _, err := os.Stat("krang.toml"); err == nil {
		return "krang.toml"
	}
	configDir, err := xdg.ConfigDir()
	if err != nil {
		return "krang.toml"
	}
	return filepath.Join(configDir, "krang.toml")
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewWithDetails(errors.ErrConfigNotFound, "config file not found", path)
		}
		return nil, errors.Wrap(errors.ErrConfigParse, "failed to read config file", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, fmt.Sprintf("failed to parse %s", path), err)
	}

	// Registry file path is relative to the config file's directory.
	if cfg.Registry.File != "" && !filepath.IsAbs(cfg.Registry.File) {
		cfg.Registry.File = filepath.Join(filepath.Dir(path), cfg.Registry.File)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for startup-fatal problems.
func (c *Config) Validate() error {
	if len(c.Discord.GuildIDs) == 0 {
		return errors.New(errors.ErrConfigValidation, "discord.guild_ids must not be empty")
	}
	if len(c.Discord.ChannelIDs) == 0 {
		return errors.New(errors.ErrConfigValidation, "discord.channel_ids must not be empty")
	}
	if c.Runtime.Endpoint == "" {
		return errors.New(errors.ErrConfigValidation, "runtime.endpoint must not be empty")
	}
	if c.Runtime.OperationTimeout <= 0 {
		return errors.New(errors.ErrConfigValidation, "runtime.operation_timeout must be positive")
	}
	if c.Runtime.LogTail <= 0 {
		return errors.New(errors.ErrConfigValidation, "runtime.log_tail must be positive")
	}
	if c.Registry.File == "" {
		return errors.New(errors.ErrConfigValidation, "registry.file must not be empty")
	}
	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return errors.New(errors.ErrConfigValidation, "server.port is invalid")
	}
	return nil
}

// Token reads the Discord bot token from the environment.
func Token() (string, error) {
	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return "", errors.NewWithDetails(errors.ErrTokenMissing, "discord bot token not set", TokenEnvVar)
	}
	return token, nil
}

// DatabasePath returns the audit database path, defaulting to the XDG data
// directory.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	dataDir, err := xdg.DataDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".local", "share", "krang", "krang.db")
	}
	return filepath.Join(dataDir, "krang.db")
}
