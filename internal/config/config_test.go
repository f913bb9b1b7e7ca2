package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/T-One/krang/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "krang.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfig = `
[discord]
guild_ids = ["123456789"]
channel_ids = ["987654321"]

[runtime]
endpoint = "unix:///run/podman/podman.sock"
operation_timeout = "15s"
log_tail = 50

[registry]
file = "containers.yaml"

[database]
enabled = true
path = "/tmp/krang-test.db"

[server]
enabled = true
host = "127.0.0.1"
port = 9000

[log]
level = "debug"
format = "json"
`

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"123456789"}, cfg.Discord.GuildIDs)
	assert.Equal(t, []string{"987654321"}, cfg.Discord.ChannelIDs)
	assert.Equal(t, "unix:///run/podman/podman.sock", cfg.Runtime.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.Runtime.OperationTimeout.Std())
	assert.Equal(t, 50, cfg.Runtime.LogTail)
	assert.Equal(t, "/tmp/krang-test.db", cfg.Database.Path)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadResolvesRegistryRelativeToConfig(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "containers.yaml"), cfg.Registry.File)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[discord]
guild_ids = ["1"]
channel_ids = ["2"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "unix:///run/podman/podman.sock", cfg.Runtime.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Runtime.OperationTimeout.Std())
	assert.Equal(t, 30, cfg.Runtime.LogTail)
	assert.True(t, cfg.Database.Enabled)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrConfigNotFound))
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeConfig(t, `[discord`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrConfigParse))
}

func TestLoadInvalidTimeout(t *testing.T) {
	path := writeConfig(t, `
[discord]
guild_ids = ["1"]
channel_ids = ["2"]

[runtime]
operation_timeout = "not-a-duration"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrConfigParse))
}

func TestValidateEmptyAllowLists(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no guilds", func(c *Config) { c.Discord.GuildIDs = nil }},
		{"no channels", func(c *Config) { c.Discord.ChannelIDs = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Discord.GuildIDs = []string{"1"}
			cfg.Discord.ChannelIDs = []string{"2"}
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrConfigValidation))
		})
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg := Default()
		cfg.Discord.GuildIDs = []string{"1"}
		cfg.Discord.ChannelIDs = []string{"2"}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty endpoint", func(c *Config) { c.Runtime.Endpoint = "" }},
		{"zero timeout", func(c *Config) { c.Runtime.OperationTimeout = 0 }},
		{"zero tail", func(c *Config) { c.Runtime.LogTail = 0 }},
		{"empty registry file", func(c *Config) { c.Registry.File = "" }},
		{"bad server port", func(c *Config) { c.Server.Enabled = true; c.Server.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestTokenFromEnvironment(t *testing.T) {
	t.Setenv(TokenEnvVar, "bot-token-value")

	token, err := Token()
	require.NoError(t, err)
	assert.Equal(t, "bot-token-value", token)
}

func TestTokenMissing(t *testing.T) {
	t.Setenv(TokenEnvVar, "")

	_, err := Token()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrTokenMissing))
}

func TestDatabasePathExplicit(t *testing.T) {
	cfg := Default()
	cfg.Database.Path = "/var/lib/krang/audit.db"
	assert.Equal(t, "/var/lib/krang/audit.db", cfg.DatabasePath())
}
