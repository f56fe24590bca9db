package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "habitmaster", cfg.App.Name)
	assert.Equal(t, "habit_data.json", cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "stderr", cfg.Logger.Output)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Minute, cfg.Security.RateLimitWindow)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.GetAddr())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HABIT_DATA_FILE", "/tmp/habits.json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/habits.json", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "habitmaster.yaml")
	content := "storage:\n  path: my-habits.json\nlogger:\n  level: info\nserver:\n  port: 7000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "my-habits.json", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage:  StorageConfig{Path: "habit_data.json"},
			Server:   ServerConfig{Port: 8080},
			Logger:   LoggerConfig{Output: "stderr"},
			Security: SecurityConfig{RateLimitRequests: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty storage path", mutate: func(c *Config) { c.Storage.Path = "  " }, wantErr: true},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "file output without filename", mutate: func(c *Config) { c.Logger.Output = "file" }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.Security.RateLimitRequests = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
