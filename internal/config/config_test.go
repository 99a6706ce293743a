package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	src := []byte(`
game {
  seed = 42
}

ui {
  log_level = "debug"
  theme     = "dark"
  hide_sums = true
}

server {
  address      = "127.0.0.1:9000"
  idle_timeout = 30
}

simulator {
  rounds   = 500
  stand_on = 16
}
`)

	cfg, err := Parse(src, "test.hcl")
	require.NoError(t, err)

	require.NotNil(t, cfg.Game.Seed)
	assert.Equal(t, int64(42), *cfg.Game.Seed)

	assert.Equal(t, "debug", cfg.UI.LogLevel)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.True(t, cfg.UI.HideSums)
	assert.Equal(t, "blackjack.log", cfg.UI.LogFile, "unset values keep defaults")

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 30, cfg.Server.IdleTimeout)
	assert.Equal(t, 64, cfg.Server.MaxSessions)

	assert.Equal(t, 500, cfg.Simulator.Rounds)
	assert.Equal(t, 4, cfg.Simulator.Workers)
	assert.Equal(t, 16, cfg.Simulator.StandOn)

	require.NoError(t, cfg.Validate())
}

func TestParseErrors(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		_, err := Parse([]byte(`game {`), "bad.hcl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse HCL file")
	})

	t.Run("unknown attribute", func(t *testing.T) {
		_, err := Parse([]byte("game {\n  shoes = 6\n}\n"), "bad.hcl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode HCL")
	})
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {\n  max_sessions = 2\n}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Server.MaxSessions)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"log level", func(c *Config) { c.UI.LogLevel = "loud" }, "invalid log level"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "invalid theme"},
		{"address", func(c *Config) { c.Server.Address = "" }, "server address"},
		{"idle timeout", func(c *Config) { c.Server.IdleTimeout = 0 }, "idle timeout"},
		{"max sessions", func(c *Config) { c.Server.MaxSessions = -1 }, "max sessions"},
		{"rounds", func(c *Config) { c.Simulator.Rounds = 0 }, "rounds"},
		{"workers", func(c *Config) { c.Simulator.Workers = 0 }, "workers"},
		{"stand on low", func(c *Config) { c.Simulator.StandOn = 1 }, "stand_on"},
		{"stand on high", func(c *Config) { c.Simulator.StandOn = 22 }, "stand_on"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvSeed:     "7",
		EnvLogLevel: "info",
		EnvAddr:     ":9999",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	require.NotNil(t, cfg.Game.Seed)
	assert.Equal(t, int64(7), *cfg.Game.Seed)
	assert.Equal(t, "info", cfg.UI.LogLevel)
	assert.Equal(t, ":9999", cfg.Server.Address)

	env[EnvSeed] = "seven"
	err := Default().ApplyEnv(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSeed)
}

func TestEnvironment(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	content := EnvLogLevel + "=debug\n" + EnvAddr + "=:7000\n"
	require.NoError(t, os.WriteFile(dotenv, []byte(content), 0o644))

	t.Setenv(EnvAddr, ":7100")

	lookup, err := Environment(dotenv)
	require.NoError(t, err)

	v, ok := lookup(EnvLogLevel)
	assert.True(t, ok)
	assert.Equal(t, "debug", v)

	v, ok = lookup(EnvAddr)
	assert.True(t, ok)
	assert.Equal(t, ":7100", v, "process environment wins over .env")

	_, ok = lookup("BLACKJACK_DOES_NOT_EXIST")
	assert.False(t, ok)

	t.Run("missing file", func(t *testing.T) {
		lookup, err := Environment(filepath.Join(dir, "missing.env"))
		require.NoError(t, err)
		require.NotNil(t, lookup)
	})
}
