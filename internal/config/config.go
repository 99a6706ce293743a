// Package config loads blackjack settings from an optional HCL file, an
// optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
)

// Environment variable names read by ApplyEnv
const (
	// EnvSeed fixes the RNG seed for the first round
	EnvSeed = "BLACKJACK_SEED"

	// EnvLogLevel overrides ui.log_level
	EnvLogLevel = "BLACKJACK_LOG_LEVEL"

	// EnvAddr overrides server.address
	EnvAddr = "BLACKJACK_ADDR"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "blackjack.hcl"

// Config is the complete configuration
type Config struct {
	Game      GameSettings
	UI        UISettings
	Server    ServerSettings
	Simulator SimulatorSettings
}

// GameSettings contains round settings
type GameSettings struct {
	// Seed fixes the first round's shuffle. Nil means a fresh random seed.
	Seed *int64 `hcl:"seed,optional"`
}

// UISettings contains terminal interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
	Theme    string `hcl:"theme,optional"`
	HideSums bool   `hcl:"hide_sums,optional"`
	NoColor  bool   `hcl:"no_color,optional"`
}

// ServerSettings contains websocket server settings
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	IdleTimeout int    `hcl:"idle_timeout,optional"` // seconds
	MaxSessions int    `hcl:"max_sessions,optional"`
}

// SimulatorSettings contains batch simulation settings
type SimulatorSettings struct {
	Rounds  int `hcl:"rounds,optional"`
	Workers int `hcl:"workers,optional"`
	StandOn int `hcl:"stand_on,optional"`
}

// fileConfig mirrors Config with every block optional.
type fileConfig struct {
	Game      *GameSettings      `hcl:"game,block"`
	UI        *UISettings        `hcl:"ui,block"`
	Server    *ServerSettings    `hcl:"server,block"`
	Simulator *SimulatorSettings `hcl:"simulator,block"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		UI: UISettings{
			LogLevel: "warn",
			LogFile:  "blackjack.log",
			Theme:    "default",
		},
		Server: ServerSettings{
			Address:     ":8080",
			IdleTimeout: 300,
			MaxSessions: 64,
		},
		Simulator: SimulatorSettings{
			Rounds:  10000,
			Workers: 4,
			StandOn: 17,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills unset values from the defaults.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if fc.Game != nil {
		cfg.Game = *fc.Game
	}
	if fc.UI != nil {
		ui := *fc.UI
		if ui.LogLevel == "" {
			ui.LogLevel = cfg.UI.LogLevel
		}
		if ui.LogFile == "" {
			ui.LogFile = cfg.UI.LogFile
		}
		if ui.Theme == "" {
			ui.Theme = cfg.UI.Theme
		}
		cfg.UI = ui
	}
	if fc.Server != nil {
		s := *fc.Server
		if s.Address == "" {
			s.Address = cfg.Server.Address
		}
		if s.IdleTimeout == 0 {
			s.IdleTimeout = cfg.Server.IdleTimeout
		}
		if s.MaxSessions == 0 {
			s.MaxSessions = cfg.Server.MaxSessions
		}
		cfg.Server = s
	}
	if fc.Simulator != nil {
		sim := *fc.Simulator
		if sim.Rounds == 0 {
			sim.Rounds = cfg.Simulator.Rounds
		}
		if sim.Workers == 0 {
			sim.Workers = cfg.Simulator.Workers
		}
		if sim.StandOn == 0 {
			sim.StandOn = cfg.Simulator.StandOn
		}
		cfg.Simulator = sim
	}

	return cfg, nil
}

// LookupFunc resolves an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Environment returns a lookup over the process environment backed by the
// values in dotenv. Non-empty process variables win over the file. A missing
// dotenv file is not an error.
func Environment(dotenv string) (LookupFunc, error) {
	fileValues := map[string]string{}
	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			fileValues, err = godotenv.Read(dotenv)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", dotenv, err)
			}
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides configuration values from the environment.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		c.Game.Seed = &seed
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.UI.LogLevel = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Address = v
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	validThemes := map[string]bool{
		"default": true,
		"dark":    true,
		"light":   true,
	}
	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}

	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("max sessions must be positive")
	}

	if c.Simulator.Rounds <= 0 {
		return fmt.Errorf("simulator rounds must be positive")
	}
	if c.Simulator.Workers <= 0 {
		return fmt.Errorf("simulator workers must be positive")
	}
	if c.Simulator.StandOn < 2 || c.Simulator.StandOn > 21 {
		return fmt.Errorf("simulator stand_on must be between 2 and 21")
	}

	return nil
}
