// Package config loads the game configuration from a TOML file and the
// environment, and turns it into engine parameters.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-match/internal/deck"
	"go-match/internal/game"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GO_MATCH_"

// Config is the resolved configuration.
type Config struct {
	Levels    []LevelConfig `toml:"levels" validate:"required,min=1,dive"`
	Delays    DelayConfig   `toml:"delays"`
	Icons     []string      `toml:"icons" validate:"required,unique,dive,required"`
	IconsPath string        `toml:"icons_path"`
	LogLevel  string        `toml:"log_level" validate:"oneof=debug info warn error"`
	LogFile   string        `toml:"log_file"`
	Seed      uint64        `toml:"seed"`
}

// LevelConfig maps one [[levels]] table.
type LevelConfig struct {
	Pairs     int `toml:"pairs" validate:"min=1"`
	PreviewMS int `toml:"preview_ms" validate:"min=0"`
}

// DelayConfig maps the [delays] table. Values are milliseconds.
type DelayConfig struct {
	MatchMS   int `toml:"match_ms" validate:"min=0"`
	MissMS    int `toml:"miss_ms" validate:"min=0"`
	AdvanceMS int `toml:"advance_ms" validate:"min=0"`
	TickMS    int `toml:"tick_ms" validate:"min=1"`
}

// envOverrides lists what the environment may override. Unset variables keep
// the value already loaded.
type envOverrides struct {
	LogLevel       string `env:"LOG_LEVEL"`
	LogFile        string `env:"LOG_FILE"`
	Seed           uint64 `env:"SEED"`
	IconsPath      string `env:"ICONS_PATH"`
	MatchDelayMS   int    `env:"MATCH_DELAY_MS"`
	MissDelayMS    int    `env:"MISS_DELAY_MS"`
	AdvanceDelayMS int    `env:"ADVANCE_DELAY_MS"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the built-in configuration.
func Default() Config {
	d := game.DefaultDelays()
	cfg := Config{
		Delays: DelayConfig{
			MatchMS:   int(d.Match / time.Millisecond),
			MissMS:    int(d.Miss / time.Millisecond),
			AdvanceMS: int(d.Advance / time.Millisecond),
			TickMS:    int(d.Tick / time.Millisecond),
		},
		Icons:    append([]string(nil), deck.DefaultIcons...),
		LogLevel: "info",
	}
	for _, lvl := range game.DefaultLevels() {
		cfg.Levels = append(cfg.Levels, LevelConfig{
			Pairs:     lvl.PairCount,
			PreviewMS: int(lvl.Preview / time.Millisecond),
		})
	}
	return cfg
}

// Load layers the TOML file at path and the environment over the defaults.
// Variables from the dotenv file fill in what the process environment does
// not set. Neither file has to exist.
func Load(path, dotenvPath string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := decodeFile(path, &cfg); err != nil {
				return Config{}, err
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to stat config: %w", err)
		}
	}

	if err := applyEnv(&cfg, dotenvPath); err != nil {
		return Config{}, err
	}

	if err := cfg.Resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeFile decodes the TOML file over cfg. Keys absent from the file keep
// their default value, except that a [[levels]] list replaces the default
// catalog as a whole: a level never inherits fields from a built-in one.
func decodeFile(path string, cfg *Config) error {
	defaults := cfg.Levels
	cfg.Levels = nil

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	if !md.IsDefined("levels") {
		cfg.Levels = defaults
	}
	return nil
}

func applyEnv(cfg *Config, dotenvPath string) error {
	environ := env.ToMap(os.Environ())
	if dotenvPath != "" {
		fileVars, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			for k, v := range fileVars {
				if _, set := environ[k]; !set {
					environ[k] = v
				}
			}
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("read env file: %w", err)
		}
	}

	ov := envOverrides{
		LogLevel:       cfg.LogLevel,
		LogFile:        cfg.LogFile,
		Seed:           cfg.Seed,
		IconsPath:      cfg.IconsPath,
		MatchDelayMS:   cfg.Delays.MatchMS,
		MissDelayMS:    cfg.Delays.MissMS,
		AdvanceDelayMS: cfg.Delays.AdvanceMS,
	}
	if err := env.ParseWithOptions(&ov, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	cfg.LogLevel = ov.LogLevel
	cfg.LogFile = ov.LogFile
	cfg.Seed = ov.Seed
	cfg.IconsPath = ov.IconsPath
	cfg.Delays.MatchMS = ov.MatchDelayMS
	cfg.Delays.MissMS = ov.MissDelayMS
	cfg.Delays.AdvanceMS = ov.AdvanceDelayMS
	return nil
}

// Resolve loads the icon file if one is configured, normalizes the log level
// and validates the result. Call it again after changing fields.
func (c *Config) Resolve() error {
	if c.IconsPath != "" {
		icons, err := deck.LoadIcons([]string{c.IconsPath})
		if err != nil {
			return fmt.Errorf("failed to load icons: %w", err)
		}
		c.Icons = icons
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c.Validate()
}

// Validate checks field constraints and that every level fits the icon pool.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/go-match/config.toml, falling
// back to ~/.config when the variable is unset.
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "go-match", "config.toml")
}

// Catalog builds the level catalog.
func (c Config) Catalog() (game.Catalog, error) {
	levels := make([]game.LevelDefinition, len(c.Levels))
	for i, lvl := range c.Levels {
		levels[i] = game.LevelDefinition{
			PairCount: lvl.Pairs,
			Preview:   time.Duration(lvl.PreviewMS) * time.Millisecond,
		}
	}
	return game.NewCatalog(levels, len(c.Icons))
}

// GameDelays converts the delay table.
func (c Config) GameDelays() game.Delays {
	return game.Delays{
		Match:   time.Duration(c.Delays.MatchMS) * time.Millisecond,
		Miss:    time.Duration(c.Delays.MissMS) * time.Millisecond,
		Advance: time.Duration(c.Delays.AdvanceMS) * time.Millisecond,
		Tick:    time.Duration(c.Delays.TickMS) * time.Millisecond,
	}
}
