// Package config loads the server configuration from a YAML file and
// PVP_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oriumgames/pvp"
	"github.com/oriumgames/pvp/block"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PVP_"

type Config struct {
	// Version is the combat version, legacy or modern.
	Version string `yaml:"version" env:"VERSION"`
	// Difficulty is peaceful, easy, normal or hard.
	Difficulty string `yaml:"difficulty" env:"DIFFICULTY"`

	Server  Server  `yaml:"server" envPrefix:"SERVER_"`
	Block   Block   `yaml:"block" envPrefix:"BLOCK_"`
	Fishing Fishing `yaml:"fishing" envPrefix:"FISHING_"`
	Hunger  Hunger  `yaml:"hunger" envPrefix:"HUNGER_"`
}

type Server struct {
	// Address overrides the listening address of the Dragonfly config.
	Address string `yaml:"address" env:"ADDRESS"`
	Name    string `yaml:"name" env:"NAME"`
}

type Block struct {
	Debounce time.Duration `yaml:"debounce" env:"DEBOUNCE"`
	// Item is the identifier of the blocking item.
	Item string `yaml:"item" env:"ITEM"`
}

type Fishing struct {
	Spread float64 `yaml:"spread" env:"SPREAD"`
}

type Hunger struct {
	KeepNative bool `yaml:"keep_native" env:"KEEP_NATIVE"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Version:    pvp.Legacy.String(),
		Difficulty: pvp.Normal.String(),
		Block: Block{
			Debounce: block.DefaultDebounce,
			Item:     block.ShieldName,
		},
		Fishing: Fishing{Spread: 1},
	}
}

// Load reads the configuration at path over the defaults, then applies the
// environment. A missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return c, err
		default:
			if err := yaml.Unmarshal(raw, &c); err != nil {
				return c, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Validate checks that every value can be converted to its runtime type.
func (c Config) Validate() error {
	if _, err := c.Ruleset(); err != nil {
		return err
	}
	if _, err := c.DifficultyLevel(); err != nil {
		return err
	}
	if c.Block.Debounce < 0 {
		return fmt.Errorf("block.debounce: negative duration %v", c.Block.Debounce)
	}
	if c.Fishing.Spread < 0 {
		return fmt.Errorf("fishing.spread: negative spread %v", c.Fishing.Spread)
	}
	return nil
}

// Ruleset returns the ruleset named by Version.
func (c Config) Ruleset() (pvp.Ruleset, error) {
	v, err := pvp.ParseCombatVersion(c.Version)
	if err != nil {
		return pvp.Ruleset{}, fmt.Errorf("version: %w", err)
	}
	return pvp.Ruleset{Version: v}, nil
}

// DifficultyLevel returns the difficulty named by Difficulty.
func (c Config) DifficultyLevel() (pvp.Difficulty, error) {
	d, err := pvp.ParseDifficulty(c.Difficulty)
	if err != nil {
		return 0, fmt.Errorf("difficulty: %w", err)
	}
	return d, nil
}

// BlockingItem resolves Block.Item to a registered item.
func (c Config) BlockingItem() (item.Stack, error) {
	it, ok := world.ItemByName(c.Block.Item, 0)
	if !ok {
		return item.Stack{}, fmt.Errorf("block.item: unknown item %q", c.Block.Item)
	}
	return item.NewStack(it, 1), nil
}
