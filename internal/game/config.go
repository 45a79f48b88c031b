package game

import (
	"encoding/json"
	"fmt"
	"os"
)

// Limits enforced by Validate.
const (
	MinGridSize = 3
	MaxGridSize = 64
	MaxPlayers  = 4
)

// Config holds the tunable parameters of a session. Durations are in ticks.
type Config struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	CellSize       int     `json:"cell_size"` // pixels per cell
	TickRate       int     `json:"tick_rate"` // ticks per second
	Players        int     `json:"players"`
	MoveCooldown   int     `json:"move_cooldown"`
	BombFuse       int     `json:"bomb_fuse"`
	ExplosionTicks int     `json:"explosion_ticks"`
	BombRadius     int     `json:"bomb_radius"`
	BombCapacity   int     `json:"bomb_capacity"`
	RockDensity    float64 `json:"rock_density"` // generated maps only
	DestroyRocks   bool    `json:"destroy_rocks"`
	Seed           uint64  `json:"seed"`
}

// DefaultConfig returns a sensible default game configuration.
func DefaultConfig() Config {
	return Config{
		Width:          11,
		Height:         11,
		CellSize:       32,
		TickRate:       30,
		Players:        2,
		MoveCooldown:   4,
		BombFuse:       90,
		ExplosionTicks: 15,
		BombRadius:     2,
		BombCapacity:   2,
		RockDensity:    0.4,
		DestroyRocks:   false,
		Seed:           0,
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	if c.Width < MinGridSize || c.Width > MaxGridSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, c.Width)
	}
	if c.Height < MinGridSize || c.Height > MaxGridSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, c.Height)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("config validation: cell_size must be positive, got %d", c.CellSize)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("config validation: tick_rate must be positive, got %d", c.TickRate)
	}
	if c.Players < 1 || c.Players > MaxPlayers {
		return fmt.Errorf("config validation: players must be between 1 and %d, got %d", MaxPlayers, c.Players)
	}
	if c.MoveCooldown < 0 {
		return fmt.Errorf("config validation: move_cooldown must not be negative, got %d", c.MoveCooldown)
	}
	if c.BombFuse < 1 {
		return fmt.Errorf("config validation: bomb_fuse must be at least 1, got %d", c.BombFuse)
	}
	if c.ExplosionTicks < 1 || c.ExplosionTicks >= c.BombFuse {
		return fmt.Errorf("config validation: explosion_ticks must be between 1 and bomb_fuse (%d), got %d", c.BombFuse, c.ExplosionTicks)
	}
	if c.BombRadius < 0 {
		return fmt.Errorf("config validation: bomb_radius must not be negative, got %d", c.BombRadius)
	}
	if c.BombCapacity < 0 {
		return fmt.Errorf("config validation: bomb_capacity must not be negative, got %d", c.BombCapacity)
	}
	if c.RockDensity < 0 || c.RockDensity > 1 {
		return fmt.Errorf("config validation: rock_density must be between 0 and 1, got %g", c.RockDensity)
	}
	return nil
}

// LoadConfig reads a JSON file over DefaultConfig. Fields absent from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
