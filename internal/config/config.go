// Package config loads run configuration from a YAML file, falling back to
// the standard defaults when the file is absent. Values mirror the original
// project's configuration surface: classroom geometry, per-strategy child
// counts, and timing constants.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/candy-chase/internal/agents"
)

// Config is the full run configuration.
type Config struct {
	Classroom ClassroomConfig `yaml:"classroom"`
	Agents    AgentsConfig    `yaml:"agents"`
	Timing    TimingConfig    `yaml:"timing"`
}

// ClassroomConfig sets grid and safe-zone geometry.
type ClassroomConfig struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	SafeZoneWidth  int `yaml:"safe_zone_width"`
	SafeZoneHeight int `yaml:"safe_zone_height"`
}

// AgentsConfig sets how many children of each strategy to seat, plus the
// teacher count.
type AgentsConfig struct {
	RandomWalkers   int `yaml:"random_walkers"`
	CandySeekers    int `yaml:"candy_seekers"`
	Avoiders        int `yaml:"avoiders"`
	Directional     int `yaml:"directional"`
	StrategicTimers int `yaml:"strategic_timers"`
	WallHuggers     int `yaml:"wall_huggers"`
	GroupSeekers    int `yaml:"group_seekers"`
	CandyHoarders   int `yaml:"candy_hoarders"`
	SafeExplorers   int `yaml:"safe_explorers"`
	Unpredictable   int `yaml:"unpredictable"`
	Teachers        int `yaml:"teachers"`
}

// TimingConfig sets the sim-time constants.
type TimingConfig struct {
	// TickStep is how much sim-time one tick advances.
	TickStep float64 `yaml:"tick_step"`
	// CandySpawnInterval is the minimum sim-time between candy spawns.
	CandySpawnInterval float64 `yaml:"candy_spawn_interval"`
	// MaxCandies caps simultaneous candies.
	MaxCandies int `yaml:"max_candies"`
	// ChildCooldown is the post-capture immobilization.
	ChildCooldown float64 `yaml:"child_cooldown"`
	// StrategicTimingMin/Max bound the per-agent move interval.
	StrategicTimingMin float64 `yaml:"strategic_timing_min"`
	StrategicTimingMax float64 `yaml:"strategic_timing_max"`
}

// Default returns the standard configuration: a 30×30 room with a 6×6 safe
// zone, 39 children across the ten strategies, and one teacher.
func Default() Config {
	return Config{
		Classroom: ClassroomConfig{
			Width:          30,
			Height:         30,
			SafeZoneWidth:  6,
			SafeZoneHeight: 6,
		},
		Agents: AgentsConfig{
			RandomWalkers:   5,
			CandySeekers:    5,
			Avoiders:        5,
			Directional:     4,
			StrategicTimers: 4,
			WallHuggers:     4,
			GroupSeekers:    3,
			CandyHoarders:   3,
			SafeExplorers:   3,
			Unpredictable:   3,
			Teachers:        1,
		},
		Timing: TimingConfig{
			TickStep:           0.5,
			CandySpawnInterval: 3,
			MaxCandies:         5,
			ChildCooldown:      5.0,
			StrategicTimingMin: 0.5,
			StrategicTimingMax: 2.0,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects geometry and timing values the simulation cannot run
// with. Grid/safe-zone fit is re-checked at classroom construction.
func (c Config) Validate() error {
	if c.Classroom.Width <= 0 || c.Classroom.Height <= 0 {
		return fmt.Errorf("classroom dimensions must be positive, got %dx%d", c.Classroom.Width, c.Classroom.Height)
	}
	if c.Classroom.SafeZoneWidth <= 0 || c.Classroom.SafeZoneHeight <= 0 {
		return fmt.Errorf("safe zone dimensions must be positive, got %dx%d", c.Classroom.SafeZoneWidth, c.Classroom.SafeZoneHeight)
	}
	if c.Classroom.SafeZoneWidth > c.Classroom.Width || c.Classroom.SafeZoneHeight > c.Classroom.Height {
		return fmt.Errorf("safe zone %dx%d exceeds classroom %dx%d",
			c.Classroom.SafeZoneWidth, c.Classroom.SafeZoneHeight, c.Classroom.Width, c.Classroom.Height)
	}
	if c.Timing.TickStep <= 0 {
		return fmt.Errorf("tick_step must be positive, got %v", c.Timing.TickStep)
	}
	if c.Timing.CandySpawnInterval <= 0 || c.Timing.MaxCandies <= 0 {
		return fmt.Errorf("candy timing must be positive, got interval %v cap %d",
			c.Timing.CandySpawnInterval, c.Timing.MaxCandies)
	}
	if c.Timing.ChildCooldown <= 0 {
		return fmt.Errorf("child_cooldown must be positive, got %v", c.Timing.ChildCooldown)
	}
	if c.Timing.StrategicTimingMin <= 0 || c.Timing.StrategicTimingMax < c.Timing.StrategicTimingMin {
		return fmt.Errorf("strategic timing range invalid: [%v, %v]",
			c.Timing.StrategicTimingMin, c.Timing.StrategicTimingMax)
	}
	if c.Agents.Teachers < 0 {
		return fmt.Errorf("teacher count must be non-negative, got %d", c.Agents.Teachers)
	}
	return nil
}

// StrategyCounts returns the per-strategy child counts keyed by enum.
func (c Config) StrategyCounts() map[agents.Strategy]int {
	return map[agents.Strategy]int{
		agents.StrategyRandomWalk:      c.Agents.RandomWalkers,
		agents.StrategyCandySeeker:     c.Agents.CandySeekers,
		agents.StrategyAvoidance:       c.Agents.Avoiders,
		agents.StrategyDirectionalBias: c.Agents.Directional,
		agents.StrategyStrategicTiming: c.Agents.StrategicTimers,
		agents.StrategyWallHugger:      c.Agents.WallHuggers,
		agents.StrategyGroupSeeker:     c.Agents.GroupSeekers,
		agents.StrategyCandyHoarder:    c.Agents.CandyHoarders,
		agents.StrategySafeExplorer:    c.Agents.SafeExplorers,
		agents.StrategyUnpredictable:   c.Agents.Unpredictable,
	}
}
