// Package engineconfig loads the engine's tunables -- handle capacity,
// position-buffer capacity, propagation worker count, and hybrid
// controller defaults -- from a TOML file via viper
// (SetConfigName/AddConfigPath/ReadInConfig), as an explicit loader so
// a host application can construct more than one World with different
// tunables in the same process.
package engineconfig

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the tunables read from <dir>/engine.toml.
type Config struct {
	MaxLiveHandles     int
	PositionCapacity   int
	PropagationWorkers int

	SGP4IntervalMS  float64
	StaggerOffsetMS float64
	JumpThresholdS  float64
	UseRK2          bool

	LogLevel string
}

// defaults returns the engine's out-of-the-box tunables: a 100,000-handle
// ceiling, single-worker propagation, and the hybrid controller's
// documented defaults.
func defaults() Config {
	return Config{
		MaxLiveHandles:     100000,
		PositionCapacity:   100000,
		PropagationWorkers: 1,
		SGP4IntervalMS:     60000,
		StaggerOffsetMS:    0,
		JumpThresholdS:     1000,
		UseRK2:             true,
		LogLevel:           "info",
	}
}

// Load reads <dir>/engine.toml via viper and overlays it onto Load's
// defaults. A missing file is not an error: Load treats "no config
// file" as "use the documented defaults," since an embedding real-time
// application should not hard-fail at startup over an absent config
// file.
func Load(dir string) (Config, error) {
	cfg := defaults()
	if dir == "" {
		dir = os.Getenv("COROSIM_CONFIG_DIR")
	}
	if dir == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigName("engine")
	v.AddConfigPath(dir)
	v.SetDefault("engine.max_live_handles", cfg.MaxLiveHandles)
	v.SetDefault("engine.position_capacity", cfg.PositionCapacity)
	v.SetDefault("engine.propagation_workers", cfg.PropagationWorkers)
	v.SetDefault("hybrid.sgp4_interval_ms", cfg.SGP4IntervalMS)
	v.SetDefault("hybrid.stagger_offset_ms", cfg.StaggerOffsetMS)
	v.SetDefault("hybrid.jump_threshold_s", cfg.JumpThresholdS)
	v.SetDefault("hybrid.use_rk2", cfg.UseRK2)
	v.SetDefault("log.level", cfg.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return cfg, nil
		}
		return cfg, fmt.Errorf("engineconfig: reading %s/engine.toml: %w", dir, err)
	}

	cfg.MaxLiveHandles = v.GetInt("engine.max_live_handles")
	cfg.PositionCapacity = v.GetInt("engine.position_capacity")
	cfg.PropagationWorkers = v.GetInt("engine.propagation_workers")
	cfg.SGP4IntervalMS = v.GetFloat64("hybrid.sgp4_interval_ms")
	cfg.StaggerOffsetMS = v.GetFloat64("hybrid.stagger_offset_ms")
	cfg.JumpThresholdS = v.GetFloat64("hybrid.jump_threshold_s")
	cfg.UseRK2 = v.GetBool("hybrid.use_rk2")
	cfg.LogLevel = v.GetString("log.level")
	return cfg, nil
}
