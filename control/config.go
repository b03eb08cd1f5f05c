// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Pacing configuration: TOML file loading with environment overrides.

package control

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment override keys.
const (
	EnvDebugName      = "FRAMEPACE_DEBUG_NAME"
	EnvInitialCredits = "FRAMEPACE_INITIAL_CREDITS"
	EnvInterval       = "FRAMEPACE_INTERVAL"
	EnvParkPolicy     = "FRAMEPACE_PARK_POLICY"
)

// Park policy names accepted in config files and the environment.
const (
	ParkPolicyCoalesce = "coalesce"
	ParkPolicyStrict   = "strict"
)

// Duration wraps time.Duration so TOML values like "16.6ms" parse.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// PacingConfig holds the tunables of one session handle.
type PacingConfig struct {
	// DebugName is the server-visible session name.
	DebugName string `toml:"debug_name"`

	// InitialCredits is the present budget granted at connect time.
	InitialCredits uint32 `toml:"initial_credits"`

	// PresentationInterval is the default frame interval used for
	// timing estimates until the server refines it.
	PresentationInterval Duration `toml:"presentation_interval"`

	// ParkPolicy selects how a present requested at zero credit while
	// another is already parked is handled: "coalesce" or "strict".
	ParkPolicy string `toml:"park_policy"`
}

// DefaultConfig returns the runtime defaults: one credit, 60Hz
// interval, coalescing park policy.
func DefaultConfig() PacingConfig {
	return PacingConfig{
		DebugName:            "framepace",
		InitialCredits:       1,
		PresentationInterval: Duration{16666667 * time.Nanosecond},
		ParkPolicy:           ParkPolicyCoalesce,
	}
}

// LoadConfig reads a TOML file over the defaults and applies
// environment overrides. An empty path yields defaults plus overrides.
func LoadConfig(path string) (PacingConfig, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return PacingConfig{}, fmt.Errorf("control: decode %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return PacingConfig{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the session handle cannot honor.
func (c PacingConfig) Validate() error {
	if strings.TrimSpace(c.DebugName) == "" {
		return fmt.Errorf("control: missing debug_name")
	}
	if c.PresentationInterval.Duration <= 0 {
		return fmt.Errorf("control: presentation_interval must be positive")
	}
	switch c.ParkPolicy {
	case ParkPolicyCoalesce, ParkPolicyStrict:
	default:
		return fmt.Errorf("control: unknown park_policy %q", c.ParkPolicy)
	}
	return nil
}

func applyEnvOverrides(cfg *PacingConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvDebugName)); v != "" {
		cfg.DebugName = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvInitialCredits)); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.InitialCredits = uint32(n)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvInterval)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PresentationInterval = Duration{d}
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvParkPolicy)); v != "" {
		cfg.ParkPolicy = strings.ToLower(v)
	}
}
