package qcircuit

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// HardMaxQubits bounds MaxQubits regardless of configuration. A 30 qubit
// register already holds 2^30 amplitudes of 16 bytes each.
const HardMaxQubits = 30

type Config struct {
	MaxQubits         int
	Epsilon           float64
	Tolerance         float64
	Shots             int
	Seed              uint64
	Workers           int
	SchedulingTimeout time.Duration
}

func NewConfig() *Config {
	return &Config{
		MaxQubits:         20,
		Epsilon:           1e-12,
		Tolerance:         1e-9,
		Shots:             1024,
		Workers:           4,
		SchedulingTimeout: 10 * time.Second,
	}
}

/*
LoadConfig builds a Config from defaults, an optional config file and
QCIRCUIT_* environment variables, in increasing order of precedence.

An empty path skips the file. Keys are max_qubits, epsilon, tolerance,
shots, seed, workers and scheduling_timeout.
*/
func LoadConfig(path string) (*Config, error) {
	defaults := NewConfig()

	v := viper.New()
	v.SetEnvPrefix("qcircuit")
	v.AutomaticEnv()

	v.SetDefault("max_qubits", defaults.MaxQubits)
	v.SetDefault("epsilon", defaults.Epsilon)
	v.SetDefault("tolerance", defaults.Tolerance)
	v.SetDefault("shots", defaults.Shots)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("scheduling_timeout", defaults.SchedulingTimeout)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	config := &Config{
		MaxQubits:         v.GetInt("max_qubits"),
		Epsilon:           v.GetFloat64("epsilon"),
		Tolerance:         v.GetFloat64("tolerance"),
		Shots:             v.GetInt("shots"),
		Seed:              v.GetUint64("seed"),
		Workers:           v.GetInt("workers"),
		SchedulingTimeout: v.GetDuration("scheduling_timeout"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks every field against its hard bounds.
func (c *Config) Validate() error {
	switch {
	case c.MaxQubits <= 0 || c.MaxQubits > HardMaxQubits:
		return fmt.Errorf("%w: max_qubits %d not in [1, %d]", ErrInvalidConfig, c.MaxQubits, HardMaxQubits)
	case c.Epsilon < 0 || c.Epsilon >= 1:
		return fmt.Errorf("%w: epsilon %g not in [0, 1)", ErrInvalidConfig, c.Epsilon)
	case c.Tolerance <= 0:
		return fmt.Errorf("%w: tolerance %g must be positive", ErrInvalidConfig, c.Tolerance)
	case c.Shots <= 0:
		return fmt.Errorf("%w: shots %d must be positive", ErrInvalidConfig, c.Shots)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers %d must be positive", ErrInvalidConfig, c.Workers)
	}

	return nil
}

// orDefault lets every entry point accept a nil config.
func orDefault(config *Config) *Config {
	if config == nil {
		return NewConfig()
	}
	return config
}
