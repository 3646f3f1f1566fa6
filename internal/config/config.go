package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cosmiclab/internal/physics"
)

const (
	DefaultDt                 = 0.08
	DefaultDuration           = 60.0
	DefaultGravity            = 1.0
	DefaultCollisionThreshold = 0.8
	DefaultScenario           = "solar-system"
	DefaultAPIHost            = "localhost"
	DefaultAPIPort            = 8000
	DefaultStepRate           = 60
)

type Config struct {
	Scenario           string  `yaml:"scenario"`
	Dt                 float64 `yaml:"dt"`
	Duration           float64 `yaml:"duration"`
	Seed               int64   `yaml:"seed"`
	Gravity            float64 `yaml:"gravity"`
	CollisionThreshold float64 `yaml:"collision_threshold"`
	Strategy           string  `yaml:"strategy"`

	// StepRate is how many engine steps per wall-clock second the
	// runner targets in live and serve modes.
	StepRate int `yaml:"step_rate"`

	API APIConfig `yaml:"api"`
}

type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func Default() *Config {
	return &Config{
		Scenario:           DefaultScenario,
		Dt:                 DefaultDt,
		Duration:           DefaultDuration,
		Gravity:            DefaultGravity,
		CollisionThreshold: DefaultCollisionThreshold,
		Strategy:           "auto",
		StepRate:           DefaultStepRate,
		API: APIConfig{
			Host: DefaultAPIHost,
			Port: DefaultAPIPort,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.CollisionThreshold <= 0 {
		return fmt.Errorf("collision_threshold must be positive, got %f", c.CollisionThreshold)
	}
	if c.StepRate <= 0 {
		return fmt.Errorf("step_rate must be positive, got %d", c.StepRate)
	}
	if _, err := physics.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	return nil
}

// NewEngine builds an engine configured per c.
func (c *Config) NewEngine() (*physics.Engine, error) {
	strategy, err := physics.ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}
	e := physics.NewEngine(c.Gravity)
	e.SetCollisionThreshold(c.CollisionThreshold)
	e.SetStrategy(strategy)
	return e, nil
}
