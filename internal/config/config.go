package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	DefaultName    = "rolling_disc"
	DefaultDataDir = "mbtree-data"
)

type Config struct {
	Name       string            `yaml:"name"`
	Ground     ComponentConfig   `yaml:"ground"`
	Wheel      ComponentConfig   `yaml:"wheel"`
	Tire       ComponentConfig   `yaml:"tire"`
	WheelLoads []ComponentConfig `yaml:"wheel_loads"`
	TireLoads  []ComponentConfig `yaml:"tire_loads"`
	DataDir    string            `yaml:"data_dir"`
}

type ComponentConfig struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:    DefaultName,
		Ground:  ComponentConfig{Kind: "flat", Name: "ground"},
		Wheel:   ComponentConfig{Kind: "knife_edge", Name: "disc"},
		Tire:    ComponentConfig{Kind: "nonholonomic", Name: "tire"},
		DataDir: DefaultDataDir,
	}
}

var presets = map[string]func() *Config{
	"rolling_disc": DefaultConfig,
	"rolling_disc_gravity": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "rolling_disc_gravity"
		cfg.WheelLoads = []ComponentConfig{{Kind: "gravity", Name: "gravity"}}
		return cfg
	},
	"rolling_disc_normal_force": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "rolling_disc_normal_force"
		cfg.WheelLoads = []ComponentConfig{{Kind: "gravity", Name: "gravity"}}
		cfg.TireLoads = []ComponentConfig{{Kind: "normal_force", Name: "normal_force"}}
		return cfg
	},
}

func Preset(name string) (*Config, error) {
	fn, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return fn(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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
	if c.Name == "" {
		return fmt.Errorf("config: empty model name")
	}
	for _, cc := range c.components() {
		if cc.Kind == "" || cc.Name == "" {
			return fmt.Errorf("config: component with empty kind or name in %q", c.Name)
		}
	}
	return nil
}

func (c *Config) components() []ComponentConfig {
	out := []ComponentConfig{c.Ground, c.Wheel, c.Tire}
	out = append(out, c.WheelLoads...)
	return append(out, c.TireLoads...)
}
