package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/flo/internal/layout"
)

const (
	DefaultFormat    = "svg"
	DefaultServe     = "127.0.0.1:8040"
	DefaultFrameRate = 60
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the status command's configuration as read from
// .flo/status.yaml or .flo/status.toml.
type Config struct {
	Format    string       `yaml:"format" toml:"format"`
	Output    string       `yaml:"output,omitempty" toml:"output,omitempty"`
	Serve     string       `yaml:"serve" toml:"serve"`
	Seed      int64        `yaml:"seed" toml:"seed"`
	MaxTicks  int          `yaml:"max_ticks" toml:"max_ticks"`
	FrameRate int          `yaml:"frame_rate" toml:"frame_rate"`
	Reuse     bool         `yaml:"reuse" toml:"reuse"`
	Save      bool         `yaml:"save" toml:"save"`
	LogLevel  string       `yaml:"log_level" toml:"log_level"`
	LogFormat string       `yaml:"log_format" toml:"log_format"`
	Layout    LayoutConfig `yaml:"layout" toml:"layout"`
}

type LayoutConfig struct {
	Width          float64 `yaml:"width" toml:"width"`
	Height         float64 `yaml:"height" toml:"height"`
	Charge         float64 `yaml:"charge" toml:"charge"`
	LinkDistance   float64 `yaml:"link_distance" toml:"link_distance"`
	LinkStrength   float64 `yaml:"link_strength" toml:"link_strength"`
	Friction       float64 `yaml:"friction" toml:"friction"`
	Gravity        float64 `yaml:"gravity" toml:"gravity"`
	Theta          float64 `yaml:"theta" toml:"theta"`
	ChargeDistance float64 `yaml:"charge_distance,omitempty" toml:"charge_distance,omitempty"`
}

func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		Width:        layout.DefaultWidth,
		Height:       layout.DefaultHeight,
		Charge:       layout.DefaultCharge,
		LinkDistance: layout.DefaultLinkDistance,
		LinkStrength: layout.DefaultLinkStrength,
		Friction:     layout.DefaultFriction,
		Gravity:      layout.DefaultGravity,
		Theta:        layout.DefaultTheta,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Format:    DefaultFormat,
		Serve:     DefaultServe,
		FrameRate: DefaultFrameRate,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Layout:    DefaultLayout(),
	}
}

// Load reads path on top of the defaults. Files ending in .toml are TOML,
// everything else YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Find returns the first of .flo/status.yaml, .flo/status.yml and
// .flo/status.toml under root, or "" when none exists.
func Find(root string) string {
	for _, name := range []string{"status.yaml", "status.yml", "status.toml"} {
		path := filepath.Join(root, ".flo", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadEnv reads the optional .env files into the process environment and
// applies FLO_* overrides to cfg. Missing .env files are ignored.
func LoadEnv(cfg *Config, files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg.Serve = getEnv("FLO_SERVE", cfg.Serve)
	cfg.Format = getEnv("FLO_FORMAT", cfg.Format)
	cfg.LogLevel = getEnv("FLO_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("FLO_LOG_FORMAT", cfg.LogFormat)
	cfg.Seed = int64(getEnvAsInt("FLO_SEED", int(cfg.Seed)))
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

// ToLayout converts the file settings into a simulation config.
func (c *Config) ToLayout() layout.Config {
	lc := layout.DefaultConfig()
	lc.Width = c.Layout.Width
	lc.Height = c.Layout.Height
	lc.Charge = c.Layout.Charge
	lc.LinkDistance = c.Layout.LinkDistance
	lc.LinkStrength = c.Layout.LinkStrength
	lc.Friction = c.Layout.Friction
	lc.Gravity = c.Layout.Gravity
	lc.Theta = c.Layout.Theta
	lc.ChargeDistance = c.Layout.ChargeDistance
	lc.Seed = c.Seed
	lc.MaxTicks = c.MaxTicks
	return lc
}
