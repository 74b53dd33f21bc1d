// Package config loads game-vision settings from a YAML file and
// GAMEVISION_* environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ironsheep/game-vision/internal/detection"
	"github.com/ironsheep/game-vision/internal/facts"
	"github.com/ironsheep/game-vision/internal/ocr"
)

// EnvPrefix prefixes every environment override, e.g.
// GAMEVISION_THRESHOLDS_RUNE=0.65.
const EnvPrefix = "GAMEVISION"

type Config struct {
	Log        LogConfig                 `mapstructure:"log"`
	Assets     AssetsConfig              `mapstructure:"assets"`
	OCR        ocr.Options               `mapstructure:"ocr"`
	Thresholds facts.Thresholds          `mapstructure:"thresholds"`
	Minimap    detection.MinimapParams   `mapstructure:"minimap"`
	Transform  detection.TransformParams `mapstructure:"transform"`
	Text       detection.TextParams      `mapstructure:"text"`
	Server     ServerConfig              `mapstructure:"server"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AssetsConfig struct {
	// Dir holds the templates/ and models/ trees.
	Dir string `mapstructure:"dir"`
	// Preload decodes every template at startup.
	Preload bool `mapstructure:"preload"`
}

type ServerConfig struct {
	// HistoryCapacity is how many tool results vision_history keeps.
	HistoryCapacity int `mapstructure:"history_capacity"`
}

// Default returns the tuned configuration.
func Default() *Config {
	return &Config{
		Log:        LogConfig{Level: "info"},
		Assets:     AssetsConfig{Dir: "./assets", Preload: true},
		OCR:        ocr.Options{Language: "eng", Whitelist: "0123456789"},
		Thresholds: facts.DefaultThresholds(),
		Minimap:    detection.DefaultMinimapParams(),
		Transform:  detection.DefaultTransformParams(),
		Text:       detection.DefaultTextParams(),
		Server:     ServerConfig{HistoryCapacity: 32},
	}
}

// Load reads configPath and applies environment overrides. An empty path
// reads the environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key of Default so environment overrides
// apply even without a config file.
func setDefaults(v *viper.Viper) {
	setStructDefaults(v, "", reflect.ValueOf(*Default()))
}

func setStructDefaults(v *viper.Viper, prefix string, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		key := rt.Field(i).Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		field := rv.Field(i)
		if field.Kind() == reflect.Struct {
			setStructDefaults(v, key, field)
			continue
		}
		v.SetDefault(key, field.Interface())
	}
}

// Validate rejects settings no detector can work with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Assets.Dir == "" {
		errs = append(errs, errors.New("assets.dir is required"))
	}
	if c.Server.HistoryCapacity <= 0 {
		errs = append(errs, fmt.Errorf("server.history_capacity must be positive, got %d", c.Server.HistoryCapacity))
	}

	th := reflect.ValueOf(c.Thresholds)
	for i := 0; i < th.NumField(); i++ {
		if f := th.Field(i).Float(); f <= 0 || f > 1 {
			name := th.Type().Field(i).Tag.Get("mapstructure")
			errs = append(errs, fmt.Errorf("thresholds.%s must be in (0, 1], got %v", name, f))
		}
	}
	if c.Minimap.Confidence <= 0 || c.Minimap.Confidence > 1 {
		errs = append(errs, fmt.Errorf("minimap.confidence must be in (0, 1], got %v", c.Minimap.Confidence))
	}
	if c.Minimap.ExpandFactor < 0 {
		errs = append(errs, fmt.Errorf("minimap.expand_factor must not be negative, got %v", c.Minimap.ExpandFactor))
	}
	return errors.Join(errs...)
}

// LogLevel returns the parsed log level, or info when it does not parse.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// RegistryOptions maps the detection sections onto facts.Options.
func (c *Config) RegistryOptions() facts.Options {
	return facts.Options{
		Thresholds: c.Thresholds,
		Minimap:    c.Minimap,
		Transform:  c.Transform,
		Text:       c.Text,
		OCR:        c.OCR,
	}
}
