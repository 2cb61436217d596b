// Package config loads and resolves sushi's tunable engine parameters:
// struct defaults overlaid by a TOML file. No CLI flag overrides these
// values.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tp7/sushi-go/internal/errorsx"
	"github.com/tp7/sushi-go/internal/types"
)

// Config holds every tunable the synchronization engine reads. The
// koanf tags are the key names a TOML file uses to override each field.
type Config struct {
	SampleRate int `koanf:"sample_rate"`

	AllowedError float64 `koanf:"allowed_error"`
	MaxGroupStd  float64 `koanf:"max_group_std"`

	NormalWindow float64 `koanf:"normal_window"`
	MaxWindow    float64 `koanf:"max_window"`
	RewindThresh int     `koanf:"rewind_thresh"`

	MaxTsDuration float64 `koanf:"max_ts_duration"`
	MaxTsDistance float64 `koanf:"max_ts_distance"`

	MinGroupSize int `koanf:"min_group_size"`

	SmoothRadius int `koanf:"smooth_radius"`

	MaxKfDistance int `koanf:"max_kf_distance"`

	CacheEnabled bool `koanf:"cache_enabled"`
}

// Default returns the engine's built-in defaults, used unless a TOML
// file overrides them.
func Default() *Config {
	return &Config{
		SampleRate: types.DefaultSampleRate,

		AllowedError: 0.01,
		MaxGroupStd:  0.025,

		NormalWindow: 5,
		MaxWindow:    30,
		RewindThresh: 3,

		MaxTsDuration: 1,
		MaxTsDistance: 1,

		MinGroupSize: 10,

		SmoothRadius: 3,

		MaxKfDistance: 2,

		CacheEnabled: true,
	}
}

// Load builds a Config from built-in defaults overlaid by tomlPath, if
// it exists. A missing file is not an error; a malformed one is.
func Load(tomlPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, errorsx.Wrap(err, "loading default config")
	}

	if err := k.Load(file.Provider(tomlPath), toml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return nil, errorsx.BadFormat(tomlPath, err.Error())
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errorsx.Wrap(err, "unmarshaling config")
	}
	return cfg, nil
}
