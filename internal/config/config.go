// Package config holds the runtime configuration, loaded from an optional
// TOML file and overridden by environment variables and command flags.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/photo-telemetry/internal/container"
	"github.com/ironsheep/photo-telemetry/internal/imaging"
	"github.com/ironsheep/photo-telemetry/internal/stats"
	"github.com/ironsheep/photo-telemetry/internal/telemetry"
)

// EnvLogLevel overrides main.log_level when set.
const EnvLogLevel = "PHOTO_TELEMETRY_LOG_LEVEL"

type config struct {
	Main      configMain      `toml:"main"`
	Analysis  configAnalysis  `toml:"analysis"`
	Container configContainer `toml:"container"`
	Workers   configWorkers   `toml:"workers"`
}

type configMain struct {
	LogLevel string `toml:"log_level"`
}

type configAnalysis struct {
	MaxDimension      int `toml:"max_dimension"`
	HistogramBuckets  int `toml:"histogram_buckets"`
	WaveformColumns   int `toml:"waveform_columns"`
	ClipThreshold     int `toml:"clip_threshold"`
	DecodeLimitPixels int `toml:"decode_limit_pixels"`
}

type configContainer struct {
	MinPreviewBytes int `toml:"min_preview_bytes"`
	MaxMarkers      int `toml:"max_markers"`
}

type configWorkers struct {
	Count int `toml:"count"`
}

// Config holds the configuration data from the configuration file, the
// environment or flags.
//
// This variable sets the default values that a configuration file might
// overwrite.
var Config = Default()

// Default returns the built-in configuration.
func Default() config {
	return config{
		Main: configMain{
			LogLevel: "info",
		},
		Analysis: configAnalysis{
			MaxDimension:      1024,
			HistogramBuckets:  stats.DefaultBuckets,
			WaveformColumns:   stats.DefaultWaveColumns,
			ClipThreshold:     imaging.DefaultClipThreshold,
			DecodeLimitPixels: imaging.DefaultDecodeLimit,
		},
		Container: configContainer{
			MinPreviewBytes: 0,
			MaxMarkers:      container.DefaultMaxMarkers,
		},
		Workers: configWorkers{
			Count: runtime.NumCPU(),
		},
	}
}

// LoadConfiguration loads the configuration file into Config, then applies
// environment overrides. An empty path keeps the defaults.
func LoadConfiguration(configPath string) error {
	if configPath != "" {
		fd, err := os.Open(configPath)
		if err != nil {
			return fmt.Errorf("failed to open config: %w", err)
		}
		defer fd.Close()

		dec := toml.NewDecoder(fd).DisallowUnknownFields()
		if err := dec.Decode(&Config); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	}

	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		Config.Main.LogLevel = lvl
	}
	return Config.validate()
}

// WriteConfig writes the current configuration to filename, creating or
// truncating it.
func WriteConfig(filename string) error {
	fd, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	enc := toml.NewEncoder(fd).SetIndentTables(true)
	if err = enc.Encode(Config); err != nil {
		defer fd.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}

	return fd.Close()
}

func (c config) validate() error {
	switch {
	case c.Analysis.MaxDimension < 0:
		return fmt.Errorf("analysis.max_dimension must not be negative")
	case c.Analysis.HistogramBuckets < 1 || c.Analysis.HistogramBuckets > 256:
		return fmt.Errorf("analysis.histogram_buckets must be within 1-256")
	case c.Analysis.WaveformColumns < 1:
		return fmt.Errorf("analysis.waveform_columns must be positive")
	case c.Analysis.ClipThreshold < 1 || c.Analysis.ClipThreshold > 255:
		return fmt.Errorf("analysis.clip_threshold must be within 1-255")
	case c.Container.MinPreviewBytes < 0:
		return fmt.Errorf("container.min_preview_bytes must not be negative")
	case c.Workers.Count < 1:
		return fmt.Errorf("workers.count must be positive")
	}
	return nil
}

// LoaderOptions maps the configuration onto an imaging.Loader.
func (c config) LoaderOptions() imaging.LoaderOptions {
	return imaging.LoaderOptions{
		Decoder: imaging.NewDecoder(c.Analysis.DecodeLimitPixels),
		Container: container.Options{
			MinSize:    c.Container.MinPreviewBytes,
			MaxMarkers: c.Container.MaxMarkers,
		},
		MaxDimension: c.Analysis.MaxDimension,
	}
}

// TelemetryOptions maps the configuration onto telemetry.Analyze.
func (c config) TelemetryOptions() telemetry.Options {
	return telemetry.Options{
		Buckets:         c.Analysis.HistogramBuckets,
		WaveformColumns: c.Analysis.WaveformColumns,
	}
}
