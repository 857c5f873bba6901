// Package config loads the generate subcommand's distribution parameters
// from YAML, the same load-with-environment-override shape the teacher's
// internal/config package used for the log shipper's settings.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/cdoepmann/ppcalc-go/pkg/apperr"
)

const configFileEnvVar = "PPCALC_CONFIG_FILE"

// GenerateConfig describes the synthetic-trace generator's distributions,
// mirroring original_source/ppcalc/src/cli.rs's Parameters.
type GenerateConfig struct {
	NumSources             int           `yaml:"num_sources"`
	MessagesPerSourceMean  float64       `yaml:"messages_per_source_mean"`
	MessagesPerSourceStdev float64       `yaml:"messages_per_source_stdev"`
	InterMessageDelayMean  time.Duration `yaml:"inter_message_delay_mean"`
	InterMessageDelayStdev time.Duration `yaml:"inter_message_delay_stdev"`
	NumDestinations        int           `yaml:"num_destinations"`
	DestinationSelection   string        `yaml:"destination_selection"` // "uniform" | "roundrobin" | "normal"
	NetworkDelayMin        time.Duration `yaml:"network_delay_min"`
	NetworkDelayMax        time.Duration `yaml:"network_delay_max"`
}

// Default returns a small, self-consistent configuration suitable when the
// caller supplies no --config file.
func Default() GenerateConfig {
	return GenerateConfig{
		NumSources:             10,
		MessagesPerSourceMean:  20,
		MessagesPerSourceStdev: 4,
		InterMessageDelayMean:  2 * time.Second,
		InterMessageDelayStdev: 500 * time.Millisecond,
		NumDestinations:        10,
		DestinationSelection:   "uniform",
		NetworkDelayMin:        10 * time.Millisecond,
		NetworkDelayMax:        200 * time.Millisecond,
	}
}

// Load reads a GenerateConfig from path, falling back to the
// PPCALC_CONFIG_FILE environment variable when path is empty, and to
// Default() when neither is set.
func Load(path string) (GenerateConfig, error) {
	if path == "" {
		path = os.Getenv(configFileEnvVar)
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return GenerateConfig{}, apperr.NewIOError("read", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GenerateConfig{}, apperr.NewConfigError("parsing " + path + ": " + err.Error())
	}

	return cfg, cfg.Validate()
}

// Validate rejects distribution parameters that cannot produce a usable
// trace.
func (c GenerateConfig) Validate() error {
	switch {
	case c.NumSources <= 0:
		return apperr.NewConfigError("num_sources must be positive")
	case c.NumDestinations <= 0:
		return apperr.NewConfigError("num_destinations must be positive")
	case c.NetworkDelayMin > c.NetworkDelayMax:
		return apperr.NewConfigError("network_delay_min must not exceed network_delay_max")
	case c.DestinationSelection != "uniform" && c.DestinationSelection != "roundrobin" && c.DestinationSelection != "normal":
		return apperr.NewConfigError("destination_selection must be one of uniform, roundrobin, normal")
	}
	return nil
}
