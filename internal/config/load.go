package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrMissingKey is returned when a required key is absent from the file.
var ErrMissingKey = errors.New("missing required configuration key")

// LoadFile reads, parses and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(data)
}

// Load parses and validates configuration from YAML bytes.
func Load(data []byte) (*Config, error) {
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	if rawConfig == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, KeyRegions)
	}

	// ous_to_skip may be an empty list but must be present.
	for _, key := range []string{KeyRegions, KeyOUsToSkip} {
		if _, ok := rawConfig[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
	}

	var cfg Config
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			secondsToDurationHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		Metadata: &md,
		Result:   &cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(rawConfig); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.UnknownKeys = md.Unused
	sort.Strings(cfg.UnknownKeys)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ApplyDefaults fills unset optional values. Environment overrides take
// precedence over the file.
func (c *Config) ApplyDefaults() {
	if c.OUsToSkip == nil {
		c.OUsToSkip = []string{}
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if d, ok := pollIntervalFromEnv(); ok {
		c.PollInterval = d
	}
	if c.Report.Enabled() && c.Report.Prefix == "" {
		c.Report.Prefix = DefaultReportPrefix
	}
}

// secondsToDurationHook lets poll_interval be written as a plain number of seconds.
func secondsToDurationHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return data, nil
}
