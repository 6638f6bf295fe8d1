package config

import "time"

// Config holds the application configuration.
type Config struct {
	// Regions is the exact set of regions the landing zone must govern.
	Regions []string `mapstructure:"regions" yaml:"regions"`

	// OUsToSkip lists OU names that are never re-registered. Matching is
	// exact and case-sensitive.
	OUsToSkip []string `mapstructure:"ous_to_skip" yaml:"ous_to_skip"`

	// PollInterval is the fixed wait between operation status checks.
	// Default: 60s
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval,omitempty"`

	AWS    AWSConfig    `mapstructure:"aws" yaml:"aws,omitempty"`
	Report ReportConfig `mapstructure:"report" yaml:"report,omitempty"`

	// MetricsFile, when set, receives Prometheus metrics in the textfile
	// collector format at the end of apply.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file,omitempty"`

	// UnknownKeys lists configuration keys that were ignored while loading.
	UnknownKeys []string `mapstructure:"-" yaml:"-"`
}

// AWSConfig selects the credentials and region used for all API calls.
// Unset fields fall back to the SDK's default chain (AWS_REGION,
// AWS_PROFILE, shared config files, instance roles).
type AWSConfig struct {
	Region        string `mapstructure:"region" yaml:"region,omitempty"`
	Profile       string `mapstructure:"profile" yaml:"profile,omitempty"`
	AssumeRoleARN string `mapstructure:"assume_role_arn" yaml:"assume_role_arn,omitempty"`
}

// ReportConfig enables uploading a JSON run report to S3.
type ReportConfig struct {
	Bucket string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Prefix string `mapstructure:"prefix" yaml:"prefix,omitempty"`
}

// Enabled reports whether a report bucket is configured.
func (r ReportConfig) Enabled() bool {
	return r.Bucket != ""
}
