package config

import "time"

// Defaults applied when the configuration leaves a value unset.
const (
	DefaultPath         = "config.yaml"
	DefaultPollInterval = 60 * time.Second
	DefaultReportPrefix = "lzctl/runs"
)

// Required top-level keys.
const (
	KeyRegions   = "regions"
	KeyOUsToSkip = "ous_to_skip"
)
