package config

import (
	"os"
	"time"
)

// EnvPollInterval overrides poll_interval, e.g. LZCTL_POLL_INTERVAL=30s.
const EnvPollInterval = "LZCTL_POLL_INTERVAL"

// pollIntervalFromEnv returns the poll interval set in the environment.
// Unset, unparsable and non-positive values are ignored.
func pollIntervalFromEnv() (time.Duration, bool) {
	val := os.Getenv(EnvPollInterval)
	if val == "" {
		return 0, false
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return 0, false
	}

	return d, true
}
