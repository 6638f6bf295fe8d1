package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoRegions is returned when the regions list is empty.
var ErrNoRegions = errors.New("regions must not be empty")

var (
	regionPattern  = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d+$`)
	roleARNPattern = regexp.MustCompile(`^arn:aws[a-z-]*:iam::\d{12}:role/.+$`)
)

// Validate checks the configuration for errors that would otherwise only
// show up after API calls were made.
func (c *Config) Validate() error {
	if len(c.Regions) == 0 {
		return ErrNoRegions
	}
	for i, r := range c.Regions {
		if !regionPattern.MatchString(r) {
			return fmt.Errorf("regions[%d]: %q is not a valid AWS region name", i, r)
		}
	}

	for i, name := range c.OUsToSkip {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("ous_to_skip[%d]: OU name must not be blank", i)
		}
	}

	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}

	if c.AWS.Region != "" && !regionPattern.MatchString(c.AWS.Region) {
		return fmt.Errorf("aws.region: %q is not a valid AWS region name", c.AWS.Region)
	}
	if c.AWS.AssumeRoleARN != "" && !roleARNPattern.MatchString(c.AWS.AssumeRoleARN) {
		return fmt.Errorf("aws.assume_role_arn: %q is not an IAM role ARN", c.AWS.AssumeRoleARN)
	}

	if c.Report.Prefix != "" && !c.Report.Enabled() {
		return fmt.Errorf("report.prefix is set but report.bucket is empty")
	}
	return nil
}
