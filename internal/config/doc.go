// Package config loads the lzctl configuration file.
//
// The file is YAML. Two keys are required: regions, the regions the landing
// zone must govern, and ous_to_skip, the names of OUs whose baselines are
// never reset (it may be an empty list). Everything else is optional and
// can be overridden by command line flags or environment variables.
package config
