// Package aws builds the AWS SDK clients used by lzctl and classifies AWS
// API errors.
//
// Clients are created from the default credential chain, optionally scoped to
// a shared config profile and an assumed role in the management account.
// Control Tower and Organizations calls are expected to run with management
// account credentials.
package aws
