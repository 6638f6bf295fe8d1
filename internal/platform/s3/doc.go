// Package s3 wraps the S3 operations lzctl uses to store run reports.
package s3
