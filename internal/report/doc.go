// Package report stores run summaries as JSON documents in S3.
package report
