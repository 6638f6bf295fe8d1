// Package logging builds the logr.Logger passed through lzctl.
//
// Logs are written by zap. Interactive terminals get the human-readable
// console encoder; anything else (CI, log shippers) gets JSON lines.
package logging
