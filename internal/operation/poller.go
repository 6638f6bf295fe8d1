package operation

import (
	"context"
	"time"

	"github.com/go-logr/logr"
)

// DefaultInterval is the wait between two status fetches.
const DefaultInterval = 60 * time.Second

// StatusFunc fetches the current status of the operation with the given ID.
// The returned message is the control plane's error or status message, if any.
type StatusFunc func(ctx context.Context, id string) (Status, string, error)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Poller blocks until an operation reaches a terminal status.
type Poller struct {
	interval time.Duration
	sleep    SleepFunc
	log      logr.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the wait between status fetches.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithSleep replaces the function used to wait between fetches.
func WithSleep(fn SleepFunc) Option {
	return func(p *Poller) {
		if fn != nil {
			p.sleep = fn
		}
	}
}

// NewPoller creates a Poller logging to log.
func NewPoller(log logr.Logger, opts ...Option) *Poller {
	p := &Poller{
		interval: DefaultInterval,
		sleep:    sleepContext,
		log:      log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait fetches the status of operation id until it is terminal.
//
// The first fetch happens immediately; every non-terminal observation is
// followed by one sleep. A fetch error ends the wait with StatusError and the
// error text as message, without retrying.
func (p *Poller) Wait(ctx context.Context, kind, id string, fetch StatusFunc) Result {
	log := p.log.WithValues("kind", kind, "operation", id)
	result := Result{Kind: kind, ID: id}

	for {
		status, msg, err := fetch(ctx, id)
		result.Polls++
		if err != nil {
			log.Error(err, "Failed to check operation status")
			result.Status = StatusError
			result.Message = err.Error()
			return result
		}

		result.Status = status
		result.Message = msg

		if status.IsTerminal() {
			if status.IsSuccess() {
				log.Info("Operation succeeded", "status", status)
			} else {
				log.Info("Operation failed", "status", status, "message", msg)
			}
			return result
		}

		log.Info("Operation still in progress, waiting", "status", status, "interval", p.interval)
		if err := p.sleep(ctx, p.interval); err != nil {
			log.Error(err, "Stopped waiting for operation")
			result.Status = StatusError
			result.Message = err.Error()
			return result
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
