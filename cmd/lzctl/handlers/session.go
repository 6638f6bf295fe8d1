// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/lzctl/internal/baseline"
	"github.com/imamik/lzctl/internal/config"
	"github.com/imamik/lzctl/internal/landingzone"
	"github.com/imamik/lzctl/internal/logging"
	"github.com/imamik/lzctl/internal/operation"
	"github.com/imamik/lzctl/internal/organization"
	awsplatform "github.com/imamik/lzctl/internal/platform/aws"
	s3platform "github.com/imamik/lzctl/internal/platform/s3"
	"github.com/imamik/lzctl/internal/report"
	"github.com/imamik/lzctl/internal/rollout"
)

// Options are the global flags shared by every command.
type Options struct {
	ConfigPath string
	Region     string
	Profile    string
	AssumeRole string
	LogFormat  string
	Verbose    bool
}

// ControlTower is the Control Tower surface used by lzctl.
type ControlTower interface {
	landingzone.API
	baseline.ControlTowerAPI
}

// Organizations is the AWS Organizations surface used by lzctl.
type Organizations interface {
	organization.API
	baseline.OrganizationsAPI
}

// Services are the remote APIs a session talks to. Objects is nil when no
// report bucket is configured.
type Services struct {
	ControlTower  ControlTower
	Organizations Organizations
	Objects       report.ObjectStore
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// newLogger creates the run logger.
	newLogger = func(format logging.Format, verbose bool) (logr.Logger, func()) {
		return logging.New(logging.Options{Format: format, Verbose: verbose})
	}

	// newServices creates the AWS service clients.
	newServices = func(ctx context.Context, cfg *config.Config) (*Services, error) {
		clients, err := awsplatform.NewClients(ctx, awsplatform.Options{
			Region:        cfg.AWS.Region,
			Profile:       cfg.AWS.Profile,
			AssumeRoleARN: cfg.AWS.AssumeRoleARN,
		})
		if err != nil {
			return nil, err
		}

		svc := &Services{
			ControlTower:  clients.ControlTower,
			Organizations: clients.Organizations,
		}
		if cfg.Report.Enabled() {
			svc.Objects = s3platform.NewClient(clients.S3)
		}
		return svc, nil
	}

	// newPoller creates the operation poller.
	newPoller = func(log logr.Logger, interval time.Duration) *operation.Poller {
		return operation.NewPoller(log, operation.WithInterval(interval))
	}

	// stdout receives command output (for testing injection).
	stdout io.Writer = os.Stdout
)

// session holds everything a command needs after startup.
type session struct {
	cfg   *config.Config
	log   logr.Logger
	flush func()

	reconciler   *landingzone.Reconciler
	enumerator   *organization.Enumerator
	registrar    *baseline.Registrar
	orchestrator *rollout.Orchestrator
	metrics      *rollout.Metrics
	reports      *report.Store
}

// openSession loads the configuration, applies flag overrides and wires the
// reconciliation components. Configuration errors are returned before any
// AWS client is created.
func openSession(ctx context.Context, opts *Options) (*session, error) {
	format, err := logging.ParseFormat(opts.LogFormat)
	if err != nil {
		return nil, err
	}
	log, flush := newLogger(format, opts.Verbose)

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		flush()
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	applyOverrides(cfg, opts)
	for _, key := range cfg.UnknownKeys {
		log.Info("Ignoring unknown configuration key", "key", key)
	}

	svc, err := newServices(ctx, cfg)
	if err != nil {
		flush()
		return nil, err
	}

	poller := newPoller(log, cfg.PollInterval)
	s := &session{
		cfg:        cfg,
		log:        log,
		flush:      flush,
		reconciler: landingzone.NewReconciler(svc.ControlTower, poller, log.WithName("landingzone")),
		enumerator: organization.NewEnumerator(svc.Organizations, log.WithName("organization")),
		metrics:    rollout.NewMetrics(),
	}
	resolver := baseline.NewResolver(svc.Organizations, svc.ControlTower, log.WithName("baseline"))
	s.registrar = baseline.NewRegistrar(resolver, svc.ControlTower, poller, log.WithName("baseline"))
	s.orchestrator = rollout.NewOrchestrator(s.reconciler, s.enumerator, s.registrar, s.metrics, log.WithName("rollout"))

	if svc.Objects != nil {
		s.reports = report.NewStore(svc.Objects, cfg.Report.Bucket, cfg.Report.Prefix, log.WithName("report"))
	}
	return s, nil
}

// close flushes buffered log entries.
func (s *session) close() {
	s.flush()
}

// input returns the rollout input derived from configuration.
func (s *session) input(only []string) rollout.Input {
	return rollout.Input{
		Regions: s.cfg.Regions,
		SkipOUs: s.cfg.OUsToSkip,
		OnlyOUs: only,
	}
}

// finish records the result of a mutating command. Metrics and report
// failures are logged and never change the command's result.
func (s *session) finish(ctx context.Context, command string, summary *rollout.Summary, runErr error, metricsFile string) {
	logSummary(s.log, summary, runErr)

	if metricsFile == "" {
		metricsFile = s.cfg.MetricsFile
	}
	if metricsFile != "" {
		if err := s.metrics.WriteTextfile(metricsFile); err != nil {
			s.log.Error(err, "Failed to write metrics")
		} else {
			s.log.Info("Metrics written", "path", metricsFile)
		}
	}

	if s.reports != nil {
		doc := report.NewDocument(command, version, summary, runErr)
		if _, err := s.reports.Upload(ctx, doc); err != nil {
			s.log.Error(err, "Failed to upload run report", "bucket", s.cfg.Report.Bucket)
		}
	}
}

func applyOverrides(cfg *config.Config, opts *Options) {
	if opts.Region != "" {
		cfg.AWS.Region = opts.Region
	}
	if opts.Profile != "" {
		cfg.AWS.Profile = opts.Profile
	}
	if opts.AssumeRole != "" {
		cfg.AWS.AssumeRoleARN = opts.AssumeRole
	}
}

func logSummary(log logr.Logger, summary *rollout.Summary, runErr error) {
	if summary == nil {
		return
	}
	succeeded, failed, skipped := summary.Counts()
	kv := []any{
		"duration", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second).String(),
		"discovered", summary.Discovered,
		"targeted", summary.Targeted,
		"succeeded", succeeded,
		"failed", failed,
		"skipped", skipped,
	}
	if summary.Regions != nil {
		kv = append(kv, "regionsUpdated", summary.Regions.Updated)
	}
	if runErr != nil {
		log.Error(runErr, "Run aborted", kv...)
		return
	}
	log.Info("Run finished", kv...)
	for _, u := range summary.Failed() {
		log.Info("OU not re-registered", "ou", u.Name, "id", u.ID, "outcome", u.Outcome, "message", u.Message)
	}
}
