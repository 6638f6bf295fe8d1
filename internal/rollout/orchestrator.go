package rollout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/lzctl/internal/baseline"
	"github.com/imamik/lzctl/internal/landingzone"
	"github.com/imamik/lzctl/internal/operation"
	"github.com/imamik/lzctl/internal/organization"
)

// Errors that abort a run before any OU is processed.
var (
	ErrNoUnits            = errors.New("no OUs found or error retrieving OUs")
	ErrNoUnitsAfterFilter = errors.New("no OUs to process after filtering")
)

// RegionReconciler makes the landing zone govern the desired regions.
type RegionReconciler interface {
	Reconcile(ctx context.Context, desired []string) (*landingzone.Outcome, error)
}

// UnitEnumerator lists every OU of the organization.
type UnitEnumerator interface {
	Enumerate(ctx context.Context) ([]organization.Unit, error)
}

// UnitRegistrar resets an OU's enabled baseline and waits for the result.
type UnitRegistrar interface {
	Reset(ctx context.Context, unit organization.Unit) (string, error)
	Wait(ctx context.Context, operationID string) operation.Result
}

// Input is what a run needs from configuration.
type Input struct {
	Regions []string // desired governed regions
	SkipOUs []string // OU names never reset
	OnlyOUs []string // when set, only OUs with these names are reset
}

// Orchestrator runs reconciliation followed by OU rollout.
type Orchestrator struct {
	reconciler RegionReconciler
	enumerator UnitEnumerator
	registrar  UnitRegistrar
	metrics    *Metrics
	log        logr.Logger
	now        func() time.Time
}

// NewOrchestrator creates an Orchestrator. A nil metrics gets a private registry.
func NewOrchestrator(reconciler RegionReconciler, enumerator UnitEnumerator, registrar UnitRegistrar, metrics *Metrics, log logr.Logger) *Orchestrator {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Orchestrator{
		reconciler: reconciler,
		enumerator: enumerator,
		registrar:  registrar,
		metrics:    metrics,
		log:        log,
		now:        time.Now,
	}
}

// Run reconciles the governed regions, then resets every eligible OU.
//
// The returned Summary is non-nil even when err is set and describes how far
// the run got.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*Summary, error) {
	summary := &Summary{StartedAt: o.now()}

	err := o.run(ctx, in, summary, phaseRegions|phaseUnits)
	o.finish(summary, err)
	return summary, err
}

// RunRegions reconciles the governed regions only.
func (o *Orchestrator) RunRegions(ctx context.Context, in Input) (*Summary, error) {
	summary := &Summary{StartedAt: o.now()}

	err := o.run(ctx, in, summary, phaseRegions)
	o.finish(summary, err)
	return summary, err
}

// RunRollout resets every eligible OU without touching the landing zone.
func (o *Orchestrator) RunRollout(ctx context.Context, in Input) (*Summary, error) {
	summary := &Summary{StartedAt: o.now()}

	err := o.run(ctx, in, summary, phaseUnits)
	o.finish(summary, err)
	return summary, err
}

// Targets returns the OUs a rollout would reset, in processing order, and
// the number of OUs discovered before filtering.
func (o *Orchestrator) Targets(ctx context.Context, in Input) ([]organization.Unit, int, error) {
	all, err := o.enumerator.Enumerate(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to enumerate OUs: %w", err)
	}
	if len(all) == 0 {
		return nil, 0, ErrNoUnits
	}

	units := organization.FilterLogged(o.log, all, in.SkipOUs)
	if len(in.OnlyOUs) > 0 {
		units = only(units, in.OnlyOUs)
	}
	if len(units) == 0 {
		return nil, len(all), ErrNoUnitsAfterFilter
	}
	return units, len(all), nil
}

type phase uint8

const (
	phaseRegions phase = 1 << iota
	phaseUnits
)

func (o *Orchestrator) run(ctx context.Context, in Input, summary *Summary, phases phase) error {
	if phases&phaseRegions != 0 {
		o.log.Info("Reconciling governed regions")
		outcome, err := o.reconciler.Reconcile(ctx, in.Regions)
		if outcome != nil {
			summary.Regions = regionChange(outcome)
			if outcome.Result != nil {
				o.recordOperation(*outcome.Result, summary.StartedAt)
			}
		}
		if err != nil {
			o.log.Error(err, "Region reconciliation failed, aborting rollout")
			return fmt.Errorf("region reconciliation failed: %w", err)
		}
	}
	if phases&phaseUnits == 0 {
		return nil
	}

	o.log.Info("Starting OU reset process")
	units, discovered, err := o.Targets(ctx, in)
	summary.Discovered = discovered
	if err != nil {
		o.log.Error(err, "Exiting")
		return err
	}
	summary.Targeted = len(units)

	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			o.log.Error(err, "Rollout interrupted", "remaining", len(units)-i)
			return err
		}

		o.log.Info("Processing OU", "ou", unit.Name, "id", unit.ID, "progress", fmt.Sprintf("%d/%d", i+1, len(units)))
		res := o.rolloutUnit(ctx, unit)
		summary.Units = append(summary.Units, res)
		o.metrics.recordUnit(res.Outcome)
	}

	succeeded, failed, skipped := summary.Counts()
	o.log.Info("OU re-registration process completed",
		"succeeded", succeeded, "failed", failed, "skipped", skipped)
	return nil
}

// rolloutUnit resets one OU. It never returns an error: every problem is
// captured in the result so the caller can move on.
func (o *Orchestrator) rolloutUnit(ctx context.Context, unit organization.Unit) (res UnitResult) {
	start := o.now()
	res = newUnitResult(unit)
	defer func() { res.Duration = o.now().Sub(start) }()

	opID, err := o.registrar.Reset(ctx, unit)
	if err != nil {
		res.Outcome = OutcomeSkipped
		if !errors.Is(err, baseline.ErrSkipped) {
			res.Outcome = OutcomeFailed
		}
		res.Message = err.Error()
		o.log.Error(err, "Failed to initiate re-registration for OU, skipping", "ou", unit.Name)
		return res
	}
	res.OperationID = opID

	result := o.registrar.Wait(ctx, opID)
	o.recordOperation(result, start)
	res.Status = result.Status
	res.Message = result.Message

	if result.Succeeded() {
		res.Outcome = OutcomeSucceeded
		o.log.Info("Re-registration of OU completed successfully", "ou", unit.Name)
		return res
	}

	res.Outcome = OutcomeFailed
	o.log.Error(result.Err(), "Re-registration of OU failed", "ou", unit.Name, "status", result.Status)
	return res
}

func (o *Orchestrator) recordOperation(res operation.Result, start time.Time) {
	o.metrics.recordOperation(res.Kind, string(res.Status), o.now().Sub(start).Seconds())
}

func (o *Orchestrator) finish(summary *Summary, err error) {
	summary.FinishedAt = o.now()
	o.metrics.recordRun(summary, err)
}

func regionChange(outcome *landingzone.Outcome) *RegionChange {
	plan := outcome.Plan
	rc := &RegionChange{
		LandingZoneARN: plan.LandingZone.ARN,
		Current:        plan.LandingZone.GovernedRegions(),
		Desired:        plan.Desired,
		Added:          plan.Diff.ToAdd,
		Removed:        plan.Diff.ToRemove,
		Updated:        outcome.Updated,
	}
	if outcome.Result != nil {
		rc.OperationID = outcome.Result.ID
		rc.Status = outcome.Result.Status
	}
	return rc
}

func only(units []organization.Unit, names []string) []organization.Unit {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	var out []organization.Unit
	for _, u := range units {
		if _, ok := want[u.Name]; ok {
			out = append(out, u)
		}
	}
	return out
}
