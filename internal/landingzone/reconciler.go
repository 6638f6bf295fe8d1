package landingzone

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/controltower"
	"github.com/go-logr/logr"

	"github.com/imamik/lzctl/internal/operation"
	awsplatform "github.com/imamik/lzctl/internal/platform/aws"
)

// OperationKind labels landing zone update operations in logs and results.
const OperationKind = "landing zone update"

// Discovery and input errors. All of them abort reconciliation.
var (
	ErrNoDesiredRegions     = errors.New("no regions specified")
	ErrNoLandingZone        = errors.New("no landing zones found")
	ErrMultipleLandingZones = errors.New("multiple landing zones found")
)

// API is the subset of the Control Tower client used by the reconciler.
type API interface {
	ListLandingZones(ctx context.Context, params *controltower.ListLandingZonesInput, optFns ...func(*controltower.Options)) (*controltower.ListLandingZonesOutput, error)
	GetLandingZone(ctx context.Context, params *controltower.GetLandingZoneInput, optFns ...func(*controltower.Options)) (*controltower.GetLandingZoneOutput, error)
	UpdateLandingZone(ctx context.Context, params *controltower.UpdateLandingZoneInput, optFns ...func(*controltower.Options)) (*controltower.UpdateLandingZoneOutput, error)
	GetLandingZoneOperation(ctx context.Context, params *controltower.GetLandingZoneOperationInput, optFns ...func(*controltower.Options)) (*controltower.GetLandingZoneOperationOutput, error)
}

// LandingZone is the current state of the organization's landing zone.
type LandingZone struct {
	ARN                    string
	Version                string
	LatestAvailableVersion string
	Status                 string
	DriftStatus            string
	Manifest               Manifest
}

// GovernedRegions returns the regions currently governed by the landing zone.
func (lz *LandingZone) GovernedRegions() []string {
	return lz.Manifest.GovernedRegions()
}

// Plan is the outcome of comparing the landing zone with the desired regions.
type Plan struct {
	LandingZone *LandingZone
	Desired     []string
	Diff        Diff
}

// Outcome describes what a reconciliation did.
type Outcome struct {
	Plan    *Plan
	Updated bool
	Result  *operation.Result // nil when no update was submitted
}

// Reconciler owns landing zone updates for one run.
type Reconciler struct {
	client API
	poller *operation.Poller
	log    logr.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(client API, poller *operation.Poller, log logr.Logger) *Reconciler {
	return &Reconciler{client: client, poller: poller, log: log}
}

// Discover returns the single landing zone of the organization.
func (r *Reconciler) Discover(ctx context.Context) (*LandingZone, error) {
	var arns []string
	paginator := controltower.NewListLandingZonesPaginator(r.client, &controltower.ListLandingZonesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list landing zones: %w", err)
		}
		for _, lz := range page.LandingZones {
			arns = append(arns, aws.ToString(lz.Arn))
		}
	}

	switch {
	case len(arns) == 0:
		return nil, ErrNoLandingZone
	case len(arns) > 1:
		return nil, fmt.Errorf("%w: %s", ErrMultipleLandingZones, strings.Join(arns, ", "))
	}

	out, err := r.client.GetLandingZone(ctx, &controltower.GetLandingZoneInput{
		LandingZoneIdentifier: aws.String(arns[0]),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get landing zone %s: %w", arns[0], err)
	}
	if out.LandingZone == nil {
		return nil, fmt.Errorf("landing zone %s returned no details", arns[0])
	}

	detail := out.LandingZone
	manifest, err := DecodeManifest(detail.Manifest)
	if err != nil {
		return nil, err
	}

	lz := &LandingZone{
		ARN:                    arns[0],
		Version:                aws.ToString(detail.Version),
		LatestAvailableVersion: aws.ToString(detail.LatestAvailableVersion),
		Status:                 string(detail.Status),
		Manifest:               manifest,
	}
	if detail.DriftStatus != nil {
		lz.DriftStatus = string(detail.DriftStatus.Status)
	}
	return lz, nil
}

// Plan discovers the landing zone and computes the region diff without
// changing anything.
func (r *Reconciler) Plan(ctx context.Context, desired []string) (*Plan, error) {
	if len(desired) == 0 {
		return nil, ErrNoDesiredRegions
	}

	lz, err := r.Discover(ctx)
	if err != nil {
		r.log.Error(err, "Error retrieving landing zone configuration", "code", awsplatform.ErrorCode(err), "reason", awsplatform.Reason(err))
		return nil, err
	}

	current := lz.GovernedRegions()
	r.log.Info("Retrieved landing zone",
		"arn", lz.ARN,
		"version", lz.Version,
		"governedRegions", strings.Join(current, ", "))

	return &Plan{
		LandingZone: lz,
		Desired:     Dedupe(desired),
		Diff:        ComputeDiff(desired, current),
	}, nil
}

// Reconcile makes the landing zone govern exactly the desired regions.
//
// No update is submitted when the regions already match. A failed update
// operation is returned as an error, since rolling baselines out against an
// unknown region set is unsafe.
func (r *Reconciler) Reconcile(ctx context.Context, desired []string) (*Outcome, error) {
	plan, err := r.Plan(ctx, desired)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{Plan: plan}

	if plan.Diff.Empty() {
		r.log.Info("No changes needed, the governed regions already match the configuration")
		return outcome, nil
	}

	if len(plan.Diff.ToAdd) > 0 {
		r.log.Info("Adding regions", "regions", strings.Join(plan.Diff.ToAdd, ", "))
	}
	if len(plan.Diff.ToRemove) > 0 {
		r.log.Info("Removing regions", "regions", strings.Join(plan.Diff.ToRemove, ", "))
	}

	manifest, err := plan.LandingZone.Manifest.WithGovernedRegions(plan.Desired)
	if err != nil {
		return nil, err
	}

	lz := plan.LandingZone
	out, err := r.client.UpdateLandingZone(ctx, &controltower.UpdateLandingZoneInput{
		LandingZoneIdentifier: aws.String(lz.ARN),
		Version:               aws.String(lz.Version),
		Manifest:              manifest.Document(),
	})
	if err != nil {
		r.log.Error(err, "Error updating landing zone", "arn", lz.ARN, "code", awsplatform.ErrorCode(err), "reason", awsplatform.Reason(err))
		return nil, fmt.Errorf("failed to update landing zone %s: %w", lz.ARN, err)
	}
	outcome.Updated = true

	opID := aws.ToString(out.OperationIdentifier)
	r.log.Info("Update initiated, monitoring operation status", "operation", opID)

	result := r.poller.Wait(ctx, OperationKind, opID, r.operationStatus)
	outcome.Result = &result
	if err := result.Err(); err != nil {
		r.log.Error(err, "Landing zone update failed")
		return outcome, err
	}

	r.log.Info("Landing zone update succeeded", "operation", opID)
	return outcome, nil
}

func (r *Reconciler) operationStatus(ctx context.Context, id string) (operation.Status, string, error) {
	out, err := r.client.GetLandingZoneOperation(ctx, &controltower.GetLandingZoneOperationInput{
		OperationIdentifier: aws.String(id),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to get landing zone operation %s: %w", id, err)
	}
	if out.OperationDetails == nil {
		return "", "", fmt.Errorf("landing zone operation %s returned no details", id)
	}
	detail := out.OperationDetails
	return operation.ParseStatus(string(detail.Status)), aws.ToString(detail.StatusMessage), nil
}
