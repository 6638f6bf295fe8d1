package landingzone

import (
	"context"
	"errors"
	"testing"
	"time"

	cttypes "github.com/aws/aws-sdk-go-v2/service/controltower/types"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/lzctl/internal/operation"
	testutil "github.com/imamik/lzctl/internal/testing"
)

func newReconciler(fx *testutil.LandingZoneFixture, waits *int) *Reconciler {
	poller := operation.NewPoller(logr.Discard(), operation.WithSleep(func(context.Context, time.Duration) error {
		if waits != nil {
			*waits++
		}
		return nil
	}))
	return NewReconciler(fx.Mock, poller, logr.Discard())
}

func TestReconcile_AddsRegion(t *testing.T) {
	t.Parallel()
	fx := testutil.NewLandingZoneFixture("us-east-1")
	fx.UpdateStatuses = []cttypes.LandingZoneOperationStatus{
		cttypes.LandingZoneOperationStatusInProgress,
		cttypes.LandingZoneOperationStatusSucceeded,
	}
	waits := 0
	r := newReconciler(fx, &waits)

	outcome, err := r.Reconcile(context.Background(), []string{"us-east-1", "eu-west-1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"eu-west-1"}, outcome.Plan.Diff.ToAdd)
	assert.Empty(t, outcome.Plan.Diff.ToRemove)
	assert.True(t, outcome.Updated)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, operation.StatusSucceeded, outcome.Result.Status)
	assert.Equal(t, 1, waits)

	require.Len(t, fx.Updates, 1)
	assert.Equal(t, "3.3", fx.Updates[0].Version)
	assert.Equal(t, fx.LandingZoneArns[0], fx.Updates[0].Identifier)
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, fx.GovernedRegions())

	// Other manifest sections are submitted unchanged.
	assert.Equal(t, map[string]any{"accountId": "222222222222"}, fx.Updates[0].Manifest["securityRoles"])
}

func TestReconcile_FullReplacementNotMerge(t *testing.T) {
	t.Parallel()
	fx := testutil.NewLandingZoneFixture("us-east-1", "ap-south-1")
	r := newReconciler(fx, nil)

	outcome, err := r.Reconcile(context.Background(), []string{"eu-west-1", "eu-west-1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"eu-west-1"}, outcome.Plan.Diff.ToAdd)
	assert.Equal(t, []string{"ap-south-1", "us-east-1"}, outcome.Plan.Diff.ToRemove)
	assert.Equal(t, []string{"eu-west-1"}, fx.GovernedRegions())
}

func TestReconcile_NoChangesIsIdempotent(t *testing.T) {
	t.Parallel()
	fx := testutil.NewLandingZoneFixture("us-east-1")
	r := newReconciler(fx, nil)
	desired := []string{"us-east-1", "eu-west-1"}

	first, err := r.Reconcile(context.Background(), desired)
	require.NoError(t, err)
	assert.True(t, first.Updated)

	second, err := r.Reconcile(context.Background(), desired)
	require.NoError(t, err)
	assert.False(t, second.Updated)
	assert.Nil(t, second.Result)
	assert.True(t, second.Plan.Diff.Empty())
	assert.Len(t, fx.Updates, 1, "second run submits nothing")
}

func TestReconcile_EmptyDesired(t *testing.T) {
	t.Parallel()
	fx := testutil.NewLandingZoneFixture("us-east-1")
	fx.Mock.ListLandingZonesFunc = nil
	r := newReconciler(fx, nil)

	_, err := r.Reconcile(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDesiredRegions)
	assert.Empty(t, fx.Updates)
}

func TestReconcile_LandingZoneDiscoveryErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		arns []string
		want error
	}{
		{"none", nil, ErrNoLandingZone},
		{"multiple", []string{"arn:lz1", "arn:lz2"}, ErrMultipleLandingZones},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fx := testutil.NewLandingZoneFixture("us-east-1")
			fx.LandingZoneArns = tt.arns
			r := newReconciler(fx, nil)

			_, err := r.Reconcile(context.Background(), []string{"eu-west-1"})
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, fx.Updates)
		})
	}
}

func TestReconcile_UpdateCallFails(t *testing.T) {
	t.Parallel()
	fx := testutil.NewLandingZoneFixture("us-east-1")
	fx.UpdateErr = errors.New("ValidationException")
	r := newReconciler(fx, nil)

	_, err := r.Reconcile(context.Background(), []string{"eu-west-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update landing zone")
}

func TestReconcile_UpdateOperationFails(t *testing.T) {
	t.Parallel()
	fx := testutil.NewLandingZoneFixture("us-east-1")
	fx.UpdateStatuses = []cttypes.LandingZoneOperationStatus{cttypes.LandingZoneOperationStatusFailed}
	fx.UpdateMessage = "AWS Control Tower cannot govern opt-in region"
	r := newReconciler(fx, nil)

	outcome, err := r.Reconcile(context.Background(), []string{"me-central-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot govern opt-in region")
	require.NotNil(t, outcome)
	assert.True(t, outcome.Updated)
	assert.Equal(t, operation.StatusFailed, outcome.Result.Status)
}

func TestPlan_DoesNotUpdate(t *testing.T) {
	t.Parallel()
	fx := testutil.NewLandingZoneFixture("us-east-1")
	r := newReconciler(fx, nil)

	plan, err := r.Plan(context.Background(), []string{"eu-west-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-west-1"}, plan.Diff.ToAdd)
	assert.Equal(t, []string{"us-east-1"}, plan.Diff.ToRemove)
	assert.Equal(t, "ACTIVE", plan.LandingZone.Status)
	assert.Empty(t, fx.Updates)
}
