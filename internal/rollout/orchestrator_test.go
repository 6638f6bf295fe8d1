package rollout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/lzctl/internal/baseline"
	"github.com/imamik/lzctl/internal/landingzone"
	"github.com/imamik/lzctl/internal/operation"
	"github.com/imamik/lzctl/internal/organization"
)

type mockReconciler struct{ mock.Mock }

func (m *mockReconciler) Reconcile(ctx context.Context, desired []string) (*landingzone.Outcome, error) {
	args := m.Called(ctx, desired)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*landingzone.Outcome), args.Error(1)
}

type mockEnumerator struct{ mock.Mock }

func (m *mockEnumerator) Enumerate(ctx context.Context) ([]organization.Unit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]organization.Unit), args.Error(1)
}

type mockRegistrar struct{ mock.Mock }

func (m *mockRegistrar) Reset(ctx context.Context, unit organization.Unit) (string, error) {
	args := m.Called(ctx, unit)
	return args.String(0), args.Error(1)
}

func (m *mockRegistrar) Wait(ctx context.Context, operationID string) operation.Result {
	args := m.Called(ctx, operationID)
	return args.Get(0).(operation.Result)
}

func noopOutcome(regions ...string) *landingzone.Outcome {
	return &landingzone.Outcome{Plan: &landingzone.Plan{
		LandingZone: &landingzone.LandingZone{ARN: "arn:lz"},
		Desired:     regions,
	}}
}

func TestRun_ProcessesUnitsInOrder(t *testing.T) {
	rec := &mockReconciler{}
	enum := &mockEnumerator{}
	reg := &mockRegistrar{}

	units := []organization.Unit{{ID: "ou-1", Name: "One"}, {ID: "ou-2", Name: "Two"}}
	rec.On("Reconcile", mock.Anything, []string{"us-east-1"}).Return(noopOutcome("us-east-1"), nil)
	enum.On("Enumerate", mock.Anything).Return(units, nil)

	var order []string
	for _, u := range units {
		opID := "op-" + u.ID
		reg.On("Reset", mock.Anything, u).Run(func(mock.Arguments) { order = append(order, u.ID) }).Return(opID, nil).Once()
		reg.On("Wait", mock.Anything, opID).Return(operation.Result{Kind: baseline.OperationKind, ID: opID, Status: operation.StatusSucceeded}).Once()
	}

	o := NewOrchestrator(rec, enum, reg, nil, logr.Discard())
	summary, err := o.Run(context.Background(), Input{Regions: []string{"us-east-1"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"ou-1", "ou-2"}, order)
	assert.Len(t, summary.Units, 2)
	assert.Equal(t, "op-ou-2", summary.Units[1].OperationID)
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))
	rec.AssertExpectations(t)
	enum.AssertExpectations(t)
	reg.AssertExpectations(t)
}

func TestRun_ReconcileFailureSkipsEnumeration(t *testing.T) {
	rec := &mockReconciler{}
	enum := &mockEnumerator{}
	reg := &mockRegistrar{}
	rec.On("Reconcile", mock.Anything, mock.Anything).Return(nil, landingzone.ErrNoLandingZone)

	o := NewOrchestrator(rec, enum, reg, nil, logr.Discard())
	summary, err := o.Run(context.Background(), Input{Regions: []string{"us-east-1"}})

	assert.ErrorIs(t, err, landingzone.ErrNoLandingZone)
	require.NotNil(t, summary)
	assert.Nil(t, summary.Regions)
	enum.AssertNotCalled(t, "Enumerate", mock.Anything)
	reg.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
}

func TestRun_EnumerationError(t *testing.T) {
	rec := &mockReconciler{}
	enum := &mockEnumerator{}
	rec.On("Reconcile", mock.Anything, mock.Anything).Return(noopOutcome("us-east-1"), nil)
	enum.On("Enumerate", mock.Anything).Return(nil, organization.ErrNoRoot)

	o := NewOrchestrator(rec, enum, &mockRegistrar{}, nil, logr.Discard())
	_, err := o.Run(context.Background(), Input{Regions: []string{"us-east-1"}})
	assert.ErrorIs(t, err, organization.ErrNoRoot)
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	rec := &mockReconciler{}
	enum := &mockEnumerator{}
	reg := &mockRegistrar{}
	units := []organization.Unit{{ID: "ou-1", Name: "One"}, {ID: "ou-2", Name: "Two"}}
	rec.On("Reconcile", mock.Anything, mock.Anything).Return(noopOutcome("us-east-1"), nil)
	enum.On("Enumerate", mock.Anything).Return(units, nil)
	reg.On("Reset", mock.Anything, units[0]).Return("op-1", nil)
	reg.On("Wait", mock.Anything, "op-1").Run(func(mock.Arguments) { cancel() }).
		Return(operation.Result{ID: "op-1", Status: operation.StatusError, Message: context.Canceled.Error()})

	o := NewOrchestrator(rec, enum, reg, nil, logr.Discard())
	summary, err := o.Run(ctx, Input{Regions: []string{"us-east-1"}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, summary.Units, 1)
	reg.AssertNotCalled(t, "Reset", mock.Anything, units[1])
}

func TestTargets_OnlyOUs(t *testing.T) {
	enum := &mockEnumerator{}
	enum.On("Enumerate", mock.Anything).Return([]organization.Unit{
		{ID: "ou-1", Name: "Security"},
		{ID: "ou-2", Name: "Prod"},
		{ID: "ou-3", Name: "Dev"},
	}, nil)

	o := NewOrchestrator(&mockReconciler{}, enum, &mockRegistrar{}, nil, logr.Discard())
	units, discovered, err := o.Targets(context.Background(), Input{
		SkipOUs: []string{"Security"},
		OnlyOUs: []string{"Dev", "Security"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, discovered)
	require.Len(t, units, 1)
	assert.Equal(t, "Dev", units[0].Name)
}

func TestSummary_Counts(t *testing.T) {
	s := &Summary{Units: []UnitResult{
		{Outcome: OutcomeSucceeded},
		{Outcome: OutcomeFailed},
		{Outcome: OutcomeSkipped},
		{Outcome: OutcomeSucceeded},
	}}
	succeeded, failed, skipped := s.Counts()
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, skipped)
	assert.Len(t, s.Failed(), 2)
}

func TestRolloutUnit_SkipVersusFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"resolution failure", fmt.Errorf("%w: no baseline", baseline.ErrSkipped), OutcomeSkipped},
		{"api failure", errors.New("ConflictException"), OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &mockRegistrar{}
			unit := organization.Unit{ID: "ou-1", Name: "One"}
			reg.On("Reset", mock.Anything, unit).Return("", tt.err)

			o := NewOrchestrator(&mockReconciler{}, &mockEnumerator{}, reg, nil, logr.Discard())
			res := o.rolloutUnit(context.Background(), unit)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Empty(t, res.OperationID)
			reg.AssertNotCalled(t, "Wait", mock.Anything, mock.Anything)
		})
	}
}
