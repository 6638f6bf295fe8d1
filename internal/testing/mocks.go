package testing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/controltower"
	"github.com/aws/aws-sdk-go-v2/service/controltower/document"
	cttypes "github.com/aws/aws-sdk-go-v2/service/controltower/types"
)

// errNotConfigured is returned by MockControlTower methods without a func.
var errNotConfigured = errors.New("mock method not configured")

// MockControlTower is a Control Tower client whose behavior is set per method.
type MockControlTower struct {
	ListLandingZonesFunc        func(ctx context.Context, params *controltower.ListLandingZonesInput) (*controltower.ListLandingZonesOutput, error)
	GetLandingZoneFunc          func(ctx context.Context, params *controltower.GetLandingZoneInput) (*controltower.GetLandingZoneOutput, error)
	UpdateLandingZoneFunc       func(ctx context.Context, params *controltower.UpdateLandingZoneInput) (*controltower.UpdateLandingZoneOutput, error)
	GetLandingZoneOperationFunc func(ctx context.Context, params *controltower.GetLandingZoneOperationInput) (*controltower.GetLandingZoneOperationOutput, error)
	ListEnabledBaselinesFunc    func(ctx context.Context, params *controltower.ListEnabledBaselinesInput) (*controltower.ListEnabledBaselinesOutput, error)
	ResetEnabledBaselineFunc    func(ctx context.Context, params *controltower.ResetEnabledBaselineInput) (*controltower.ResetEnabledBaselineOutput, error)
	GetBaselineOperationFunc    func(ctx context.Context, params *controltower.GetBaselineOperationInput) (*controltower.GetBaselineOperationOutput, error)
}

// ListLandingZones implements the Control Tower API.
func (m *MockControlTower) ListLandingZones(ctx context.Context, params *controltower.ListLandingZonesInput, _ ...func(*controltower.Options)) (*controltower.ListLandingZonesOutput, error) {
	if m.ListLandingZonesFunc == nil {
		return nil, errNotConfigured
	}
	return m.ListLandingZonesFunc(ctx, params)
}

// GetLandingZone implements the Control Tower API.
func (m *MockControlTower) GetLandingZone(ctx context.Context, params *controltower.GetLandingZoneInput, _ ...func(*controltower.Options)) (*controltower.GetLandingZoneOutput, error) {
	if m.GetLandingZoneFunc == nil {
		return nil, errNotConfigured
	}
	return m.GetLandingZoneFunc(ctx, params)
}

// UpdateLandingZone implements the Control Tower API.
func (m *MockControlTower) UpdateLandingZone(ctx context.Context, params *controltower.UpdateLandingZoneInput, _ ...func(*controltower.Options)) (*controltower.UpdateLandingZoneOutput, error) {
	if m.UpdateLandingZoneFunc == nil {
		return nil, errNotConfigured
	}
	return m.UpdateLandingZoneFunc(ctx, params)
}

// GetLandingZoneOperation implements the Control Tower API.
func (m *MockControlTower) GetLandingZoneOperation(ctx context.Context, params *controltower.GetLandingZoneOperationInput, _ ...func(*controltower.Options)) (*controltower.GetLandingZoneOperationOutput, error) {
	if m.GetLandingZoneOperationFunc == nil {
		return nil, errNotConfigured
	}
	return m.GetLandingZoneOperationFunc(ctx, params)
}

// ListEnabledBaselines implements the Control Tower API.
func (m *MockControlTower) ListEnabledBaselines(ctx context.Context, params *controltower.ListEnabledBaselinesInput, _ ...func(*controltower.Options)) (*controltower.ListEnabledBaselinesOutput, error) {
	if m.ListEnabledBaselinesFunc == nil {
		return nil, errNotConfigured
	}
	return m.ListEnabledBaselinesFunc(ctx, params)
}

// ResetEnabledBaseline implements the Control Tower API.
func (m *MockControlTower) ResetEnabledBaseline(ctx context.Context, params *controltower.ResetEnabledBaselineInput, _ ...func(*controltower.Options)) (*controltower.ResetEnabledBaselineOutput, error) {
	if m.ResetEnabledBaselineFunc == nil {
		return nil, errNotConfigured
	}
	return m.ResetEnabledBaselineFunc(ctx, params)
}

// GetBaselineOperation implements the Control Tower API.
func (m *MockControlTower) GetBaselineOperation(ctx context.Context, params *controltower.GetBaselineOperationInput, _ ...func(*controltower.Options)) (*controltower.GetBaselineOperationOutput, error) {
	if m.GetBaselineOperationFunc == nil {
		return nil, errNotConfigured
	}
	return m.GetBaselineOperationFunc(ctx, params)
}

// LandingZoneUpdate records one UpdateLandingZone call.
type LandingZoneUpdate struct {
	Identifier string
	Version    string
	Manifest   map[string]any
}

// LandingZoneFixture is a scripted Control Tower backend with a single
// landing zone and a set of enabled baselines.
type LandingZoneFixture struct {
	mu sync.Mutex

	Mock *MockControlTower

	LandingZoneArns []string
	Version         string
	Manifest        map[string]any

	// UpdateStatuses is replayed by GetLandingZoneOperation; the last entry repeats.
	UpdateStatuses []cttypes.LandingZoneOperationStatus
	UpdateMessage  string
	UpdateErr      error

	Baselines        []cttypes.EnabledBaselineSummary
	BaselinePageSize int
	ListBaselinesErr error

	// ResetStatuses scripts GetBaselineOperation per enabled baseline ARN.
	// Baselines without an entry succeed on the first poll.
	ResetStatuses map[string][]cttypes.BaselineOperationStatus
	ResetErrs     map[string]error

	Updates          []LandingZoneUpdate
	Resets           []string
	BaselineListings int

	updatePolls int
	resetPolls  map[string]int
	resetByOp   map[string]string
}

// NewLandingZoneFixture creates a fixture with one landing zone governing regions.
func NewLandingZoneFixture(regions ...string) *LandingZoneFixture {
	governed := make([]any, 0, len(regions))
	for _, r := range regions {
		governed = append(governed, r)
	}

	f := &LandingZoneFixture{
		LandingZoneArns: []string{"arn:aws:controltower:us-east-1:111111111111:landingzone/LZEXAMPLE"},
		Version:         "3.3",
		Manifest: map[string]any{
			"governedRegions": governed,
			"organizationStructure": map[string]any{
				"security": map[string]any{"name": "Security"},
			},
			"securityRoles": map[string]any{"accountId": "222222222222"},
		},
		UpdateStatuses: []cttypes.LandingZoneOperationStatus{cttypes.LandingZoneOperationStatusSucceeded},
		ResetStatuses:  make(map[string][]cttypes.BaselineOperationStatus),
		ResetErrs:      make(map[string]error),
		resetPolls:     make(map[string]int),
		resetByOp:      make(map[string]string),
	}
	f.Mock = &MockControlTower{
		ListLandingZonesFunc:        f.listLandingZones,
		GetLandingZoneFunc:          f.getLandingZone,
		UpdateLandingZoneFunc:       f.updateLandingZone,
		GetLandingZoneOperationFunc: f.getLandingZoneOperation,
		ListEnabledBaselinesFunc:    f.listEnabledBaselines,
		ResetEnabledBaselineFunc:    f.resetEnabledBaseline,
		GetBaselineOperationFunc:    f.getBaselineOperation,
	}
	return f
}

// BaselineArn returns the fake enabled baseline ARN for the OU with the given ID.
func BaselineArn(ouID string) string {
	return "arn:aws:controltower:us-east-1:111111111111:enabledbaseline/EB" + ouID
}

// EnableBaseline registers an enabled baseline targeting the OU with the given ID.
func (f *LandingZoneFixture) EnableBaseline(ouID string) *LandingZoneFixture {
	f.Baselines = append(f.Baselines, cttypes.EnabledBaselineSummary{
		Arn:                aws.String(BaselineArn(ouID)),
		TargetIdentifier:   aws.String(OUArn(ouID)),
		BaselineIdentifier: aws.String("arn:aws:controltower:us-east-1::baseline/17BSJV3IGJ2QSGA2"),
		BaselineVersion:    aws.String("4.0"),
	})
	return f
}

// GovernedRegions returns the governed regions of the last submitted manifest,
// or nil if no update was submitted.
func (f *LandingZoneFixture) GovernedRegions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Updates) == 0 {
		return nil
	}
	raw, _ := f.Updates[len(f.Updates)-1].Manifest["governedRegions"].([]any)
	regions := make([]string, 0, len(raw))
	for _, r := range raw {
		regions = append(regions, fmt.Sprint(r))
	}
	return regions
}

func (f *LandingZoneFixture) listLandingZones(_ context.Context, _ *controltower.ListLandingZonesInput) (*controltower.ListLandingZonesOutput, error) {
	out := &controltower.ListLandingZonesOutput{}
	for _, arn := range f.LandingZoneArns {
		out.LandingZones = append(out.LandingZones, cttypes.LandingZoneSummary{Arn: aws.String(arn)})
	}
	return out, nil
}

func (f *LandingZoneFixture) getLandingZone(_ context.Context, params *controltower.GetLandingZoneInput) (*controltower.GetLandingZoneOutput, error) {
	arn := aws.ToString(params.LandingZoneIdentifier)
	return &controltower.GetLandingZoneOutput{
		LandingZone: &cttypes.LandingZoneDetail{
			Arn:                    aws.String(arn),
			Version:                aws.String(f.Version),
			LatestAvailableVersion: aws.String(f.Version),
			Status:                 cttypes.LandingZoneStatusActive,
			Manifest:               document.NewLazyDocument(f.Manifest),
		},
	}, nil
}

func (f *LandingZoneFixture) updateLandingZone(_ context.Context, params *controltower.UpdateLandingZoneInput) (*controltower.UpdateLandingZoneOutput, error) {
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}

	var manifest map[string]any
	if err := params.Manifest.UnmarshalSmithyDocument(&manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest document: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.Updates = append(f.Updates, LandingZoneUpdate{
		Identifier: aws.ToString(params.LandingZoneIdentifier),
		Version:    aws.ToString(params.Version),
		Manifest:   manifest,
	})
	// Subsequent reads observe the new manifest, like the real service.
	f.Manifest = manifest
	return &controltower.UpdateLandingZoneOutput{
		OperationIdentifier: aws.String("lz-op-" + strconv.Itoa(len(f.Updates))),
	}, nil
}

func (f *LandingZoneFixture) getLandingZoneOperation(_ context.Context, params *controltower.GetLandingZoneOperationInput) (*controltower.GetLandingZoneOperationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	status := f.UpdateStatuses[min(f.updatePolls, len(f.UpdateStatuses)-1)]
	f.updatePolls++

	detail := &cttypes.LandingZoneOperationDetail{
		OperationIdentifier: params.OperationIdentifier,
		OperationType:       cttypes.LandingZoneOperationTypeUpdate,
		Status:              status,
	}
	if status == cttypes.LandingZoneOperationStatusFailed && f.UpdateMessage != "" {
		detail.StatusMessage = aws.String(f.UpdateMessage)
	}
	return &controltower.GetLandingZoneOperationOutput{OperationDetails: detail}, nil
}

func (f *LandingZoneFixture) listEnabledBaselines(_ context.Context, params *controltower.ListEnabledBaselinesInput) (*controltower.ListEnabledBaselinesOutput, error) {
	f.mu.Lock()
	f.BaselineListings++
	f.mu.Unlock()

	if f.ListBaselinesErr != nil {
		return nil, f.ListBaselinesErr
	}

	start := 0
	if params.NextToken != nil {
		n, err := strconv.Atoi(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("invalid next token %q", *params.NextToken)
		}
		start = n
	}

	end := len(f.Baselines)
	if f.BaselinePageSize > 0 && start+f.BaselinePageSize < end {
		end = start + f.BaselinePageSize
	}

	out := &controltower.ListEnabledBaselinesOutput{EnabledBaselines: f.Baselines[start:end]}
	if end < len(f.Baselines) {
		out.NextToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *LandingZoneFixture) resetEnabledBaseline(_ context.Context, params *controltower.ResetEnabledBaselineInput) (*controltower.ResetEnabledBaselineOutput, error) {
	arn := aws.ToString(params.EnabledBaselineIdentifier)
	if err := f.ResetErrs[arn]; err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.Resets = append(f.Resets, arn)
	opID := "eb-op-" + strconv.Itoa(len(f.Resets))
	f.resetByOp[opID] = arn
	return &controltower.ResetEnabledBaselineOutput{OperationIdentifier: aws.String(opID)}, nil
}

func (f *LandingZoneFixture) getBaselineOperation(_ context.Context, params *controltower.GetBaselineOperationInput) (*controltower.GetBaselineOperationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	opID := aws.ToString(params.OperationIdentifier)
	arn, ok := f.resetByOp[opID]
	if !ok {
		return nil, &cttypes.ResourceNotFoundException{Message: aws.String("operation " + opID + " not found")}
	}

	status := cttypes.BaselineOperationStatusSucceeded
	if script := f.ResetStatuses[arn]; len(script) > 0 {
		status = script[min(f.resetPolls[arn], len(script)-1)]
	}
	f.resetPolls[arn]++

	op := &cttypes.BaselineOperation{
		OperationIdentifier: aws.String(opID),
		OperationType:       cttypes.BaselineOperationTypeResetEnabledBaseline,
		Status:              status,
	}
	if status == cttypes.BaselineOperationStatusFailed {
		op.StatusMessage = aws.String("baseline reset failed for " + arn)
	}
	return &controltower.GetBaselineOperationOutput{BaselineOperation: op}, nil
}
