package baseline

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/controltower"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/go-logr/logr"

	awsplatform "github.com/imamik/lzctl/internal/platform/aws"
)

// ErrNoEnabledBaseline is returned when no enabled baseline targets an OU.
var ErrNoEnabledBaseline = errors.New("no enabled baseline found")

// OrganizationsAPI is the subset of the Organizations client used here.
type OrganizationsAPI interface {
	DescribeOrganizationalUnit(ctx context.Context, params *organizations.DescribeOrganizationalUnitInput, optFns ...func(*organizations.Options)) (*organizations.DescribeOrganizationalUnitOutput, error)
}

// ControlTowerAPI is the subset of the Control Tower client used here.
type ControlTowerAPI interface {
	ListEnabledBaselines(ctx context.Context, params *controltower.ListEnabledBaselinesInput, optFns ...func(*controltower.Options)) (*controltower.ListEnabledBaselinesOutput, error)
	ResetEnabledBaseline(ctx context.Context, params *controltower.ResetEnabledBaselineInput, optFns ...func(*controltower.Options)) (*controltower.ResetEnabledBaselineOutput, error)
	GetBaselineOperation(ctx context.Context, params *controltower.GetBaselineOperationInput, optFns ...func(*controltower.Options)) (*controltower.GetBaselineOperationOutput, error)
}

// EnabledBaseline is a baseline enabled on a target.
type EnabledBaseline struct {
	ARN                string
	TargetIdentifier   string
	BaselineIdentifier string
	BaselineVersion    string
}

// Resolver maps OUs to their enabled baselines.
type Resolver struct {
	orgs OrganizationsAPI
	ct   ControlTowerAPI
	log  logr.Logger
}

// NewResolver creates a Resolver.
func NewResolver(orgs OrganizationsAPI, ct ControlTowerAPI, log logr.Logger) *Resolver {
	return &Resolver{orgs: orgs, ct: ct, log: log}
}

// ResolveOUArn returns the ARN of the OU with the given ID.
func (r *Resolver) ResolveOUArn(ctx context.Context, ouID string) (string, error) {
	out, err := r.orgs.DescribeOrganizationalUnit(ctx, &organizations.DescribeOrganizationalUnitInput{
		OrganizationalUnitId: aws.String(ouID),
	})
	if err != nil {
		r.log.Error(err, "Error getting ARN for OU", "ou", ouID, "code", awsplatform.ErrorCode(err), "reason", awsplatform.Reason(err))
		return "", fmt.Errorf("failed to describe OU %s: %w", ouID, err)
	}
	if out.OrganizationalUnit == nil || aws.ToString(out.OrganizationalUnit.Arn) == "" {
		return "", fmt.Errorf("OU %s has no ARN", ouID)
	}
	return aws.ToString(out.OrganizationalUnit.Arn), nil
}

// FindEnabledBaseline returns the first enabled baseline whose target is ouArn.
// All pages are scanned before ErrNoEnabledBaseline is returned.
func (r *Resolver) FindEnabledBaseline(ctx context.Context, ouArn string) (*EnabledBaseline, error) {
	paginator := controltower.NewListEnabledBaselinesPaginator(r.ct, &controltower.ListEnabledBaselinesInput{})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.log.Error(err, "Error listing enabled baselines", "target", ouArn, "code", awsplatform.ErrorCode(err), "reason", awsplatform.Reason(err))
			return nil, fmt.Errorf("failed to list enabled baselines: %w", err)
		}

		for _, eb := range page.EnabledBaselines {
			if aws.ToString(eb.TargetIdentifier) != ouArn {
				continue
			}
			return &EnabledBaseline{
				ARN:                aws.ToString(eb.Arn),
				TargetIdentifier:   aws.ToString(eb.TargetIdentifier),
				BaselineIdentifier: aws.ToString(eb.BaselineIdentifier),
				BaselineVersion:    aws.ToString(eb.BaselineVersion),
			}, nil
		}
	}

	r.log.Info("Warning: no enabled baseline found for OU", "target", ouArn)
	return nil, fmt.Errorf("%w for %s", ErrNoEnabledBaseline, ouArn)
}
