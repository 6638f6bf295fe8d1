package baseline

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/controltower"
	"github.com/go-logr/logr"

	"github.com/imamik/lzctl/internal/operation"
	"github.com/imamik/lzctl/internal/organization"
	awsplatform "github.com/imamik/lzctl/internal/platform/aws"
)

// OperationKind labels baseline reset operations in logs and results.
const OperationKind = "baseline reset"

// ErrSkipped marks a unit that was not reset because a prerequisite could
// not be resolved.
var ErrSkipped = errors.New("OU skipped")

// Registrar re-registers OUs by resetting their enabled baselines.
type Registrar struct {
	resolver *Resolver
	ct       ControlTowerAPI
	poller   *operation.Poller
	log      logr.Logger
}

// NewRegistrar creates a Registrar.
func NewRegistrar(resolver *Resolver, ct ControlTowerAPI, poller *operation.Poller, log logr.Logger) *Registrar {
	return &Registrar{resolver: resolver, ct: ct, poller: poller, log: log}
}

// Resolve returns the enabled baseline currently applied to unit.
// Errors wrap ErrSkipped.
func (r *Registrar) Resolve(ctx context.Context, unit organization.Unit) (*EnabledBaseline, error) {
	ouArn, err := r.resolver.ResolveOUArn(ctx, unit.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: could not get ARN for OU %s: %w", ErrSkipped, unit.Name, err)
	}

	eb, err := r.resolver.FindEnabledBaseline(ctx, ouArn)
	if err != nil {
		return nil, fmt.Errorf("%w: could not get enabled baseline for OU %s: %w", ErrSkipped, unit.Name, err)
	}
	return eb, nil
}

// Reset starts re-registration of unit and returns the operation ID.
//
// Resolution failures are logged and returned wrapped in ErrSkipped; the
// caller is expected to move on to the next unit.
func (r *Registrar) Reset(ctx context.Context, unit organization.Unit) (string, error) {
	log := r.log.WithValues("ou", unit.Name, "id", unit.ID)
	log.Info("Starting re-registration for OU")

	eb, err := r.Resolve(ctx, unit)
	if err != nil {
		log.Error(err, "Skipping OU")
		return "", err
	}

	out, err := r.ct.ResetEnabledBaseline(ctx, &controltower.ResetEnabledBaselineInput{
		EnabledBaselineIdentifier: aws.String(eb.ARN),
	})
	if err != nil {
		log.Error(err, "Error re-registering OU", "baseline", eb.ARN, "code", awsplatform.ErrorCode(err), "reason", awsplatform.Reason(err))
		return "", fmt.Errorf("failed to reset enabled baseline %s: %w", eb.ARN, err)
	}

	opID := aws.ToString(out.OperationIdentifier)
	log.Info("Re-registration initiated", "operation", opID, "baseline", eb.ARN)
	return opID, nil
}

// Wait polls the baseline operation until it is terminal.
func (r *Registrar) Wait(ctx context.Context, operationID string) operation.Result {
	return r.poller.Wait(ctx, OperationKind, operationID, r.operationStatus)
}

func (r *Registrar) operationStatus(ctx context.Context, id string) (operation.Status, string, error) {
	out, err := r.ct.GetBaselineOperation(ctx, &controltower.GetBaselineOperationInput{
		OperationIdentifier: aws.String(id),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to get baseline operation %s: %w", id, err)
	}
	if out.BaselineOperation == nil {
		return "", "", fmt.Errorf("baseline operation %s returned no details", id)
	}
	op := out.BaselineOperation
	return operation.ParseStatus(string(op.Status)), aws.ToString(op.StatusMessage), nil
}
