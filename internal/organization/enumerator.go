package organization

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/go-logr/logr"
)

// ErrNoRoot is returned when the organization reports no root.
var ErrNoRoot = errors.New("no root found in the organization")

// API is the subset of the Organizations client used for enumeration.
type API interface {
	ListRoots(ctx context.Context, params *organizations.ListRootsInput, optFns ...func(*organizations.Options)) (*organizations.ListRootsOutput, error)
	ListOrganizationalUnitsForParent(ctx context.Context, params *organizations.ListOrganizationalUnitsForParentInput, optFns ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error)
}

// Enumerator lists every organizational unit under the organization root.
type Enumerator struct {
	client API
	log    logr.Logger
}

// NewEnumerator creates an Enumerator.
func NewEnumerator(client API, log logr.Logger) *Enumerator {
	return &Enumerator{client: client, log: log}
}

// RootID returns the ID of the first organization root.
func (e *Enumerator) RootID(ctx context.Context) (string, error) {
	paginator := organizations.NewListRootsPaginator(e.client, &organizations.ListRootsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list organization roots: %w", err)
		}
		for _, root := range page.Roots {
			if id := aws.ToString(root.Id); id != "" {
				return id, nil
			}
		}
	}
	return "", ErrNoRoot
}

// Enumerate returns all organizational units reachable from the root.
//
// Children of a unit appear before the subtrees of those children. A unit
// whose children cannot be listed contributes no descendants; its siblings
// are still visited. Units already seen are skipped, so a misbehaving API
// returning a cycle cannot loop forever.
func (e *Enumerator) Enumerate(ctx context.Context) ([]Unit, error) {
	e.log.Info("Retrieving all OUs in the organization")

	rootID, err := e.RootID(ctx)
	if err != nil {
		return nil, err
	}
	e.log.V(1).Info("Found organization root", "root", rootID)

	visited := map[string]bool{rootID: true}
	units := e.collect(ctx, rootID, 0, visited)

	e.log.Info("Discovered organizational units", "count", len(units))
	return units, nil
}

func (e *Enumerator) collect(ctx context.Context, parentID string, depth int, visited map[string]bool) []Unit {
	children, err := e.listChildren(ctx, parentID)
	if err != nil {
		e.log.Error(err, "Error retrieving child OUs, skipping subtree", "parent", parentID)
		return nil
	}

	var fresh []Unit
	for _, child := range children {
		if visited[child.ID] {
			e.log.V(1).Info("OU already visited, ignoring", "ou", child.ID, "parent", parentID)
			continue
		}
		visited[child.ID] = true
		child.Depth = depth + 1
		fresh = append(fresh, child)
	}

	units := append([]Unit(nil), fresh...)
	for _, child := range fresh {
		units = append(units, e.collect(ctx, child.ID, depth+1, visited)...)
	}
	return units
}

// listChildren returns the direct children of parentID across all pages.
func (e *Enumerator) listChildren(ctx context.Context, parentID string) ([]Unit, error) {
	paginator := organizations.NewListOrganizationalUnitsForParentPaginator(e.client,
		&organizations.ListOrganizationalUnitsForParentInput{ParentId: aws.String(parentID)})

	var children []Unit
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list OUs for parent %s: %w", parentID, err)
		}
		for _, ou := range page.OrganizationalUnits {
			children = append(children, Unit{
				ID:       aws.ToString(ou.Id),
				Name:     aws.ToString(ou.Name),
				ARN:      aws.ToString(ou.Arn),
				ParentID: parentID,
			})
		}
	}
	return children, nil
}
