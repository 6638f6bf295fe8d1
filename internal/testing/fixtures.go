package testing

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
)

// OUArn returns the fake ARN used for the OU with the given ID.
func OUArn(id string) string {
	return fmt.Sprintf("arn:aws:organizations::111111111111:ou/o-example/%s", id)
}

// OrgTree is an in-memory Organizations API.
type OrgTree struct {
	mu sync.Mutex

	rootID       string
	noRoot       bool
	listRootsErr error
	pageSize     int

	children     map[string][]orgtypes.OrganizationalUnit
	listFailures map[string]error
	descFailures map[string]error

	// ListCalls counts ListOrganizationalUnitsForParent calls per parent.
	ListCalls map[string]int
}

// NewOrgTree creates an empty organization with the given root ID.
func NewOrgTree(rootID string) *OrgTree {
	return &OrgTree{
		rootID:       rootID,
		children:     make(map[string][]orgtypes.OrganizationalUnit),
		listFailures: make(map[string]error),
		descFailures: make(map[string]error),
		ListCalls:    make(map[string]int),
	}
}

// Add registers an OU named name with the given id under parentID.
func (t *OrgTree) Add(parentID, id, name string) *OrgTree {
	t.children[parentID] = append(t.children[parentID], orgtypes.OrganizationalUnit{
		Id:   aws.String(id),
		Name: aws.String(name),
		Arn:  aws.String(OUArn(id)),
	})
	return t
}

// FailListing makes listing the children of parentID return err.
func (t *OrgTree) FailListing(parentID string, err error) *OrgTree {
	t.listFailures[parentID] = err
	return t
}

// FailDescribe makes describing the OU id return err.
func (t *OrgTree) FailDescribe(id string, err error) *OrgTree {
	t.descFailures[id] = err
	return t
}

// WithPageSize splits child listings into pages of n entries.
func (t *OrgTree) WithPageSize(n int) *OrgTree {
	t.pageSize = n
	return t
}

// WithoutRoot makes ListRoots return an empty list.
func (t *OrgTree) WithoutRoot() *OrgTree {
	t.noRoot = true
	return t
}

// FailRoots makes ListRoots return err.
func (t *OrgTree) FailRoots(err error) *OrgTree {
	t.listRootsErr = err
	return t
}

// ListRoots implements the Organizations API.
func (t *OrgTree) ListRoots(_ context.Context, _ *organizations.ListRootsInput, _ ...func(*organizations.Options)) (*organizations.ListRootsOutput, error) {
	if t.listRootsErr != nil {
		return nil, t.listRootsErr
	}
	if t.noRoot {
		return &organizations.ListRootsOutput{}, nil
	}
	return &organizations.ListRootsOutput{
		Roots: []orgtypes.Root{{Id: aws.String(t.rootID), Name: aws.String("Root")}},
	}, nil
}

// ListOrganizationalUnitsForParent implements the Organizations API.
func (t *OrgTree) ListOrganizationalUnitsForParent(_ context.Context, params *organizations.ListOrganizationalUnitsForParentInput, _ ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error) {
	parentID := aws.ToString(params.ParentId)

	t.mu.Lock()
	t.ListCalls[parentID]++
	t.mu.Unlock()

	if err := t.listFailures[parentID]; err != nil {
		return nil, err
	}

	all := t.children[parentID]
	start := 0
	if params.NextToken != nil {
		n, err := strconv.Atoi(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("invalid next token %q", *params.NextToken)
		}
		start = n
	}

	end := len(all)
	if t.pageSize > 0 && start+t.pageSize < end {
		end = start + t.pageSize
	}

	out := &organizations.ListOrganizationalUnitsForParentOutput{
		OrganizationalUnits: all[start:end],
	}
	if end < len(all) {
		out.NextToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

// DescribeOrganizationalUnit implements the Organizations API.
func (t *OrgTree) DescribeOrganizationalUnit(_ context.Context, params *organizations.DescribeOrganizationalUnitInput, _ ...func(*organizations.Options)) (*organizations.DescribeOrganizationalUnitOutput, error) {
	id := aws.ToString(params.OrganizationalUnitId)
	if err := t.descFailures[id]; err != nil {
		return nil, err
	}
	for _, units := range t.children {
		for _, ou := range units {
			if aws.ToString(ou.Id) == id {
				ou := ou
				return &organizations.DescribeOrganizationalUnitOutput{OrganizationalUnit: &ou}, nil
			}
		}
	}
	return nil, &orgtypes.OrganizationalUnitNotFoundException{Message: aws.String("OU " + id + " not found")}
}
