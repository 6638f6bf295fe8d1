// Package testing provides in-memory fakes of the AWS APIs used by lzctl.
//
// The fakes centralize common test setup across packages:
//   - OrgTree: an Organizations fake backed by a parent -> children map,
//     with per-parent listing failures and page sizes
//   - MockControlTower: a Control Tower client whose methods are func fields
//   - LandingZoneFixture: a MockControlTower preloaded with one landing zone
//     and scripted operation statuses
//
// Usage:
//
//	tree := testing.NewOrgTree("r-root").
//	    Add("r-root", "ou-a", "Security").
//	    Add("ou-a", "ou-b", "Workloads")
//	units, err := organization.NewEnumerator(tree, logr.Discard()).Enumerate(ctx)
package testing
