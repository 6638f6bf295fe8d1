// Package organization discovers the AWS Organizations OU hierarchy.
//
// [Enumerator] walks the tree depth-first from the organization root and
// returns every reachable organizational unit as a flat slice. A listing
// failure below the root only drops the affected subtree. [Filter] removes
// units by exact name match.
package organization
