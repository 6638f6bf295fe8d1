// Package landingzone reconciles the Control Tower landing zone's governed
// regions against a desired list.
//
// The reconciler reads the single landing zone of the organization, diffs
// its manifest's governedRegions against the desired regions and, when they
// differ, submits an updated manifest and waits for the update operation.
// The manifest is never edited in place: a deep copy with governedRegions
// replaced by the desired list is submitted instead.
package landingzone
