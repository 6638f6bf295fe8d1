// Package rollout drives a full landing zone change: reconcile the governed
// regions, then reset the enabled baseline of every eligible OU in turn.
//
// The run aborts when the region reconciliation fails, because resetting
// baselines against an unknown region set is unsafe. Failures of individual
// OUs are logged and recorded in the [Summary] but never stop the rollout;
// one broken OU must not block remediation of the others.
//
// Everything runs sequentially. Each OU's reset operation is awaited before
// the next one starts.
package rollout
