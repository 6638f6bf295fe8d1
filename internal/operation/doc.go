// Package operation waits on asynchronous Control Tower operations.
//
// Mutating Control Tower calls (UpdateLandingZone, ResetEnabledBaseline)
// return an operation identifier instead of a result. [Poller] re-fetches
// the operation status at a fixed interval until the control plane reports a
// terminal status. There is no local timeout: a wait only ends early when
// the status fetch itself fails or the context is cancelled.
package operation
