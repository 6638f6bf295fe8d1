// Package baseline resolves and resets Control Tower enabled baselines.
//
// Resetting an enabled baseline re-applies it to its target OU. This is how
// a change to the landing zone's governed regions reaches each registered
// OU: after the landing zone update, every OU's baseline is reset one by one.
package baseline
