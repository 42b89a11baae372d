// Package state stores the per-user conversation marker consulted by the router.
//
// A user without a stored value is Idle. Backends live in process memory or
// in Redis; both satisfy Store.
package state
