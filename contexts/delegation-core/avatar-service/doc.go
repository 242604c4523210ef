// Package avatar implements the delegation core inside the delegation-core
// context.
//
// An avatar is a protected account that delegates controlled execution
// rights to a revocable, ordered set of module handles and optionally
// intercepts every delegated execution with an installed guard. The module
// owns registry integrity (sentinel-anchored linked order, duplicate-free),
// guard capability negotiation at install time, and the per-invocation relay
// state machine. Infrastructure stays behind ports and adapters.
package avatar
