// Package store defines the expiring counter store the breaker runs on and
// ships two implementations: Redis for shared multi-process deployments and
// an in-memory map for tests and single-process hosts.
//
// The contract is deliberately tiny — atomic increment-with-lifetime, read,
// delete — so any expiring key-value store can back the breaker.
package store
