// Package store defines the persistence interfaces consumed by the
// worker core, the sentinel errors shared by all store implementations,
// and a transaction helper. Concrete implementations live in
// internal/platform/postgres.
package store
