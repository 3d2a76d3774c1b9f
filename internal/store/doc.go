// Package store provides SQLite-backed durable storage for care events.
//
// The store owns a single events table plus a schema_migrations ledger:
//   - Events: one row per logged occurrence, kind-discriminated
//   - Migrations: versioned, ordered, each with a forward and an
//     inverse form; applied transactionally before first use
//
// Query determinism: list queries order by occurred_at DESC, id DESC
// so identical data always renders identically.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
