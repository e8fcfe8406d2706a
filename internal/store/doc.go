// Package store provides SQLite-backed durable storage for recipes.
//
// The store owns a single recipes table keyed by an auto-assigned integer
// id. Ordered string lists (steps, ingredients) are stored as JSON arrays,
// which round-trip empty strings and delimiter or control characters
// exactly.
//
// # Reactive reads
//
// Every committed mutation advances a monotonic commit version. Watches
// (WatchRecipes, WatchRecipe) re-run their query whenever the version
// moves and push the new snapshot, so a subscriber sees the state at
// subscribe time and after every later commit, in commit order. A slow
// subscriber skips intermediate snapshots but never misses the latest.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - One open connection; writes are additionally serialized in-process
//
// # Schema versioning
//
// The schema version lives in PRAGMA user_version. A database written by a
// different schema version is rejected with SchemaVersionError unless the
// store is opened WithDestructiveMigration, in which case the recipes table
// is dropped and recreated.
package store
