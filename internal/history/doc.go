// Package history persists one row per pipeline run in a SQLite database.
//
// Store wraps a modernc.org/sqlite connection in WAL mode with an embedded
// schema guarded by a schema_version check. Runs are opened with Begin when a
// pipeline starts and closed with Finish once it succeeds or fails, so
// interrupted runs stay visible as "running".
package history
