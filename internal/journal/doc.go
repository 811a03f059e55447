// Package journal provides a SQLite-backed audit log of calculations.
//
// Unlike the history file, which holds at most one fill cycle of results,
// the journal keeps every successful calculation across processes:
//   - id: UUIDv7, sortable by creation time
//   - seq: logical sequence, strictly increasing across sessions
//   - session: the id of the process that recorded the entry
//   - recorded_at: wall-clock time, informational only
//
// # Ordering
//
// All queries order by seq, never by recorded_at. Each insert takes
// MAX(seq)+1 in the same statement, so processes sharing a database
// interleave without colliding.
//
// # Numbers
//
// Operands and results are stored as TEXT in calc.FormatNumber form. SQLite
// turns NaN into NULL when stored as REAL, and NaN is a legal result.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//
// Schema versions are tracked with PRAGMA user_version.
package journal
