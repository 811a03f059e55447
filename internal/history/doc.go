// Package history holds the bounded calculation history and the unbounded
// chronological log.
//
// # Store
//
// Store is a fixed-capacity slot array with an explicit count. Append
// writes at slot count and increments it. When count has reached capacity
// the next Append first resets count to 0, so the new record lands in slot 0
// and slots 1..capacity-1 keep the previous cycle's records. Those stale
// slots are invisible through Records but survive until overwritten, and
// a later SetCount or Replace can expose them again. This is not a
// head/tail ring and must not be turned into one.
//
// # Text format
//
// Encode writes the populated slots as
//
//	Index, Operation, Result
//	1, 5 + 3 = 8, 8
//
// Decode requires a first line containing "Index", then parses each row by
// splitting on commas and reading the third field as the result. Rows that
// do not parse are skipped. Descriptions that contain commas do not round
// trip.
//
// # Log
//
// Log is an append-only list of timestamped entries kept for on-screen
// listing only; it is never written to the history file.
package history
