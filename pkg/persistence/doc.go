// Package persistence keeps the answer store and the submission id between
// sessions. Every driver stores two keys: the JSON encoded answers and the
// submission id, which is generated once and survives Clear.
//
// Drivers:
//   - file: one JSON file per key in a state directory (default).
//   - sqlite: a key/value table in a modernc.org/sqlite database.
//   - redis: plain string keys, optionally prefixed.
//   - memory: process memory, for tests and throwaway sessions.
package persistence
