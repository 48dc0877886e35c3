// Package storage provides the local key-value store backing StressBand
// accounts.
//
// A Store maps string keys to string values, the way a browser's
// localStorage does. Two implementations are provided:
//   - SQLiteStore keeps the entries in a single SQLite file (stressband.db)
//     under the data directory, using modernc.org/sqlite so that no CGO
//     toolchain is needed.
//   - MemoryStore keeps the entries in a map and is used by tests and by
//     commands that must not touch the disk.
//
// The store only ever holds account records. Band profiles and metrics are
// fixtures compiled into the binary and are never written here.
package storage
