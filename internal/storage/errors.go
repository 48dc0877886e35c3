package storage

import "errors"

var (
	// ErrDatabaseNotFound is returned by Open when CreateIfNotExists is false
	// and the database file does not exist.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrEmptyKey is returned when a key is the empty string.
	ErrEmptyKey = errors.New("key must not be empty")

	// ErrClosed is returned when a store is used after Close.
	ErrClosed = errors.New("store is closed")
)
