// Package model defines the core data structures used throughout StressBand.
//
// This package contains the following main types:
//   - BandID: The identifier of a wearable band, used as the lookup key
//   - Profile: The fixture describing one subject and their metrics
//   - ProfileSource: The lookup abstraction over profile data
//   - Summary: A profile together with its derived alerts
//
// Models are kept in their own package because the report, server and
// command packages all need them.
//
// The profile table is a fixture: it is built once and never mutated.
// A real device registry can be substituted by implementing ProfileSource.
package model
