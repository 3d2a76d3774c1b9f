// Package event provides the domain model for logged care events.
//
// This package contains types and validation only. Both the store and
// the terminal session import event; event imports nothing internal.
// This keeps the domain layer foundational with no circular
// dependencies.
//
// Key design constraints:
//   - Kind is a closed set; validation is an exhaustive switch
//   - Every event carries an occurred-at timestamp, never zero
//   - Notes are NFC-normalized before persistence
package event
