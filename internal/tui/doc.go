// Package tui implements the interactive terminal session.
//
// The session is a bubbletea program with five modes:
//
//	Listing -> Picking -> Creating -> Listing
//	Listing -> Editing  -> Listing
//	Listing -> Deleting -> Listing
//
// Listing is the initial mode and the only one that can quit the
// program. All storage calls happen synchronously inside Update; the
// session owns the store exclusively and performs one blocking
// operation at a time.
//
// Failure semantics: validation errors render inline in the form and
// keep the entered input; storage errors render as a transient status
// line. No single failed operation terminates the session.
package tui
