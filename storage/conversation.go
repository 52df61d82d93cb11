// Package storage provides conversation history storage.
//
// Implementations hide their backend behind one interface so callers can
// swap memory and SQLite without API changes. The chat core only reads
// history; this package owns persistence.
package storage

import (
	"context"

	"github.com/richinex/parley/model"
)

// ConversationStorage stores per-session conversation history.
// A nil entry in a history slice is a valid placeholder for a deleted or
// unavailable turn and round-trips through Save/Load unchanged.
type ConversationStorage interface {
	// Save replaces the stored history for a session.
	Save(ctx context.Context, sessionID string, history []*model.Message) error

	// Load returns the history for a session, in insertion order.
	// Returns an empty slice (not nil) for an unknown session; errors are
	// storage failures only.
	Load(ctx context.Context, sessionID string) ([]*model.Message, error)

	// Delete removes a session and its history.
	Delete(ctx context.Context, sessionID string) error

	// ListSessions lists all session IDs, most recently updated first.
	ListSessions(ctx context.Context) ([]string, error)

	// Exists reports whether a session exists.
	Exists(ctx context.Context, sessionID string) (bool, error)
}
