// Package store persists the auth snapshot and the bearer-token slot.
// The durable medium holds exactly two independent slots: one JSON
// snapshot of all three collections, and one opaque token string.
// Backends implement the same two small interfaces so the auth core
// can run against a local file, Redis or MySQL without behavior change.
package store

import (
	"context"
	"errors"

	"github.com/verimail/email-auth/internal/model"
)

// ErrUnavailable is returned when the durable medium cannot be
// reached or a slot cannot be read or written. Handlers should
// translate this into an HTTP 503 response; the auth core propagates
// it and never folds it into a user-facing result.
var ErrUnavailable = errors.New("storage unavailable")

// Snapshot is the full serialized state at a point in time. The json
// keys define the durable layout of the snapshot slot.
type Snapshot struct {
	Users        []model.User          `json:"users"`
	AuthSessions []model.Session       `json:"authSessions"`
	EmailLogs    []model.EmailLogEntry `json:"emailLogs"`
}

// Clone returns a copy of the snapshot with freshly allocated
// slices, so a staged mutation cannot leak into the original through
// a shared backing array. Pointer fields inside the elements are
// shared: mutators must replace them, never write through them.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Users:        make([]model.User, len(s.Users)),
		AuthSessions: make([]model.Session, len(s.AuthSessions)),
		EmailLogs:    make([]model.EmailLogEntry, len(s.EmailLogs)),
	}
	copy(c.Users, s.Users)
	copy(c.AuthSessions, s.AuthSessions)
	copy(c.EmailLogs, s.EmailLogs)
	return c
}

// SnapshotStore reads and overwrites the snapshot slot. Load returns
// the seed dataset when the slot has never been written. Save
// replaces the slot atomically from the store's point of view; there
// is no partial-write mode and no locking, since the core serializes
// all writers behind a single mutex.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// TokenSlot holds the single current bearer token, independent of the
// snapshot. Get returns "" when no token is set; Clear is a no-op on
// an empty slot.
type TokenSlot interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
