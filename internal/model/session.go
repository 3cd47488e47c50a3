package model

import "time"

// Session is a proof-of-login record in the snapshot's
// `authSessions` collection. Sessions are created by login and
// removed by logout; expiry is checked lazily on every read and
// nothing sweeps expired rows. Multiple concurrent sessions per
// user are allowed.
//
// Fields:
//  ID        – numeric identifier, assigned as max existing id + 1.
//  UserID    – owning user.
//  Token     – unique opaque bearer token.
//  ExpiresAt – fixed at creation time + session TTL (24h by default).
//  CreatedAt – timestamp of login.
type Session struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Valid reports whether the session is still usable at the given
// instant. Validity is strictly current time < ExpiresAt.
func (s *Session) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
