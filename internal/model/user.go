package model

import "time"

// User represents an account record as stored in the snapshot's
// `users` collection. The json tags match the durable snapshot
// layout, so marshalling a Snapshot produces the exact on-disk
// shape. Passwords are stored as bcrypt hashes, never verbatim.
//
// Fields:
//  ID               – numeric identifier, assigned as max existing id + 1.
//  Email            – unique email address (case-sensitive as stored).
//  PasswordHash     – bcrypt hash of the password.
//  IsVerified       – whether the email address has been confirmed.
//  VerificationCode – pending 6-digit code, nil once verified.
//  CodeExpiry       – when the pending code stops being accepted, nil once verified.
//  CreatedAt        – timestamp of registration.
type User struct {
	ID               uint64     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"passwordHash"`
	IsVerified       bool       `json:"isVerified"`
	VerificationCode *string    `json:"verificationCode"`
	CodeExpiry       *time.Time `json:"codeExpiry"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// UserView is the sanitized user payload returned to callers. It
// deliberately omits the password hash and the pending verification
// code; handlers should only ever expose this type.
type UserView struct {
	ID         uint64    `json:"id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// View builds the external representation of a user.
func (u *User) View() *UserView {
	return &UserView{
		ID:         u.ID,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}
