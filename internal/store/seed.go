package store

import (
	"time"

	"github.com/verimail/email-auth/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Demo account present in every fresh deployment. The password is
// hashed at seed time so no plaintext or precomputed hash ships in
// the binary's data files.
const (
	SeedEmail    = "demo@example.com"
	SeedPassword = "password123"
)

// SeedSnapshot builds the dataset returned by Load when the snapshot
// slot has never been written: one already-verified demo user and the
// log entry of its (simulated) verification email.
func SeedSnapshot(bcryptCost int) (*Snapshot, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcryptCost)
	if err != nil {
		return nil, err
	}
	created := time.Now().UTC().Add(-24 * time.Hour)
	return &Snapshot{
		Users: []model.User{{
			ID:           1,
			Email:        SeedEmail,
			PasswordHash: string(hash),
			IsVerified:   true,
			CreatedAt:    created,
		}},
		AuthSessions: []model.Session{},
		EmailLogs: []model.EmailLogEntry{{
			ID:     1,
			Email:  SeedEmail,
			Type:   model.EmailTypeVerification,
			Code:   "000000",
			SentAt: created,
			Status: model.EmailStatusDelivered,
		}},
	}, nil
}
