package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/verimail/email-auth/internal/model"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(
		filepath.Join(dir, "email-auth-data.json"),
		filepath.Join(dir, "auth-token"),
		bcrypt.MinCost,
	)
}

func sampleSnapshot() *Snapshot {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	code := "123456"
	expiry := now.Add(10 * time.Minute)
	return &Snapshot{
		Users: []model.User{
			{ID: 1, Email: "verified@x.com", PasswordHash: "$2a$04$hash", IsVerified: true, CreatedAt: now},
			{ID: 2, Email: "pending@x.com", PasswordHash: "$2a$04$hash2", VerificationCode: &code, CodeExpiry: &expiry, CreatedAt: now},
		},
		AuthSessions: []model.Session{
			{ID: 1, UserID: 1, Token: "session_abc", ExpiresAt: now.Add(24 * time.Hour), CreatedAt: now},
		},
		EmailLogs: []model.EmailLogEntry{
			{ID: 1, Email: "pending@x.com", Type: model.EmailTypeVerification, Code: code, SentAt: now, Status: model.EmailStatusSent},
			{ID: 2, Email: "pending@x.com", Type: model.EmailTypeVerification, Code: "654321", SentAt: now, Status: model.EmailStatusDelivered},
		},
	}
}

func TestFileLoadSeedsWhenEmpty(t *testing.T) {
	fs := newFileStore(t)

	snap, err := fs.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, SeedEmail, snap.Users[0].Email)
	assert.True(t, snap.Users[0].IsVerified)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(snap.Users[0].PasswordHash), []byte(SeedPassword)))
	assert.Empty(t, snap.AuthSessions)
}

func TestFileSnapshotRoundTrip(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	want := sampleSnapshot()
	require.NoError(t, fs.Save(ctx, want))

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Users, got.Users)
	assert.Equal(t, want.AuthSessions, got.AuthSessions)
	// Audit log order must survive the round trip.
	assert.Equal(t, want.EmailLogs, got.EmailLogs)
}

func TestFileSaveOverwrites(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, sampleSnapshot()))
	require.NoError(t, fs.Save(ctx, &Snapshot{}))

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Users)
	assert.Empty(t, got.AuthSessions)
	assert.Empty(t, got.EmailLogs)
}

func TestFileTokenSlot(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	token, err := fs.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, fs.Set(ctx, "session_deadbeef"))
	token, err = fs.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "session_deadbeef", token)

	require.NoError(t, fs.Clear(ctx))
	token, err = fs.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing an already empty slot is not an error.
	require.NoError(t, fs.Clear(ctx))
}
