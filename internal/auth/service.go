// Package auth implements the authentication core: registration,
// email-code verification, login, session issuance and logout, all
// operating on a snapshot held by a pluggable store. The core is an
// explicit service object constructed once at startup and injected
// into its callers; there is no package-level state.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/verimail/email-auth/internal/model"
	"github.com/verimail/email-auth/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// Default lifetimes matching the reference flow: codes live 10
// minutes, sessions 24 hours.
const (
	DefaultCodeTTL    = 10 * time.Minute
	DefaultSessionTTL = 24 * time.Hour
)

// Notifier is told about every email-log entry the core appends, so
// a queue publisher can simulate the actual send. Notifications are
// best-effort: the log entry is already persisted and remains the
// source of truth whether or not the notifier succeeds.
type Notifier interface {
	EmailQueued(ctx context.Context, entry model.EmailLogEntry)
}

// Config carries the tunables of the auth core.
type Config struct {
	BcryptCost int
	CodeTTL    time.Duration
	SessionTTL time.Duration
}

// Service is the auth core. All operations are serialized behind one
// mutex: the snapshot model assumes a single logical writer, and two
// interleaved mutations could otherwise both compute the same next
// id. Reads take the same lock because CurrentUser may clear the
// token slot on lazy expiry.
//
// Mutating operations stage their changes on a clone of the snapshot
// and swap it in only after Save succeeds, so a failed Save leaves
// the in-memory state equal to the durable state and the caller can
// simply retry.
type Service struct {
	mu        sync.Mutex
	snap      *store.Snapshot
	snapshots store.SnapshotStore
	tokens    store.TokenSlot
	cfg       Config
	notifier  Notifier
	now       func() time.Time
}

// Option customizes a Service at construction time.
type Option func(*Service)

// WithNotifier attaches a send-simulation notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides the time source; tests use this to cross
// expiry boundaries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService loads the last durable snapshot (or the seed dataset)
// and returns a ready core. The snapshot stays in memory for the
// service's lifetime; every mutating operation ends with exactly one
// Save back to the store.
func NewService(ctx context.Context, snapshots store.SnapshotStore, tokens store.TokenSlot, cfg Config, opts ...Option) (*Service, error) {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.CodeTTL == 0 {
		cfg.CodeTTL = DefaultCodeTTL
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	snap, err := snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}
	s := &Service{
		snap:      snap,
		snapshots: snapshots,
		tokens:    tokens,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates an unverified user with a fresh verification code
// and logs the (simulated) verification email. Fails with
// duplicate_email when the address is already present; the match is
// a case-sensitive exact comparison, as stored. Password strength is
// not validated here — that policy belongs to the caller.
func (s *Service) Register(ctx context.Context, email, password string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if findUser(s.snap, email) != nil {
		return failure(CodeDuplicateEmail, "This email is already registered."), nil
	}

	code, err := newVerificationCode()
	if err != nil {
		return Result{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return Result{}, err
	}

	now := s.now().UTC()
	expiry := now.Add(s.cfg.CodeTTL)
	next := s.snap.Clone()
	user := model.User{
		ID:               nextUserID(next),
		Email:            email,
		PasswordHash:     string(hash),
		IsVerified:       false,
		VerificationCode: &code,
		CodeExpiry:       &expiry,
		CreatedAt:        now,
	}
	next.Users = append(next.Users, user)

	entry := appendEmailLog(next, email, code, now)

	if err := s.snapshots.Save(ctx, next); err != nil {
		return Result{}, err
	}
	s.snap = next
	s.notifyEmail(ctx, entry)

	return success("Registration complete. A verification code was sent to " + email + "."), nil
}

// Login checks credentials and, for a verified user, creates a
// session, stores its token as the current bearer token and returns
// the user payload. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := findUser(s.snap, email)
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return failure(CodeInvalidCredentials, "Email or password is incorrect."), nil
	}
	if !user.IsVerified {
		return failure(CodeEmailNotVerified, "Email verification is required."), nil
	}

	token, err := newSessionToken()
	if err != nil {
		return Result{}, err
	}
	now := s.now().UTC()
	next := s.snap.Clone()
	sess := model.Session{
		ID:        nextSessionID(next),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
		CreatedAt: now,
	}
	next.AuthSessions = append(next.AuthSessions, sess)

	if err := s.snapshots.Save(ctx, next); err != nil {
		return Result{}, err
	}
	s.snap = next
	if err := s.tokens.Set(ctx, token); err != nil {
		return Result{}, err
	}

	res := success("Login successful.")
	res.User = user.View()
	return res, nil
}

// VerifyEmail confirms control of an address with the pending code.
// Checks short-circuit in order: existence, already-verified, code
// match, expiry. On success the user becomes verified irreversibly
// and the code and its expiry are nulled.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := findUser(s.snap, email)
	if user == nil {
		return failure(CodeUserNotFound, "User not found."), nil
	}
	if user.IsVerified {
		return failure(CodeAlreadyVerified, "This email is already verified."), nil
	}
	if user.VerificationCode == nil || *user.VerificationCode != code {
		return failure(CodeInvalidCode, "The verification code is incorrect."), nil
	}
	if user.CodeExpiry != nil && user.CodeExpiry.Before(s.now()) {
		return failure(CodeExpiredCode, "The verification code has expired."), nil
	}

	next := s.snap.Clone()
	staged := findUser(next, email)
	staged.IsVerified = true
	staged.VerificationCode = nil
	staged.CodeExpiry = nil

	if err := s.snapshots.Save(ctx, next); err != nil {
		return Result{}, err
	}
	s.snap = next
	return success("Email verification complete!"), nil
}

// ResendCode replaces the pending verification code with a fresh one
// and logs a new (simulated) email. The previous code stops working
// immediately because it is overwritten, not retained.
func (s *Service) ResendCode(ctx context.Context, email string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := findUser(s.snap, email)
	if user == nil {
		return failure(CodeUserNotFound, "User not found."), nil
	}
	if user.IsVerified {
		return failure(CodeAlreadyVerified, "This email is already verified."), nil
	}

	code, err := newVerificationCode()
	if err != nil {
		return Result{}, err
	}
	now := s.now().UTC()
	expiry := now.Add(s.cfg.CodeTTL)
	next := s.snap.Clone()
	staged := findUser(next, email)
	staged.VerificationCode = &code
	staged.CodeExpiry = &expiry

	entry := appendEmailLog(next, email, code, now)

	if err := s.snapshots.Save(ctx, next); err != nil {
		return Result{}, err
	}
	s.snap = next
	s.notifyEmail(ctx, entry)

	return success("A new verification code was sent."), nil
}

// Logout removes every session carrying the current bearer token and
// clears the token slot. With no bearer token set it is a silent
// no-op. Removal is by predicate over the token, not a unique
// lookup, though at most one session should ever match.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.tokens.Get(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	next := s.snap.Clone()
	kept := next.AuthSessions[:0]
	for _, sess := range next.AuthSessions {
		if sess.Token != token {
			kept = append(kept, sess)
		}
	}
	next.AuthSessions = kept

	if err := s.snapshots.Save(ctx, next); err != nil {
		return err
	}
	s.snap = next
	return s.tokens.Clear(ctx)
}

// CurrentUser resolves the caller from the bearer-token slot. A
// missing token, an unknown token or an expired session all yield
// nil without error; the latter two also clear the slot (lazy
// expiry, no background sweep). A session whose user no longer
// exists resolves to nil as well.
func (s *Service) CurrentUser(ctx context.Context) (*model.UserView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.tokens.Get(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	var sess *model.Session
	for i := range s.snap.AuthSessions {
		if s.snap.AuthSessions[i].Token == token {
			sess = &s.snap.AuthSessions[i]
			break
		}
	}
	if sess == nil || !sess.Valid(s.now()) {
		if err := s.tokens.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	for i := range s.snap.Users {
		if s.snap.Users[i].ID == sess.UserID {
			return s.snap.Users[i].View(), nil
		}
	}
	return nil, nil
}

// MarkEmailDelivered flips a log entry from sent to delivered. It is
// called by the delivery simulator after consuming the queued event,
// never by the auth operations themselves, which treat the log as
// append-only. Unknown ids are ignored.
func (s *Service) MarkEmailDelivered(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap.EmailLogs {
		if s.snap.EmailLogs[i].ID == id {
			if s.snap.EmailLogs[i].Status != model.EmailStatusSent {
				return nil
			}
			next := s.snap.Clone()
			next.EmailLogs[i].Status = model.EmailStatusDelivered
			if err := s.snapshots.Save(ctx, next); err != nil {
				return err
			}
			s.snap = next
			return nil
		}
	}
	return nil
}

// Users returns sanitized views of all users, for the dev debug
// endpoint.
func (s *Service) Users(ctx context.Context) []model.UserView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]model.UserView, 0, len(s.snap.Users))
	for i := range s.snap.Users {
		views = append(views, *s.snap.Users[i].View())
	}
	return views
}

// EmailLogs returns a copy of the email audit log, for the dev debug
// endpoint.
func (s *Service) EmailLogs(ctx context.Context) []model.EmailLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]model.EmailLogEntry, len(s.snap.EmailLogs))
	copy(logs, s.snap.EmailLogs)
	return logs
}

// Reset restores the seed snapshot and clears the bearer-token slot.
// Dev-only: wired behind the debug routes.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := store.SeedSnapshot(s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return err
	}
	s.snap = snap
	return s.tokens.Clear(ctx)
}

// findUser looks up a user by exact, case-sensitive email match. The
// returned pointer aliases the snapshot's slice; mutate it only on a
// staged clone.
func findUser(snap *store.Snapshot, email string) *model.User {
	for i := range snap.Users {
		if snap.Users[i].Email == email {
			return &snap.Users[i]
		}
	}
	return nil
}

func nextUserID(snap *store.Snapshot) uint64 {
	var max uint64
	for i := range snap.Users {
		if snap.Users[i].ID > max {
			max = snap.Users[i].ID
		}
	}
	return max + 1
}

func nextSessionID(snap *store.Snapshot) uint64 {
	var max uint64
	for i := range snap.AuthSessions {
		if snap.AuthSessions[i].ID > max {
			max = snap.AuthSessions[i].ID
		}
	}
	return max + 1
}

func nextEmailLogID(snap *store.Snapshot) uint64 {
	var max uint64
	for i := range snap.EmailLogs {
		if snap.EmailLogs[i].ID > max {
			max = snap.EmailLogs[i].ID
		}
	}
	return max + 1
}

// appendEmailLog records a verification email as sent on the staged
// snapshot. Callers Save afterwards.
func appendEmailLog(snap *store.Snapshot, email, code string, now time.Time) model.EmailLogEntry {
	entry := model.EmailLogEntry{
		ID:     nextEmailLogID(snap),
		Email:  email,
		Type:   model.EmailTypeVerification,
		Code:   code,
		SentAt: now,
		Status: model.EmailStatusSent,
	}
	snap.EmailLogs = append(snap.EmailLogs, entry)
	return entry
}

func (s *Service) notifyEmail(ctx context.Context, entry model.EmailLogEntry) {
	if s.notifier != nil {
		s.notifier.EmailQueued(ctx, entry)
	}
}
