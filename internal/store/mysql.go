package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Slot keys inside the `slots` table.
const (
	mysqlSnapshotSlot = "snapshot"
	mysqlTokenSlot    = "auth-token"
)

// MySQLStore keeps each slot as a single row in a two-column table.
// The whole snapshot travels as one JSON payload, so the row is
// overwritten in a single statement per Save — the same overwrite
// semantics the other backends provide.
type MySQLStore struct {
	db         *sql.DB
	bcryptCost int
}

// OpenMySQL connects to MySQL, verifies the connection and ensures
// the `slots` table exists. bcryptCost is only used when seeding an
// empty snapshot slot.
func OpenMySQL(user, pass, host, port, name string, bcryptCost int) (*MySQLStore, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS slots (slot_key VARCHAR(64) PRIMARY KEY, payload LONGBLOB NOT NULL)"); err != nil {
		return nil, err
	}
	return &MySQLStore{db: db, bcryptCost: bcryptCost}, nil
}

// Close releases the underlying connection pool.
func (m *MySQLStore) Close() error { return m.db.Close() }

// Load reads the snapshot row, falling back to the seed dataset when
// the row does not exist yet.
func (m *MySQLStore) Load(ctx context.Context) (*Snapshot, error) {
	var payload []byte
	err := m.db.QueryRowContext(ctx,
		"SELECT payload FROM slots WHERE slot_key=? LIMIT 1", mysqlSnapshotSlot).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SeedSnapshot(m.bcryptCost)
		}
		return nil, fmt.Errorf("%w: select snapshot: %v", ErrUnavailable, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", ErrUnavailable, err)
	}
	return &snap, nil
}

// Save overwrites the snapshot row.
func (m *MySQLStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", ErrUnavailable, err)
	}
	return m.upsert(ctx, mysqlSnapshotSlot, data)
}

// Get reads the bearer-token row; "" means no token is set.
func (m *MySQLStore) Get(ctx context.Context) (string, error) {
	var payload []byte
	err := m.db.QueryRowContext(ctx,
		"SELECT payload FROM slots WHERE slot_key=? LIMIT 1", mysqlTokenSlot).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("%w: select token: %v", ErrUnavailable, err)
	}
	return string(payload), nil
}

// Set stores the bearer token.
func (m *MySQLStore) Set(ctx context.Context, token string) error {
	return m.upsert(ctx, mysqlTokenSlot, []byte(token))
}

// Clear removes the bearer-token row. Deleting a missing row is not
// an error.
func (m *MySQLStore) Clear(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx,
		"DELETE FROM slots WHERE slot_key=?", mysqlTokenSlot); err != nil {
		return fmt.Errorf("%w: delete token: %v", ErrUnavailable, err)
	}
	return nil
}

func (m *MySQLStore) upsert(ctx context.Context, key string, payload []byte) error {
	if _, err := m.db.ExecContext(ctx,
		"INSERT INTO slots (slot_key, payload) VALUES (?,?) ON DUPLICATE KEY UPDATE payload=VALUES(payload)",
		key, payload); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", ErrUnavailable, key, err)
	}
	return nil
}
