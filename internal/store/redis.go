package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each slot under its own Redis key. No TTL is set
// on either key: expiry in this system is data-level (code and
// session timestamps), checked lazily by the core on read.
type RedisStore struct {
	rdb        *redis.Client
	prefix     string
	bcryptCost int
}

// NewRedisStore returns a store writing to <prefix>:snapshot and
// <prefix>:token. bcryptCost is only used when seeding an empty
// snapshot slot.
func NewRedisStore(rdb *redis.Client, prefix string, bcryptCost int) *RedisStore {
	if prefix == "" {
		prefix = "emailauth"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, bcryptCost: bcryptCost}
}

func (r *RedisStore) snapshotKey() string { return r.prefix + ":snapshot" }
func (r *RedisStore) tokenKey() string    { return r.prefix + ":token" }

// Load reads the snapshot key, falling back to the seed dataset when
// the key does not exist.
func (r *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := r.rdb.Get(ctx, r.snapshotKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return SeedSnapshot(r.bcryptCost)
		}
		return nil, fmt.Errorf("%w: redis get snapshot: %v", ErrUnavailable, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", ErrUnavailable, err)
	}
	return &snap, nil
}

// Save overwrites the snapshot key.
func (r *RedisStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", ErrUnavailable, err)
	}
	if err := r.rdb.Set(ctx, r.snapshotKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set snapshot: %v", ErrUnavailable, err)
	}
	return nil
}

// Get reads the bearer-token key; "" means no token is set.
func (r *RedisStore) Get(ctx context.Context) (string, error) {
	token, err := r.rdb.Get(ctx, r.tokenKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("%w: redis get token: %v", ErrUnavailable, err)
	}
	return token, nil
}

// Set stores the bearer token.
func (r *RedisStore) Set(ctx context.Context, token string) error {
	if err := r.rdb.Set(ctx, r.tokenKey(), token, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set token: %v", ErrUnavailable, err)
	}
	return nil
}

// Clear removes the bearer-token key. Deleting a missing key is not
// an error.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.tokenKey()).Err(); err != nil {
		return fmt.Errorf("%w: redis del token: %v", ErrUnavailable, err)
	}
	return nil
}
