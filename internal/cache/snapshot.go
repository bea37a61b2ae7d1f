// Package cache provides the Redis-backed layout snapshot mirror: the
// full layout document is written after every flush so the editor can
// reload local state while the primary store is unreachable.
package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultSnapshotKey is the Redis key holding the layout document.
const DefaultSnapshotKey = "seating:layout:snapshot"

// ErrNoSnapshot is returned when no snapshot has been written yet.
var ErrNoSnapshot = errors.New("no layout snapshot")

// SnapshotStore mirrors layout documents into Redis. The snapshot has no
// TTL; it is overwritten on every write and only replaced, never expired.
type SnapshotStore struct {
	rdb *redis.Client
	key string
}

// NewSnapshotStore returns a store over the given client, or nil when the
// client is nil so callers can degrade to running without a mirror.
func NewSnapshotStore(rdb *redis.Client, key string) *SnapshotStore {
	if rdb == nil {
		return nil
	}
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &SnapshotStore{rdb: rdb, key: key}
}

// WriteSnapshot stores the layout document.
func (s *SnapshotStore) WriteSnapshot(ctx context.Context, doc []byte) error {
	return s.rdb.Set(ctx, s.key, doc, 0).Err()
}

// ReadSnapshot returns the last stored layout document.
func (s *SnapshotStore) ReadSnapshot(ctx context.Context) ([]byte, error) {
	bs, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return bs, nil
}
