// Package history persists per-user search history in a local bbolt file.
// Each user gets one bucket; entries are keyed by a zero-padded sequence
// number so a reverse cursor walk yields newest-first order.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/midori-cloud/kensaku/internal/domain"
)

// DefaultMaxPerUser caps retained entries per bucket when the config
// leaves the limit unset.
const DefaultMaxPerUser = 500

type Store struct {
	db         *bolt.DB
	maxPerUser int
	logger     *zap.Logger
}

// Open creates or opens the history database at path.
func Open(path string, maxPerUser int, logger *zap.Logger) (*Store, error) {
	if maxPerUser <= 0 {
		maxPerUser = DefaultMaxPerUser
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	return &Store{db: db, maxPerUser: maxPerUser, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores one entry for entry.Username and prunes the oldest rows
// beyond the per-user cap in the same transaction.
func (s *Store) Append(ctx context.Context, entry domain.SearchLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.Username == "" {
		return fmt.Errorf("append history: %w: empty username", domain.ErrDocumentInvalid)
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(entry.Username))
		if err != nil {
			return fmt.Errorf("bucket %s: %w", entry.Username, err)
		}
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		if err := b.Put(seqKey(seq), value); err != nil {
			return fmt.Errorf("put: %w", err)
		}
		return prune(b, s.maxPerUser)
	})
	if err != nil {
		return fmt.Errorf("append history for %s: %w", entry.Username, err)
	}
	return nil
}

// Recent returns up to limit entries for username, newest first. An
// unknown user yields an empty slice, not an error.
func (s *Store) Recent(ctx context.Context, username string, limit int) ([]domain.SearchLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMaxPerUser
	}

	var entries []domain.SearchLogEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(username))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var entry domain.SearchLogEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				s.logger.Warn("skipping corrupt history entry",
					zap.String("username", username),
					zap.ByteString("key", k),
					zap.Error(err))
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read history for %s: %w", username, err)
	}
	return entries, nil
}

// prune deletes the oldest keys until the bucket holds at most max rows.
func prune(b *bolt.Bucket, max int) error {
	count := 0
	counter := b.Cursor()
	for k, _ := counter.First(); k != nil; k, _ = counter.Next() {
		count++
	}
	excess := count - max
	if excess <= 0 {
		return nil
	}
	c := b.Cursor()
	for k, _ := c.First(); k != nil && excess > 0; k, _ = c.Next() {
		if err := c.Delete(); err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		excess--
	}
	return nil
}

func seqKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%016d", seq))
}
