package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/midori-cloud/kensaku/internal/domain"
)

// Config holds connection parameters for the Redis-backed counter.
type Config struct {
	Addrs     []string
	Password  string
	KeyPrefix string
}

// Redis counts term popularity in Redis sorted sets, one set per kind.
// Counts survive restarts and are shared across instances.
type Redis struct {
	client rueidis.Client
	prefix string
}

// NewRedis creates a Redis counter via rueidis.
func NewRedis(cfg Config) (*Redis, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "kensaku:"
	}
	return &Redis{client: client, prefix: prefix}, nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	cmd := r.client.B().Ping().Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (r *Redis) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for redis: %w", ctx.Err())
		case <-ticker.C:
			if err := r.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Close shuts down the client.
func (r *Redis) Close() {
	r.client.Close()
}

// Incr bumps member's count within kind by one.
func (r *Redis) Incr(ctx context.Context, kind, member string) error {
	cmd := r.client.B().Zincrby().Key(r.key(kind)).Increment(1).Member(member).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("zincrby %s: %w", kind, err)
	}
	return nil
}

// Top returns the limit highest-counted members of kind, most frequent first.
func (r *Redis) Top(ctx context.Context, kind string, limit int) ([]domain.RankedTerm, error) {
	if limit <= 0 {
		return nil, nil
	}

	cmd := r.client.B().Zrange().Key(r.key(kind)).
		Min("0").Max(fmt.Sprintf("%d", limit-1)).
		Rev().Withscores().Build()
	scores, err := r.client.Do(ctx, cmd).AsZScores()
	if err != nil {
		return nil, fmt.Errorf("zrange %s: %w", kind, err)
	}

	terms := make([]domain.RankedTerm, 0, len(scores))
	for _, zs := range scores {
		terms = append(terms, domain.RankedTerm{Term: zs.Member, Count: int64(zs.Score)})
	}
	return terms, nil
}

func (r *Redis) key(kind string) string {
	return r.prefix + "rank:" + kind
}
