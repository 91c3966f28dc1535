package history

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the sorted set holding shared history.
const DefaultRedisKey = "mathsheet:history"

// RedisStore keeps history in a Redis sorted set, so several server
// instances share one duplicate-avoidance list. Scores come from a counter
// at key+":seq" and so stay exact integers in insertion order.
type RedisStore struct {
	client *redis.Client
	key    string
	// MaxEntries trims the oldest entries beyond this size. Zero keeps all.
	MaxEntries int64
}

// NewRedisStore creates a store on the given client and key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) seqKey() string { return s.key + ":seq" }

// Load reads every entry, oldest first.
func (s *RedisStore) Load(ctx context.Context) (*History, error) {
	texts, err := s.client.ZRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history from redis: %w", err)
	}
	return New(texts...), nil
}

// Append adds texts that are not yet present. Existing members keep their
// original score.
func (s *RedisStore) Append(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	var clean []string
	for _, t := range texts {
		if t = normalize(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return nil
	}

	last, err := s.client.IncrBy(ctx, s.seqKey(), int64(len(clean))).Result()
	if err != nil {
		return fmt.Errorf("reserve history scores: %w", err)
	}
	first := last - int64(len(clean)) + 1
	members := make([]redis.Z, len(clean))
	for i, t := range clean {
		members[i] = redis.Z{Score: float64(first + int64(i)), Member: t}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddNX(ctx, s.key, members...)
		if s.MaxEntries > 0 {
			pipe.ZRemRangeByRank(ctx, s.key, 0, -(s.MaxEntries + 1))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append history to redis: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key, s.seqKey()).Err(); err != nil {
		return fmt.Errorf("clear redis history: %w", err)
	}
	return nil
}
