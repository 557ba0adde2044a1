package storage

import (
	"context"
	"iter"

	"github.com/redis/go-redis/v9"
)

const redisPageSize = 256

// RedisStore keeps lines in a Redis list
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore returns a store backed by the list at key.
// The store owns client and closes it on Close.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// ReadAll pages through the list with LRANGE
func (s *RedisStore) ReadAll(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for start := int64(0); ; start += redisPageSize {
			page, err := s.client.LRange(ctx, s.key, start, start+redisPageSize-1).Result()
			if err != nil {
				yield("", wrapErr("lrange", s.key, err))
				return
			}
			for _, line := range page {
				if !yield(line, nil) {
					return
				}
			}
			if len(page) < redisPageSize {
				return
			}
		}
	}
}

// AppendOne pushes line to the tail of the list
func (s *RedisStore) AppendOne(ctx context.Context, line string) error {
	if err := checkLine(line); err != nil {
		return err
	}
	if err := s.client.RPush(ctx, s.key, line).Err(); err != nil {
		return wrapErr("rpush", s.key, err)
	}
	return nil
}

// WriteAll replaces the list inside MULTI/EXEC
func (s *RedisStore) WriteAll(ctx context.Context, lines []string) error {
	if err := checkLines(lines); err != nil {
		return err
	}

	values := make([]any, len(lines))
	for i, line := range lines {
		values[i] = line
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.RPush(ctx, s.key, values...)
		}
		return nil
	})
	if err != nil {
		return wrapErr("replace", s.key, err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
