package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 24 * time.Hour

// Store keeps auth state in Redis: one hash per logged-in user plus
// one-shot verification/reset tokens.
type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func sessionKey(userID string) string { return "user:session:" + userID }

func tokenKey(kind, token string) string { return kind + ":token:" + token }

func (s *Store) Save(ctx context.Context, userID, sessionID string, fields map[string]string) error {
	key := sessionKey(userID)
	hset := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		hset[k] = v
	}
	hset["sid"] = sessionID
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, hset)
	pipe.Expire(ctx, key, sessionTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Get(ctx context.Context, userID string) (map[string]string, error) {
	return s.rdb.HGetAll(ctx, sessionKey(userID)).Result()
}

func (s *Store) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

func (s *Store) Set(ctx context.Context, kind, token, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, tokenKey(kind, token), userID, ttl).Err()
}

// Take consumes the token. A missing or already-used token yields "".
func (s *Store) Take(ctx context.Context, kind, token string) (string, error) {
	uid, err := s.rdb.GetDel(ctx, tokenKey(kind, token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return uid, err
}
