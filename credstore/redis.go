package credstore

import (
	"context"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisStore defines a public type used by authgate APIs.
//
// RedisStore persists the credential pair in Redis for deployments where
// several headless client processes share one logical session (for example a
// fleet of workers acting as the same service identity). The two values live
// under "<prefix>:token" and "<prefix>:refresh_token".
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStore(client *redis.Client, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if prefix == "" {
		prefix = "authgate"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) tokenKey() string   { return s.prefix + ":" + KeyToken }
func (s *RedisStore) refreshKey() string { return s.prefix + ":" + KeyRefreshToken }

// Get describes the get operation and its observable behavior.
//
// Get never fails: Redis errors and absent keys both yield the Anonymous
// credentials.
func (s *RedisStore) Get(ctx context.Context) Credentials {
	if s == nil || s.client == nil {
		return Credentials{}
	}
	vals, err := s.client.MGet(ctx, s.tokenKey(), s.refreshKey()).Result()
	if err != nil {
		log.Print("authgate: credential read from redis failed, treating as anonymous")
		return Credentials{}
	}
	var creds Credentials
	if len(vals) > 0 {
		if v, ok := vals[0].(string); ok {
			creds.AccessToken = v
		}
	}
	if len(vals) > 1 {
		if v, ok := vals[1].(string); ok {
			creds.RefreshToken = v
		}
	}
	return creds
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Both values are written in one transactional pipeline so readers never
// observe a half-written pair.
func (s *RedisStore) Set(ctx context.Context, creds Credentials) error {
	if s == nil || s.client == nil {
		return errors.New("redis store not initialized")
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(), creds.AccessToken, 0)
		if creds.RefreshToken != "" {
			pipe.Set(ctx, s.refreshKey(), creds.RefreshToken, 0)
		} else {
			pipe.Del(ctx, s.refreshKey())
		}
		return nil
	})
	return err
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear is idempotent: deleting absent keys succeeds.
func (s *RedisStore) Clear(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.tokenKey(), s.refreshKey()).Err()
}
