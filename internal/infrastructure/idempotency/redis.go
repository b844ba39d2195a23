package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pending valor de una clave reservada cuya respuesta aún no existe.
const pending = "pending"

// RedisStore claves compartidas entre instancias del API.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore conecta y verifica con PING (timeout 5s).
func NewRedisStore(addr, password string, db int, keyPrefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreWithClient(client, keyPrefix), nil
}

// NewRedisStoreWithClient usa un cliente existente (tests, cluster).
func NewRedisStoreWithClient(client redis.UniversalClient, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) key(k string) string {
	return s.keyPrefix + k
}

func (s *RedisStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pending, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Response, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("idempotency get: %w", err)
	}
	if raw == pending {
		return nil, true, nil
	}
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, false, fmt.Errorf("idempotency decode: %w", err)
	}
	return &resp, true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, resp Response, ttl time.Duration) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(key), b, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency save: %w", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
