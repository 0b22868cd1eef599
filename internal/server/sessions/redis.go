package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/dmitrijs2005/audiovote/internal/server/models"
	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "audiovote:session:"

// RedisStore keeps one key per session and lets Redis expire it.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient builds a client and checks connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Save(ctx context.Context, sess *models.Session) error {
	ttl := time.Until(sess.Expires)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKey(sess.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	sess := &models.Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

// Extend rewrites the record so the stored expiry matches the key TTL. The
// write only happens while the key still exists, so a concurrent Remove
// is never undone.
func (s *RedisStore) Extend(ctx context.Context, id string, expires time.Time) error {
	sess, err := s.Load(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	ttl := time.Until(expires)
	if ttl <= 0 {
		return s.Remove(ctx, id)
	}

	sess.Expires = expires
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.client.SetXX(ctx, redisKey(id), data, ttl).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis drops expired keys itself.
func (s *RedisStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
