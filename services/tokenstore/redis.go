package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wellportal/models"
	"wellportal/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// blobStore is the slice of Redis the store needs. get returns nil, nil
// for a missing key.
type blobStore interface {
	get(ctx context.Context, key string) ([]byte, error)
	set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	del(ctx context.Context, key string) error
	expire(ctx context.Context, key string, ttl time.Duration) error
}

type redisBlobs struct {
	client *redis.Client
}

func (r redisBlobs) get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

func (r redisBlobs) set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, val, ttl).Err()
}

func (r redisBlobs) del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r redisBlobs) expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Expire(ctx, key, ttl).Err()
}

// RedisProvider stores sealed session blobs in Redis under
// utils.SessionKeyPrefix with a sliding TTL: every successful Load pushes
// the expiry out again.
type RedisProvider struct {
	blobs  blobStore
	sealer *Sealer
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisProvider(client *redis.Client, sealer *Sealer, ttl time.Duration, logger *zap.Logger) *RedisProvider {
	return newRedisProvider(redisBlobs{client: client}, sealer, ttl, logger)
}

func newRedisProvider(blobs blobStore, sealer *Sealer, ttl time.Duration, logger *zap.Logger) *RedisProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisProvider{blobs: blobs, sealer: sealer, ttl: ttl, logger: logger}
}

func (p *RedisProvider) For(sid string) Store {
	if sid == "" {
		return emptyStore{}
	}
	return &redisStore{p: p, key: utils.SessionKeyPrefix + sid}
}

type redisStore struct {
	p   *RedisProvider
	key string
}

func (s *redisStore) Load(ctx context.Context) (*models.AuthSession, error) {
	blob, err := s.p.blobs.get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if blob == nil {
		return nil, nil
	}
	plain, err := s.p.sealer.Open(blob, []byte(s.key))
	if err != nil {
		// Unreadable blobs (rotated secret, tampering) count as logged out.
		s.p.logger.Warn("Dropping unreadable session blob", zap.Error(err))
		_ = s.p.blobs.del(ctx, s.key)
		return nil, nil
	}
	var session models.AuthSession
	if err := json.Unmarshal(plain, &session); err != nil {
		_ = s.p.blobs.del(ctx, s.key)
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	if s.p.ttl > 0 {
		if err := s.p.blobs.expire(ctx, s.key, s.p.ttl); err != nil {
			s.p.logger.Warn("Failed to extend session TTL", zap.Error(err))
		}
	}
	return &session, nil
}

func (s *redisStore) Save(ctx context.Context, session *models.AuthSession) error {
	if session == nil {
		return s.Clear(ctx)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}
	blob, err := s.p.sealer.Seal(data, []byte(s.key))
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	if err := s.p.blobs.set(ctx, s.key, blob, s.p.ttl); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	if err := s.p.blobs.del(ctx, s.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
