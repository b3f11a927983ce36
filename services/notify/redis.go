package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wellportal/models"
	"wellportal/utils"

	"github.com/go-redis/redis/v8"
)

// RedisBox keeps each session's notices in a capped Redis list.
type RedisBox struct {
	client   *redis.Client
	capacity int64
	ttl      time.Duration
}

func NewRedisBox(client *redis.Client, capacity int, ttl time.Duration) *RedisBox {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RedisBox{client: client, capacity: int64(capacity), ttl: ttl}
}

func (b *RedisBox) key(sid string) string {
	return utils.NoticeKeyPrefix + sid
}

func (b *RedisBox) Push(ctx context.Context, sid string, n models.Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	key := b.key(sid)
	_, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, -b.capacity, -1)
		pipe.Expire(ctx, key, b.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push notice: %w", err)
	}
	return nil
}

func (b *RedisBox) Drain(ctx context.Context, sid string) ([]models.Notice, error) {
	key := b.key(sid)
	var items *redis.StringSliceCmd
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drain notices: %w", err)
	}

	raw := items.Val()
	out := make([]models.Notice, 0, len(raw))
	for _, r := range raw {
		var n models.Notice
		if err := json.Unmarshal([]byte(r), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (b *RedisBox) Forget(ctx context.Context, sid string) error {
	return b.client.Del(ctx, b.key(sid)).Err()
}
