package utils

import (
	"context"
	"fmt"
	"time"

	"wellportal/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient backs the sealed token store.
	SessionCacheClient *redis.Client
	// NoticeCacheClient backs the per-session notice inbox.
	NoticeCacheClient *redis.Client
)

// NewRedisClient opens a client on the configured server for db and pings it.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis db %d: %w", db, err)
	}
	return client, nil
}

// InitRedis connects both portal Redis databases.
func InitRedis() error {
	var err error
	if SessionCacheClient, err = NewRedisClient(config.AppConfig.RedisSessionDB); err != nil {
		return err
	}
	if NoticeCacheClient, err = NewRedisClient(config.AppConfig.RedisNoticeDB); err != nil {
		return err
	}
	return nil
}

// CloseRedis closes whichever clients were opened.
func CloseRedis() {
	for _, c := range []*redis.Client{SessionCacheClient, NoticeCacheClient} {
		if c != nil {
			_ = c.Close()
		}
	}
}
