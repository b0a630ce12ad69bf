package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/promptdeck/pkg/lifecycle"
)

const redisPingTimeout = 5 * time.Second

type redisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis creates a storage system that keeps each slot under a Redis string key.
func NewRedis(cfg *Config, logger *slog.Logger) System {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &redisStore{
		client: client,
		logger: logger,
	}
}

func (r *redisStore) Start(lc *lifecycle.Coordinator) error {
	r.logger.Info("starting storage system")

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), redisPingTimeout)
		defer cancel()

		if err := r.client.Ping(ctx).Err(); err != nil {
			r.logger.Error("redis ping failed", "error", err)
			return
		}
		r.logger.Info("redis connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		r.logger.Info("closing redis connection")
		r.client.Close()
	})

	return nil
}

func (r *redisStore) Read(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get key %s: %w", key, err)
	}
	return data, nil
}

func (r *redisStore) Write(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("set key %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("delete key %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check key %s: %w", key, err)
	}
	return n > 0, nil
}
