package repository

import (
	"context"
	"fmt"

	"restaurantreviews/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

type redisTokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) TokenBlacklist {
	return &redisTokenBlacklist{client: client}
}

// IsBlacklisted проверяет, отозван ли токен
func (r *redisTokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpExists)
	defer timer.ObserveDuration()

	exists, err := r.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpExists)
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return exists > 0, nil
}
