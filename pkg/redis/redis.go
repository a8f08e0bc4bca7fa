package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shop-ex/shopex-backend/config"
	"github.com/shop-ex/shopex-backend/pkg/logger"
)

var client *redis.Client

// Init initializes the Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

const roleCachePrefix = "role:"

// RoleCacheTTL bounds how stale a cached role snapshot may get before the
// guard chain goes back to the database.
const RoleCacheTTL = 5 * time.Minute

// CacheRole stores a user's role snapshot keyed by email.
func CacheRole(ctx context.Context, email, payload string) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, roleCachePrefix+email, payload, RoleCacheTTL).Err()
}

// GetCachedRole fetches a cached role snapshot. Returns redis.Nil when the
// key is absent.
func GetCachedRole(ctx context.Context, email string) (string, error) {
	if client == nil {
		return "", redis.Nil
	}
	return client.Get(ctx, roleCachePrefix+email).Result()
}

// InvalidateRole drops a cached role snapshot after a role or seller-request
// change so the next guard check sees the new state.
func InvalidateRole(ctx context.Context, email string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, roleCachePrefix+email).Err()
}

// SetJSON stores an arbitrary JSON payload with a TTL (facet cache).
func SetJSON(ctx context.Context, key, payload string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, key, payload, ttl).Err()
}

// GetJSON fetches a JSON payload previously stored with SetJSON.
func GetJSON(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", redis.Nil
	}
	return client.Get(ctx, key).Result()
}

// IsNil reports whether an error is the redis key-missing sentinel.
func IsNil(err error) bool {
	return err == redis.Nil
}
