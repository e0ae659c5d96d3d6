package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

// ConnectRedis connects the session cache. Redis is optional: without
// REDIS_ADDR the auth middleware simply hits the database on every request.
func ConnectRedis(cfg *Config) {
	if cfg.Redis.Addr == "" {
		slog.Warn("REDIS_ADDR not set, session caching disabled")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		slog.Error("Redis connection failed, caching disabled", "error", err)
		RDB = nil
		return
	}

	slog.Info("Redis connection established")
}
