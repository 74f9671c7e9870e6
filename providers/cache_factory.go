package providers

import (
	"log/slog"
	"time"

	"recipebot.app/config"
	"recipebot.app/errors"
	"recipebot.app/providers/cache"
)

// NewShoppingListCache builds the configured shopping list cache, wrapped with
// metrics instrumentation. Returns nil when caching is disabled.
func NewShoppingListCache(cfg *config.CacheConfig) (cache.ShoppingCacheInterface, error) {
	switch cfg.Type {
	case "none":
		slog.Info("Shopping list cache disabled")
		return nil, nil
	case "memory":
		slog.Info("Using in-memory shopping list cache")
		generic := NewInstrumentedCache(cache.NewMemoryCache(), "memory")
		return cache.NewShoppingListCache(generic), nil
	case "redis":
		slog.Info("Using Redis shopping list cache", "addr", cfg.RedisAddr)
		redisCache, err := cache.NewRedisCache(&cache.RedisCacheConfig{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err != nil {
			return nil, errors.NewCacheError("failed to connect to Redis", err)
		}
		generic := NewInstrumentedCache(redisCache, "redis")
		return cache.NewShoppingListCache(generic), nil
	default:
		return nil, errors.NewConfigurationError("unknown cache type: "+cfg.Type, nil)
	}
}
