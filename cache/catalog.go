package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vinitha-rv/library-backend/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	BookCachePrefix = "books:v:"
	CacheVersionKey = "books:version"

	asyncWriteTimeout = 5 * time.Second
)

// CatalogCache is a read-through cache for catalog reads. Entries are keyed
// by a version counter; bumping the version invalidates every entry at once.
// A version of 0 means the cache is unusable and callers should go to the store.
type CatalogCache interface {
	Version(ctx context.Context) int64
	GetBook(ctx context.Context, version int64, id string) (*models.Book, bool)
	SetBookAsync(version int64, book *models.Book)
	GetBookList(ctx context.Context, version int64) ([]models.Book, bool)
	SetBookListAsync(version int64, books []models.Book)
	Invalidate(ctx context.Context)
}

// RedisCatalogCache handles all Redis caching operations for the catalog
type RedisCatalogCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{redis: client, ttl: ttl}
}

// Version returns the current cache version, initializing it on first use.
func (c *RedisCatalogCache) Version(ctx context.Context) int64 {
	ver, err := c.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver
	}
	if errors.Is(err, redis.Nil) {
		// SetNX so concurrent initializers agree on the same version
		if err := c.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err == nil {
			if ver, err := c.redis.Get(ctx, CacheVersionKey).Int64(); err == nil {
				return ver
			}
		}
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		zap.L().Debug("Catalog cache unavailable", zap.Error(err))
	}
	return 0
}

func (c *RedisCatalogCache) GetBook(ctx context.Context, version int64, id string) (*models.Book, bool) {
	if version == 0 {
		return nil, false
	}
	var book models.Book
	if !c.get(ctx, bookKey(version, id), &book) {
		return nil, false
	}
	return &book, true
}

func (c *RedisCatalogCache) SetBookAsync(version int64, book *models.Book) {
	if version == 0 || book == nil {
		return
	}
	c.setAsync(bookKey(version, book.ID.Hex()), book)
}

func (c *RedisCatalogCache) GetBookList(ctx context.Context, version int64) ([]models.Book, bool) {
	if version == 0 {
		return nil, false
	}
	var books []models.Book
	if !c.get(ctx, listKey(version), &books) {
		return nil, false
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, true
}

func (c *RedisCatalogCache) SetBookListAsync(version int64, books []models.Book) {
	if version == 0 {
		return
	}
	c.setAsync(listKey(version), books)
}

// Invalidate bumps the version so every cached entry becomes unreachable.
// Old entries expire through their TTL.
func (c *RedisCatalogCache) Invalidate(ctx context.Context) {
	newVersion, err := c.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		zap.L().Error("Failed to invalidate catalog cache", zap.Error(err))
		return
	}
	zap.L().Debug("Catalog cache invalidated", zap.Int64("new_version", newVersion))
}

func (c *RedisCatalogCache) get(ctx context.Context, key string, dst any) bool {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		zap.L().Warn("Failed to unmarshal cached catalog entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *RedisCatalogCache) setAsync(key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("Failed to marshal catalog entry for cache", zap.String("key", key), zap.Error(err))
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), asyncWriteTimeout)
		defer cancel()

		if err := c.redis.Set(bgCtx, key, payload, c.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache catalog entry", zap.String("key", key), zap.Error(err))
		}
	}()
}

func bookKey(version int64, id string) string {
	return fmt.Sprintf("%s%d:book:%s", BookCachePrefix, version, id)
}

func listKey(version int64) string {
	return fmt.Sprintf("%s%d:all", BookCachePrefix, version)
}

// NoopCatalogCache is used when Redis is not configured.
type NoopCatalogCache struct{}

func (NoopCatalogCache) Version(context.Context) int64 { return 0 }
func (NoopCatalogCache) GetBook(context.Context, int64, string) (*models.Book, bool) {
	return nil, false
}
func (NoopCatalogCache) SetBookAsync(int64, *models.Book) {}
func (NoopCatalogCache) GetBookList(context.Context, int64) ([]models.Book, bool) {
	return nil, false
}
func (NoopCatalogCache) SetBookListAsync(int64, []models.Book) {}
func (NoopCatalogCache) Invalidate(context.Context)            {}
