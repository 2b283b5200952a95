// Package cache provides a Redis-backed cache-aside layer for beer lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "brewery:beer:"

// BeerService is the part of the beer service the cache wraps
type BeerService interface {
	ListBeers(ctx context.Context, beerName string, beerStyle models.BeerStyle, page models.PageRequest) (*models.BeerPagedList, error)
	GetBeerByID(ctx context.Context, id uuid.UUID) (*models.BeerDto, error)
}

// CachedBeerService serves beer lookups by id from Redis, falling back to
// the wrapped service on a miss. Concurrent misses for the same id share a
// single load. Listings are not cached.
type CachedBeerService struct {
	next   BeerService
	client redis.Cmdable
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachedBeerService creates a cache in front of next
func NewCachedBeerService(next BeerService, client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *CachedBeerService {
	return &CachedBeerService{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func beerKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// ListBeers passes through to the wrapped service
func (c *CachedBeerService) ListBeers(ctx context.Context, beerName string, beerStyle models.BeerStyle, page models.PageRequest) (*models.BeerPagedList, error) {
	return c.next.ListBeers(ctx, beerName, beerStyle, page)
}

// GetBeerByID returns the cached beer or loads and caches it
func (c *CachedBeerService) GetBeerByID(ctx context.Context, id uuid.UUID) (*models.BeerDto, error) {
	key := beerKey(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var dto models.BeerDto
		if err := json.Unmarshal(raw, &dto); err == nil {
			return &dto, nil
		}
		c.logger.Warn("discarding unreadable cache entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		// Redis unavailable: serve from the store and skip the write.
		c.logger.Warn("beer cache read failed", "key", key, "error", err)
		return c.next.GetBeerByID(ctx, id)
	}

	// The load outlives any single caller so that one cancelled request
	// does not fail the others waiting on the same key.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		dto, err := c.next.GetBeerByID(loadCtx, id)
		if err != nil {
			return nil, err
		}
		c.store(loadCtx, key, dto)
		return dto, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		dto := *res.Val.(*models.BeerDto)
		return &dto, nil
	}
}

func (c *CachedBeerService) store(ctx context.Context, key string, dto *models.BeerDto) {
	data, err := json.Marshal(dto)
	if err != nil {
		c.logger.Warn("failed to encode beer for cache", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("beer cache write failed", "key", key, "error", err)
	}
}
