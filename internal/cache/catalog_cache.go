package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nerdgeek/tienda/internal/models"
	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:products"

// CatalogCache holds the public product listing so the home page does not
// hit the database on every request.
type CatalogCache interface {
	GetProducts() ([]models.Product, error)
	SetProducts(products []models.Product) error
	Invalidate() error
	Close() error
}

// RedisCatalogCache implements CatalogCache on Redis with a TTL.
type RedisCatalogCache struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

func NewRedisCatalogCache(redisURL string, ttl time.Duration) (*RedisCatalogCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCatalogCache{
		client: client,
		ctx:    ctx,
		ttl:    ttl,
	}, nil
}

// GetProducts returns the cached listing, or (nil, nil) on a miss.
func (c *RedisCatalogCache) GetProducts() ([]models.Product, error) {
	data, err := c.client.Get(c.ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func (c *RedisCatalogCache) SetProducts(products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}

	return c.client.Set(c.ctx, catalogKey, data, c.ttl).Err()
}

// Invalidate drops the cached listing after an admin product write.
func (c *RedisCatalogCache) Invalidate() error {
	return c.client.Del(c.ctx, catalogKey).Err()
}

func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}
