package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/redis/go-redis/v9"
)

const categoriesKey = "directory:categories"

type categoryCache struct {
	client *redis.Client
}

func NewCategoryCache(client *redis.Client) domain.CategoryCache {
	return &categoryCache{client: client}
}

func (c *categoryCache) Get(ctx context.Context) ([]domain.Category, error) {
	val, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get categories from redis: %w", err)
	}

	var categories []domain.Category
	if err := json.Unmarshal(val, &categories); err != nil {
		_ = c.client.Del(ctx, categoriesKey).Err()
		return nil, fmt.Errorf("failed to unmarshal cached categories: %w", err)
	}
	return categories, nil
}

func (c *categoryCache) Set(ctx context.Context, categories []domain.Category, ttl time.Duration) error {
	if categories == nil {
		return errors.New("cannot cache a nil category list")
	}
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	if err := c.client.Set(ctx, categoriesKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set categories in redis: %w", err)
	}
	return nil
}
