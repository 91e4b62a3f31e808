package store

import (
	"context"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"go.uber.org/zap"
)

// CategoryResult reports where a category list came from.
type CategoryResult struct {
	Outcome    Outcome
	Categories []domain.Category
	Reason     error
}

// Catalog loads the category reference list once per session. A successful
// load (from the cache or the backend) is final; a failed one is answered
// with the built-in categories and retried on the next call.
type Catalog struct {
	api    domain.CategoryLister
	cache  domain.CategoryCache
	ttl    time.Duration
	logger *logger.Logger

	mu         sync.RWMutex
	categories []domain.Category
	loaded     bool
	lastErr    string
}

// NewCatalog builds a catalog. cache may be nil.
func NewCatalog(api domain.CategoryLister, cache domain.CategoryCache, ttl time.Duration, log *logger.Logger) *Catalog {
	return &Catalog{
		api:        api,
		cache:      cache,
		ttl:        ttl,
		logger:     log.Named("Catalog"),
		categories: []domain.Category{},
	}
}

// Load returns the session's categories, fetching them on first use.
func (c *Catalog) Load(ctx context.Context) CategoryResult {
	c.mu.RLock()
	if c.loaded {
		out := c.copyCategories()
		c.mu.RUnlock()
		return CategoryResult{Outcome: OutcomeOK, Categories: out}
	}
	c.mu.RUnlock()

	if c.cache != nil {
		cached, err := c.cache.Get(ctx)
		if err != nil {
			c.logger.Warn("Category cache read failed", zap.Error(err))
		} else if cached != nil {
			c.logger.Debug("Categories served from cache", zap.Int("count", len(cached)))
			return c.store(cached)
		}
	}

	categories, err := c.api.ListCategories(ctx)
	if err != nil {
		c.logger.Warn("Failed to fetch categories, using built-in list", zap.Error(err))
		c.mu.Lock()
		defer c.mu.Unlock()
		c.categories = domain.SampleCategories()
		c.lastErr = err.Error()
		return CategoryResult{Outcome: OutcomeDegraded, Categories: c.copyCategories(), Reason: err}
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, categories, c.ttl); err != nil {
			c.logger.Warn("Category cache write failed", zap.Error(err))
		}
	}
	return c.store(categories)
}

func (c *Catalog) store(categories []domain.Category) CategoryResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = categories
	c.loaded = true
	c.lastErr = ""
	return CategoryResult{Outcome: OutcomeOK, Categories: c.copyCategories()}
}

// Categories returns whatever is currently held, without fetching.
func (c *Catalog) Categories() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyCategories()
}

// Err returns the message of the last failed load, if any.
func (c *Catalog) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Catalog) copyCategories() []domain.Category {
	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out
}
