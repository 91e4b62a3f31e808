package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var liveCategories = []domain.Category{
	{ID: 10, Name: "Catering", Slug: "catering"},
	{ID: 11, Name: "Construction", Slug: "construction"},
}

func TestCatalog_LoadsOncePerSession(t *testing.T) {
	ctx := context.Background()
	api := new(MockListingAPI)
	cache := new(MockCategoryCache)
	c := NewCatalog(api, cache, time.Hour, logger.NewNop())

	cache.On("Get", mock.Anything).Return(nil, nil).Once()
	api.On("ListCategories", mock.Anything).Return(liveCategories, nil).Once()
	cache.On("Set", mock.Anything, liveCategories, time.Hour).Return(nil).Once()

	first := c.Load(ctx)
	second := c.Load(ctx)

	assert.Equal(t, OutcomeOK, first.Outcome)
	assert.Equal(t, liveCategories, first.Categories)
	assert.Equal(t, liveCategories, second.Categories)
	assert.Equal(t, liveCategories, c.Categories())
	assert.Empty(t, c.Err())
	api.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalog_CacheHit(t *testing.T) {
	api := new(MockListingAPI)
	cache := new(MockCategoryCache)
	c := NewCatalog(api, cache, time.Hour, logger.NewNop())
	cache.On("Get", mock.Anything).Return(liveCategories, nil).Once()

	res := c.Load(context.Background())

	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, liveCategories, res.Categories)
	api.AssertNotCalled(t, "ListCategories", mock.Anything)
}

func TestCatalog_FallbackAndRetry(t *testing.T) {
	ctx := context.Background()
	api := new(MockListingAPI)
	c := NewCatalog(api, nil, time.Hour, logger.NewNop())

	api.On("ListCategories", mock.Anything).Return(nil, domain.ErrNetwork).Once()
	res := c.Load(ctx)

	assert.Equal(t, OutcomeDegraded, res.Outcome)
	assert.ErrorIs(t, res.Reason, domain.ErrNetwork)
	require.Len(t, res.Categories, 8)
	assert.Equal(t, domain.SampleCategories(), res.Categories)
	assert.NotEmpty(t, c.Err())

	api.On("ListCategories", mock.Anything).Return(liveCategories, nil).Once()
	res = c.Load(ctx)

	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, liveCategories, res.Categories)
	assert.Empty(t, c.Err())
	api.AssertExpectations(t)
}

func TestCatalog_CacheErrorsAreNotFatal(t *testing.T) {
	api := new(MockListingAPI)
	cache := new(MockCategoryCache)
	c := NewCatalog(api, cache, time.Minute, logger.NewNop())
	cache.On("Get", mock.Anything).Return(nil, errors.New("redis: connection refused")).Once()
	api.On("ListCategories", mock.Anything).Return(liveCategories, nil).Once()
	cache.On("Set", mock.Anything, liveCategories, time.Minute).Return(errors.New("redis: connection refused")).Once()

	res := c.Load(context.Background())

	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, liveCategories, res.Categories)
	cache.AssertExpectations(t)
}
