package store

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/stretchr/testify/mock"
)

type MockListingAPI struct{ mock.Mock }

func (m *MockListingAPI) ListListings(ctx context.Context, criteria domain.Criteria) (domain.Page, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).(domain.Page), args.Error(1)
}

func (m *MockListingAPI) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockListingAPI) CreateListing(ctx context.Context, input domain.ListingInput) (domain.Listing, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Listing), args.Error(1)
}

func (m *MockListingAPI) UpdateListing(ctx context.Context, id string, patch domain.ListingPatch) (domain.Listing, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Listing), args.Error(1)
}

func (m *MockListingAPI) DeleteListing(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingAPI) ToggleFavorite(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockCategoryCache struct{ mock.Mock }

func (m *MockCategoryCache) Get(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryCache) Set(ctx context.Context, categories []domain.Category, ttl time.Duration) error {
	args := m.Called(ctx, categories, ttl)
	return args.Error(0)
}

func strptr(s string) *string { return &s }
