package domain

import (
	"context"
	"time"
)

// CategoryLister reads the category reference list.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]Category, error)
}

// ListingAPI is the backend contract the store depends on.
type ListingAPI interface {
	CategoryLister
	ListListings(ctx context.Context, criteria Criteria) (Page, error)
	CreateListing(ctx context.Context, input ListingInput) (Listing, error)
	UpdateListing(ctx context.Context, id string, patch ListingPatch) (Listing, error)
	DeleteListing(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) error
}

// CategoryCache keeps the category list across restarts of the session host.
// A miss is reported as (nil, nil).
type CategoryCache interface {
	Get(ctx context.Context) ([]Category, error)
	Set(ctx context.Context, categories []Category, ttl time.Duration) error
}

// EventPublisher announces successful mutations.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

const (
	SubjectListingCreated         = "listing.created"
	SubjectListingUpdated         = "listing.updated"
	SubjectListingDeleted         = "listing.deleted"
	SubjectListingFavoriteToggled = "listing.favorite_toggled"
)

// ListingEvent is the payload published for every mutation subject.
type ListingEvent struct {
	ListingID  string    `json:"listing_id"`
	Kind       Kind      `json:"kind"`
	IsFavorite *bool     `json:"is_favorite,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
