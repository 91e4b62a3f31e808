// Package store holds the in-memory listing collection shared by every view
// of a session, and mediates all reads and writes against the backend.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/metrics"
	"go.uber.org/zap"
)

// Options tune fetch behaviour.
type Options struct {
	// DisableFallback reports OutcomeFailed instead of substituting sample data.
	DisableFallback bool
	// DiscardStaleFetches drops the result of any fetch that is not the most
	// recently issued one. Off by default: the last fetch to resolve wins.
	DiscardStaleFetches bool
}

// Store is the single source of truth for one listing kind. It is safe for
// concurrent use; backend calls are made without holding the lock.
type Store struct {
	kind    domain.Kind
	api     domain.ListingAPI
	events  domain.EventPublisher
	metrics *metrics.MetricsManager
	logger  *logger.Logger
	opts    Options

	mu            sync.RWMutex
	state         State
	items         []domain.Listing
	cursor        domain.Cursor
	lastErr       string
	usingFallback bool
	loaded        bool
	issued        uint64
}

// New builds an idle store. events and m may be nil.
func New(kind domain.Kind, api domain.ListingAPI, events domain.EventPublisher, m *metrics.MetricsManager, log *logger.Logger, opts Options) *Store {
	return &Store{
		kind:    kind,
		api:     api,
		events:  events,
		metrics: m,
		logger:  log.Named("Store").With(zap.String("kind", string(kind))),
		opts:    opts,
		state:   StateIdle,
		items:   []domain.Listing{},
		cursor:  domain.Cursor{CurrentPage: 1},
	}
}

func (s *Store) Kind() domain.Kind { return s.kind }

// Fetch replaces the collection with the page matching criteria. Failures
// never surface as errors: they are reported through the result's Outcome,
// and unless fallback is disabled the sample collection takes the page's place.
func (s *Store) Fetch(ctx context.Context, criteria domain.Criteria) FetchResult {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.state = StateLoading
	s.mu.Unlock()

	page, err := s.api.ListListings(ctx, criteria)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.DiscardStaleFetches && seq != s.issued {
		s.logger.Debug("Dropping superseded fetch result", zap.Uint64("seq", seq), zap.Uint64("latest", s.issued))
		s.metrics.IncStaleFetch(string(s.kind))
		return FetchResult{Outcome: OutcomeSuperseded, Items: s.copyItems(), Cursor: s.cursor, Reason: err}
	}

	if err == nil {
		s.items = page.Results
		if s.items == nil {
			s.items = []domain.Listing{}
		}
		s.cursor = domain.Cursor{
			CurrentPage: criteria.PageOrFirst(),
			TotalCount:  page.Count,
			HasNext:     page.HasNext(),
			HasPrevious: page.HasPrevious(),
		}
		s.state = StateReady
		s.lastErr = ""
		s.usingFallback = false
		s.loaded = true
		return FetchResult{Outcome: OutcomeOK, Items: s.copyItems(), Cursor: s.cursor}
	}

	s.logger.Warn("Failed to fetch listings", zap.Error(err))
	s.state = StateError
	s.lastErr = err.Error()

	if s.opts.DisableFallback {
		return FetchResult{Outcome: OutcomeFailed, Items: s.copyItems(), Cursor: s.cursor, Reason: err}
	}

	sample := domain.SampleListings(s.kind)
	s.items = sample
	s.cursor = domain.Cursor{CurrentPage: 1, TotalCount: len(sample)}
	s.state = StateReady
	s.usingFallback = true
	s.loaded = true
	s.metrics.IncFallback(string(s.kind))
	return FetchResult{Outcome: OutcomeDegraded, Items: s.copyItems(), Cursor: s.cursor, Reason: err}
}

// Create stores a new listing. It is prepended to the collection, and the
// total bumped, only while the first page is displayed.
func (s *Store) Create(ctx context.Context, input domain.ListingInput) (domain.Listing, error) {
	created, err := s.api.CreateListing(ctx, input)
	s.metrics.IncMutation(string(s.kind), "create", err)
	if err != nil {
		s.recordFailure("create", err)
		return domain.Listing{}, err
	}

	s.mu.Lock()
	if s.cursor.CurrentPage == 1 {
		s.items = append([]domain.Listing{created}, s.items...)
		s.cursor.TotalCount++
	}
	s.markSucceeded()
	s.mu.Unlock()

	s.publish(ctx, domain.SubjectListingCreated, created.ID, nil)
	return created, nil
}

// Update replaces the listing matching id with the backend's answer. The
// total count is unchanged.
func (s *Store) Update(ctx context.Context, id string, patch domain.ListingPatch) (domain.Listing, error) {
	updated, err := s.api.UpdateListing(ctx, id, patch)
	s.metrics.IncMutation(string(s.kind), "update", err)
	if err != nil {
		s.recordFailure("update", err)
		return domain.Listing{}, err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = updated
			break
		}
	}
	s.markSucceeded()
	s.mu.Unlock()

	s.publish(ctx, domain.SubjectListingUpdated, id, nil)
	return updated, nil
}

// Delete removes id from the backend and then from the collection.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.api.DeleteListing(ctx, id)
	s.metrics.IncMutation(string(s.kind), "delete", err)
	if err != nil {
		s.recordFailure("delete", err)
		return err
	}

	s.mu.Lock()
	kept := make([]domain.Listing, 0, len(s.items))
	for _, l := range s.items {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.items = kept
	if s.cursor.TotalCount > 0 {
		s.cursor.TotalCount--
	}
	s.markSucceeded()
	s.mu.Unlock()

	s.publish(ctx, domain.SubjectListingDeleted, id, nil)
	return nil
}

// ToggleFavorite flips the favorite association on the backend, then flips
// IsFavorite on the local copy instead of refetching. The local flag may
// disagree with the server until the next Fetch.
func (s *Store) ToggleFavorite(ctx context.Context, id string) error {
	err := s.api.ToggleFavorite(ctx, id)
	s.metrics.IncMutation(string(s.kind), "toggle_favorite", err)
	if err != nil {
		s.recordFailure("toggle favorite", err)
		return err
	}

	var favorite *bool
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].IsFavorite = !s.items[i].IsFavorite
			v := s.items[i].IsFavorite
			favorite = &v
			break
		}
	}
	s.markSucceeded()
	s.mu.Unlock()

	s.publish(ctx, domain.SubjectListingFavoriteToggled, id, favorite)
	return nil
}

// GetByID looks id up in the current collection. It never fetches.
func (s *Store) GetByID(id string) (domain.Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.items {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Listing{}, false
}

// Featured returns the listings that are featured, active and verified.
func (s *Store) Featured() []domain.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Listing, 0)
	for _, l := range s.items {
		if l.IsFeatured && l.IsActive && l.IsVerified {
			out = append(out, l)
		}
	}
	return out
}

// Items returns a copy of the current collection.
func (s *Store) Items() []domain.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyItems()
}

// Snapshot returns a consistent copy of the whole store state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Kind:          s.kind,
		State:         s.state,
		Items:         s.copyItems(),
		Cursor:        s.cursor,
		Error:         s.lastErr,
		UsingFallback: s.usingFallback,
	}
}

// ClearError forgets the last recorded error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
	if s.state == StateError {
		if s.loaded {
			s.state = StateReady
		} else {
			s.state = StateIdle
		}
	}
}

func (s *Store) copyItems() []domain.Listing {
	out := make([]domain.Listing, len(s.items))
	copy(out, s.items)
	return out
}

// recordFailure keeps a failed mutation's message for display. The
// collection is left untouched.
func (s *Store) recordFailure(op string, err error) {
	s.logger.Error("Listing mutation failed", zap.String("operation", op), zap.Error(err))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err.Error()
	if s.state != StateLoading {
		s.state = StateError
	}
}

// markSucceeded must be called with s.mu held. An in-flight fetch keeps the
// store in StateLoading.
func (s *Store) markSucceeded() {
	s.lastErr = ""
	if s.state != StateLoading {
		s.state = StateReady
	}
	s.loaded = true
}

func (s *Store) publish(ctx context.Context, subject, id string, favorite *bool) {
	if s.events == nil {
		return
	}
	event := domain.ListingEvent{
		ListingID:  id,
		Kind:       s.kind,
		IsFavorite: favorite,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, subject, event); err != nil {
		s.logger.Warn("Failed to publish listing event", zap.String("subject", subject), zap.String("listing_id", id), zap.Error(err))
	}
}
