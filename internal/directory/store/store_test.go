package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStore(api domain.ListingAPI, events domain.EventPublisher, opts Options) *Store {
	return New(domain.KindBusiness, api, events, nil, logger.NewNop(), opts)
}

func listing(id, name string) domain.Listing {
	return domain.Listing{ID: id, Kind: domain.KindBusiness, Name: name}
}

func loadPage(t *testing.T, s *Store, api *MockListingAPI, page int, items ...domain.Listing) {
	t.Helper()
	criteria := domain.Criteria{Page: page}
	api.On("ListListings", mock.Anything, criteria).Return(domain.Page{Count: len(items), Results: items}, nil).Once()
	res := s.Fetch(context.Background(), criteria)
	require.Equal(t, OutcomeOK, res.Outcome)
}

func TestStore_NewIsIdle(t *testing.T) {
	s := newTestStore(new(MockListingAPI), nil, Options{})

	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Items)
	assert.Equal(t, 1, snap.Cursor.CurrentPage)
	assert.Equal(t, domain.KindBusiness, s.Kind())
}

func TestStore_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		api := new(MockListingAPI)
		s := newTestStore(api, nil, Options{})
		criteria := domain.Criteria{Search: "cater", Page: 2}
		api.On("ListListings", mock.Anything, criteria).Return(domain.Page{
			Count:    25,
			Next:     strptr("http://backend/api/businesses/?page=3"),
			Previous: strptr("http://backend/api/businesses/?page=1"),
			Results:  []domain.Listing{listing("biz-1", "Sarah's Catering")},
		}, nil).Once()

		res := s.Fetch(ctx, criteria)

		assert.Equal(t, OutcomeOK, res.Outcome)
		assert.NoError(t, res.Reason)
		assert.Equal(t, domain.Cursor{CurrentPage: 2, TotalCount: 25, HasNext: true, HasPrevious: true}, res.Cursor)
		snap := s.Snapshot()
		assert.Equal(t, StateReady, snap.State)
		assert.Empty(t, snap.Error)
		assert.False(t, snap.UsingFallback)
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "biz-1", snap.Items[0].ID)
		api.AssertExpectations(t)
	})

	t.Run("EmptyPageReplacesCursor", func(t *testing.T) {
		api := new(MockListingAPI)
		s := newTestStore(api, nil, Options{})
		api.On("ListListings", mock.Anything, domain.Criteria{}).Return(domain.Page{
			Count:   40,
			Next:    strptr("http://backend/api/businesses/?page=2"),
			Results: []domain.Listing{listing("biz-1", "A"), listing("biz-2", "B")},
		}, nil).Once()
		require.Equal(t, OutcomeOK, s.Fetch(ctx, domain.Criteria{}).Outcome)

		empty := domain.Criteria{Search: "nothing matches"}
		api.On("ListListings", mock.Anything, empty).Return(domain.Page{Count: 0}, nil).Once()
		res := s.Fetch(ctx, empty)

		assert.Equal(t, OutcomeOK, res.Outcome)
		assert.Empty(t, res.Items)
		assert.NotNil(t, s.Items())
		assert.Equal(t, domain.Cursor{CurrentPage: 1}, s.Snapshot().Cursor)
		assert.Equal(t, StateReady, s.Snapshot().State)
	})

	t.Run("FallbackOnFailure", func(t *testing.T) {
		api := new(MockListingAPI)
		m := metrics.NewMetricsManager("test")
		s := New(domain.KindBusiness, api, nil, m, logger.NewNop(), Options{})
		api.On("ListListings", mock.Anything, domain.Criteria{}).
			Return(domain.Page{}, fmt.Errorf("%w: connection refused", domain.ErrNetwork)).Once()

		res := s.Fetch(ctx, domain.Criteria{})

		assert.Equal(t, OutcomeDegraded, res.Outcome)
		assert.ErrorIs(t, res.Reason, domain.ErrNetwork)
		ids := make([]string, 0, len(res.Items))
		for _, l := range res.Items {
			ids = append(ids, l.ID)
		}
		assert.Equal(t, []string{"1", "2", "3"}, ids)
		assert.Equal(t, domain.Cursor{CurrentPage: 1, TotalCount: 3}, res.Cursor)

		snap := s.Snapshot()
		assert.Equal(t, StateReady, snap.State)
		assert.True(t, snap.UsingFallback)
		assert.NotEmpty(t, snap.Error)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreFallbacksTotal.WithLabelValues("business")))
	})

	t.Run("FallbackDisabled", func(t *testing.T) {
		api := new(MockListingAPI)
		s := newTestStore(api, nil, Options{DisableFallback: true})
		loadPage(t, s, api, 0, listing("biz-1", "A"))
		api.On("ListListings", mock.Anything, domain.Criteria{Page: 2}).
			Return(domain.Page{}, fmt.Errorf("%w: status 503", domain.ErrServer)).Once()

		res := s.Fetch(ctx, domain.Criteria{Page: 2})

		assert.Equal(t, OutcomeFailed, res.Outcome)
		assert.ErrorIs(t, res.Reason, domain.ErrServer)
		snap := s.Snapshot()
		assert.Equal(t, StateError, snap.State)
		assert.False(t, snap.UsingFallback)
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "biz-1", snap.Items[0].ID)
	})

	t.Run("SuccessAfterFallbackClearsFlag", func(t *testing.T) {
		api := new(MockListingAPI)
		s := newTestStore(api, nil, Options{})
		api.On("ListListings", mock.Anything, domain.Criteria{}).
			Return(domain.Page{}, domain.ErrNetwork).Once()
		require.Equal(t, OutcomeDegraded, s.Fetch(ctx, domain.Criteria{}).Outcome)

		loadPage(t, s, api, 0, listing("biz-9", "Live"))

		snap := s.Snapshot()
		assert.False(t, snap.UsingFallback)
		assert.Empty(t, snap.Error)
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "biz-9", snap.Items[0].ID)
	})
}

// gatedAPI blocks ListListings for page 1 until release is closed, so the
// order in which two fetches resolve can be controlled.
type gatedAPI struct {
	*MockListingAPI
	entered chan struct{}
	release chan struct{}
}

func (g *gatedAPI) ListListings(ctx context.Context, criteria domain.Criteria) (domain.Page, error) {
	if criteria.PageOrFirst() == 1 {
		close(g.entered)
		<-g.release
		return domain.Page{Count: 1, Results: []domain.Listing{listing("first", "First")}}, nil
	}
	return domain.Page{Count: 1, Results: []domain.Listing{listing("second", "Second")}}, nil
}

func runOutOfOrderFetches(t *testing.T, opts Options) (*Store, FetchResult, FetchResult) {
	t.Helper()
	api := &gatedAPI{MockListingAPI: new(MockListingAPI), entered: make(chan struct{}), release: make(chan struct{})}
	s := newTestStore(api, nil, opts)

	firstDone := make(chan FetchResult, 1)
	go func() { firstDone <- s.Fetch(context.Background(), domain.Criteria{Page: 1}) }()
	<-api.entered

	second := s.Fetch(context.Background(), domain.Criteria{Page: 2})
	close(api.release)
	first := <-firstDone
	return s, first, second
}

func TestStore_Fetch_LastResolvedWins(t *testing.T) {
	s, first, second := runOutOfOrderFetches(t, Options{})

	assert.Equal(t, OutcomeOK, second.Outcome)
	assert.Equal(t, OutcomeOK, first.Outcome)
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "first", items[0].ID)
	assert.Equal(t, 1, s.Snapshot().Cursor.CurrentPage)
}

func TestStore_Fetch_DiscardStale(t *testing.T) {
	s, first, second := runOutOfOrderFetches(t, Options{DiscardStaleFetches: true})

	assert.Equal(t, OutcomeOK, second.Outcome)
	assert.Equal(t, OutcomeSuperseded, first.Outcome)
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "second", items[0].ID)
	assert.Equal(t, 2, s.Snapshot().Cursor.CurrentPage)
	assert.Equal(t, StateReady, s.Snapshot().State)
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()
	input := domain.ListingInput{Name: "New Bakery", CategoryID: 1, Description: "Fresh bread", City: "Nairobi", County: "Nairobi"}
	created := listing("biz-new", "New Bakery")

	t.Run("PrependsOnFirstPage", func(t *testing.T) {
		api := new(MockListingAPI)
		events := new(MockPublisher)
		s := newTestStore(api, events, Options{})
		loadPage(t, s, api, 1, listing("biz-1", "A"), listing("biz-2", "B"))
		api.On("CreateListing", mock.Anything, input).Return(created, nil).Once()
		events.On("Publish", mock.Anything, domain.SubjectListingCreated, mock.MatchedBy(func(e domain.ListingEvent) bool {
			return e.ListingID == "biz-new" && e.Kind == domain.KindBusiness
		})).Return(nil).Once()

		got, err := s.Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, created, got)
		items := s.Items()
		require.Len(t, items, 3)
		assert.Equal(t, "biz-new", items[0].ID)
		assert.Equal(t, 3, s.Snapshot().Cursor.TotalCount)
		found, ok := s.GetByID("biz-new")
		assert.True(t, ok)
		assert.Equal(t, created, found)
		api.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("NoPrependOnLaterPage", func(t *testing.T) {
		api := new(MockListingAPI)
		s := newTestStore(api, nil, Options{})
		loadPage(t, s, api, 2, listing("biz-11", "K"))
		api.On("CreateListing", mock.Anything, input).Return(created, nil).Once()

		_, err := s.Create(ctx, input)

		require.NoError(t, err)
		items := s.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "biz-11", items[0].ID)
		assert.Equal(t, 1, s.Snapshot().Cursor.TotalCount)
		_, ok := s.GetByID("biz-new")
		assert.False(t, ok)
	})

	t.Run("FailureLeavesCollection", func(t *testing.T) {
		api := new(MockListingAPI)
		m := metrics.NewMetricsManager("test")
		s := New(domain.KindBusiness, api, nil, m, logger.NewNop(), Options{})
		loadPage(t, s, api, 1, listing("biz-1", "A"))
		apiErr := &domain.APIError{Kind: domain.ErrValidation, Status: 400, Detail: "business_name is required"}
		api.On("CreateListing", mock.Anything, input).Return(domain.Listing{}, apiErr).Once()

		_, err := s.Create(ctx, input)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		snap := s.Snapshot()
		assert.Equal(t, StateError, snap.State)
		assert.Contains(t, snap.Error, "business_name is required")
		require.Len(t, snap.Items, 1)
		assert.Equal(t, 1, snap.Cursor.TotalCount)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreMutationsTotal.WithLabelValues("business", "create", "failure")))
	})

	t.Run("PublishFailureIsNotReturned", func(t *testing.T) {
		api := new(MockListingAPI)
		events := new(MockPublisher)
		s := newTestStore(api, events, Options{})
		api.On("CreateListing", mock.Anything, input).Return(created, nil).Once()
		events.On("Publish", mock.Anything, domain.SubjectListingCreated, mock.Anything).Return(errors.New("nats: connection closed")).Once()

		_, err := s.Create(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, StateReady, s.Snapshot().State)
		events.AssertExpectations(t)
	})
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	api := new(MockListingAPI)
	s := newTestStore(api, nil, Options{})
	loadPage(t, s, api, 1, listing("biz-1", "A"), listing("biz-2", "B"), listing("biz-3", "C"))

	name := "B renamed"
	patch := domain.ListingPatch{Name: &name}
	updated := listing("biz-2", name)
	api.On("UpdateListing", mock.Anything, "biz-2", patch).Return(updated, nil).Once()

	got, err := s.Update(ctx, "biz-2", patch)

	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "biz-1", items[0].ID)
	assert.Equal(t, name, items[1].Name)
	assert.Equal(t, "biz-3", items[2].ID)
	assert.Equal(t, 3, s.Snapshot().Cursor.TotalCount)

	api.On("UpdateListing", mock.Anything, "biz-404", patch).
		Return(domain.Listing{}, &domain.APIError{Kind: domain.ErrNotFound, Status: 404}).Once()
	_, err = s.Update(ctx, "biz-404", patch)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, s.Items(), 3)
}

func TestStore_Delete_Idempotence(t *testing.T) {
	ctx := context.Background()
	api := new(MockListingAPI)
	events := new(MockPublisher)
	s := newTestStore(api, events, Options{})
	loadPage(t, s, api, 1, listing("biz-1", "A"), listing("biz-2", "B"))
	api.On("DeleteListing", mock.Anything, "biz-1").Return(nil).Once()
	api.On("DeleteListing", mock.Anything, "biz-1").
		Return(&domain.APIError{Kind: domain.ErrNotFound, Status: 404, Detail: "Not found."}).Once()
	events.On("Publish", mock.Anything, domain.SubjectListingDeleted, mock.Anything).Return(nil).Once()

	require.NoError(t, s.Delete(ctx, "biz-1"))
	after := s.Items()
	require.Len(t, after, 1)
	assert.Equal(t, "biz-2", after[0].ID)
	assert.Equal(t, 1, s.Snapshot().Cursor.TotalCount)

	err := s.Delete(ctx, "biz-1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, after, s.Items())
	assert.Equal(t, 1, s.Snapshot().Cursor.TotalCount)
	api.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestStore_ToggleFavorite(t *testing.T) {
	ctx := context.Background()
	api := new(MockListingAPI)
	events := new(MockPublisher)
	s := newTestStore(api, events, Options{})
	loadPage(t, s, api, 1, listing("biz-1", "A"), listing("biz-2", "B"))
	api.On("ToggleFavorite", mock.Anything, "biz-1").Return(nil).Twice()
	events.On("Publish", mock.Anything, domain.SubjectListingFavoriteToggled, mock.MatchedBy(func(e domain.ListingEvent) bool {
		return e.ListingID == "biz-1" && e.IsFavorite != nil
	})).Return(nil).Twice()

	require.NoError(t, s.ToggleFavorite(ctx, "biz-1"))

	first, _ := s.GetByID("biz-1")
	other, _ := s.GetByID("biz-2")
	assert.True(t, first.IsFavorite)
	assert.False(t, other.IsFavorite)

	require.NoError(t, s.ToggleFavorite(ctx, "biz-1"))
	first, _ = s.GetByID("biz-1")
	assert.False(t, first.IsFavorite)

	api.On("ToggleFavorite", mock.Anything, "biz-2").Return(domain.ErrNetwork).Once()
	assert.ErrorIs(t, s.ToggleFavorite(ctx, "biz-2"), domain.ErrNetwork)
	other, _ = s.GetByID("biz-2")
	assert.False(t, other.IsFavorite)
	events.AssertExpectations(t)
}

func TestStore_FeaturedAndGetByID(t *testing.T) {
	api := new(MockListingAPI)
	s := newTestStore(api, nil, Options{})
	good := domain.Listing{ID: "a", IsFeatured: true, IsActive: true, IsVerified: true}
	inactive := domain.Listing{ID: "b", IsFeatured: true, IsActive: false, IsVerified: true}
	unverified := domain.Listing{ID: "c", IsFeatured: true, IsActive: true}
	plain := domain.Listing{ID: "d", IsActive: true, IsVerified: true}
	loadPage(t, s, api, 1, good, inactive, unverified, plain)

	featured := s.Featured()
	require.Len(t, featured, 1)
	assert.Equal(t, "a", featured[0].ID)

	_, ok := s.GetByID("missing")
	assert.False(t, ok)
}

func TestStore_ClearError(t *testing.T) {
	ctx := context.Background()

	t.Run("BeforeAnyLoad", func(t *testing.T) {
		api := new(MockListingAPI)
		s := newTestStore(api, nil, Options{})
		api.On("DeleteListing", mock.Anything, "x").Return(domain.ErrServer).Once()
		require.Error(t, s.Delete(ctx, "x"))
		require.Equal(t, StateError, s.Snapshot().State)

		s.ClearError()

		assert.Equal(t, StateIdle, s.Snapshot().State)
		assert.Empty(t, s.Snapshot().Error)
	})

	t.Run("AfterLoad", func(t *testing.T) {
		api := new(MockListingAPI)
		s := newTestStore(api, nil, Options{DisableFallback: true})
		loadPage(t, s, api, 1, listing("biz-1", "A"))
		api.On("ListListings", mock.Anything, domain.Criteria{Page: 2}).Return(domain.Page{}, domain.ErrServer).Once()
		require.Equal(t, OutcomeFailed, s.Fetch(ctx, domain.Criteria{Page: 2}).Outcome)

		s.ClearError()

		assert.Equal(t, StateReady, s.Snapshot().State)
		assert.Len(t, s.Items(), 1)
	})
}

func TestStore_ItemsAreCopies(t *testing.T) {
	api := new(MockListingAPI)
	s := newTestStore(api, nil, Options{})
	loadPage(t, s, api, 1, listing("biz-1", "A"))

	items := s.Items()
	items[0].Name = "mutated"

	got, _ := s.GetByID("biz-1")
	assert.Equal(t, "A", got.Name)
}
