package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/filter"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/store"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ListingStore is the part of store.Store the listing views use.
type ListingStore interface {
	Kind() domain.Kind
	Fetch(ctx context.Context, criteria domain.Criteria) store.FetchResult
	Create(ctx context.Context, input domain.ListingInput) (domain.Listing, error)
	Update(ctx context.Context, id string, patch domain.ListingPatch) (domain.Listing, error)
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) error
	GetByID(id string) (domain.Listing, bool)
	Featured() []domain.Listing
	Items() []domain.Listing
	Snapshot() store.Snapshot
	ClearError()
}

// ListingHandler serves the views of one listing kind.
type ListingHandler struct {
	store    ListingStore
	validate *validator.Validate
	logger   *logger.Logger
}

func NewListingHandler(s ListingStore, v *validator.Validate, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		store:    s,
		validate: v,
		logger:   log.Named("ListingHandler").With(zap.String("kind", string(s.Kind()))),
	}
}

type fetchResponse struct {
	Outcome store.Outcome    `json:"outcome"`
	Items   []domain.Listing `json:"items"`
	Cursor  domain.Cursor    `json:"cursor"`
	Error   string           `json:"error,omitempty"`
}

type viewResponse struct {
	Items []domain.Listing `json:"items"`
	Count int              `json:"count"`
	Total int              `json:"total"`
}

type favoriteResponse struct {
	ID         string `json:"id"`
	IsFavorite *bool  `json:"is_favorite,omitempty"`
}

// HandleFetch loads the page described by the query into the store.
func (h *ListingHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	res := h.store.Fetch(r.Context(), criteria)
	body := fetchResponse{Outcome: res.Outcome, Items: res.Items, Cursor: res.Cursor}
	if res.Reason != nil {
		body.Error = res.Reason.Error()
	}

	status := http.StatusOK
	if res.Outcome == store.OutcomeFailed {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, body, h.logger)
}

func (h *ListingHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot(), h.logger)
}

func (h *ListingHandler) HandleClearError(w http.ResponseWriter, r *http.Request) {
	h.store.ClearError()
	writeJSON(w, http.StatusOK, h.store.Snapshot(), h.logger)
}

// HandleView filters and sorts the current collection without fetching.
func (h *ListingHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	items := h.store.Items()
	visible := filter.Sort(filter.Apply(items, f), f.SortBy)
	writeJSON(w, http.StatusOK, viewResponse{Items: visible, Count: len(visible), Total: len(items)}, h.logger)
}

func (h *ListingHandler) HandleFeatured(w http.ResponseWriter, r *http.Request) {
	featured := h.store.Featured()
	writeJSON(w, http.StatusOK, viewResponse{Items: featured, Count: len(featured), Total: len(h.store.Items())}, h.logger)
}

func (h *ListingHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, filter.Summarize(h.store.Items()), h.logger)
}

func (h *ListingHandler) HandleCounties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"counties": filter.Counties(h.store.Items())}, h.logger)
}

// HandleGetByID looks the listing up in the current collection only.
func (h *ListingHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	l, ok := h.store.GetByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("listing %s is not in the current collection", id), h.logger)
		return
	}
	writeJSON(w, http.StatusOK, l, h.logger)
}

func (h *ListingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input domain.ListingInput
	if err := decodeJSON(r, &input); err != nil {
		requestLogger(r, h.logger).Warn("Invalid request body for Create", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		writeValidationError(w, err, h.logger)
		return
	}

	created, err := h.store.Create(r.Context(), input)
	if err != nil {
		writeBackendError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created, h.logger)
}

func (h *ListingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch domain.ListingPatch
	if err := decodeJSON(r, &patch); err != nil {
		requestLogger(r, h.logger).Warn("Invalid request body for Update", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if err := h.validate.Struct(patch); err != nil {
		writeValidationError(w, err, h.logger)
		return
	}

	updated, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		writeBackendError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated, h.logger)
}

func (h *ListingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeBackendError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleFavorite reports the local flag after the flip; it is absent
// when the listing is not in the current collection.
func (h *ListingHandler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.ToggleFavorite(r.Context(), id); err != nil {
		writeBackendError(w, r, err, h.logger)
		return
	}
	resp := favoriteResponse{ID: id}
	if l, ok := h.store.GetByID(id); ok {
		fav := l.IsFavorite
		resp.IsFavorite = &fav
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

func parseCriteria(q url.Values) (domain.Criteria, error) {
	c := domain.Criteria{
		Search:   strings.TrimSpace(q.Get("search")),
		City:     q.Get("city"),
		County:   q.Get("county"),
		Ordering: q.Get("ordering"),
	}
	var err error
	if c.CategoryID, err = intParam(q, "category"); err != nil {
		return c, err
	}
	if c.Page, err = intParam(q, "page"); err != nil {
		return c, err
	}
	if c.MinRating, err = floatParam(q, "rating", 0); err != nil {
		return c, err
	}
	if c.FeaturedOnly, err = boolParam(q, "is_featured"); err != nil {
		return c, err
	}
	return c, nil
}

func parseFilter(q url.Values) (domain.Filter, error) {
	f := domain.DefaultFilter()
	f.Keyword = q.Get("q")
	f.Location = q.Get("location")
	if v := q.Get("county"); v != "" {
		f.County = v
	}
	if v := q.Get("category"); v != "" {
		f.Category = v
	}
	if v := q.Get("sort"); v != "" {
		f.SortBy = v
	}
	for _, v := range q["employment_type"] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.EmploymentTypes = append(f.EmploymentTypes, t)
			}
		}
	}

	var err error
	if f.MinRating, err = floatParam(q, "min_rating", f.MinRating); err != nil {
		return f, err
	}
	if f.MaxRating, err = optionalFloatParam(q, "max_rating"); err != nil {
		return f, err
	}
	if f.MaxRating != nil && f.MinRating > *f.MaxRating {
		return f, fmt.Errorf("min_rating %g exceeds max_rating %g", f.MinRating, *f.MaxRating)
	}
	if f.MinSalary, err = floatParam(q, "min_salary", f.MinSalary); err != nil {
		return f, err
	}
	if f.MaxSalary, err = optionalFloatParam(q, "max_salary"); err != nil {
		return f, err
	}
	if f.MaxSalary != nil && f.MinSalary > *f.MaxSalary {
		return f, fmt.Errorf("min_salary %g exceeds max_salary %g", f.MinSalary, *f.MaxSalary)
	}
	if f.RemoteOnly, err = boolParam(q, "remote_only"); err != nil {
		return f, err
	}
	if f.VerifiedOnly, err = boolParam(q, "verified_only"); err != nil {
		return f, err
	}
	if f.FeaturedOnly, err = boolParam(q, "featured_only"); err != nil {
		return f, err
	}
	return f, nil
}

func intParam(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("query parameter %q must be a non-negative integer", key)
	}
	return n, nil
}

func floatParam(q url.Values, key string, def float64) (float64, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("query parameter %q must be a number", key)
	}
	return f, nil
}

// optionalFloatParam returns nil when key is absent.
func optionalFloatParam(q url.Values, key string) (*float64, error) {
	if q.Get(key) == "" {
		return nil, nil
	}
	f, err := floatParam(q, key, 0)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func boolParam(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("query parameter %q must be a boolean", key)
	}
	return b, nil
}
