// Package apiclient talks to the directory's REST backend. It holds no state
// besides its transport: no retries, no caching, no batching.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/metrics"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("directory-service/apiclient")

// DefaultUserHeader carries the signed-in user's id to the backend.
const DefaultUserHeader = "X-User-ID"

// Config describes one backend resource. Token authenticates the service
// itself; the acting user travels in UserHeader.
type Config struct {
	BaseURL        string
	Token          string
	UserHeader     string
	Timeout        time.Duration
	ResourcePath   string
	CategoriesPath string
}

// Client implements domain.ListingAPI for one listing kind.
type Client struct {
	http           *resty.Client
	kind           domain.Kind
	resource       string
	categoriesPath string
	userHeader     string
	metrics        *metrics.MetricsManager
	logger         *logger.Logger
}

var _ domain.ListingAPI = (*Client)(nil)

// New builds a client for kind. metrics may be nil.
func New(cfg Config, kind domain.Kind, log *logger.Logger, m *metrics.MetricsManager) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	categories := cfg.CategoriesPath
	if categories == "" {
		categories = "categories/"
	}

	userHeader := cfg.UserHeader
	if userHeader == "" {
		userHeader = DefaultUserHeader
	}

	return &Client{
		http:           httpClient,
		kind:           kind,
		resource:       withTrailingSlash(cfg.ResourcePath),
		categoriesPath: withTrailingSlash(categories),
		userHeader:     userHeader,
		metrics:        m,
		logger:         log.Named("APIClient").With(zap.String("kind", string(kind))),
	}
}

func withTrailingSlash(p string) string {
	p = strings.Trim(p, "/")
	return p + "/"
}

func (c *Client) itemPath(id string, suffix ...string) string {
	parts := append([]string{strings.TrimSuffix(c.resource, "/"), id}, suffix...)
	return strings.Join(parts, "/") + "/"
}

// errorBody is the backend's error envelope. Field-level validation errors
// arrive without a detail key, in which case the raw body is kept instead.
type errorBody struct {
	Detail string `json:"detail"`
}

// call runs one request inside a span, records metrics and maps failures onto
// the domain error taxonomy.
func (c *Client) call(ctx context.Context, operation, method, path string, prepare func(*resty.Request)) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "APIClient."+operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("listing.kind", string(c.kind)),
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)

	started := time.Now()
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	if userID, ok := domain.UserIDFromContext(ctx); ok {
		req.SetHeader(c.userHeader, userID)
		span.SetAttributes(attribute.String("enduser.id", userID))
	}
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	err = c.mapError(resp, err)

	errorType := ""
	if err != nil {
		errorType = errorLabel(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("Backend call failed",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Error(err))
	} else {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
		c.logger.Debug("Backend call completed",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("elapsed", time.Since(started)))
	}
	c.metrics.ObserveBackendCall(strings.TrimSuffix(c.resource, "/"), operation, started, errorType)

	return resp, err
}

func (c *Client) mapError(resp *resty.Response, err error) error {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	if resp == nil {
		return fmt.Errorf("%w: empty response", domain.ErrNetwork)
	}
	kind := domain.KindOf(resp.StatusCode())
	if kind == nil {
		return nil
	}
	detail := ""
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		detail = body.Detail
	}
	if detail == "" {
		detail = strings.TrimSpace(resp.String())
	}
	return &domain.APIError{Kind: kind, Status: resp.StatusCode(), Detail: detail}
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrNetwork):
		return "network"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrServer):
		return "server"
	default:
		return "unknown"
	}
}

// ListListings fetches one page of listings matching criteria.
func (c *Client) ListListings(ctx context.Context, criteria domain.Criteria) (domain.Page, error) {
	var page domain.Page
	_, err := c.call(ctx, "list", http.MethodGet, c.resource, func(r *resty.Request) {
		r.SetQueryParamsFromValues(criteria.Values()).SetResult(&page)
	})
	if err != nil {
		return domain.Page{}, err
	}
	if page.Results == nil {
		page.Results = []domain.Listing{}
	}
	for i := range page.Results {
		page.Results[i].Kind = c.kind
	}
	return page, nil
}

// ListCategories returns every category; the endpoint is not paginated.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	_, err := c.call(ctx, "categories", http.MethodGet, c.categoriesPath, func(r *resty.Request) {
		r.SetResult(&categories)
	})
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// CreateListing posts input and returns the stored listing with its
// server-assigned ID.
func (c *Client) CreateListing(ctx context.Context, input domain.ListingInput) (domain.Listing, error) {
	var created domain.Listing
	_, err := c.call(ctx, "create", http.MethodPost, c.resource, func(r *resty.Request) {
		r.SetBody(input).SetResult(&created)
	})
	if err != nil {
		return domain.Listing{}, err
	}
	created.Kind = c.kind
	return created, nil
}

// UpdateListing applies a partial update.
func (c *Client) UpdateListing(ctx context.Context, id string, patch domain.ListingPatch) (domain.Listing, error) {
	var updated domain.Listing
	_, err := c.call(ctx, "update", http.MethodPatch, c.itemPath(id), func(r *resty.Request) {
		r.SetBody(patch).SetResult(&updated)
	})
	if err != nil {
		return domain.Listing{}, err
	}
	updated.Kind = c.kind
	return updated, nil
}

// DeleteListing removes id. Deleting an already removed listing reports
// domain.ErrNotFound.
func (c *Client) DeleteListing(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete", http.MethodDelete, c.itemPath(id), nil)
	return err
}

// ToggleFavorite flips the caller's favorite association with id. Success is
// signalled by status alone.
func (c *Client) ToggleFavorite(ctx context.Context, id string) error {
	_, err := c.call(ctx, "toggle_favorite", http.MethodPost, c.itemPath(id, "favorite"), nil)
	return err
}
