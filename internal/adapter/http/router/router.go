package router

import (
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// New builds the root mux with the middleware shared by every route.
func New(log *logger.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Logger(log.Named("HTTP")))
	mux.Use(middleware.Tracing)
	mux.Get("/healthz", handler.HandleHealth)
	return mux
}

// SetupListingRoutes mounts one listing kind under prefix. Reads are public;
// every mutation requires a signed-in session.
func SetupListingRoutes(mux *chi.Mux, prefix string, h *handler.ListingHandler, auth middleware.Authenticator, log *logger.Logger) {
	mux.Route(prefix, func(r chi.Router) {
		r.Get("/", h.HandleFetch)
		r.Get("/state", h.HandleState)
		r.Delete("/state/error", h.HandleClearError)
		r.Get("/view", h.HandleView)
		r.Get("/featured", h.HandleFeatured)
		r.Get("/stats", h.HandleStats)
		r.Get("/counties", h.HandleCounties)
		r.Get("/{id}", h.HandleGetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(auth, log))
			r.Post("/", h.HandleCreate)
			r.Patch("/{id}", h.HandleUpdate)
			r.Delete("/{id}", h.HandleDelete)
			r.Post("/{id}/favorite", h.HandleToggleFavorite)
		})
	})
}

func SetupCategoryRoutes(mux *chi.Mux, h *handler.CategoryHandler) {
	mux.Get("/api/categories", h.HandleList)
}

func SetupSessionRoutes(mux *chi.Mux, h *handler.SessionHandler, auth middleware.Authenticator, log *logger.Logger) {
	mux.Post("/api/session", h.HandleSignIn)
	mux.Get("/api/session", h.HandleStatus)
	mux.With(middleware.JWTAuth(auth, log)).Delete("/api/session", h.HandleSignOut)
}
