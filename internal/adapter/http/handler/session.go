package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/session"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type SessionService interface {
	SignIn(ctx context.Context, creds session.Credentials) (session.Grant, error)
	SignOut(ctx context.Context, sessionID string) error
	Status(ctx context.Context, sessionID string) (session.Status, error)
	ParseToken(token string) (*session.Claims, error)
}

type SessionHandler struct {
	sessions SessionService
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSessionHandler(s SessionService, v *validator.Validate, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessions: s, validate: v, logger: log.Named("SessionHandler")}
}

func (h *SessionHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var creds session.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if err := h.validate.Struct(creds); err != nil {
		writeValidationError(w, err, h.logger)
		return
	}

	grant, err := h.sessions.SignIn(r.Context(), creds)
	if err != nil {
		if errors.Is(err, session.ErrMissingCredentials) {
			writeError(w, http.StatusBadRequest, err.Error(), h.logger)
			return
		}
		requestLogger(r, h.logger).Error("Sign in failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to sign in", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, grant, h.logger)
}

// HandleStatus never fails on a bad or missing token; it reports logged out.
func (h *SessionHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		writeJSON(w, http.StatusOK, session.Status{}, h.logger)
		return
	}
	claims, err := h.sessions.ParseToken(token)
	if err != nil {
		writeJSON(w, http.StatusOK, session.Status{}, h.logger)
		return
	}
	status, err := h.sessions.Status(r.Context(), claims.SessionID)
	if err != nil {
		requestLogger(r, h.logger).Error("Failed to read session", zap.String("session_id", claims.SessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read session", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, status, h.logger)
}

// HandleSignOut must run behind the auth middleware.
func (h *SessionHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	sid, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not signed in", h.logger)
		return
	}
	if err := h.sessions.SignOut(r.Context(), sid); err != nil {
		requestLogger(r, h.logger).Error("Sign out failed", zap.String("session_id", sid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to sign out", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
