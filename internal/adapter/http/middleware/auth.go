package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/session"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Claims, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// JWTAuth admits requests carrying a valid token whose session is still
// signed in, and puts the user and session ids in the request context.
func JWTAuth(auth Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				log.Debug("JWTAuth: missing or malformed authorization header", zap.String("path", r.URL.Path))
				unauthorized(w, "authorization token is not provided")
				return
			}

			claims, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, session.ErrInvalidToken):
					log.Warn("JWTAuth: token validation failed", zap.String("path", r.URL.Path), zap.Error(err))
					unauthorized(w, "token is invalid")
				case errors.Is(err, session.ErrSignedOut):
					unauthorized(w, "session is signed out")
				default:
					log.Error("JWTAuth: session lookup failed", zap.Error(err))
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusServiceUnavailable)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "session store unavailable"})
				}
				return
			}

			ctx := domain.WithUserID(r.Context(), claims.UserID)
			ctx = context.WithValue(ctx, SessionIDCtxKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="directory"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
