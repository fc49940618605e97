package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bookery/bookery/internal/auth"
	"github.com/bookery/bookery/internal/metrics"
	"github.com/bookery/bookery/internal/model"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "bookery_session"

// SessionResolver maps a presented token to a live session.
// *service.SessionService satisfies it.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.Session, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Sessions SessionResolver
	Metrics  metrics.Recorder
}

// Auth returns a middleware that authenticates requests via the
// server-side session store. The token is taken from the
// Authorization header or the session cookie; a request without a
// valid session is rejected with 401 before reaching the handler.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionToken(r)
			if token == "" {
				rejectUnauthenticated(w, cfg.Logger, recorder, r, "missing_token")
				return
			}

			session, err := cfg.Sessions.Resolve(r.Context(), token)
			if err != nil {
				cfg.Logger.Error("session lookup failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				rejectUnauthenticated(w, cfg.Logger, recorder, r, "lookup_error")
				return
			}
			if session == nil {
				rejectUnauthenticated(w, cfg.Logger, recorder, r, "invalid_token")
				return
			}

			ctx := auth.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractSessionToken extracts the session token from the request.
// Supports "Authorization: Bearer <token>" and the session cookie.
func extractSessionToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// rejectUnauthenticated writes a 401 response. The body is the same
// for every failure mode to prevent token probing.
func rejectUnauthenticated(w http.ResponseWriter, logger *slog.Logger, recorder metrics.Recorder, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
	recorder.IncAuthRejected()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Authentication required","code":"UNAUTHORIZED"}`))
}
