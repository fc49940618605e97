package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bookery/bookery/internal/handler/dto"
	"github.com/bookery/bookery/internal/middleware"
	"github.com/bookery/bookery/internal/service"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	svc    *service.SessionService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.SessionService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Login handles POST /auth/api/v1/login/.
// On success the token is returned in the body and also set as a
// cookie, so both API clients and browsers can hold the session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	fieldErrs, err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if fieldErrs.Any() {
		writeFieldErrors(w, fieldErrs)
		return
	}

	token, session, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("user_logged_in",
		"user_id", session.UserID,
		"username", session.Username,
	)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout handles POST /auth/api/v1/logout/.
// The session is removed server side and the cookie expired.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := logoutToken(r)
	if token != "" {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			h.logger.Error("logout failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

func logoutToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
