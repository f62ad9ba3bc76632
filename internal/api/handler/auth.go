package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/chala47/checker/internal/api/middleware"
	"github.com/chala47/checker/internal/api/request"
	"github.com/chala47/checker/internal/api/response"
	"github.com/chala47/checker/internal/services/auth"
)

// AuthHandler handles registration, login and session endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if !strings.Contains(req.Email, "@") {
		WriteError(w, NewInvalidRequestError("a valid email is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	account, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AccountFromModel(account))
}

// Login handles POST /api/auth/login; success sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Email == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, sessionCookie(session.Token, session.ExpiresAt))
	response.JSON(w, http.StatusOK, response.AccountFromModel(&session.Account))
}

// Logout handles POST /api/auth/logout; requires a session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session != nil {
		h.authService.InvalidateSession(session.Token)
	}

	// Expire the cookie
	http.SetCookie(w, sessionCookie("", time.Unix(0, 0)))
	response.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// User handles GET /api/auth/user
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	response.JSON(w, http.StatusOK, response.AccountFromModel(account))
}

// sessionCookie builds the HttpOnly session cookie
func sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
