package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chala47/checker/internal/api/handler"
	apimiddleware "github.com/chala47/checker/internal/api/middleware"
	"github.com/chala47/checker/internal/middleware"
	"github.com/chala47/checker/internal/services/auth"
	"github.com/chala47/checker/internal/services/match"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	MatchService *match.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.MatchService)

	authMiddleware := apimiddleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (register/login are public)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/user", authHandler.User).Methods(http.MethodGet)

	// Game routes (all require a session)
	games := api.NewRoute().Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/invite", gameHandler.Invite).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
