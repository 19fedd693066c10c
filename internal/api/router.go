package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmorelli/guessphrase/internal/api/handler"
	"github.com/dmorelli/guessphrase/internal/api/middleware"
	"github.com/dmorelli/guessphrase/internal/dependencies/clock"
	"github.com/dmorelli/guessphrase/internal/services/auth"
	"github.com/dmorelli/guessphrase/internal/services/catalog"
	"github.com/dmorelli/guessphrase/internal/services/session"
	"github.com/dmorelli/guessphrase/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	AuthService       *auth.Service
	SessionController session.ControllerInterface
	CatalogService    *catalog.Service
	Storage           storage.Storage
	Clock             clock.Clock
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.Storage)
	gameHandler := handler.NewGameHandler(cfg.SessionController, cfg.Clock)
	lettersHandler := handler.NewLettersHandler(cfg.CatalogService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for registering/logging in)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}/guess", gameHandler.Guess).Methods(http.MethodPost)
	games.HandleFunc("/{id}/giveup", gameHandler.GiveUp).Methods(http.MethodPost)

	// Letter catalog (no auth, the price list is public)
	api.HandleFunc("/letters", lettersHandler.List).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
