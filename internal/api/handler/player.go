package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dmorelli/guessphrase/internal/api/middleware"
	"github.com/dmorelli/guessphrase/internal/api/request"
	"github.com/dmorelli/guessphrase/internal/api/response"
	"github.com/dmorelli/guessphrase/internal/services/auth"
	"github.com/dmorelli/guessphrase/internal/storage"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	authService *auth.Service
	store       storage.Storage
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service, store storage.Storage) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
		store:       store,
	}
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Register(r.Context(), req.Username, req.Password, req.Mail)
	if err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.store.GetPlayer(r.Context(), session.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFor(player, session))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.store.GetPlayer(r.Context(), session.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFor(player, session))
}

// Logout handles POST /api/v1/players/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	h.authService.InvalidateSession(session.Token)
	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	player, err := h.store.GetPlayer(r.Context(), session.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
