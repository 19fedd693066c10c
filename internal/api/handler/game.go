package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/dmorelli/guessphrase/internal/api/middleware"
	"github.com/dmorelli/guessphrase/internal/api/request"
	"github.com/dmorelli/guessphrase/internal/api/response"
	"github.com/dmorelli/guessphrase/internal/dependencies/clock"
	"github.com/dmorelli/guessphrase/internal/model"
	"github.com/dmorelli/guessphrase/internal/services/session"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	controller session.ControllerInterface
	clock      clock.Clock
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller session.ControllerInterface, clk clock.Clock) *GameHandler {
	return &GameHandler{
		controller: controller,
		clock:      clk,
	}
}

// Start handles POST /api/v1/games
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess := middleware.MustGetSession(r.Context())

	var req request.StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.controller.StartGame(r.Context(), sess.PlayerID, req.Phrase)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(game, h.clock.Now()))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.ownedGame(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game, h.clock.Now()))
}

// Guess handles POST /api/v1/games/{id}/guess
func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	game, err := h.ownedGame(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	letter, size := utf8.DecodeRuneInString(req.Letter)
	if size == 0 || size != len(req.Letter) {
		WriteError(w, NewInvalidRequestError("letter must be a single character"))
		return
	}

	result, err := h.controller.GuessLetter(r.Context(), game.ID, letter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuessResponseFromResult(result, h.clock.Now()))
}

// GiveUp handles POST /api/v1/games/{id}/giveup
func (h *GameHandler) GiveUp(w http.ResponseWriter, r *http.Request) {
	game, err := h.ownedGame(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	game, err = h.controller.GiveUp(r.Context(), game.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game, h.clock.Now()))
}

// ownedGame loads the game from the path and verifies the authenticated
// player owns it. A foreign game is reported as not found rather than
// forbidden, so game IDs cannot be probed.
func (h *GameHandler) ownedGame(r *http.Request) (*model.Game, error) {
	sess := middleware.MustGetSession(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return nil, NewInvalidRequestError("invalid game id")
	}

	game, err := h.controller.GetGame(r.Context(), model.GameID(id))
	if err != nil {
		return nil, err
	}
	if game.PlayerID != sess.PlayerID {
		return nil, model.ErrGameNotFound
	}

	return game, nil
}
