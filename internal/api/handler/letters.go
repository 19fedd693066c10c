package handler

import (
	"net/http"

	"github.com/dmorelli/guessphrase/internal/api/response"
	"github.com/dmorelli/guessphrase/internal/services/catalog"
)

// LettersHandler handles letter catalog endpoints
type LettersHandler struct {
	catalog *catalog.Service
}

// NewLettersHandler creates a new letters handler
func NewLettersHandler(catalogService *catalog.Service) *LettersHandler {
	return &LettersHandler{
		catalog: catalogService,
	}
}

// List handles GET /api/v1/letters
func (h *LettersHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.LettersFromModel(h.catalog.Letters()))
}
