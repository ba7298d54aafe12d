package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bookvoyage/bookvoyage/internal/database"
	apierrors "github.com/bookvoyage/bookvoyage/internal/errors"
)

// GenreHandler handles genre-related requests
type GenreHandler struct {
	repo *database.Repository
}

// NewGenreHandler creates a new genre handler
func NewGenreHandler(repo *database.Repository) *GenreHandler {
	return &GenreHandler{repo: repo}
}

// ListGenres returns all genres with their work counts
func (h *GenreHandler) ListGenres(c *gin.Context) {
	genres, err := h.repo.GetGenresWithStats()
	if err != nil {
		respondAPIError(c, apierrors.Internal("Failed to fetch genres"))
		return
	}

	data := make([]map[string]any, len(genres))
	for i := range genres {
		data[i] = formatGenreWithStats(&genres[i])
	}

	respondOK(c, data)
}
