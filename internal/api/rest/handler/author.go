package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookvoyage/bookvoyage/internal/database"
	apierrors "github.com/bookvoyage/bookvoyage/internal/errors"
)

// AuthorHandler handles author-related requests
type AuthorHandler struct {
	repo *database.Repository
}

// NewAuthorHandler creates a new author handler
func NewAuthorHandler(repo *database.Repository) *AuthorHandler {
	return &AuthorHandler{repo: repo}
}

// ListAuthors returns a paginated list of authors with work counts
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	pagination := ParsePagination(c)

	authors, total, err := h.repo.GetAuthorsWithStats(pagination.PageSize, pagination.Offset())
	if err != nil {
		respondAPIError(c, apierrors.Internal("Failed to fetch authors"))
		return
	}

	data := make([]map[string]any, len(authors))
	for i := range authors {
		data[i] = formatAuthorWithStats(&authors[i])
	}

	c.JSON(http.StatusOK, NewPaginationResponse(data, pagination, int64(total)))
}

// GetAuthor returns a specific author by ID with their works
func (h *AuthorHandler) GetAuthor(c *gin.Context) {
	id, ok := parseID(c, "id", "author")
	if !ok {
		return
	}

	author, err := h.repo.GetAuthorByID(id)
	if err != nil {
		respondAPIError(c, apierrors.NotFound("Author"))
		return
	}

	pagination := ParsePagination(c)
	works, total, err := h.repo.ListAuthorWorks(id, pagination.PageSize, pagination.Offset())
	if err != nil {
		respondAPIError(c, apierrors.Internal("Failed to fetch author works"))
		return
	}

	workData := make([]map[string]any, len(works))
	for i := range works {
		workData[i] = formatWork(&works[i])
	}

	result := formatAuthor(author)
	result["work_count"] = total
	result["works"] = workData

	respondOK(c, result)
}
