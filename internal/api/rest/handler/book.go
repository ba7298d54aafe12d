package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bookvoyage/bookvoyage/internal/database"
	apierrors "github.com/bookvoyage/bookvoyage/internal/errors"
	"github.com/bookvoyage/bookvoyage/internal/export"
	"github.com/bookvoyage/bookvoyage/internal/recommend"
)

const (
	// DefaultSurpriseSize is the sample size when k is not supplied
	DefaultSurpriseSize = 1
	// MaxSurpriseSize caps the random sample size
	MaxSurpriseSize = 20
)

// BookHandler handles book-related requests
type BookHandler struct {
	repo           *database.Repository
	engine         *recommend.Engine
	exportFilename string
	exportMaxRows  int
}

// NewBookHandler creates a new book handler
func NewBookHandler(repo *database.Repository, engine *recommend.Engine, exportFilename string, exportMaxRows int) *BookHandler {
	if exportFilename == "" {
		exportFilename = "my_reading_list.csv"
	}
	if exportMaxRows < 1 {
		exportMaxRows = 10000
	}
	return &BookHandler{
		repo:           repo,
		engine:         engine,
		exportFilename: exportFilename,
		exportMaxRows:  exportMaxRows,
	}
}

// ListBooks retrieves a filtered, paginated list of works.
// An empty result is a valid response, not an error.
func (h *BookHandler) ListBooks(c *gin.Context) {
	params, apiErr := ParseFilterParams(c)
	if apiErr != nil {
		respondAPIError(c, apiErr)
		return
	}
	pagination := ParsePagination(c)

	result, err := h.engine.Filter(params, pagination.PageSize, pagination.Offset())
	if err != nil {
		respondAPIError(c, apierrors.Internal("failed to retrieve books"))
		return
	}

	data := make([]map[string]any, len(result.Works))
	for i := range result.Works {
		data[i] = formatWork(&result.Works[i])
	}

	c.JSON(http.StatusOK, NewPaginationResponse(data, pagination, int64(result.TotalCount)))
}

// GetBook returns a single work by ID
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c, "id", "book")
	if !ok {
		return
	}

	work, err := h.repo.GetWorkByID(id)
	if err != nil {
		respondAPIError(c, apierrors.NotFound("Book"))
		return
	}

	respondOK(c, formatWork(work))
}

// ListBookReviews returns the reviews of a work.
// exclude_spoilers=true drops reviews flagged as spoilers.
func (h *BookHandler) ListBookReviews(c *gin.Context) {
	id, ok := parseID(c, "id", "book")
	if !ok {
		return
	}

	if _, err := h.repo.GetWorkByID(id); err != nil {
		respondAPIError(c, apierrors.NotFound("Book"))
		return
	}

	excludeSpoilers := c.Query("exclude_spoilers") == "true"
	pagination := ParsePagination(c)

	reviews, total, err := h.repo.ListWorkReviews(id, excludeSpoilers, pagination.PageSize, pagination.Offset())
	if err != nil {
		respondAPIError(c, apierrors.Internal("failed to retrieve reviews"))
		return
	}

	data := make([]map[string]any, len(reviews))
	for i := range reviews {
		data[i] = formatReview(&reviews[i])
	}

	c.JSON(http.StatusOK, NewPaginationResponse(data, pagination, int64(total)))
}

// SurpriseBooks returns k random works from the filtered set
func (h *BookHandler) SurpriseBooks(c *gin.Context) {
	params, apiErr := ParseFilterParams(c)
	if apiErr != nil {
		respondAPIError(c, apiErr)
		return
	}

	k := DefaultSurpriseSize
	if s := c.Query("k"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			respondAPIError(c, apierrors.InvalidRequest("k must be a positive integer"))
			return
		}
		k = min(v, MaxSurpriseSize)
	}

	works, err := h.engine.Surprise(params, k)
	if err != nil {
		respondAPIError(c, apierrors.Internal("failed to sample books"))
		return
	}

	data := make([]map[string]any, len(works))
	for i := range works {
		data[i] = formatWork(&works[i])
	}

	respondOK(c, data)
}

// ExportBooks streams the filtered set as a CSV attachment, columns in
// the original dataset order.
func (h *BookHandler) ExportBooks(c *gin.Context) {
	params, apiErr := ParseFilterParams(c)
	if apiErr != nil {
		respondAPIError(c, apiErr)
		return
	}

	works, err := h.engine.FilterAll(params, h.exportMaxRows)
	if err != nil {
		respondAPIError(c, apierrors.Internal("failed to export books"))
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exportFilename))

	if err := export.WriteWorks(c.Writer, works); err != nil {
		// Headers are already out; the truncated body is all we can signal
		_ = c.Error(err)
	}
}
