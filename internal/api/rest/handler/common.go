package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/bookvoyage/bookvoyage/internal/errors"
)

// parseID extracts and validates an int64 ID from a URL parameter.
// Returns the ID and true if successful, or sends an error response and returns false.
func parseID(c *gin.Context, param, entityName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id < 1 {
		respondAPIError(c, apierrors.InvalidID(entityName+" ID"))
		return 0, false
	}
	return id, true
}

// respondAPIError sends a structured error response.
func respondAPIError(c *gin.Context, apiErr *apierrors.APIError) {
	c.JSON(apiErr.HTTPStatus, gin.H{
		"error": apiErr.Message,
		"code":  apiErr.Code,
	})
}

// respondOK sends a JSON success response with the given data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
