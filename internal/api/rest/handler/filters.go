package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/bookvoyage/bookvoyage/internal/errors"
	"github.com/bookvoyage/bookvoyage/internal/helpers"
	"github.com/bookvoyage/bookvoyage/internal/recommend"
)

// ParseFilterParams builds recommend.FilterParams from query parameters.
// Every parameter is optional; a malformed numeric value is a client error.
//
// Supported parameters: genre (repeatable or comma-separated), author,
// min_rating, year_from, year_to, pages_min, pages_max, min_ratings,
// q (title search), keyword, exclude_keyword, only_with_reviews.
func ParseFilterParams(c *gin.Context) (recommend.FilterParams, *apierrors.APIError) {
	var params recommend.FilterParams

	for _, raw := range c.QueryArray("genre") {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				params.Genres = append(params.Genres, g)
			}
		}
	}

	params.Author = strings.TrimSpace(c.Query("author"))
	params.TitleSearch = strings.TrimSpace(c.Query("q"))
	params.Keyword = strings.TrimSpace(c.Query("keyword"))
	params.ExcludeKeyword = strings.TrimSpace(c.Query("exclude_keyword"))
	params.OnlyWithReviews = c.Query("only_with_reviews") == "true"

	if v, err := helpers.ParseOptionalFloat(c.Query("min_rating")); err != nil {
		return params, apierrors.InvalidRequest("min_rating must be a number")
	} else if v != nil {
		params.MinRating = *v
	}

	if s := c.Query("min_ratings"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return params, apierrors.InvalidRequest("min_ratings must be a non-negative integer")
		}
		params.MinRatingsCount = v
	}

	var err *apierrors.APIError
	if params.YearFrom, err = optionalIntQuery(c, "year_from"); err != nil {
		return params, err
	}
	if params.YearTo, err = optionalIntQuery(c, "year_to"); err != nil {
		return params, err
	}
	if params.PagesMin, err = optionalIntQuery(c, "pages_min"); err != nil {
		return params, err
	}
	if params.PagesMax, err = optionalIntQuery(c, "pages_max"); err != nil {
		return params, err
	}

	return params, nil
}

func optionalIntQuery(c *gin.Context, name string) (*int, *apierrors.APIError) {
	v, err := helpers.ParseOptionalInt(c.Query(name))
	if err != nil {
		return nil, apierrors.InvalidRequest(name + " must be an integer")
	}
	return v, nil
}
