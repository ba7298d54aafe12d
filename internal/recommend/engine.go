// Package recommend implements the filtering and recommendation engine:
// a conjunction of optional predicates over the works table, random
// sampling for "Surprise Me", and result ranking.
package recommend

import (
	"gorm.io/gorm"

	"github.com/bookvoyage/bookvoyage/internal/database"
)

// Engine handles all filtering operations
type Engine struct {
	db *database.DB
}

// NewEngine creates a new recommendation engine
func NewEngine(db *database.DB) *Engine {
	return &Engine{db: db}
}

// FilterParams contains the user-selected filter criteria. Every field is
// optional; zero values mean "no constraint". Supplied predicates are
// combined as a conjunction.
type FilterParams struct {
	// Genres matches works carrying ANY of the listed genres
	Genres []string
	// Author matches works by exact author name
	Author string
	// MinRating keeps works with avg_rating >= MinRating
	MinRating float64
	// YearFrom/YearTo bound the publication year. Works with an unknown
	// year pass the filter, matching the source behavior.
	YearFrom *int
	YearTo   *int
	// PagesMin/PagesMax bound the page count; unknown page counts pass
	PagesMin *int
	PagesMax *int
	// MinRatingsCount keeps works with at least that many ratings
	MinRatingsCount int
	// TitleSearch is a case-insensitive substring match on the title
	TitleSearch string
	// Keyword must appear in the title, the description, or any review
	// text of the work (case-insensitive substring)
	Keyword string
	// ExcludeKeyword must appear in neither title nor description
	ExcludeKeyword string
	// OnlyWithReviews keeps works that have at least one text review
	OnlyWithReviews bool
}

// IsZero reports whether no filter is supplied
func (p FilterParams) IsZero() bool {
	return len(p.Genres) == 0 && p.Author == "" && p.MinRating == 0 &&
		p.YearFrom == nil && p.YearTo == nil &&
		p.PagesMin == nil && p.PagesMax == nil &&
		p.MinRatingsCount == 0 && p.TitleSearch == "" &&
		p.Keyword == "" && p.ExcludeKeyword == "" && !p.OnlyWithReviews
}

// Result contains a page of filtered works
type Result struct {
	Works      []database.Work
	TotalCount int
}

// Filter returns the page of works satisfying all supplied predicates,
// ranked by rating then popularity. An empty result is a valid outcome,
// not an error.
func (e *Engine) Filter(params FilterParams, limit, offset int) (*Result, error) {
	query := e.buildQuery(params)

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, err
	}

	var works []database.Work
	err := query.
		Preload("Author").Preload("Genres").
		Order("avg_rating DESC, ratings_count DESC, id ASC").
		Limit(limit).Offset(offset).
		Find(&works).Error
	if err != nil {
		return nil, err
	}

	return &Result{Works: works, TotalCount: int(totalCount)}, nil
}

// FilterAll returns every work satisfying the predicates, capped at
// maxRows, in ranked order. Used by the CSV exporter.
func (e *Engine) FilterAll(params FilterParams, maxRows int) ([]database.Work, error) {
	var works []database.Work
	err := e.buildQuery(params).
		Preload("Author").Preload("Genres").
		Order("avg_rating DESC, ratings_count DESC, id ASC").
		Limit(maxRows).
		Find(&works).Error
	return works, err
}

// Surprise draws a uniform random sample of size k from the filtered set.
// Uses SQLite's ORDER BY RANDOM(), which beats a COUNT + random OFFSET
// round trip.
func (e *Engine) Surprise(params FilterParams, k int) ([]database.Work, error) {
	if k < 1 {
		k = 1
	}

	var works []database.Work
	err := e.buildQuery(params).
		Preload("Author").Preload("Genres").
		Order("RANDOM()").Limit(k).
		Find(&works).Error
	return works, err
}

// buildQuery translates FilterParams into a GORM query over works
func (e *Engine) buildQuery(params FilterParams) *gorm.DB {
	query := e.db.Model(&database.Work{})

	if len(params.Genres) > 0 {
		query = query.Where(
			"works.id IN (SELECT wg.work_id FROM work_genres wg JOIN genres g ON g.id = wg.genre_id WHERE g.name IN ?)",
			params.Genres)
	}

	if params.Author != "" {
		query = query.Where(
			"works.author_id IN (SELECT id FROM authors WHERE name = ?)",
			params.Author)
	}

	if params.MinRating > 0 {
		query = query.Where("works.avg_rating >= ?", params.MinRating)
	}

	// Works with unknown year or page count pass the range filters,
	// matching the source dataset's behavior
	if params.YearFrom != nil {
		query = query.Where("works.publication_year >= ? OR works.publication_year IS NULL", *params.YearFrom)
	}
	if params.YearTo != nil {
		query = query.Where("works.publication_year <= ? OR works.publication_year IS NULL", *params.YearTo)
	}

	if params.PagesMin != nil {
		query = query.Where("works.num_pages >= ? OR works.num_pages IS NULL", *params.PagesMin)
	}
	if params.PagesMax != nil {
		query = query.Where("works.num_pages <= ? OR works.num_pages IS NULL", *params.PagesMax)
	}

	if params.MinRatingsCount > 0 {
		query = query.Where("works.ratings_count >= ?", params.MinRatingsCount)
	}

	if params.TitleSearch != "" {
		query = query.Where("works.title LIKE ?", contains(params.TitleSearch))
	}

	if params.Keyword != "" {
		pattern := contains(params.Keyword)
		query = query.Where(
			"works.title LIKE ? OR works.description LIKE ? OR works.id IN (SELECT work_id FROM reviews WHERE text LIKE ?)",
			pattern, pattern, pattern)
	}

	if params.ExcludeKeyword != "" {
		pattern := contains(params.ExcludeKeyword)
		query = query.Where(
			"works.title NOT LIKE ? AND (works.description IS NULL OR works.description NOT LIKE ?)",
			pattern, pattern)
	}

	if params.OnlyWithReviews {
		query = query.Where("works.text_reviews_count > 0")
	}

	return query
}

// contains builds a LIKE pattern for a substring match. SQLite's LIKE is
// case-insensitive for ASCII.
func contains(s string) string {
	return "%" + s + "%"
}
