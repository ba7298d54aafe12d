package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	_, repo := setupTestDB(t)

	seedWork(t, repo, 1, "Book A", "Author A", "fiction")
	seedWork(t, repo, 2, "Book B", "Author B", "fiction", "romance")
	require.NoError(t, repo.InsertReview(&Review{WorkID: 1, Rating: 5}))

	works, err := repo.CountWorks()
	require.NoError(t, err)
	assert.Equal(t, 2, works)

	reviews, err := repo.CountReviews()
	require.NoError(t, err)
	assert.Equal(t, 1, reviews)

	authors, err := repo.CountAuthors()
	require.NoError(t, err)
	assert.Equal(t, 2, authors)

	genres, err := repo.CountGenres()
	require.NoError(t, err)
	assert.Equal(t, 2, genres)
}

func TestGetGenresWithStats(t *testing.T) {
	_, repo := setupTestDB(t)

	seedWork(t, repo, 1, "Book A", "Author A", "fiction")
	seedWork(t, repo, 2, "Book B", "Author B", "fiction", "romance")
	seedWork(t, repo, 3, "Book C", "Author C", "fiction")

	genres, err := repo.GetGenresWithStats()
	require.NoError(t, err)
	require.Len(t, genres, 2)

	// Sorted by work count descending
	assert.Equal(t, "fiction", genres[0].Name)
	assert.Equal(t, 3, genres[0].WorkCount)
	assert.Equal(t, "romance", genres[1].Name)
	assert.Equal(t, 1, genres[1].WorkCount)
}

func TestGetAuthorsWithStats(t *testing.T) {
	_, repo := setupTestDB(t)

	seedWork(t, repo, 1, "Book A", "Prolific Author")
	seedWork(t, repo, 2, "Book B", "Prolific Author")
	seedWork(t, repo, 3, "Book C", "One-Hit Author")

	authors, total, err := repo.GetAuthorsWithStats(10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, authors, 2)

	assert.Equal(t, "Prolific Author", authors[0].Name)
	assert.Equal(t, 2, authors[0].WorkCount)
	assert.Equal(t, "One-Hit Author", authors[1].Name)
	assert.Equal(t, 1, authors[1].WorkCount)

	t.Run("pagination", func(t *testing.T) {
		page, total, err := repo.GetAuthorsWithStats(1, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, page, 1)
		assert.Equal(t, "One-Hit Author", page[0].Name)
	})
}

func TestGetStatistics(t *testing.T) {
	_, repo := setupTestDB(t)

	t.Run("empty database", func(t *testing.T) {
		stats, err := repo.GetStatistics()
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalWorks)
		assert.Equal(t, 0.0, stats.MeanRating)
	})

	require.NoError(t, repo.InsertWork(&Work{ID: 1, Title: "A", AvgRating: 4.0}))
	require.NoError(t, repo.InsertWork(&Work{ID: 2, Title: "B", AvgRating: 3.0}))
	require.NoError(t, repo.InsertReview(&Review{WorkID: 1, Rating: 5}))
	require.NoError(t, repo.InsertReview(&Review{WorkID: 2, Rating: 3}))
	seedWork(t, repo, 3, "C", "Someone", "history")

	stats, err := repo.GetStatistics()
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalWorks)
	assert.Equal(t, 2, stats.TotalReviews)
	assert.Equal(t, 1, stats.TotalAuthors)
	assert.Equal(t, 1, stats.TotalGenres)
	assert.InDelta(t, (4.0+3.0+4.0)/3, stats.MeanRating, 0.001)
	require.Len(t, stats.WorksByGenre, 1)
	assert.Equal(t, "history", stats.WorksByGenre[0].Name)
	require.Len(t, stats.TopAuthors, 1)
	assert.Equal(t, "Someone", stats.TopAuthors[0].Name)
}
