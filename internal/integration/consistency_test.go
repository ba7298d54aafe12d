package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvoyage/bookvoyage/internal/api/rest"
	"github.com/bookvoyage/bookvoyage/internal/config"
	"github.com/bookvoyage/bookvoyage/internal/database"
	"github.com/bookvoyage/bookvoyage/internal/export"
	"github.com/bookvoyage/bookvoyage/internal/loader"
	"github.com/bookvoyage/bookvoyage/internal/processor"
	"github.com/bookvoyage/bookvoyage/internal/recommend"
	"github.com/bookvoyage/bookvoyage/internal/testutil"
)

const worksCSV = `work_id,original_title,author,genres,avg_rating,original_publication_year,num_pages,ratings_count,text_reviews_count,description,image_url,similar_books
1,Dune,Frank Herbert,"sci-fi, classics",4.25,1965,412,700000,12000,Politics and prophecy on Arrakis.,,2
2,Emma,Jane Austen,"classics, romance",4.00,1815,474,60000,3000,A matchmaker misreads everyone.,,
3,Hyperion,Dan Simmons,sci-fi,4.23,1989,482,200000,5000,Seven pilgrims tell their tales.,,1
4,Mystery Draft,,,3.10,,,50,0,,,
`

const reviewsCSV = `work_id,rating,review_text,n_votes,spoiler
1,5,The sandworms alone are worth it,40,false
1,2,The emperor dies at the end,3,true
2,4,Witty and sharp,7,false
9,3,Review of a work we never ingested,1,false
`

// setupTestEnv ingests the CSV fixtures and wires the full stack
func setupTestEnv(t *testing.T) (*gin.Engine, *database.Repository, *recommend.Engine) {
	t.Helper()

	db, repo := testutil.SetupTestDB(t)

	works, _, err := loader.ParseWorks(strings.NewReader(worksCSV))
	require.NoError(t, err)
	reviews, _, err := loader.ParseReviews(strings.NewReader(reviewsCSV))
	require.NoError(t, err)

	proc := processor.NewProcessor(repo, 2)
	require.NoError(t, proc.ProcessWorks(works))
	require.NoError(t, proc.ProcessReviews(reviews, nil))

	engine := recommend.NewEngine(db)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Export: config.ExportConfig{Filename: "my_reading_list.csv", MaxRows: 10000},
	}
	router := rest.SetupRouter(cfg, db, repo, engine)

	return router, repo, engine
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestIngestCounts verifies the pipeline lands every usable row
func TestIngestCounts(t *testing.T) {
	_, repo, _ := setupTestEnv(t)

	works, err := repo.CountWorks()
	require.NoError(t, err)
	assert.Equal(t, 4, works)

	// Orphan reviews are stored; joins drop them at query time
	reviews, err := repo.CountReviews()
	require.NoError(t, err)
	assert.Equal(t, 4, reviews)

	authors, err := repo.CountAuthors()
	require.NoError(t, err)
	assert.Equal(t, 3, authors)

	genres, err := repo.CountGenres()
	require.NoError(t, err)
	assert.Equal(t, 3, genres)
}

// TestFilterConsistency verifies the REST endpoint and the engine agree
func TestFilterConsistency(t *testing.T) {
	router, _, engine := setupTestEnv(t)

	tests := []struct {
		name   string
		query  string
		params recommend.FilterParams
	}{
		{"no filter", "", recommend.FilterParams{}},
		{"genre", "?genre=sci-fi", recommend.FilterParams{Genres: []string{"sci-fi"}}},
		{"author", "?author=Jane+Austen", recommend.FilterParams{Author: "Jane Austen"}},
		{"min rating", "?min_rating=4.1", recommend.FilterParams{MinRating: 4.1}},
		{"keyword in reviews", "?keyword=sandworms", recommend.FilterParams{Keyword: "sandworms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, "/api/v1/books"+tt.query)
			require.Equal(t, http.StatusOK, w.Code)

			var restResult struct {
				Data []struct {
					ID int64 `json:"id"`
				} `json:"data"`
				Pagination struct {
					Total int `json:"total"`
				} `json:"pagination"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &restResult))

			engineResult, err := engine.Filter(tt.params, 20, 0)
			require.NoError(t, err)

			assert.Equal(t, engineResult.TotalCount, restResult.Pagination.Total)
			require.Equal(t, len(engineResult.Works), len(restResult.Data))
			for i := range engineResult.Works {
				assert.Equal(t, engineResult.Works[i].ID, restResult.Data[i].ID)
			}
		})
	}
}

// TestExportRoundTrip verifies the exported CSV of a filtered set parses
// back to the same works
func TestExportRoundTrip(t *testing.T) {
	router, _, engine := setupTestEnv(t)

	w := get(router, "/api/v1/books/export?genre=sci-fi")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "my_reading_list.csv")

	parsed, report, err := loader.ParseWorks(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Skipped)

	filtered, err := engine.FilterAll(recommend.FilterParams{Genres: []string{"sci-fi"}}, 10000)
	require.NoError(t, err)
	require.Equal(t, len(filtered), len(parsed))

	for i := range filtered {
		assert.Equal(t, filtered[i].ID, parsed[i].WorkID)
		assert.Equal(t, filtered[i].Title, parsed[i].Title)
		assert.InDelta(t, filtered[i].AvgRating, parsed[i].AvgRating, 1e-9)
	}

	t.Run("direct writer matches endpoint body", func(t *testing.T) {
		var buf strings.Builder
		require.NoError(t, export.WriteWorks(&buf, filtered))
		assert.Equal(t, buf.String(), w.Body.String())
	})
}

// TestSurpriseMembership verifies random picks always come from the
// filtered set
func TestSurpriseMembership(t *testing.T) {
	router, _, _ := setupTestEnv(t)

	sciFiIDs := map[int64]bool{1: true, 3: true}

	for i := 0; i < 10; i++ {
		w := get(router, "/api/v1/books/surprise?genre=sci-fi")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data []struct {
				ID int64 `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.True(t, sciFiIDs[response.Data[0].ID], "pick %d outside the filtered set", response.Data[0].ID)
	}
}

// TestReviewEndpoints verifies spoiler exclusion and orphan handling
func TestReviewEndpoints(t *testing.T) {
	router, _, _ := setupTestEnv(t)

	t.Run("orphan reviews invisible through the API", func(t *testing.T) {
		w := get(router, "/api/v1/books/9/reviews")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("spoiler exclusion", func(t *testing.T) {
		w := get(router, "/api/v1/books/1/reviews?exclude_spoilers=true")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data []struct {
				Spoiler bool `json:"spoiler"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.False(t, response.Data[0].Spoiler)
	})
}

// TestStatsEndpoint verifies aggregate numbers match the ingested data
func TestStatsEndpoint(t *testing.T) {
	router, _, _ := setupTestEnv(t)

	w := get(router, "/api/v1/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalWorks   int     `json:"total_works"`
		TotalReviews int     `json:"total_reviews"`
		MeanRating   float64 `json:"mean_rating"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))

	assert.Equal(t, 4, stats.TotalWorks)
	assert.Equal(t, 4, stats.TotalReviews)
	assert.InDelta(t, (4.25+4.00+4.23+3.10)/4, stats.MeanRating, 0.001)
}
