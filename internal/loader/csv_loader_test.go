package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const worksCSV = `work_id,original_title,author,genres,avg_rating,original_publication_year,num_pages,ratings_count,text_reviews_count,description,image_url,similar_books
1,The Hobbit,J.R.R. Tolkien,"fantasy, classics",4.27,1937,310,2500000,35000,A hobbit goes on an adventure.,http://img/1.jpg,"2, 3"
2,The Fellowship of the Ring,J.R.R. Tolkien,fantasy,4.36,1954.0,423,2200000,21000,,,
3,Unknown Year Book,Somebody,,3.5,,not-a-number,10,1,Short.,,
`

func TestParseWorks(t *testing.T) {
	works, report, err := ParseWorks(strings.NewReader(worksCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, works, 3)

	t.Run("fully populated row", func(t *testing.T) {
		w := works[0]
		assert.Equal(t, int64(1), w.WorkID)
		assert.Equal(t, "The Hobbit", w.Title)
		assert.Equal(t, "J.R.R. Tolkien", w.Author)
		assert.Equal(t, []string{"fantasy", "classics"}, w.Genres)
		assert.InDelta(t, 4.27, w.AvgRating, 0.001)
		require.NotNil(t, w.PublicationYear)
		assert.Equal(t, 1937, *w.PublicationYear)
		require.NotNil(t, w.NumPages)
		assert.Equal(t, 310, *w.NumPages)
		assert.Equal(t, 2500000, w.RatingsCount)
		assert.Equal(t, []int64{2, 3}, w.SimilarBooks)
	})

	t.Run("float-formatted year is accepted", func(t *testing.T) {
		require.NotNil(t, works[1].PublicationYear)
		assert.Equal(t, 1954, *works[1].PublicationYear)
	})

	t.Run("missing year and bad page count become null", func(t *testing.T) {
		w := works[2]
		assert.Nil(t, w.PublicationYear)
		assert.Nil(t, w.NumPages)
		assert.Empty(t, w.Genres)
	})

	t.Run("bad numeric field counted as coerced", func(t *testing.T) {
		assert.Equal(t, 1, report.Coerced)
	})
}

func TestParseWorksSkipsBadRows(t *testing.T) {
	data := `work_id,original_title,avg_rating
,No ID Book,4.0
abc,Bad ID Book,4.0
-1,Negative ID,4.0
5,Good Book,4.0
`
	works, report, err := ParseWorks(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Rows)
	assert.Equal(t, 3, report.Skipped)
	require.Len(t, works, 1)
	assert.Equal(t, int64(5), works[0].WorkID)
}

func TestParseWorksColumnOrderIndependent(t *testing.T) {
	// Same data, shuffled and partial columns
	data := `original_title,avg_rating,work_id
Reordered Book,3.9,7
`
	works, _, err := ParseWorks(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, works, 1)
	assert.Equal(t, int64(7), works[0].WorkID)
	assert.Equal(t, "Reordered Book", works[0].Title)
	assert.InDelta(t, 3.9, works[0].AvgRating, 0.001)
}

func TestParseWorksMissingIDColumn(t *testing.T) {
	data := `original_title,avg_rating
Book,4.0
`
	_, _, err := ParseWorks(strings.NewReader(data))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "work_id")
}

func TestParseReviews(t *testing.T) {
	data := `work_id,rating,review_text,n_votes,spoiler
1,5,Loved it,12,false
1,2,The butler did it,3,true
2,4,Solid read,,
abc,3,Skipped row,0,false
`
	reviews, report, err := ParseReviews(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, reviews, 3)

	assert.Equal(t, int64(1), reviews[0].WorkID)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "Loved it", reviews[0].Text)
	assert.Equal(t, 12, reviews[0].Votes)
	assert.False(t, reviews[0].Spoiler)

	assert.True(t, reviews[1].Spoiler)

	// Missing votes default to zero
	assert.Equal(t, 0, reviews[2].Votes)
}

func TestParseReviewsMissingRequiredColumn(t *testing.T) {
	data := `work_id,rating
1,5
`
	_, _, err := ParseReviews(strings.NewReader(data))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "review_text")
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()

	primary := filepath.Join(dir, "works.csv")
	sample := filepath.Join(dir, "works_sample.csv")

	t.Run("neither file exists", func(t *testing.T) {
		_, err := ResolvePath(primary, sample)
		assert.Error(t, err)
	})

	t.Run("sample fallback", func(t *testing.T) {
		require.NoError(t, os.WriteFile(sample, []byte("work_id\n"), 0o644))

		got, err := ResolvePath(primary, sample)
		require.NoError(t, err)
		assert.Equal(t, sample, got)
	})

	t.Run("primary preferred", func(t *testing.T) {
		require.NoError(t, os.WriteFile(primary, []byte("work_id\n"), 0o644))

		got, err := ResolvePath(primary, sample)
		require.NoError(t, err)
		assert.Equal(t, primary, got)
	})
}

func TestLoadWorksFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "works.csv")
	require.NoError(t, os.WriteFile(path, []byte(worksCSV), 0o644))

	works, report, err := LoadWorks(path)
	require.NoError(t, err)
	assert.Equal(t, path, report.Path)
	assert.Len(t, works, 3)

	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadWorks(filepath.Join(dir, "nope.csv"))
		assert.Error(t, err)
	})
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "fantasy", []string{"fantasy"}},
		{"multiple with spaces", "fantasy, sci-fi ,classics", []string{"fantasy", "sci-fi", "classics"}},
		{"trailing comma", "fantasy,", []string{"fantasy"}},
		{"only commas", ",,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitList(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"312", 312, true},
		{"312.0", 312, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseInt(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
