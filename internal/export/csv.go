// Package export serializes filtered works back to CSV.
//
// The column set and order match the works dataset (loader.WorkColumns), so
// an exported file loads back through the loader with identical rows.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bookvoyage/bookvoyage/internal/database"
	"github.com/bookvoyage/bookvoyage/internal/loader"
)

// WriteWorks writes the works as CSV to w, header first, columns in the
// original dataset order.
func WriteWorks(w io.Writer, works []database.Work) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(loader.WorkColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range works {
		if err := writer.Write(workRow(&works[i])); err != nil {
			return fmt.Errorf("failed to write work %d: %w", works[i].ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// workRow renders one work in loader.WorkColumns order
func workRow(work *database.Work) []string {
	row := make([]string, 0, len(loader.WorkColumns))

	row = append(row, strconv.FormatInt(work.ID, 10))
	row = append(row, work.Title)
	row = append(row, authorName(work))
	row = append(row, joinGenres(work.Genres))
	row = append(row, strconv.FormatFloat(work.AvgRating, 'g', -1, 64))
	row = append(row, optionalInt(work.PublicationYear))
	row = append(row, optionalInt(work.NumPages))
	row = append(row, strconv.Itoa(work.RatingsCount))
	row = append(row, strconv.Itoa(work.TextReviewsCount))
	row = append(row, optionalString(work.Description))
	row = append(row, optionalString(work.ImageURL))
	row = append(row, joinSimilar(work))

	return row
}

func authorName(work *database.Work) string {
	if work.Author != nil {
		return work.Author.Name
	}
	return ""
}

func joinGenres(genres []database.Genre) string {
	if len(genres) == 0 {
		return ""
	}
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

func joinSimilar(work *database.Work) string {
	ids, err := work.SimilarWorkIDs()
	if err != nil || len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
