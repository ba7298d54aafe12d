// Package loader reads the works and reviews CSV datasets.
//
// Loading is header-driven: columns are located by name, so column order in
// the source files does not matter. Malformed numeric values are coerced to
// null rather than failing the row; rows without a usable work id are
// skipped and counted in the LoadReport.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WorkColumns is the canonical column order of the works dataset.
// CSV export preserves this order.
var WorkColumns = []string{
	"work_id",
	"original_title",
	"author",
	"genres",
	"avg_rating",
	"original_publication_year",
	"num_pages",
	"ratings_count",
	"text_reviews_count",
	"description",
	"image_url",
	"similar_books",
}

// ReviewColumns is the canonical column order of the reviews dataset
var ReviewColumns = []string{
	"work_id",
	"rating",
	"review_text",
	"n_votes",
	"spoiler",
}

// WorkRecord is one parsed row of the works dataset
type WorkRecord struct {
	WorkID           int64
	Title            string
	Author           string
	Genres           []string
	AvgRating        float64
	PublicationYear  *int
	NumPages         *int
	RatingsCount     int
	TextReviewsCount int
	Description      string
	ImageURL         string
	SimilarBooks     []int64
}

// ReviewRecord is one parsed row of the reviews dataset
type ReviewRecord struct {
	WorkID  int64
	Rating  int
	Text    string
	Votes   int
	Spoiler bool
}

// LoadReport summarizes what happened during a load
type LoadReport struct {
	Path    string // file actually read (primary or sample)
	Rows    int    // rows successfully parsed
	Skipped int    // rows dropped (missing/invalid work id, ragged rows)
	Coerced int    // rows with at least one unparseable numeric field
}

// ResolvePath returns the primary path when it exists, otherwise the sample
// fallback. A missing dataset (neither file present) is a fatal, user-facing
// condition for the callers.
func ResolvePath(primary, sample string) (string, error) {
	if primary != "" {
		if _, err := os.Stat(primary); err == nil {
			return primary, nil
		}
	}
	if sample != "" {
		if _, err := os.Stat(sample); err == nil {
			return sample, nil
		}
	}
	return "", fmt.Errorf("dataset not found: %q (sample fallback %q also missing)", primary, sample)
}

// LoadWorks reads the works dataset from path
func LoadWorks(path string) ([]WorkRecord, *LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open works file: %w", err)
	}
	defer func() { _ = f.Close() }()

	works, report, err := ParseWorks(f)
	if err != nil {
		return nil, nil, err
	}
	report.Path = path
	return works, report, nil
}

// ParseWorks parses works CSV data from a reader
func ParseWorks(r io.Reader) ([]WorkRecord, *LoadReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, skip them below

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read works header: %w", err)
	}
	cols := indexColumns(header)

	if _, ok := cols["work_id"]; !ok {
		return nil, nil, fmt.Errorf("works file is missing required column %q", "work_id")
	}

	report := &LoadReport{}
	var works []WorkRecord

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Unparseable line, skip it
			report.Skipped++
			continue
		}

		id, ok := parseInt64(field(record, cols, "work_id"))
		if !ok || id <= 0 {
			report.Skipped++
			continue
		}

		work := WorkRecord{
			WorkID:      id,
			Title:       field(record, cols, "original_title"),
			Author:      field(record, cols, "author"),
			Genres:      splitList(field(record, cols, "genres")),
			Description: field(record, cols, "description"),
			ImageURL:    field(record, cols, "image_url"),
		}

		coerced := false

		if v, ok := parseFloat(field(record, cols, "avg_rating")); ok {
			work.AvgRating = v
		} else {
			coerced = true
		}
		if v, ok := parseInt(field(record, cols, "original_publication_year")); ok {
			work.PublicationYear = &v
		} else if field(record, cols, "original_publication_year") != "" {
			coerced = true
		}
		if v, ok := parseInt(field(record, cols, "num_pages")); ok && v > 0 {
			work.NumPages = &v
		} else if field(record, cols, "num_pages") != "" {
			coerced = true
		}
		if v, ok := parseInt(field(record, cols, "ratings_count")); ok {
			work.RatingsCount = v
		}
		if v, ok := parseInt(field(record, cols, "text_reviews_count")); ok {
			work.TextReviewsCount = v
		}

		for _, s := range splitList(field(record, cols, "similar_books")) {
			if sid, ok := parseInt64(s); ok {
				work.SimilarBooks = append(work.SimilarBooks, sid)
			}
		}

		if coerced {
			report.Coerced++
		}
		report.Rows++
		works = append(works, work)
	}

	return works, report, nil
}

// LoadReviews reads the reviews dataset from path
func LoadReviews(path string) ([]ReviewRecord, *LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open reviews file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reviews, report, err := ParseReviews(f)
	if err != nil {
		return nil, nil, err
	}
	report.Path = path
	return reviews, report, nil
}

// ParseReviews parses reviews CSV data from a reader
func ParseReviews(r io.Reader) ([]ReviewRecord, *LoadReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read reviews header: %w", err)
	}
	cols := indexColumns(header)

	for _, required := range []string{"work_id", "rating", "review_text"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("reviews file is missing required column %q", required)
		}
	}

	report := &LoadReport{}
	var reviews []ReviewRecord

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			continue
		}

		id, ok := parseInt64(field(record, cols, "work_id"))
		if !ok || id <= 0 {
			report.Skipped++
			continue
		}

		review := ReviewRecord{
			WorkID: id,
			Text:   field(record, cols, "review_text"),
		}

		coerced := false

		if v, ok := parseInt(field(record, cols, "rating")); ok {
			review.Rating = v
		} else {
			coerced = true
		}
		if v, ok := parseInt(field(record, cols, "n_votes")); ok {
			review.Votes = v
		}
		review.Spoiler = parseBool(field(record, cols, "spoiler"))

		if coerced {
			report.Coerced++
		}
		report.Rows++
		reviews = append(reviews, review)
	}

	return reviews, report, nil
}

// indexColumns maps lowercased header names to their positions
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// splitList splits a comma-separated list field, dropping empty entries
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func parseInt64(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

// parseInt accepts both "312" and "312.0", which the source data mixes
func parseInt(s string) (int, bool) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "t", "1", "yes":
		return true
	}
	return false
}
