package handler

import "github.com/bookvoyage/bookvoyage/internal/database"

// formatAuthor formats an author for API response, excluding created_at.
func formatAuthor(a *database.Author) map[string]any {
	return map[string]any{
		"id":   a.ID,
		"name": a.Name,
	}
}

// formatAuthorWithStats formats an author with statistics for API response.
func formatAuthorWithStats(a *database.AuthorWithStats) map[string]any {
	result := formatAuthor(&a.Author)
	result["work_count"] = a.WorkCount
	return result
}

// formatGenre formats a genre for API response, excluding created_at.
func formatGenre(g *database.Genre) map[string]any {
	return map[string]any{
		"id":   g.ID,
		"name": g.Name,
	}
}

// formatGenreWithStats formats a genre with statistics for API response.
func formatGenreWithStats(g *database.GenreWithStats) map[string]any {
	result := formatGenre(&g.Genre)
	result["work_count"] = g.WorkCount
	return result
}

// formatWork formats a work for API response with nested objects.
func formatWork(work *database.Work) map[string]any {
	var authorData map[string]any
	if work.Author != nil {
		authorData = formatAuthor(work.Author)
	}

	genres := make([]string, len(work.Genres))
	for i, g := range work.Genres {
		genres[i] = g.Name
	}

	result := map[string]any{
		"id":                 work.ID,
		"title":              work.Title,
		"author":             authorData,
		"genres":             genres,
		"avg_rating":         work.AvgRating,
		"ratings_count":      work.RatingsCount,
		"text_reviews_count": work.TextReviewsCount,
	}

	if work.PublicationYear != nil {
		result["publication_year"] = *work.PublicationYear
	}
	if work.NumPages != nil {
		result["num_pages"] = *work.NumPages
	}
	if work.Description != nil {
		result["description"] = *work.Description
	}
	if work.ImageURL != nil {
		result["image_url"] = *work.ImageURL
	}
	if ids, err := work.SimilarWorkIDs(); err == nil && len(ids) > 0 {
		result["similar_books"] = ids
	}

	return result
}

// formatReview formats a review for API response.
func formatReview(review *database.Review) map[string]any {
	return map[string]any{
		"id":      review.ID,
		"work_id": review.WorkID,
		"rating":  review.Rating,
		"text":    review.Text,
		"votes":   review.Votes,
		"spoiler": review.Spoiler,
	}
}
