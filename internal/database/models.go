package database

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Author represents a book author
type Author struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex"     json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime"           json:"created_at"`
}

// TableName specifies the table name for Author
func (Author) TableName() string {
	return "authors"
}

// Genre represents a genre tag attached to works
type Genre struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex"     json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime"           json:"created_at"`
}

// TableName specifies the table name for Genre
func (Genre) TableName() string {
	return "genres"
}

// Work represents a single book's metadata record.
// The ID comes from the source dataset's work_id column; works are
// reference data and never mutated after ingest.
type Work struct {
	ID               int64          `gorm:"primaryKey"                json:"id"`
	Title            string         `gorm:"not null;index"            json:"title"`
	AuthorID         *int64         `gorm:"index"                     json:"author_id,omitempty"`
	Author           *Author        `gorm:"foreignKey:AuthorID"       json:"author,omitempty"`
	Genres           []Genre        `gorm:"many2many:work_genres"     json:"genres,omitempty"`
	AvgRating        float64        `gorm:"index"                     json:"avg_rating"`
	PublicationYear  *int           `gorm:"index"                     json:"publication_year,omitempty"`
	NumPages         *int           `                                 json:"num_pages,omitempty"`
	RatingsCount     int            `gorm:"index"                     json:"ratings_count"`
	TextReviewsCount int            `                                 json:"text_reviews_count"`
	Description      *string        `                                 json:"description,omitempty"`
	ImageURL         *string        `                                 json:"image_url,omitempty"`
	SimilarBooks     datatypes.JSON `gorm:"type:json"                 json:"similar_books,omitempty"` // JSON array of work IDs
	CreatedAt        time.Time      `gorm:"autoCreateTime"            json:"created_at"`
}

// TableName specifies the table name for Work
func (Work) TableName() string {
	return "works"
}

// SimilarWorkIDs decodes the similar_books JSON column into work IDs
func (w *Work) SimilarWorkIDs() ([]int64, error) {
	if len(w.SimilarBooks) == 0 {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal(w.SimilarBooks, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Review represents a single user-submitted review tied to one Work.
// WorkID is intentionally not an enforced foreign key: the source data
// contains reviews for works absent from the works dataset, and joins
// silently drop those orphans.
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkID    int64     `gorm:"not null;index"           json:"work_id"`
	Rating    int       `gorm:"not null"                 json:"rating"`
	Text      string    `                                json:"text"`
	Votes     int       `                                json:"votes"`
	Spoiler   bool      `gorm:"index"                    json:"spoiler"`
	CreatedAt time.Time `gorm:"autoCreateTime"           json:"created_at"`
}

// TableName specifies the table name for Review
func (Review) TableName() string {
	return "reviews"
}

// GenreWithStats includes the number of works carrying the genre
type GenreWithStats struct {
	Genre
	WorkCount int `json:"work_count"`
}

// AuthorWithStats includes the number of works by the author
type AuthorWithStats struct {
	Author
	WorkCount int `json:"work_count"`
}

// Statistics holds overall dataset statistics
type Statistics struct {
	TotalWorks   int               `json:"total_works"`
	TotalReviews int               `json:"total_reviews"`
	TotalAuthors int               `json:"total_authors"`
	TotalGenres  int               `json:"total_genres"`
	MeanRating   float64           `json:"mean_rating"`
	WorksByGenre []GenreWithStats  `json:"works_by_genre"`
	TopAuthors   []AuthorWithStats `json:"top_authors"`
}
