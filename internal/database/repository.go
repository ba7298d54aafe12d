package database

// RepositoryInterface defines the operations the ingest pipeline needs.
// Satisfied by both Repository and CachedRepository.
type RepositoryInterface interface {
	GetOrCreateAuthor(name string) (int64, error)
	GetOrCreateGenre(name string) (int64, error)
	BatchInsertWorks(works []*Work, batchSize int) error
	BatchInsertReviews(reviews []*Review, batchSize int) error
}

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// GetWorkByID retrieves a work by ID with author and genres preloaded
func (r *Repository) GetWorkByID(id int64) (*Work, error) {
	var work Work
	err := r.db.Preload("Author").Preload("Genres").
		First(&work, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &work, nil
}

// ListWorks returns a paginated list of works with relations loaded
func (r *Repository) ListWorks(limit, offset int) ([]Work, error) {
	var works []Work
	err := r.db.Preload("Author").Preload("Genres").
		Limit(limit).Offset(offset).
		Find(&works).Error
	return works, err
}

// ListWorkReviews returns a paginated list of reviews for a work.
// When excludeSpoilers is true, reviews flagged as spoilers are dropped.
func (r *Repository) ListWorkReviews(workID int64, excludeSpoilers bool, limit, offset int) ([]Review, int, error) {
	query := r.db.Model(&Review{}).Where("work_id = ?", workID)
	if excludeSpoilers {
		query = query.Where("spoiler = ?", false)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var reviews []Review
	err := query.
		Order("votes DESC, id ASC").
		Limit(limit).Offset(offset).
		Find(&reviews).Error

	return reviews, int(totalCount), err
}

// GetAuthorByID returns an author by ID
func (r *Repository) GetAuthorByID(id int64) (*Author, error) {
	var author Author
	err := r.db.First(&author, id).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// ListAuthorWorks returns a paginated list of works by a specific author
func (r *Repository) ListAuthorWorks(authorID int64, limit, offset int) ([]Work, int, error) {
	var totalCount int64
	if err := r.db.Model(&Work{}).Where("author_id = ?", authorID).Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var works []Work
	err := r.db.Preload("Author").Preload("Genres").
		Where("author_id = ?", authorID).
		Order("avg_rating DESC, ratings_count DESC").
		Limit(limit).Offset(offset).
		Find(&works).Error

	return works, int(totalCount), err
}
