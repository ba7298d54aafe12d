package database

// Statistics and counting methods

// CountWorks returns the total number of works
func (r *Repository) CountWorks() (int, error) {
	var count int64
	err := r.db.Model(&Work{}).Count(&count).Error
	return int(count), err
}

// CountReviews returns the total number of reviews
func (r *Repository) CountReviews() (int, error) {
	var count int64
	err := r.db.Model(&Review{}).Count(&count).Error
	return int(count), err
}

// CountAuthors returns the total number of authors
func (r *Repository) CountAuthors() (int, error) {
	var count int64
	err := r.db.Model(&Author{}).Count(&count).Error
	return int(count), err
}

// CountGenres returns the total number of genres
func (r *Repository) CountGenres() (int, error) {
	var count int64
	err := r.db.Model(&Genre{}).Count(&count).Error
	return int(count), err
}

// GetGenresWithStats returns genres with their work counts
func (r *Repository) GetGenresWithStats() ([]GenreWithStats, error) {
	var genres []GenreWithStats

	err := r.db.Table("genres").
		Select("genres.*, COUNT(work_genres.work_id) as work_count").
		Joins("LEFT JOIN work_genres ON work_genres.genre_id = genres.id").
		Group("genres.id").
		Order("work_count DESC").
		Find(&genres).Error

	return genres, err
}

// GetAuthorsWithStats returns authors with their work counts
func (r *Repository) GetAuthorsWithStats(limit, offset int) ([]AuthorWithStats, int, error) {
	var totalCount int64
	if err := r.db.Model(&Author{}).Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var authors []AuthorWithStats
	err := r.db.Table("authors").
		Select("authors.*, COUNT(works.id) as work_count").
		Joins("LEFT JOIN works ON works.author_id = authors.id").
		Group("authors.id").
		Order("work_count DESC").
		Limit(limit).Offset(offset).
		Find(&authors).Error

	return authors, int(totalCount), err
}

// GetStatistics returns overall dataset statistics
func (r *Repository) GetStatistics() (*Statistics, error) {
	stats := &Statistics{}

	var err error
	stats.TotalWorks, err = r.CountWorks()
	if err != nil {
		return nil, err
	}

	stats.TotalReviews, err = r.CountReviews()
	if err != nil {
		return nil, err
	}

	stats.TotalAuthors, err = r.CountAuthors()
	if err != nil {
		return nil, err
	}

	stats.TotalGenres, err = r.CountGenres()
	if err != nil {
		return nil, err
	}

	if stats.TotalWorks > 0 {
		var mean float64
		err = r.db.Model(&Work{}).Select("AVG(avg_rating)").Scan(&mean).Error
		if err != nil {
			return nil, err
		}
		stats.MeanRating = mean
	}

	stats.WorksByGenre, err = r.GetGenresWithStats()
	if err != nil {
		return nil, err
	}

	topAuthors, _, err := r.GetAuthorsWithStats(10, 0)
	if err != nil {
		return nil, err
	}
	stats.TopAuthors = topAuthors

	return stats, nil
}
