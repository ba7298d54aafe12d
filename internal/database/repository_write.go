package database

import (
	"fmt"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookvoyage/bookvoyage/internal/logger"
)

// Write operations for dataset ingestion

// GetOrCreateAuthor gets or creates an author by name in a thread-safe manner.
// Uses ON CONFLICT to handle concurrent inserts gracefully.
func (r *Repository) GetOrCreateAuthor(name string) (int64, error) {
	author := Author{Name: name}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true, // Ignore if already exists
	}).Create(&author).Error
	if err != nil {
		return 0, err
	}

	// If author.ID is 0, the insert was skipped (already exists)
	// and we need to fetch the existing row
	if author.ID == 0 {
		err = r.db.Where("name = ?", name).First(&author).Error
		if err != nil {
			return 0, err
		}
	}

	return author.ID, nil
}

// GetOrCreateGenre gets or creates a genre by name in a thread-safe manner
func (r *Repository) GetOrCreateGenre(name string) (int64, error) {
	genre := Genre{Name: name}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&genre).Error
	if err != nil {
		return 0, err
	}

	if genre.ID == 0 {
		err = r.db.Where("name = ?", name).First(&genre).Error
		if err != nil {
			return 0, err
		}
	}

	return genre.ID, nil
}

// InsertWork inserts a single work with its genre associations
func (r *Repository) InsertWork(work *Work) error {
	return r.db.Create(work).Error
}

// InsertReview inserts a single review
func (r *Repository) InsertReview(review *Review) error {
	return r.db.Create(review).Error
}

// BatchInsertWorks inserts multiple works in batches for better performance.
// Duplicate work IDs are skipped (ON CONFLICT DO NOTHING); genre join rows
// are written through the association.
func (r *Repository) BatchInsertWorks(works []*Work, batchSize int) error {
	if len(works) == 0 {
		return nil
	}

	if batchSize <= 0 {
		batchSize = 100 // Default batch size
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true, // Skip duplicates
	}).CreateInBatches(works, batchSize).Error
}

// BatchInsertReviews inserts multiple reviews in batches
func (r *Repository) BatchInsertReviews(reviews []*Review, batchSize int) error {
	if len(reviews) == 0 {
		return nil
	}

	if batchSize <= 0 {
		batchSize = 100
	}

	return r.db.CreateInBatches(reviews, batchSize).Error
}

// BatchInsertReviewsWithTransaction inserts reviews in large transactions
// to reduce fsync overhead: one transaction covers several insert batches.
// transactionSize: reviews per transaction (e.g. 10000)
// batchSize: reviews per insert statement (e.g. 1000)
// progress: progress container for displaying insertion progress
func (r *Repository) BatchInsertReviewsWithTransaction(reviews []*Review, transactionSize, batchSize int, progress *mpb.Progress) error {
	if len(reviews) == 0 {
		return nil
	}

	if transactionSize <= 0 {
		transactionSize = 20000 // Default: 20k reviews per transaction
	}
	if batchSize <= 0 {
		batchSize = 1000 // Default: 1000 reviews per insert
	}

	totalTransactions := (len(reviews) + transactionSize - 1) / transactionSize

	// Progress bar counts reviews (not transactions) for smoother updates
	var reviewBar *mpb.Bar
	if progress != nil {
		reviewBar = progress.AddBar(int64(len(reviews)),
			mpb.PrependDecorators(
				decor.Name("Inserting Reviews: ", decor.WC{W: 19, C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WC{W: 5}),
				decor.Name(" | "),
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			),
		)
	}

	logger.Info("Starting batch insertion",
		zap.Int("reviews", len(reviews)),
		zap.Int("transactions", totalTransactions),
		zap.Int("batch_size", batchSize),
	)

	for i := 0; i < len(reviews); i += transactionSize {
		end := min(i+transactionSize, len(reviews))
		transactionChunk := reviews[i:end]

		// One large transaction with manual batching for progress updates
		err := r.db.Transaction(func(tx *gorm.DB) error {
			for j := 0; j < len(transactionChunk); j += batchSize {
				batchEnd := min(j+batchSize, len(transactionChunk))
				batch := transactionChunk[j:batchEnd]

				if err := tx.Create(&batch).Error; err != nil {
					return err
				}

				if reviewBar != nil {
					reviewBar.IncrBy(len(batch))
				}
			}
			return nil
		})
		if err != nil {
			txNum := i/transactionSize + 1
			return fmt.Errorf("failed to insert transaction %d/%d (reviews %d-%d): %w",
				txNum, totalTransactions, i, end, err)
		}
	}

	return nil
}
