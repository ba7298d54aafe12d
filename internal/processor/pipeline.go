// Package processor turns parsed CSV records into database rows using a
// concurrent worker pipeline with batched insertion.
package processor

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/bookvoyage/bookvoyage/internal/database"
	"github.com/bookvoyage/bookvoyage/internal/loader"
	"github.com/bookvoyage/bookvoyage/internal/logger"
)

const (
	// Dynamic batch sizing thresholds (percentage of channel capacity)
	channelPressureHigh   = 0.8 // 80% full - reduce batch size
	channelPressureMedium = 0.5 // 50% full - normal batch size
	channelPressureLow    = 0.2 // 20% full - increase batch size

	// Error reporting limits
	MaxErrorsToCollect = 100
	SampleErrorCount   = 5
)

// getOptimalConfig returns buffer and batch sizes scaled to the machine
func getOptimalConfig() (workBuffer, resultBuffer, errorBuffer, defaultBatch, minBatch, maxBatch int) {
	cpuCount := runtime.NumCPU()

	switch {
	case cpuCount <= 2:
		// GitHub Actions, low-end CI
		return 50, 1000, 50, 200, 50, 300

	case cpuCount <= 4:
		return 75, 2000, 75, 300, 100, 500

	case cpuCount <= 8:
		return 100, 3000, 100, 400, 150, 700

	default:
		return 300, 5000, 300, 500, 200, 1000
	}
}

// Processor handles concurrent dataset ingestion
type Processor struct {
	repo         database.RepositoryInterface
	workers      int
	batchSize    int // Base batch size for database insertion
	minBatchSize int // Minimum batch size (for high pressure)
	maxBatchSize int // Maximum batch size (for low pressure)
}

// NewProcessor creates a new processor with caching support
func NewProcessor(repo *database.Repository, workers int) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	_, _, _, defaultBatch, minBatch, maxBatch := getOptimalConfig()

	// Wrap repository with caching: author and genre lookups repeat
	// for nearly every row
	cachedRepo := database.NewCachedRepository(repo)

	return &Processor{
		repo:         cachedRepo,
		workers:      workers,
		batchSize:    defaultBatch,
		minBatchSize: minBatch,
		maxBatchSize: maxBatch,
	}
}

// SetBatchSize sets the batch size for database insertion
func (p *Processor) SetBatchSize(size int) {
	if size > 0 {
		p.batchSize = size
	}
}

// ProcessWorks processes all work records with concurrent workers and
// batch insertion
func (p *Processor) ProcessWorks(works []loader.WorkRecord) error {
	total := len(works)
	logger.Info("Processing works",
		zap.Int("total", total),
		zap.Int("workers", p.workers),
		zap.Int("batch_size", p.batchSize),
	)

	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Processing: ", decor.WC{W: 12, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" | "),
			decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			decor.Name(" | "),
			decor.AverageSpeed(0, "%.0f works/s", decor.WC{W: 12}),
		),
	)

	// Channels for work distribution, buffer sizes adaptive to the machine
	workBuffer, resultBuffer, errorBuffer, _, _, _ := getOptimalConfig()

	workCh := make(chan loader.WorkRecord, workBuffer)
	resultCh := make(chan *database.Work, resultBuffer)
	errorCh := make(chan error, errorBuffer)
	var wg sync.WaitGroup

	var processed atomic.Int64
	var errorCount atomic.Int64

	// Workers resolve author/genre IDs and build database rows
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for record := range workCh {
				work, err := p.processWork(record)
				if err != nil {
					errorCount.Add(1)
					// Non-blocking error recording
					select {
					case errorCh <- fmt.Errorf("worker %d: %s - %w", workerID, record.Title, err):
					default:
						// Discard error to avoid blocking
					}
					processed.Add(1)
					bar.Increment()
					continue
				}

				resultCh <- work
				processed.Add(1)
				bar.Increment()
			}
		}(i)
	}

	// Batch inserter goroutine
	insertDone := make(chan error, 1)
	go func() {
		insertDone <- p.batchInserter(resultCh)
	}()

	// Feed the workers
	go func() {
		for _, record := range works {
			workCh <- record
		}
		close(workCh)
	}()

	wg.Wait()
	close(resultCh) // Signal batch inserter to finish

	if err := <-insertDone; err != nil {
		return fmt.Errorf("batch insertion failed: %w", err)
	}

	close(errorCh)

	progress.Wait()

	// Collect errors (non-blocking)
	var errs []error
	for err := range errorCh {
		errs = append(errs, err)
		if len(errs) >= MaxErrorsToCollect {
			break
		}
	}

	failCount := errorCount.Load()
	if failCount > 0 {
		logger.Warn("Processing finished with failures",
			zap.Int64("failed", failCount),
			zap.Int("total", total),
		)
		for i := 0; i < min(len(errs), SampleErrorCount); i++ {
			logger.Warn("Sample error", zap.Error(errs[i]))
		}
		return fmt.Errorf("processing completed with %d errors", failCount)
	}

	logger.Info("Successfully processed all works", zap.Int("total", total))
	return nil
}

// ProcessReviews inserts review records. Reviews need no per-row lookups,
// so they skip the worker pool and go straight to transactional batches.
func (p *Processor) ProcessReviews(reviews []loader.ReviewRecord, progress *mpb.Progress) error {
	rows := make([]*database.Review, len(reviews))
	for i, record := range reviews {
		rows[i] = &database.Review{
			WorkID:  record.WorkID,
			Rating:  record.Rating,
			Text:    record.Text,
			Votes:   record.Votes,
			Spoiler: record.Spoiler,
		}
	}

	repo, ok := p.repo.(*database.CachedRepository)
	if !ok {
		return p.repo.BatchInsertReviews(rows, p.batchSize)
	}
	return repo.BatchInsertReviewsWithTransaction(rows, 0, 0, progress)
}

// batchInserter collects works and inserts them in batches with dynamic
// sizing based on channel pressure
func (p *Processor) batchInserter(resultCh <-chan *database.Work) error {
	batch := make([]*database.Work, 0, p.maxBatchSize)
	currentBatchSize := p.batchSize

	for work := range resultCh {
		batch = append(batch, work)

		// Channel utilization (pressure)
		utilization := float64(len(resultCh)) / float64(cap(resultCh))
		currentBatchSize = p.calculateBatchSize(utilization, currentBatchSize)

		if len(batch) >= currentBatchSize {
			if err := p.repo.BatchInsertWorks(batch, len(batch)); err != nil {
				return fmt.Errorf("failed to insert batch of %d works: %w", len(batch), err)
			}
			batch = batch[:0] // Reset batch
		}
	}

	// Insert remaining works
	if len(batch) > 0 {
		if err := p.repo.BatchInsertWorks(batch, len(batch)); err != nil {
			return fmt.Errorf("failed to insert final batch of %d works: %w", len(batch), err)
		}
	}

	return nil
}

// calculateBatchSize determines the batch size for the observed channel
// utilization, keeping the current size in the middle band for smooth
// transitions
func (p *Processor) calculateBatchSize(utilization float64, currentSize int) int {
	switch {
	case utilization >= channelPressureHigh:
		// High pressure: reduce batch size for faster consumption
		return p.minBatchSize

	case utilization >= channelPressureMedium:
		return p.batchSize

	case utilization <= channelPressureLow:
		// Low pressure: larger batches are cheaper per row
		return p.maxBatchSize

	default:
		return currentSize
	}
}

func (p *Processor) processWork(record loader.WorkRecord) (*database.Work, error) {
	title := strings.TrimSpace(record.Title)
	if title == "" {
		return nil, fmt.Errorf("work %d has no title", record.WorkID)
	}

	work := &database.Work{
		ID:               record.WorkID,
		Title:            title,
		AvgRating:        record.AvgRating,
		PublicationYear:  record.PublicationYear,
		NumPages:         record.NumPages,
		RatingsCount:     record.RatingsCount,
		TextReviewsCount: record.TextReviewsCount,
	}

	if desc := strings.TrimSpace(record.Description); desc != "" {
		work.Description = &desc
	}
	if url := strings.TrimSpace(record.ImageURL); url != "" {
		work.ImageURL = &url
	}

	if author := strings.TrimSpace(record.Author); author != "" {
		authorID, err := p.repo.GetOrCreateAuthor(author)
		if err != nil {
			return nil, fmt.Errorf("failed to get/create author: %w", err)
		}
		work.AuthorID = &authorID
	}

	for _, name := range record.Genres {
		genreID, err := p.repo.GetOrCreateGenre(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get/create genre: %w", err)
		}
		work.Genres = append(work.Genres, database.Genre{ID: genreID, Name: name})
	}

	if len(record.SimilarBooks) > 0 {
		similarJSON, err := json.Marshal(record.SimilarBooks)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal similar books: %w", err)
		}
		work.SimilarBooks = datatypes.JSON(similarJSON)
	}

	return work, nil
}
