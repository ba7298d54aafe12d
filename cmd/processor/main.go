package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"

	"github.com/bookvoyage/bookvoyage/internal/config"
	"github.com/bookvoyage/bookvoyage/internal/database"
	"github.com/bookvoyage/bookvoyage/internal/loader"
	"github.com/bookvoyage/bookvoyage/internal/logger"
	"github.com/bookvoyage/bookvoyage/internal/processor"
)

var (
	worksPath   string
	reviewsPath string
	outputDB    string
	workers     int
	configPath  string
)

func main() {
	// Initialize logger (always debug mode for processor)
	logger.Init(true)
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:   "processor",
		Short: "BookVoyage Data Processor",
		Long:  "Process Goodreads works and reviews CSV datasets and generate the SQLite database served by the API",
		RunE:  run,
	}

	rootCmd.Flags().StringVarP(&worksPath, "works", "i", "", "Path to the works CSV file (default from config)")
	rootCmd.Flags().StringVarP(&reviewsPath, "reviews", "r", "", "Path to the reviews CSV file (default from config)")
	rootCmd.Flags().StringVarP(&outputDB, "output", "o", "", "Output SQLite database (default from config)")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent workers (0 = number of CPUs)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Command execution failed", zap.Error(err))
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Warn("Failed to load config file, using defaults", zap.Error(err))
		cfg, _ = config.Load("")
	}

	if worksPath == "" {
		worksPath, err = loader.ResolvePath(cfg.Datasets.WorksPath, cfg.Datasets.WorksSamplePath)
		if err != nil {
			return fmt.Errorf("works dataset: %w", err)
		}
	}
	if reviewsPath == "" {
		reviewsPath, err = loader.ResolvePath(cfg.Datasets.ReviewsPath, cfg.Datasets.ReviewsSamplePath)
		if err != nil {
			return fmt.Errorf("reviews dataset: %w", err)
		}
	}
	if outputDB == "" {
		outputDB = cfg.Database.Path
	}

	logger.Info("Loading datasets",
		zap.String("works", worksPath),
		zap.String("reviews", reviewsPath),
	)

	works, worksReport, err := loader.LoadWorks(worksPath)
	if err != nil {
		return fmt.Errorf("failed to load works: %w", err)
	}
	logger.Info("Loaded works from CSV",
		zap.Int("rows", worksReport.Rows),
		zap.Int("skipped", worksReport.Skipped),
		zap.Int("coerced", worksReport.Coerced),
	)

	reviews, reviewsReport, err := loader.LoadReviews(reviewsPath)
	if err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}
	logger.Info("Loaded reviews from CSV",
		zap.Int("rows", reviewsReport.Rows),
		zap.Int("skipped", reviewsReport.Skipped),
		zap.Int("coerced", reviewsReport.Coerced),
	)

	logger.Info("Building database")
	if err := buildDatabase(outputDB, works, reviews, workers); err != nil {
		return fmt.Errorf("failed to build database: %w", err)
	}

	logger.Info("Processing complete", zap.String("database", outputDB))

	// Print statistics
	if err := printStatistics(outputDB); err != nil {
		logger.Warn("Failed to print statistics", zap.Error(err))
	}

	return nil
}

func buildDatabase(dbPath string, works []loader.WorkRecord, reviews []loader.ReviewRecord, workers int) error {
	// Remove existing database
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing database: %w", err)
	}

	// Open database with single connection (safe for data processing)
	db, err := database.Open(dbPath, 1, 1)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	logger.Info("Creating database schema")
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := database.NewRepository(db)
	proc := processor.NewProcessor(repo, workers)

	if err := proc.ProcessWorks(works); err != nil {
		return fmt.Errorf("failed to process works: %w", err)
	}

	progress := mpb.New(mpb.WithWidth(64))
	if err := proc.ProcessReviews(reviews, progress); err != nil {
		return fmt.Errorf("failed to process reviews: %w", err)
	}
	progress.Wait()

	// Optimize database
	logger.Info("Optimizing database")
	if err := db.Exec("VACUUM").Error; err != nil {
		logger.Warn("Failed to vacuum database", zap.Error(err))
	}

	if err := db.Exec("ANALYZE").Error; err != nil {
		logger.Warn("Failed to analyze database", zap.Error(err))
	}

	return nil
}

func printStatistics(dbPath string) error {
	// Use single connection for statistics (read-only)
	db, err := database.Open(dbPath, 1, 1)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	repo := database.NewRepository(db)
	stats, err := repo.GetStatistics()
	if err != nil {
		return err
	}

	fmt.Println("\n=== Database Statistics ===")

	table := tablewriter.NewTable(os.Stdout)
	table.Header("Works", "Reviews", "Authors", "Genres", "Mean Rating")
	table.Append([]string{
		strconv.Itoa(stats.TotalWorks),
		strconv.Itoa(stats.TotalReviews),
		strconv.Itoa(stats.TotalAuthors),
		strconv.Itoa(stats.TotalGenres),
		strconv.FormatFloat(stats.MeanRating, 'f', 2, 64),
	})

	return table.Render()
}
