package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/bookvoyage/bookvoyage/internal/api/middleware"
	"github.com/bookvoyage/bookvoyage/internal/api/rest/handler"
	"github.com/bookvoyage/bookvoyage/internal/config"
	"github.com/bookvoyage/bookvoyage/internal/database"
	"github.com/bookvoyage/bookvoyage/internal/recommend"
)

// SetupRouter sets up the Gin router with all routes
func SetupRouter(cfg *config.Config, db *database.DB, repo *database.Repository, engine *recommend.Engine) *gin.Engine {
	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(middleware.CORS())

	// Rate limiting middleware
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		router.Use(rateLimiter.Middleware())
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", handler.HealthHandler(db))

		// Statistics
		v1.GET("/stats", handler.StatsHandler(repo))

		// Book routes
		bookHandler := handler.NewBookHandler(repo, engine, cfg.Export.Filename, cfg.Export.MaxRows)
		v1.GET("/books", bookHandler.ListBooks)
		v1.GET("/books/surprise", bookHandler.SurpriseBooks)
		v1.GET("/books/export", bookHandler.ExportBooks)
		v1.GET("/books/:id", bookHandler.GetBook)
		v1.GET("/books/:id/reviews", bookHandler.ListBookReviews)

		// Author routes
		authorHandler := handler.NewAuthorHandler(repo)
		v1.GET("/authors", authorHandler.ListAuthors)
		v1.GET("/authors/:id", authorHandler.GetAuthor)

		// Genre routes
		genreHandler := handler.NewGenreHandler(repo)
		v1.GET("/genres", genreHandler.ListGenres)
	}

	return router
}
