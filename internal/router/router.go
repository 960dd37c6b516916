// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/shopkz-search/internal/config"
	"github.com/javajoker/shopkz-search/internal/handlers"
	"github.com/javajoker/shopkz-search/internal/middleware"
	"github.com/javajoker/shopkz-search/internal/services"
	"github.com/javajoker/shopkz-search/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	historyService := services.NewHistoryService(db)
	upstreamService := services.NewUpstreamService(cfg.Upstream, nil)
	searchService := services.NewSearchService(upstreamService, historyService)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.AllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "Accept-Language", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.I18nMiddleware())
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(limiter.Middleware())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"version": cfg.Version,
		})
	})

	r.GET("/search", searchHandler.Search)
	r.GET("/history", historyHandler.GetHistory)
	r.GET("/statistics", historyHandler.GetStatistics)

	products := r.Group("/products")
	{
		products.GET("/:id", historyHandler.GetProductsByQueryID)
		products.GET("/search/:text", historyHandler.GetProductsByQueryText)
	}

	r.NoRoute(utils.NotFoundResponse)

	return r
}
