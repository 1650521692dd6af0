package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger())
	router.Use(Metrics())

	if cfg.ReadOnly != nil {
		router.Use(cfg.ReadOnly.InjectContext())
		router.Use(cfg.ReadOnly.Handler())
	}

	health := NewHealthController(cfg.Store, cfg.Checkpoint, cfg.Backend, cfg.ReadOnly.IsEnabled(), cfg.Version)
	users := NewUsersController(cfg.Store, cfg.Audit)
	books := NewBooksController(cfg.Store, cfg.Audit)
	reviews := NewReviewsController(cfg.Store, cfg.Audit)
	recommendations := NewRecommendationsController(cfg.Store)
	admin := NewAdminController(cfg.Store, cfg.Audit)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	api.GET("/users", users.List)
	api.POST("/users", users.Create)
	api.GET("/users/:id", users.Get)
	api.PUT("/users/:id", users.Update)
	api.DELETE("/users/:id", users.Delete)

	api.GET("/books", books.List)
	api.POST("/books", books.Create)
	api.GET("/books/:id", books.Get)
	api.PUT("/books/:id", books.Update)
	api.DELETE("/books/:id", books.Delete)

	api.GET("/reviews", reviews.List)
	api.POST("/reviews", reviews.Create)
	api.GET("/reviews/:id", reviews.Get)
	api.PUT("/reviews/:id", reviews.Update)
	api.DELETE("/reviews/:id", reviews.Delete)

	// Recommendations are derived; only reads are public
	api.GET("/recommendations", recommendations.List)
	api.GET("/recommendations/:id", recommendations.Get)

	api.POST("/admin/recommendations", admin.InsertRecommendation)

	return router
}
