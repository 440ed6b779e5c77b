package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/timmy/artsearch/internal/api/handler"
	"github.com/timmy/artsearch/internal/api/middleware"
	"github.com/timmy/artsearch/internal/config"
	"github.com/timmy/artsearch/internal/logger"
	"github.com/timmy/artsearch/internal/service"
	"github.com/timmy/artsearch/internal/source"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	VAM         handler.MuseumCatalog
	Europeana   source.CursorSource
	Sessions    *service.SessionManager
	Exhibitions *service.ExhibitionService
	Logger      *logger.Logger
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps Dependencies, cfg config.ServerConfig) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(deps.Logger))
	r.Use(cors.New(corsConfig(cfg.CORS)))
	r.Use(middleware.User())

	healthHandler := handler.NewHealthHandler(deps.Sessions)
	searchHandler := handler.NewSearchHandler(deps.VAM, deps.Europeana)
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	exhibitionHandler := handler.NewExhibitionHandler(deps.Exhibitions)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Single-source proxies
	r.POST("/search/a", searchHandler.SearchA)
	r.POST("/search/b", searchHandler.SearchB)
	r.GET("/item/a/:id", searchHandler.ItemA)
	r.POST("/item/a/:id", searchHandler.ItemA)
	r.POST("/item/b", searchHandler.ItemB)

	// Federated search sessions
	sessions := r.Group("/sessions")
	{
		sessions.POST("", sessionHandler.Create)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.DELETE("/:id", sessionHandler.Delete)
		sessions.POST("/:id/search", sessionHandler.Search)
		sessions.POST("/:id/more", sessionHandler.More)
	}

	// Exhibition
	exhibition := r.Group("/exhibition")
	{
		exhibition.GET("", exhibitionHandler.List)
		exhibition.POST("", exhibitionHandler.Add)
		exhibition.POST("/export", exhibitionHandler.Export)
		exhibition.DELETE("/:source/*id", exhibitionHandler.Remove)
	}

	return r
}

func corsConfig(c config.CORSConfig) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.UserHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if c.AllowAllOrigins || len(c.AllowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = c.AllowedOrigins
	cfg.AllowCredentials = true
	return cfg
}
