package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"settlr/internal/config"
	"settlr/internal/handler"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	search    *handler.SearchHandler
	feedback  *handler.FeedbackHandler
	embedding *handler.EmbeddingHandler
	chat      *handler.ChatHandler
	property  *handler.PropertyHandler
	account   *handler.AccountHandler
	thread    *handler.ThreadHandler
}

func newRouter(cfg config.ServerConfig, h *handlers, requireAuth gin.HandlerFunc, db Pinger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.AllowedHeaders)
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unreachable",
				"version":  Version,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "settlr",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/login", requireAuth, h.account.Login)
		api.GET("/tenant/profile", requireAuth, h.account.GetProfile)
		api.POST("/tenant/profile", requireAuth, h.account.SaveProfile)

		api.GET("/properties", h.property.List)
		api.GET("/properties/city", h.property.ListByCity)
		api.GET("/properties/mine", requireAuth, h.property.Mine)
		api.POST("/properties", requireAuth, h.property.Create)
		api.GET("/properties/:id", h.property.Get)
		api.PUT("/properties/:id", requireAuth, h.property.Update)
		api.DELETE("/properties/:id", requireAuth, h.property.Delete)
		api.GET("/properties/:id/similar", h.property.Similar)

		api.POST("/chats", requireAuth, h.thread.Start)
		api.GET("/chats/:id", requireAuth, h.thread.Get)
		api.POST("/chats/:id/messages", requireAuth, h.thread.Send)

		api.POST("/chat", requireAuth, h.chat.Chat)
		api.POST("/chat/stream", requireAuth, h.chat.ChatStream)
	}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/search", h.search.Search)
		apiV1.POST("/feedback", h.feedback.Submit)
		apiV1.POST("/embeddings/batch", h.embedding.BatchUpdate)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
