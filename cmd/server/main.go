package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"settlr/internal/auth"
	"settlr/internal/config"
	"settlr/internal/handler"
	"settlr/internal/job"
	"settlr/internal/logging"
	"settlr/internal/repository"
	"settlr/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(cfg.Logging)

	logrus.Infof("Settlr %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	gin.SetMode(cfg.Server.GinMode)

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	logrus.Info("✅ Connected to PostgreSQL database")

	completion := service.NewOpenAIClient(&cfg.Completion)
	if completion.IsEnabled() {
		logrus.Infof("✅ Completion client initialized (%s, model %s)", cfg.Completion.APIBase, cfg.Completion.Model)
	} else {
		logrus.Warn("⚠️  Completion API key not set - /api/chat will answer 503")
	}

	embedder := service.NewEmbeddingClient(&cfg.Embedding)
	if !embedder.IsEnabled() {
		logrus.Warn("⚠️  Embedding API key not set - backfill disabled, similar listings need uploaded vectors")
	}

	ranker := service.NewRanker(cfg.Ranking.WeightMatch, cfg.Ranking.WeightPrice, cfg.Ranking.WeightRecency)
	searchService := service.NewSearchService(repo, ranker, cfg.Search)
	chatService := service.NewChatService(searchService, completion, cfg.Completion, cfg.Search.ChatPageSize)
	propertyService := service.NewPropertyService(repo)
	accountService := service.NewAccountService(repo)
	threadService := service.NewThreadService(repo)

	logrus.Info("✅ Services initialized")

	tokenVerifier, err := auth.NewFirebaseVerifier(context.Background(), cfg.Auth)
	if err != nil {
		logrus.Fatalf("Failed to initialize token verifier: %v", err)
	}
	verifier := auth.NewCachedVerifier(tokenVerifier, cfg.Auth.CacheSize, cfg.Auth.CacheTTL)
	requireAuth := auth.Middleware(verifier, accountService)

	router := newRouter(cfg.Server, &handlers{
		search:    handler.NewSearchHandler(searchService),
		feedback:  handler.NewFeedbackHandler(searchService),
		embedding: handler.NewEmbeddingHandler(searchService, cfg.Embedding.Dimensions),
		chat:      handler.NewChatHandler(chatService),
		property:  handler.NewPropertyHandler(propertyService),
		account:   handler.NewAccountHandler(accountService),
		thread:    handler.NewThreadHandler(threadService),
	}, requireAuth, repo)

	if cfg.Embedding.BackfillEnabled && embedder.IsEnabled() {
		backfiller := job.NewBackfiller(repo, embedder, cfg.Embedding)
		scheduler, err := job.StartBackfill(backfiller, cfg.Embedding.BackfillCron)
		if err != nil {
			logrus.Fatalf("Failed to schedule embedding backfill: %v", err)
		}
		defer scheduler.Stop()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logrus.Infof("🚀 Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shut down: %v", err)
	}
	logrus.Info("✅ Server stopped")
}
