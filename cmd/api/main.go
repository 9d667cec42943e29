package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zizouhuweidi/trivia/internal/cache"
	"github.com/zizouhuweidi/trivia/internal/config"
	"github.com/zizouhuweidi/trivia/internal/database"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/handler"
	"github.com/zizouhuweidi/trivia/internal/quiz"
	"github.com/zizouhuweidi/trivia/internal/repository/postgres"
	"github.com/zizouhuweidi/trivia/internal/service"
	"github.com/zizouhuweidi/trivia/internal/websocket"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	pool, err := database.ConnectPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Initialize Redis client; the API runs without it
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			log.Printf("Redis unavailable, continuing without cache and relay: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	e := handler.NewServer(cfg)

	// Initialize websocket hub
	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	categoryRepo := postgres.NewCategoryRepository(pool)
	questionRepo := postgres.NewQuestionRepository(pool)

	// Initialize services
	triviaService := service.NewTriviaService(categoryRepo, questionRepo, quiz.NewPicker(), e.Logger)

	var publisher domain.EventPublisher = hub
	if redisClient != nil {
		relay := websocket.NewRelay(redisClient, hub)
		if err := relay.Listen(ctx); err != nil {
			e.Logger.Warnf("question events stay local to this instance: %v", err)
		} else {
			publisher = relay
		}
		triviaService.WithCategoryCache(cache.NewCategoryCache(redisClient, cfg.CategoryCacheTTL))
	}
	triviaService.WithPublisher(publisher)

	// Routes
	handler.NewCategoryHandler(triviaService).Register(e)
	handler.NewQuestionHandler(triviaService).Register(e)
	handler.NewQuizHandler(triviaService).Register(e)
	handler.NewHealthHandler(triviaService).Register(e)
	handler.NewWebSocketHandler(hub).Register(e)

	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second

	// Start server
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}
}
