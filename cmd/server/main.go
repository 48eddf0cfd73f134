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

	"tradebook/internal/book"
	"tradebook/internal/config"
	"tradebook/internal/infra"
	"tradebook/internal/router"
	"tradebook/internal/service"
	"tradebook/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Order notifications are optional: without REDIS_URL the order engine
	// runs with no event sink.
	var rdb *redis.Client
	var dispatcher *worker.Dispatcher
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		dispatcher = worker.NewDispatcher(rdb, infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	}

	bookCfg := book.Config{
		Driver:      cfg.DBDriver,
		Dir:         cfg.BooksDir,
		DSNTemplate: cfg.DatabaseURL,
		Books:       cfg.Books(),
	}
	if dispatcher != nil {
		bookCfg.Events = func(name string) service.OrderEvents { return dispatcher.ForBook(name) }
	}
	books := book.NewManager(bookCfg)
	if err := books.Open(cfg.DefaultBook); err != nil {
		log.Fatal().Err(err).Str("book", cfg.DefaultBook).Msg("failed to open default book")
	}
	defer func() {
		if err := books.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close book")
		}
	}()

	var workers interface{ Wait() }
	if dispatcher != nil {
		alerts := worker.NewStockAlertWorker(books)
		if cfg.MailAlerts() {
			alerts.WithMail(infra.NewMailer(cfg), cfg.AlertEmail)
			log.Info().Str("to", cfg.AlertEmail).Msg("stock alerts will be mailed")
		}
		workers = worker.StartWorkerPool(ctx, dispatcher, cfg.WorkerPoolSize, alerts)
	}

	r := router.New(cfg, books, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("book", books.Current()).Msgf("tradebook listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if workers != nil {
		workers.Wait()
	}
	log.Info().Msg("server exited")
}

// setupLogger: dev gets a pretty console writer, prod gets JSON.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
