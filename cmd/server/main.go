// @title        Question and Answer API
// @version      1.0
// @description  Questions, answers and accounts with PASETO sessions and profanity moderation.
// @BasePath     /
//
// @securityDefinitions.apikey  SessionToken
// @in                          header
// @name                        Authorization
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

	"github.com/rs/zerolog"

	"github.com/oashtari/question-and-answer/internal/api"
	"github.com/oashtari/question-and-answer/internal/core/ports"
	"github.com/oashtari/question-and-answer/internal/core/service"
	"github.com/oashtari/question-and-answer/internal/infrastructure/config"
	redisdb "github.com/oashtari/question-and-answer/internal/infrastructure/db/redis"
	"github.com/oashtari/question-and-answer/internal/infrastructure/http/handlers"
	"github.com/oashtari/question-and-answer/internal/infrastructure/moderation"
	"github.com/oashtari/question-and-answer/internal/infrastructure/paseto"
	"github.com/oashtari/question-and-answer/internal/infrastructure/password"
	"github.com/oashtari/question-and-answer/internal/infrastructure/queue"
	"github.com/oashtari/question-and-answer/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	pingTimeout     = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "question-and-answer",
	})

	key, err := cfg.Key()
	if err != nil {
		return err
	}
	codec, err := paseto.NewCodec(key)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg, logger.Component(log, "store"))
	if err != nil {
		return err
	}
	defer st.close()
	checks := st.checks

	// Cache writes outlive request contexts and stop with the process.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var moderator ports.Moderator = moderation.NewClient(
		cfg.Moderation.BaseURL,
		cfg.Moderation.APIKey,
		cfg.Moderation.Timeout,
		logger.Component(log, "moderation"),
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		cacheLog := logger.Component(log, "verdict_cache")
		writeBehind := queue.NewDispatcher(0, redisdb.NewVerdictCache(rdb, redisdb.VerdictTTL), cacheLog)
		writeBehind.Start(workerCtx)
		defer writeBehind.Wait()

		moderator = moderation.NewCached(moderator, writeBehind, cacheLog)
		checks = append(checks, handlers.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisdb.Ping(ctx, rdb, pingTimeout) },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("moderation verdict cache enabled")
	}

	e := api.NewRouter(api.Deps{
		Auth: service.NewAuthService(
			st.accounts,
			password.NewHasher(password.DefaultParams),
			codec,
			cfg.TokenTTL,
			logger.Component(log, "auth"),
		),
		Questions:        service.NewQuestionService(st.questions, moderator, logger.Component(log, "questions")),
		Answers:          service.NewAnswerService(st.answers, moderator, logger.Component(log, "answers")),
		Tokens:           codec,
		Log:              logger.Component(log, "http"),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Checks:           checks,
	})

	err = serve(ctx, e, ":"+cfg.Port, log)
	stopWorkers()
	return err
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests.
func serve(ctx context.Context, h http.Handler, addr string, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
