package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oashtari/question-and-answer/internal/core/ports"
	"github.com/oashtari/question-and-answer/internal/infrastructure/config"
	"github.com/oashtari/question-and-answer/internal/infrastructure/db/memory"
	mongodb "github.com/oashtari/question-and-answer/internal/infrastructure/db/mongo"
	"github.com/oashtari/question-and-answer/internal/infrastructure/db/postgres"
	"github.com/oashtari/question-and-answer/internal/infrastructure/http/handlers"
)

// store bundles the repositories of the selected driver.
type store struct {
	accounts  ports.AccountRepository
	questions ports.QuestionRepository
	answers   ports.AnswerRepository
	checks    []handlers.Check
	close     func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg := postgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}
		db, err := postgres.Open(ctx, pg.DSN(), pg.Timeout)
		if err != nil {
			return nil, err
		}
		log.Info().Str("host", pg.Host).Str("database", pg.Database).Msg("postgres ready")
		return &store{
			accounts:  postgres.NewAccountRepository(db),
			questions: postgres.NewQuestionRepository(db),
			answers:   postgres.NewAnswerRepository(db),
			checks: []handlers.Check{{
				Name: "postgres",
				Ping: db.PingContext,
			}},
			close: func() { _ = db.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb ready")
		return &store{
			accounts:  mongodb.NewAccountRepository(db),
			questions: mongodb.NewQuestionRepository(db),
			answers:   mongodb.NewAnswerRepository(db),
			checks: []handlers.Check{{
				Name: "mongodb",
				Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
			}},
			close: func() {
				dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(dctx)
			},
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		mem := memory.New()
		return &store{
			accounts:  mem.Accounts(),
			questions: mem.Questions(),
			answers:   mem.Answers(),
			close:     func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
