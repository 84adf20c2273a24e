package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gigboard/marketplace/internal/api"
	"github.com/gigboard/marketplace/internal/api/middleware"
	"github.com/gigboard/marketplace/internal/core/ports"
	"github.com/gigboard/marketplace/internal/core/service"
	"github.com/gigboard/marketplace/internal/infrastructure/db/mongo"
	"github.com/gigboard/marketplace/internal/infrastructure/db/redis"
	"github.com/gigboard/marketplace/internal/infrastructure/queue"
	"github.com/gigboard/marketplace/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the command that runs the HTTP API.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts.cfg, opts.log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// The API keeps serving when MongoDB is down; requests get 503 until it returns.
	store, err := mongo.Open(ctx, mongoConfig(cfg))
	if err != nil {
		log.Error().Err(err).Msg("mongodb unreachable, serving without a record store")
	} else if err := store.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}
	go store.Watch(ctx, cfg.Mongo.HealthInterval, log)

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = store.Close(context.Background())
		return err
	}

	dispatcher := queue.NewDispatcher(cfg.Dispatch.Workers, newPublisher(cfg, log), log)
	// Queued events outlive the signal; Shutdown bounds the drain.
	dispatcher.Start(ctx)

	users := mongo.NewUserRepository(store)
	jobs := mongo.NewJobRepository(store)
	proposals := mongo.NewProposalRepository(store)

	sessions := service.NewSessionService(users, store, redis.NewSessionStore(rdb), cfg.Session.Secret, cfg.Session.TTL, log)
	e := api.NewRouter(api.Deps{
		Auth:        service.NewAuthService(users, store, dispatcher, log),
		Sessions:    sessions,
		Jobs:        service.NewJobService(jobs, proposals, store, dispatcher, log),
		Proposals:   service.NewProposalService(jobs, proposals, store, dispatcher, log),
		Store:       store,
		Redis:       rdb,
		MongoURISet: cfg.Mongo.URI != "",
		Cookie: middleware.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    sessions.TTL(),
		},
		AuthRate:  cfg.Limits.Rate,
		AuthBurst: cfg.Limits.Burst,
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("activity dispatcher shutdown")
	}
	closeRedis(rdb, log)
	if err := store.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("mongodb disconnect")
	}
	return serveErr
}

func mongoConfig(cfg *config.Config) mongo.Config {
	return mongo.Config{
		URI:          cfg.Mongo.URI,
		Database:     cfg.Mongo.Database,
		Timeout:      cfg.Mongo.Timeout,
		Transactions: cfg.Mongo.Transactions,
	}
}

func newPublisher(cfg *config.Config, log zerolog.Logger) ports.ActivityPublisher {
	if cfg.Kafka.Brokers == "" {
		log.Info().Msg("KAFKA_BROKERS not set, activity events go to the log")
		return queue.NewLogPublisher(log)
	}
	log.Info().Str("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing activity to kafka")
	return queue.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
}
