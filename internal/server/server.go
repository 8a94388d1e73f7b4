// Package server owns the process-wide resources (store, cache, rate
// limiter, HTTP listener) and their startup and shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vilain-Petit-Canard/API-Films/internal/cache"
	"github.com/vilain-Petit-Canard/API-Films/internal/config"
	"github.com/vilain-Petit-Canard/API-Films/internal/db"
	"github.com/vilain-Petit-Canard/API-Films/internal/middleware"
	"github.com/vilain-Petit-Canard/API-Films/internal/models"
	"github.com/vilain-Petit-Canard/API-Films/internal/repository"
	"github.com/vilain-Petit-Canard/API-Films/internal/router"
	"go.mongodb.org/mongo-driver/mongo"
)

type Server struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  repository.Store
	Cache  *cache.Cache

	mongo      *mongo.Client
	redis      *redis.Client
	limiter    *middleware.RateLimiter
	httpServer *http.Server
}

// New connects to the configured store and, when an address is set, to
// Redis. A Redis failure only disables caching.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Server, error) {
	s := &Server{Config: cfg, Logger: log}

	switch cfg.StoreDriver {
	case "memory":
		s.Store = repository.NewMemoryStore()
		log.Warn().Msg("using in-memory store, data is lost on exit")
	default:
		client, database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		s.mongo = client
		store := repository.NewMongoStore(database)
		if err := store.EnsureUniqueIndex(ctx, models.UsersCollection, models.FieldEmail); err != nil {
			// Existing duplicates block the index; registration still
			// pre-checks, it just loses the race guarantee.
			log.Error().Err(err).Msg("unique email index not created")
		}
		s.Store = store
		log.Info().Str("db", cfg.MongoDB).Msg("connected to mongo")
	}

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPass)
		if err != nil {
			log.Error().Err(err).Msg("redis unavailable, continuing without cache")
		} else {
			s.redis = client
			log.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")
		}
	}
	s.Cache = cache.New(s.redis, cfg.CacheTTL)

	if cfg.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	s.httpServer = &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(router.Deps{
			Store:          s.Store,
			Cache:          s.Cache,
			Logger:         log,
			BcryptCost:     cfg.BcryptCost,
			RequestTimeout: cfg.RequestTimeout,
			RateLimiter:    s.limiter,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       time.Minute,
	}
	return s, nil
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.Logger.Info().Str("port", s.Config.Port).Str("env", s.Config.Env).Msg("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the store and cache.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if s.mongo != nil {
		if err := s.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongo disconnect: %w", err))
		}
	}
	return errors.Join(errs...)
}
