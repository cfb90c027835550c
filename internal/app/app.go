// Package app assembles the service from configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/carbon-footprint-backend/internal/analysis"
	"github.com/jengzang/carbon-footprint-backend/internal/analysis/viz"
	"github.com/jengzang/carbon-footprint-backend/internal/api"
	"github.com/jengzang/carbon-footprint-backend/internal/cache"
	"github.com/jengzang/carbon-footprint-backend/internal/config"
	"github.com/jengzang/carbon-footprint-backend/internal/database"
	"github.com/jengzang/carbon-footprint-backend/internal/dataset"
	"github.com/jengzang/carbon-footprint-backend/internal/handler"
	"github.com/jengzang/carbon-footprint-backend/internal/llm"
	"github.com/jengzang/carbon-footprint-backend/internal/middleware"
	"github.com/jengzang/carbon-footprint-backend/internal/repository"
	"github.com/jengzang/carbon-footprint-backend/internal/service"
)

// App holds the wired components of the service
type App struct {
	Config    *config.Config
	DB        *sql.DB
	Cache     cache.Store
	Pipeline  *analysis.Pipeline
	Footprint *service.FootprintService
	Clusters  *service.ClusterService
	Stats     *service.StatsService
	Router    *gin.Engine

	limiter *middleware.RateLimiter
}

type options struct {
	generator llm.Generator
	cache     cache.Store
}

// Option customizes New
type Option func(*options)

// WithGenerator replaces the Gemini client
func WithGenerator(g llm.Generator) Option {
	return func(o *options) { o.generator = g }
}

// WithCache replaces the configured suggestion cache
func WithCache(s cache.Store) Option {
	return func(o *options) { o.cache = s }
}

// New opens the database, applies migrations and wires services and routes
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, err
	}
	if _, err := database.NewMigrationManager(db).RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	gen := o.generator
	if gen == nil {
		client := llm.NewClient(cfg.Gemini)
		if !client.Configured() {
			log.Warn().Msg("GEMINI_API_KEY not set, generated labels and suggestions will use fallback text")
		}
		gen = client
	}

	store := o.cache
	if store == nil {
		store = cache.New(cfg.Redis)
	}

	runRepo := repository.NewClusterRunRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	pipeline := analysis.NewPipeline(
		cfg.Cluster,
		llm.NewLabeler(gen),
		viz.NewScatterRenderer(cfg.Dataset.PlotPath),
		runRepo,
	)
	advisor := llm.NewAdvisor(gen, store, cfg.Redis.SuggestionTTL)

	footprintService := service.NewFootprintService(dataset.NewStore(cfg.Dataset.Path), pipeline, advisor, submissionRepo)
	clusterService := service.NewClusterService(pipeline, runRepo, cfg.Dataset.Path, cfg.Dataset.PlotPath)
	statsService := service.NewStatsService(submissionRepo, runRepo)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	router := api.SetupRouter(cfg, api.Handlers{
		Footprint: handler.NewFootprintHandler(footprintService),
		Cluster:   handler.NewClusterHandler(clusterService),
		Stats:     handler.NewStatsHandler(statsService),
	}, limiter)

	return &App{
		Config:    cfg,
		DB:        db,
		Cache:     store,
		Pipeline:  pipeline,
		Footprint: footprintService,
		Clusters:  clusterService,
		Stats:     statsService,
		Router:    router,
		limiter:   limiter,
	}, nil
}

// Close releases the database, cache and rate limiter
func (a *App) Close() error {
	a.limiter.Stop()
	return errors.Join(a.Cache.Close(), a.DB.Close())
}
