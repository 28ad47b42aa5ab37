package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"referral-finder/internal/config"
	"referral-finder/internal/database"
	"referral-finder/internal/database/migration"
	dbpostgres "referral-finder/internal/database/postgres"
	"referral-finder/internal/discovery"
	"referral-finder/internal/gate"
	"referral-finder/internal/infrastructure/cache"
	"referral-finder/internal/infrastructure/llm"
	"referral-finder/internal/infrastructure/llm/gemini"
	"referral-finder/internal/infrastructure/llm/openai"
	"referral-finder/internal/repository"
	"referral-finder/internal/scraper"
	"referral-finder/internal/usecase"
	"referral-finder/internal/ws"
)

type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Redis *cache.Redis

	FetchGate *gate.Gate
	LLMGate   *gate.Gate
	Model     llm.Client
	Extractor scraper.JobExtractor

	Hub *ws.Hub

	Extraction *usecase.Extraction
	Referral   *usecase.Referral
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(dbCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.DB = db

	if cfg.Database.AutoMigrate {
		r := migration.Runner{Dir: cfg.Database.MigrationsDir, Logger: logger}
		if err := r.Run(dbCtx, db.SQLDB()); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	c.Redis = cache.NewRedis(cfg.Redis, logger)

	if err := c.buildPipelines(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Hub = ws.NewHub(logger)

	profiles := repository.NewPostgresProfileRepository(db)
	searches := repository.NewPostgresSearchRepository(db)

	c.Extraction = usecase.NewExtractionUsecase(c.Extractor, logger).WithCache(c.Redis, cfg.Extraction.CacheTTL)
	c.Referral = usecase.NewReferralUsecase(
		profiles,
		searches,
		c.orchestrator(),
		ws.NewNotifier(c.Hub),
		cfg.Referral.RequestTimeout,
		logger,
	)

	return c, nil
}

// NewExtractionContainer builds only what job extraction needs, without a database.
func NewExtractionContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}
	c.Redis = cache.NewRedis(cfg.Redis, logger)
	if err := c.buildPipelines(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Extraction = usecase.NewExtractionUsecase(c.Extractor, logger)
	return c, nil
}

func (c *Container) buildPipelines(ctx context.Context) error {
	cfg := c.Config

	c.FetchGate = gate.New("fetch", gate.Options{
		MaxConcurrency:    cfg.Extraction.MaxConcurrency,
		RatePerSecond:     cfg.Extraction.RatePerSecond,
		RequestsPerMinute: cfg.Extraction.RequestsPerMinute,
		Counter:           c.Redis,
		Logger:            c.Logger,
	})
	c.LLMGate = gate.New("llm", gate.Options{
		MaxConcurrency:    cfg.LLM.MaxConcurrency,
		RatePerSecond:     cfg.LLM.RatePerSecond,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		Counter:           c.Redis,
		Logger:            c.Logger,
	})

	model, err := newModel(ctx, cfg.LLM, c.LLMGate, c.Logger)
	if err != nil {
		return err
	}
	c.Model = model

	extractor, err := newExtractionBackend(cfg.Extraction, c.FetchGate, model, c.Logger)
	if err != nil {
		return err
	}
	c.Extractor = extractor
	return nil
}

func (c *Container) orchestrator() *discovery.Orchestrator {
	cfg := c.Config.Referral

	clientCfg := discovery.DefaultClientConfig()
	clientCfg.SearchDomain = cfg.SearchDomain

	validator := discovery.NewValidator(discovery.ValidatorConfig{
		ProfilePathSegment:        cfg.ProfilePathSegment,
		Denylist:                  cfg.URLDenylist,
		RequireCompanyInRelevance: cfg.RequireCompanyInRelevance,
	}, c.Logger)

	return discovery.NewOrchestrator(
		discovery.NewClient(c.Model, clientCfg, c.Logger),
		validator,
		cfg.AttemptTimeout,
		c.Logger,
	)
}

func newModel(ctx context.Context, cfg config.LLMConfig, g *gate.Gate, logger *log.Logger) (llm.Client, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		m, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}, g, logger)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return m, nil
	case config.ProviderOpenAI:
		return openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			SearchModel: cfg.OpenAISearchModel,
			Timeout:     cfg.Timeout,
		}, g, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newExtractionBackend(cfg config.ExtractionConfig, fetchGate *gate.Gate, model llm.Client, logger *log.Logger) (scraper.JobExtractor, error) {
	switch cfg.Backend {
	case config.BackendGenerative:
		g, err := scraper.NewGenerativeExtractor(model, logger)
		if err != nil {
			return nil, fmt.Errorf("generative extractor: %w", err)
		}
		return g, nil
	case config.BackendSelector:
		fcfg := scraper.FetcherConfig{
			UserAgent:    cfg.UserAgent,
			Timeout:      cfg.FetchTimeout,
			MaxBodyBytes: cfg.MaxBodyBytes,
		}
		var fetcher scraper.Fetcher
		if cfg.Headless {
			fetcher = scraper.NewHeadlessFetcher(fcfg, fetchGate, logger)
		} else {
			fetcher = scraper.NewCollyFetcher(fcfg, fetchGate, logger)
		}
		return scraper.NewSelectorBackend(fetcher, scraper.NewExtractor(), logger), nil
	default:
		return nil, fmt.Errorf("unknown extraction backend %q", cfg.Backend)
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
