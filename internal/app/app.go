// Package app assembles the prediction core shared by the server, CLI and
// MCP binaries.
package app

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/config"
	"github.com/kickoffxi/lineup-api/internal/logic"
	"github.com/kickoffxi/lineup-api/internal/news"
	"github.com/kickoffxi/lineup-api/internal/provider"
)

// NewLogger builds a production logger when ENV is production and a
// development logger otherwise.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// Core holds the read-side collaborators of the prediction service.
type Core struct {
	Provider  *provider.Client
	Directory *provider.Directory
	News      *news.Collector
	logger    *zap.Logger
	cfg       *config.Config
}

func NewCore(cfg *config.Config, logger *zap.Logger) (*Core, error) {
	directory, err := provider.LoadDirectory(cfg.TeamDirectory)
	if err != nil {
		return nil, fmt.Errorf("load team directory: %w", err)
	}

	client := provider.NewClient(provider.Config{
		APIKey:            cfg.APIFootballKey,
		BaseURL:           cfg.APIFootballBaseURL,
		Host:              cfg.APIFootballHost,
		Timeout:           cfg.ProviderTimeout,
		MaxRetries:        cfg.ProviderMaxRetries,
		RequestsPerSecond: cfg.ProviderRPS,
		Burst:             cfg.ProviderBurst,
		Logger:            logger,
	})
	if !client.Configured() {
		logger.Warn("API_FOOTBALL_KEY not set, provider calls will fail and predictions are unavailable")
	}

	sources, err := news.ParseFeeds(cfg.NewsFeeds, &http.Client{Timeout: cfg.NewsTimeout})
	if err != nil {
		return nil, fmt.Errorf("parse NEWS_FEEDS: %w", err)
	}
	collector := news.NewCollector(logger, cfg.NewsTimeout, sources...)
	logger.Sugar().Infow("News sources configured", "sources", collector.Sources())

	return &Core{
		Provider:  client,
		Directory: directory,
		News:      collector,
		logger:    logger,
		cfg:       cfg,
	}, nil
}

// Service builds the prediction service. recorder may be nil.
func (c *Core) Service(cache logic.Cache, recorder logic.PredictionRecorder) logic.PredictionService {
	return logic.NewPredictionService(logic.PredictionServiceConfig{
		Provider:     c.Provider,
		Directory:    c.Directory,
		News:         c.News,
		Cache:        cache,
		Recorder:     recorder,
		CacheTTL:     c.cfg.CacheTTL,
		NewsCacheTTL: c.cfg.NewsCacheTTL,
		FetchTimeout: c.cfg.FetchTimeout,
		Logger:       c.logger,
	})
}
