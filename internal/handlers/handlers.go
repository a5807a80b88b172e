package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/logic"
	"github.com/kickoffxi/lineup-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// PersistenceQueue exposes the prediction queue depth for readiness checks
type PersistenceQueue interface {
	QueueDepth() int
}

// PredictionReader reads persisted predictions
type PredictionReader interface {
	GetByID(ctx context.Context, id string) (*models.PredictionRecord, error)
	RecentByTeam(ctx context.Context, team string, limit int) ([]models.PredictionRecord, error)
	Recent(ctx context.Context, limit int) ([]models.PredictionRecord, error)
}

// Pinger is a dependency probed by the readiness check
type Pinger interface {
	Ping(ctx context.Context) error
}

// UpdateHandler consumes Telegram updates delivered by webhook
type UpdateHandler interface {
	HandleUpdate(update tgbotapi.Update)
}

type Config struct {
	Prediction    logic.PredictionService
	History       PredictionReader
	Queue         PersistenceQueue
	Checks        map[string]Pinger
	Bot           UpdateHandler
	WebhookSecret string
	APIKeys       []string
	RateLimit     float64
	RateBurst     int
	AllowedOrigin []string
	Logger        *zap.Logger
}

type Handler struct {
	prediction    logic.PredictionService
	history       PredictionReader
	queue         PersistenceQueue
	checks        map[string]Pinger
	bot           UpdateHandler
	webhookSecret string
	apiKeys       []string
	limiter       *clientLimiter
	origins       []string
	logger        *zap.SugaredLogger
	validator     *validator.Validate
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{
		prediction:    cfg.Prediction,
		history:       cfg.History,
		queue:         cfg.Queue,
		checks:        cfg.Checks,
		bot:           cfg.Bot,
		webhookSecret: cfg.WebhookSecret,
		apiKeys:       cfg.APIKeys,
		limiter:       newClientLimiter(cfg.RateLimit, cfg.RateBurst),
		origins:       cfg.AllowedOrigin,
		logger:        cfg.Logger.Sugar(),
		validator:     newValidator(),
	}
}

// Routes builds the HTTP router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(h.LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/doc.json", h.SwaggerDoc)
	r.Post("/telegram/webhook", h.TelegramWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.APIKeyMiddleware)
		r.Use(h.RateLimitMiddleware)
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/predict/{team}", h.PredictLineup)
		r.Get("/predictions/recent", h.RecentPredictions)
		r.Get("/predictions/{id}", h.GetPrediction)
		r.Get("/teams/{team}/predictions", h.TeamPredictions)
		r.Get("/teams/{team}/last-lineup", h.LastLineup)
		r.Get("/analytics/injuries/{team}", h.TeamInjuries)
		r.Get("/analytics/news/{team}", h.TeamNews)
		r.Get("/analytics/player-availability/{team}/{player}", h.PlayerAvailability)
	})
	return r
}
