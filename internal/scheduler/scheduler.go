package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/bot"
	"github.com/kickoffxi/lineup-api/internal/models"
)

// Prometheus metrics
var (
	warmupRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineup_warmup_runs_total",
		Help: "Scheduled warm-up runs",
	})
	warmupPredictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineup_warmup_predictions_total",
		Help: "Predictions made by scheduled warm-ups",
	}, []string{"outcome"})
	notificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineup_notifications_sent_total",
		Help: "Lineup change notifications delivered",
	})
)

// Predictor produces lineup predictions.
type Predictor interface {
	PredictLineup(ctx context.Context, req models.PredictionRequest) (*models.LineupPrediction, error)
}

// Notifier delivers a message to one chat.
type Notifier interface {
	Notify(chatID int64, text string) error
}

// PopularFunc returns the n most requested teams.
type PopularFunc func(ctx context.Context, n int) ([]string, error)

type Config struct {
	Predictor     Predictor
	Subscriptions *bot.Subscriptions
	Notifier      Notifier
	Popular       PopularFunc
	PopularCount  int
	Cron          string
	Timezone      string
	TeamTimeout   time.Duration
	Logger        *zap.Logger
}

type Scheduler struct {
	s      gocron.Scheduler
	config Config
	logger *zap.SugaredLogger

	mu         sync.Mutex
	signatures map[string]string
}

func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.PopularCount <= 0 {
		cfg.PopularCount = 10
	}
	if cfg.TeamTimeout <= 0 {
		cfg.TeamTimeout = 30 * time.Second
	}
	if cfg.Cron == "" {
		cfg.Cron = "*/30 * * * *"
	}

	location := time.UTC
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("failed to load location %q: %w", cfg.Timezone, err)
		}
		location = loc
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(location))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:          s,
		config:     cfg,
		logger:     cfg.Logger.Sugar(),
		signatures: map[string]string{},
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.CronJob(s.config.Cron, false),
		gocron.NewTask(func() {
			s.Warm(context.Background())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create warm-up job: %w", err)
	}

	s.s.Start()
	s.logger.Infow("Scheduler started", "cron", s.config.Cron)
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// Warm re-predicts followed and popular teams so the cache stays hot, then
// tells subscribers about teams whose predicted lineup changed.
func (s *Scheduler) Warm(ctx context.Context) {
	warmupRuns.Inc()
	teams := s.teams(ctx)
	if len(teams) == 0 {
		return
	}
	s.logger.Infow("Warming predictions", "teams", len(teams))

	for _, team := range teams {
		if ctx.Err() != nil {
			return
		}
		s.warmTeam(ctx, team)
	}
}

func (s *Scheduler) warmTeam(ctx context.Context, team string) {
	ctx, cancel := context.WithTimeout(ctx, s.config.TeamTimeout)
	defer cancel()

	req := models.NewPredictionRequest(team)
	req.CreatedBy = "scheduler"
	pred, err := s.config.Predictor.PredictLineup(ctx, req)
	if err != nil {
		warmupPredictions.WithLabelValues("error").Inc()
		s.logger.Warnw("Warm-up prediction failed", "team", team, "error", err)
		return
	}
	warmupPredictions.WithLabelValues("ok").Inc()

	if !s.changed(team, Signature(pred)) {
		return
	}
	s.notify(team, pred)
}

// changed records sig and reports whether it differs from a previous one.
// The first signature seen for a team is a baseline, not a change.
func (s *Scheduler) changed(team, sig string) bool {
	key := strings.ToLower(strings.TrimSpace(team))
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, seen := s.signatures[key]
	s.signatures[key] = sig
	return seen && prev != sig
}

func (s *Scheduler) notify(team string, pred *models.LineupPrediction) {
	if s.config.Subscriptions == nil || s.config.Notifier == nil {
		return
	}
	chats := s.config.Subscriptions.Subscribers(team)
	if len(chats) == 0 {
		return
	}
	text := "🔔 <b>Predicted lineup changed</b>\n\n" + bot.FormatPrediction(pred)
	for _, chatID := range chats {
		if err := s.config.Notifier.Notify(chatID, text); err != nil {
			s.logger.Warnw("Failed to notify subscriber", "team", team, "chatId", chatID, "error", err)
			continue
		}
		notificationsSent.Inc()
	}
	s.logger.Infow("Lineup change notified", "team", team, "subscribers", len(chats))
}

// teams merges subscribed and popular teams, dropping case-insensitive
// duplicates. Subscribed teams come first.
func (s *Scheduler) teams(ctx context.Context) []string {
	var candidates []string
	if s.config.Subscriptions != nil {
		candidates = append(candidates, s.config.Subscriptions.Teams()...)
	}
	if s.config.Popular != nil {
		popular, err := s.config.Popular(ctx, s.config.PopularCount)
		if err != nil {
			s.logger.Warnw("Failed to load popular teams", "error", err)
		}
		candidates = append(candidates, popular...)
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, team := range candidates {
		key := strings.ToLower(strings.TrimSpace(team))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, team)
	}
	return out
}

// Signature identifies a predicted team sheet by formation and starters.
func Signature(pred *models.LineupPrediction) string {
	names := make([]string, 0, len(pred.StartingXI))
	for _, p := range pred.StartingXI {
		names = append(names, strings.ToLower(p.Name))
	}
	sort.Strings(names)
	return pred.Formation + "|" + strings.Join(names, ",")
}
