package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/bot"
	"github.com/kickoffxi/lineup-api/internal/models"
)

type MockPredictor struct {
	mu        sync.Mutex
	Calls     []models.PredictionRequest
	Formation map[string]string
	Err       map[string]error
}

func (m *MockPredictor) PredictLineup(ctx context.Context, req models.PredictionRequest) (*models.LineupPrediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if err := m.Err[req.Team]; err != nil {
		return nil, err
	}
	formation := m.Formation[req.Team]
	if formation == "" {
		formation = "4-3-3"
	}
	return &models.LineupPrediction{
		TeamName:   req.Team,
		Formation:  formation,
		StartingXI: []models.PlayerRecord{{Name: "Keeper", Position: models.PositionGoalkeeper}},
	}, nil
}

func (m *MockPredictor) teams() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.Team
	}
	return out
}

type notification struct {
	chatID int64
	text   string
}

type MockNotifier struct {
	Sent []notification
	Err  error
}

func (m *MockNotifier) Notify(chatID int64, text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, notification{chatID, text})
	return nil
}

func newTestScheduler(t *testing.T, cfg Config) *Scheduler {
	t.Helper()
	cfg.Logger = zap.NewNop()
	s, err := NewScheduler(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Stop() })
	return s
}

func TestWarm_MergesTeams(t *testing.T) {
	subs := bot.NewSubscriptions()
	subs.Subscribe(1, "Arsenal")
	subs.Subscribe(2, "Chelsea")

	predictor := &MockPredictor{}
	var gotN int
	s := newTestScheduler(t, Config{
		Predictor:     predictor,
		Subscriptions: subs,
		PopularCount:  3,
		Popular: func(ctx context.Context, n int) ([]string, error) {
			gotN = n
			return []string{"arsenal", "liverpool", ""}, nil
		},
	})

	s.Warm(context.Background())

	if got := strings.Join(predictor.teams(), ","); got != "Arsenal,Chelsea,liverpool" {
		t.Errorf("unexpected warm order %s", got)
	}
	if gotN != 3 {
		t.Errorf("expected popular count 3, got %d", gotN)
	}
	for _, c := range predictor.Calls {
		if c.CreatedBy != "scheduler" {
			t.Errorf("expected scheduler as creator, got %q", c.CreatedBy)
		}
	}
}

func TestWarm_NotifiesOnChange(t *testing.T) {
	subs := bot.NewSubscriptions()
	subs.Subscribe(10, "Arsenal")
	subs.Subscribe(20, "arsenal")
	subs.Subscribe(30, "Chelsea")

	predictor := &MockPredictor{Formation: map[string]string{}}
	notifier := &MockNotifier{}
	s := newTestScheduler(t, Config{Predictor: predictor, Subscriptions: subs, Notifier: notifier})

	// First run only records the baseline.
	s.Warm(context.Background())
	if len(notifier.Sent) != 0 {
		t.Fatalf("expected no notifications on baseline, got %d", len(notifier.Sent))
	}

	// Unchanged lineups stay quiet.
	s.Warm(context.Background())
	if len(notifier.Sent) != 0 {
		t.Fatalf("expected no notifications without change, got %d", len(notifier.Sent))
	}

	predictor.Formation["Arsenal"] = "3-5-2"
	s.Warm(context.Background())
	if len(notifier.Sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.Sent))
	}
	if notifier.Sent[0].chatID != 10 || notifier.Sent[1].chatID != 20 {
		t.Errorf("unexpected recipients %+v", notifier.Sent)
	}
	if !strings.Contains(notifier.Sent[0].text, "3-5-2") || !strings.Contains(notifier.Sent[0].text, "changed") {
		t.Errorf("unexpected text %q", notifier.Sent[0].text)
	}
}

func TestWarm_ErrorsAreIsolated(t *testing.T) {
	subs := bot.NewSubscriptions()
	subs.Subscribe(1, "Arsenal")
	subs.Subscribe(1, "Chelsea")

	predictor := &MockPredictor{Err: map[string]error{"Arsenal": errors.New("provider down")}}
	s := newTestScheduler(t, Config{
		Predictor:     predictor,
		Subscriptions: subs,
		Popular: func(ctx context.Context, n int) ([]string, error) {
			return nil, errors.New("redis down")
		},
	})

	s.Warm(context.Background())
	if got := len(predictor.Calls); got != 2 {
		t.Errorf("expected both teams attempted, got %d", got)
	}
}

func TestWarm_NoTeams(t *testing.T) {
	predictor := &MockPredictor{}
	s := newTestScheduler(t, Config{Predictor: predictor})
	s.Warm(context.Background())
	if len(predictor.Calls) != 0 {
		t.Errorf("expected no predictions, got %d", len(predictor.Calls))
	}
}

func TestSignature(t *testing.T) {
	a := &models.LineupPrediction{Formation: "4-3-3", StartingXI: []models.PlayerRecord{{Name: "Saka"}, {Name: "Rice"}}}
	b := &models.LineupPrediction{Formation: "4-3-3", StartingXI: []models.PlayerRecord{{Name: "rice"}, {Name: "SAKA"}}}
	c := &models.LineupPrediction{Formation: "4-4-2", StartingXI: a.StartingXI}

	if Signature(a) != Signature(b) {
		t.Error("expected order and case to be ignored")
	}
	if Signature(a) == Signature(c) {
		t.Error("expected formation change to alter signature")
	}
}

func TestNewScheduler_Config(t *testing.T) {
	if _, err := NewScheduler(Config{Timezone: "Mars/Olympus"}); err == nil {
		t.Error("expected invalid timezone error")
	}

	s := newTestScheduler(t, Config{Predictor: &MockPredictor{}, Cron: "0 6 * * *", Timezone: "UTC"})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func TestStart_InvalidCron(t *testing.T) {
	s := newTestScheduler(t, Config{Predictor: &MockPredictor{}, Cron: "not a cron"})
	if err := s.Start(); err == nil {
		t.Error("expected invalid cron error")
	}
}
