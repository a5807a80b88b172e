package handlers

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// MockPredictionService
type MockPredictionService struct {
	PredictLineupFunc      func(ctx context.Context, req models.PredictionRequest) (*models.LineupPrediction, error)
	TeamInjuriesFunc       func(ctx context.Context, team string) (*models.InjuriesResponse, error)
	TeamNewsFunc           func(ctx context.Context, team string) (*models.NewsInsight, error)
	PlayerAvailabilityFunc func(ctx context.Context, team, player string) (*models.PlayerAvailability, error)
	LastLineupFunc         func(ctx context.Context, team string) (*models.LastLineupResponse, error)
}

func (m *MockPredictionService) PredictLineup(ctx context.Context, req models.PredictionRequest) (*models.LineupPrediction, error) {
	if m.PredictLineupFunc != nil {
		return m.PredictLineupFunc(ctx, req)
	}
	return &models.LineupPrediction{TeamName: req.Team, Formation: "4-3-3"}, nil
}

func (m *MockPredictionService) TeamInjuries(ctx context.Context, team string) (*models.InjuriesResponse, error) {
	if m.TeamInjuriesFunc != nil {
		return m.TeamInjuriesFunc(ctx, team)
	}
	return &models.InjuriesResponse{Team: team}, nil
}

func (m *MockPredictionService) TeamNews(ctx context.Context, team string) (*models.NewsInsight, error) {
	if m.TeamNewsFunc != nil {
		return m.TeamNewsFunc(ctx, team)
	}
	return models.NewNewsInsight(), nil
}

func (m *MockPredictionService) PlayerAvailability(ctx context.Context, team, player string) (*models.PlayerAvailability, error) {
	if m.PlayerAvailabilityFunc != nil {
		return m.PlayerAvailabilityFunc(ctx, team, player)
	}
	return &models.PlayerAvailability{PlayerName: player, Available: true, Status: models.StatusAvailable}, nil
}

func (m *MockPredictionService) LastLineup(ctx context.Context, team string) (*models.LastLineupResponse, error) {
	if m.LastLineupFunc != nil {
		return m.LastLineupFunc(ctx, team)
	}
	return &models.LastLineupResponse{Team: team}, nil
}

// MockHistory
type MockHistory struct {
	GetByIDFunc      func(ctx context.Context, id string) (*models.PredictionRecord, error)
	RecentByTeamFunc func(ctx context.Context, team string, limit int) ([]models.PredictionRecord, error)
	RecentFunc       func(ctx context.Context, limit int) ([]models.PredictionRecord, error)
}

func (m *MockHistory) GetByID(ctx context.Context, id string) (*models.PredictionRecord, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &models.PredictionRecord{ID: id}, nil
}

func (m *MockHistory) RecentByTeam(ctx context.Context, team string, limit int) ([]models.PredictionRecord, error) {
	if m.RecentByTeamFunc != nil {
		return m.RecentByTeamFunc(ctx, team, limit)
	}
	return []models.PredictionRecord{}, nil
}

func (m *MockHistory) Recent(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, limit)
	}
	return []models.PredictionRecord{}, nil
}

type MockPinger struct {
	Err error
}

func (m *MockPinger) Ping(ctx context.Context) error { return m.Err }

type MockQueue struct {
	Depth int
}

func (m *MockQueue) QueueDepth() int { return m.Depth }

type MockBot struct {
	mu      sync.Mutex
	Updates []tgbotapi.Update
}

func (m *MockBot) HandleUpdate(update tgbotapi.Update) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = append(m.Updates, update)
}
