package logic

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// MockProvider
type MockProvider struct {
	GetTeamSquadFunc     func(ctx context.Context, teamID int) ([]models.PlayerRecord, error)
	GetRecentLineupsFunc func(ctx context.Context, teamID, limit int) ([]models.Lineup, error)
	GetLastLineupFunc    func(ctx context.Context, teamID int) (string, []models.PlayerRecord, error)
	GetTeamInfoFunc      func(ctx context.Context, teamID int) (*models.TeamInfo, error)
	GetFixtureByIDFunc   func(ctx context.Context, fixtureID int) (*models.Fixture, error)
	GetNextFixtureFunc   func(ctx context.Context, teamID int) (*models.Fixture, error)
	SearchTeamFunc       func(ctx context.Context, name string) (*models.TeamInfo, error)
	GetPlayerFormFunc    func(ctx context.Context, teamID, season int) (map[string]float64, error)
	GetInjuriesFunc      func(ctx context.Context, teamID, season int) ([]models.InjuryReport, error)
}

func (m *MockProvider) GetTeamSquad(ctx context.Context, teamID int) ([]models.PlayerRecord, error) {
	if m.GetTeamSquadFunc != nil {
		return m.GetTeamSquadFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *MockProvider) GetRecentLineups(ctx context.Context, teamID, limit int) ([]models.Lineup, error) {
	if m.GetRecentLineupsFunc != nil {
		return m.GetRecentLineupsFunc(ctx, teamID, limit)
	}
	return nil, nil
}

func (m *MockProvider) GetLastLineup(ctx context.Context, teamID int) (string, []models.PlayerRecord, error) {
	if m.GetLastLineupFunc != nil {
		return m.GetLastLineupFunc(ctx, teamID)
	}
	return "", nil, nil
}

func (m *MockProvider) GetTeamInfo(ctx context.Context, teamID int) (*models.TeamInfo, error) {
	if m.GetTeamInfoFunc != nil {
		return m.GetTeamInfoFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *MockProvider) GetFixtureByID(ctx context.Context, fixtureID int) (*models.Fixture, error) {
	if m.GetFixtureByIDFunc != nil {
		return m.GetFixtureByIDFunc(ctx, fixtureID)
	}
	return nil, nil
}

func (m *MockProvider) GetNextFixture(ctx context.Context, teamID int) (*models.Fixture, error) {
	if m.GetNextFixtureFunc != nil {
		return m.GetNextFixtureFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *MockProvider) SearchTeam(ctx context.Context, name string) (*models.TeamInfo, error) {
	if m.SearchTeamFunc != nil {
		return m.SearchTeamFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockProvider) GetPlayerForm(ctx context.Context, teamID, season int) (map[string]float64, error) {
	if m.GetPlayerFormFunc != nil {
		return m.GetPlayerFormFunc(ctx, teamID, season)
	}
	return nil, nil
}

func (m *MockProvider) GetInjuries(ctx context.Context, teamID, season int) ([]models.InjuryReport, error) {
	if m.GetInjuriesFunc != nil {
		return m.GetInjuriesFunc(ctx, teamID, season)
	}
	return nil, nil
}

// MockDirectory keys Teams by lowercase name
type MockDirectory struct {
	Teams   map[string]models.TeamInfo
	Players map[string][]string
}

func (m *MockDirectory) Lookup(name string) (models.TeamInfo, bool) {
	t, ok := m.Teams[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

func (m *MockDirectory) KnownPlayers(team string) []string {
	return m.Players[strings.ToLower(team)]
}

// MockCollector
type MockCollector struct {
	CollectFunc func(ctx context.Context, team string, matchDate time.Time) []models.NewsItem
	Calls       int
}

func (m *MockCollector) Collect(ctx context.Context, team string, matchDate time.Time) []models.NewsItem {
	m.Calls++
	if m.CollectFunc != nil {
		return m.CollectFunc(ctx, team, matchDate)
	}
	return nil
}

// MockCache is an in-memory Cache that ignores TTLs
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	TTLs   map[string]time.Duration
	GetErr error
	SetErr error
	Sets   int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: map[string][]byte{}, TTLs: map[string]time.Duration{}}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.Data[key]
	return v, ok, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = value
	m.TTLs[key] = ttl
	return nil
}

// MockRecorder
type MockRecorder struct {
	mu       sync.Mutex
	Recorded []*models.LineupPrediction
	Full     bool
}

func (m *MockRecorder) Enqueue(p *models.LineupPrediction, createdBy string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Full {
		return false
	}
	m.Recorded = append(m.Recorded, p)
	return true
}
