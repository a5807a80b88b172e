package logic

import (
	"context"
	"time"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// DataProvider is the football data source the predictor reads from.
// Implementations return an error on any failure; callers decide whether
// the missing data is fatal.
type DataProvider interface {
	GetTeamSquad(ctx context.Context, teamID int) ([]models.PlayerRecord, error)
	GetRecentLineups(ctx context.Context, teamID int, limit int) ([]models.Lineup, error)
	GetLastLineup(ctx context.Context, teamID int) (string, []models.PlayerRecord, error)
	GetTeamInfo(ctx context.Context, teamID int) (*models.TeamInfo, error)
	GetFixtureByID(ctx context.Context, fixtureID int) (*models.Fixture, error)
	GetNextFixture(ctx context.Context, teamID int) (*models.Fixture, error)
	SearchTeam(ctx context.Context, name string) (*models.TeamInfo, error)
	GetPlayerForm(ctx context.Context, teamID int, season int) (map[string]float64, error)
	InjuryProvider
}

// InjuryProvider returns sidelined players for a team and season.
type InjuryProvider interface {
	GetInjuries(ctx context.Context, teamID int, season int) ([]models.InjuryReport, error)
}

// TeamSearcher looks a team up by free-text name at the provider.
type TeamSearcher interface {
	SearchTeam(ctx context.Context, name string) (*models.TeamInfo, error)
}

// TeamDirectory is the local lookup table of known teams.
type TeamDirectory interface {
	Lookup(name string) (models.TeamInfo, bool)
	KnownPlayers(team string) []string
}

// NewsCollector gathers recent news items for a team. Failing sources are
// skipped, so Collect never errors.
type NewsCollector interface {
	Collect(ctx context.Context, team string, matchDate time.Time) []models.NewsItem
}

// Cache is a key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// PredictionRecorder persists predictions asynchronously.
type PredictionRecorder interface {
	Enqueue(prediction *models.LineupPrediction, createdBy string) bool
}

// PredictionService is the use-case surface consumed by the transports.
type PredictionService interface {
	PredictLineup(ctx context.Context, req models.PredictionRequest) (*models.LineupPrediction, error)
	TeamInjuries(ctx context.Context, team string) (*models.InjuriesResponse, error)
	TeamNews(ctx context.Context, team string) (*models.NewsInsight, error)
	PlayerAvailability(ctx context.Context, team, player string) (*models.PlayerAvailability, error)
	LastLineup(ctx context.Context, team string) (*models.LastLineupResponse, error)
}
