package models

import (
	"encoding/json"
	"time"
)

// LineupPrediction is the predicted team sheet for one team
type LineupPrediction struct {
	ID                  string              `json:"id,omitempty"`
	TeamName            string              `json:"team_name"`
	TeamID              int                 `json:"team_id,omitempty"`
	FixtureID           int                 `json:"fixture_id,omitempty"`
	Opponent            string              `json:"opponent,omitempty"`
	MatchDate           *time.Time          `json:"match_date,omitempty"`
	Formation           string              `json:"formation"`
	StartingXI          []PlayerRecord      `json:"starting_xi"`
	Substitutes         []PlayerRecord      `json:"substitutes"`
	Unavailable         []UnavailablePlayer `json:"unavailable"`
	Confidence          float64             `json:"confidence"`
	ConfidenceBreakdown ConfidenceBreakdown `json:"confidence_breakdown"`
	KeyInsights         []string            `json:"key_insights"`
	PlayerScores        map[string]float64  `json:"player_scores"`
	InjuryImpact        float64             `json:"injury_impact"`
	DataSources         DataSources         `json:"data_sources"`
	PredictedAt         time.Time           `json:"predicted_at"`
	Cached              bool                `json:"cached"`
}

// UnavailablePlayer is a squad member excluded from selection
type UnavailablePlayer struct {
	Player  PlayerRecord `json:"player"`
	Reasons []string     `json:"reasons"` // injured, suspended, ruled_out_by_news
}

// ConfidenceBreakdown holds the named sub-scores behind Confidence
type ConfidenceBreakdown struct {
	DataCompleteness      float64  `json:"data_completeness"`
	DataRecency           float64  `json:"data_recency"`
	SourceReliability     float64  `json:"source_reliability"`
	PredictionConsistency float64  `json:"prediction_consistency"`
	Overall               float64  `json:"overall"`
	Caveats               []string `json:"caveats,omitempty"`
}

// DataSources flags which inputs were present for the prediction
type DataSources struct {
	Squad      bool `json:"squad_data"`
	Injury     bool `json:"injury_data"`
	News       bool `json:"news_data"`
	Historical bool `json:"historical_data"`
	Form       bool `json:"form_data"`
}

// PredictionRequest carries the caller's parameters for one prediction
type PredictionRequest struct {
	Team          string `json:"team" validate:"required,min=1,max=100,teamname"`
	FixtureID     int    `json:"fixture_id,omitempty" validate:"gte=0"`
	UseNews       bool   `json:"use_news"`
	UseInjuries   bool   `json:"use_injuries"`
	UseForm       bool   `json:"use_form"`
	UseHistorical bool   `json:"use_historical"`
	CreatedBy     string `json:"-"`
}

// NewPredictionRequest returns a request with every optional signal enabled.
func NewPredictionRequest(team string) PredictionRequest {
	return PredictionRequest{
		Team:          team,
		UseNews:       true,
		UseInjuries:   true,
		UseForm:       true,
		UseHistorical: true,
	}
}

// PredictionRecord is a persisted prediction row
type PredictionRecord struct {
	ID         string          `json:"id"`
	TeamName   string          `json:"team_name"`
	FixtureID  int             `json:"fixture_id,omitempty"`
	Formation  string          `json:"formation"`
	Lineup     json.RawMessage `json:"lineup"`
	Confidence float64         `json:"confidence"`
	CreatedAt  time.Time       `json:"created_at"`
	CreatedBy  string          `json:"created_by,omitempty"`
}

// PlayerScoreRow is one scored squad member, written to the analytics store
type PlayerScoreRow struct {
	PredictionID string    `json:"prediction_id"`
	TeamName     string    `json:"team_name"`
	PlayerName   string    `json:"player_name"`
	Position     string    `json:"position"`
	Score        float64   `json:"score"`
	Selection    string    `json:"selection"` // starter, substitute or none
	Formation    string    `json:"formation"`
	PredictedAt  time.Time `json:"predicted_at"`
}
