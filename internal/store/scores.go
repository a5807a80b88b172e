package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/kickoffxi/lineup-api/internal/models"
)

const (
	SelectionStarter    = "starter"
	SelectionSubstitute = "substitute"
	SelectionNone       = "none"
)

const playerScoresSchema = `
CREATE TABLE IF NOT EXISTS player_scores (
	prediction_id String,
	team_name     LowCardinality(String),
	player_name   String,
	position      LowCardinality(String),
	score         Float64,
	selection     LowCardinality(String),
	formation     LowCardinality(String),
	predicted_at  DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (team_name, predicted_at, player_name)
`

// ScoreSink appends scored players to ClickHouse for offline analysis.
type ScoreSink struct {
	conn driver.Conn
}

func NewScoreSink(conn driver.Conn) *ScoreSink {
	return &ScoreSink{conn: conn}
}

func (s *ScoreSink) EnsureSchema(ctx context.Context) error {
	if err := s.conn.Exec(ctx, playerScoresSchema); err != nil {
		return fmt.Errorf("ensure player_scores schema: %w", err)
	}
	return nil
}

// WriteBatch inserts rows in one ClickHouse batch.
func (s *ScoreSink) WriteBatch(ctx context.Context, rows []models.PlayerScoreRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO player_scores (
			prediction_id, team_name, player_name, position, score, selection, formation, predicted_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare player_scores batch: %w", err)
	}
	for _, r := range rows {
		if err := batch.Append(r.PredictionID, r.TeamName, r.PlayerName, r.Position, r.Score, r.Selection, r.Formation, r.PredictedAt); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append player score: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send player_scores batch: %w", err)
	}
	return nil
}

// ScoreRows flattens a prediction into one row per scored player, ordered by
// name. clean is applied to every player name.
func ScoreRows(pred *models.LineupPrediction, clean func(string) string) []models.PlayerScoreRow {
	if pred == nil {
		return nil
	}
	if clean == nil {
		clean = func(s string) string { return s }
	}

	type placement struct {
		position  models.Position
		selection string
	}
	placed := map[string]placement{}
	for _, p := range pred.StartingXI {
		placed[p.Name] = placement{p.Position, SelectionStarter}
	}
	for _, p := range pred.Substitutes {
		placed[p.Name] = placement{p.Position, SelectionSubstitute}
	}
	for _, u := range pred.Unavailable {
		if _, ok := placed[u.Player.Name]; !ok {
			placed[u.Player.Name] = placement{u.Player.Position, SelectionNone}
		}
	}

	names := make([]string, 0, len(pred.PlayerScores))
	for name := range pred.PlayerScores {
		names = append(names, name)
	}
	sort.Strings(names)

	predictedAt := pred.PredictedAt
	if predictedAt.IsZero() {
		predictedAt = time.Now().UTC()
	}
	rows := make([]models.PlayerScoreRow, 0, len(names))
	for _, name := range names {
		pl, ok := placed[name]
		if !ok {
			pl = placement{models.PositionUnknown, SelectionNone}
		}
		rows = append(rows, models.PlayerScoreRow{
			PredictionID: pred.ID,
			TeamName:     pred.TeamName,
			PlayerName:   clean(name),
			Position:     string(pl.position),
			Score:        pred.PlayerScores[name],
			Selection:    pl.selection,
			Formation:    pred.Formation,
			PredictedAt:  predictedAt,
		})
	}
	return rows
}
