// Package store persists predictions to Postgres and per-player scores to
// ClickHouse.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// ErrNotFound is returned when no prediction row matches.
var ErrNotFound = errors.New("prediction not found")

const maxListLimit = 100

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const predictionsSchema = `
CREATE TABLE IF NOT EXISTS predictions (
	id          UUID PRIMARY KEY,
	team_name   TEXT NOT NULL,
	team_key    TEXT NOT NULL,
	fixture_id  INTEGER NOT NULL DEFAULT 0,
	formation   TEXT NOT NULL,
	lineup      JSONB NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	created_by  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS predictions_team_created_idx ON predictions (team_key, created_at DESC);
CREATE INDEX IF NOT EXISTS predictions_created_idx ON predictions (created_at DESC);
`

const predictionColumns = `id::text, team_name, fixture_id, formation, lineup, confidence, created_at, created_by`

// PredictionRepository reads and writes the predictions table.
type PredictionRepository struct {
	db PgPool
}

func NewPredictionRepository(db PgPool) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// EnsureSchema creates the table and indexes if missing.
func (r *PredictionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, predictionsSchema); err != nil {
		return fmt.Errorf("ensure predictions schema: %w", err)
	}
	return nil
}

// TeamKey is the normalised team column used for lookups.
func TeamKey(team string) string {
	return strings.ToLower(strings.TrimSpace(team))
}

// Create stores a prediction. Re-inserting the same id is a no-op.
func (r *PredictionRepository) Create(ctx context.Context, pred *models.LineupPrediction, createdBy string) error {
	if pred == nil || pred.ID == "" {
		return errors.New("create prediction: missing id")
	}
	lineup, err := json.Marshal(pred)
	if err != nil {
		return fmt.Errorf("create prediction: encode lineup: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO predictions (id, team_name, team_key, fixture_id, formation, lineup, confidence, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		pred.ID, pred.TeamName, TeamKey(pred.TeamName), pred.FixtureID, pred.Formation,
		lineup, pred.Confidence, pred.PredictedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create prediction: %w", err)
	}
	return nil
}

func scanPrediction(row pgx.Row) (*models.PredictionRecord, error) {
	var rec models.PredictionRecord
	var lineup []byte
	if err := row.Scan(&rec.ID, &rec.TeamName, &rec.FixtureID, &rec.Formation, &lineup,
		&rec.Confidence, &rec.CreatedAt, &rec.CreatedBy); err != nil {
		return nil, err
	}
	rec.Lineup = json.RawMessage(lineup)
	return &rec, nil
}

// GetByID returns one prediction or ErrNotFound.
func (r *PredictionRepository) GetByID(ctx context.Context, id string) (*models.PredictionRecord, error) {
	rec, err := scanPrediction(r.db.QueryRow(ctx,
		`SELECT `+predictionColumns+` FROM predictions WHERE id::text = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prediction %s: %w", id, err)
	}
	return rec, nil
}

// RecentByTeam returns the team's latest predictions, newest first.
func (r *PredictionRepository) RecentByTeam(ctx context.Context, team string, limit int) ([]models.PredictionRecord, error) {
	return r.list(ctx,
		`SELECT `+predictionColumns+` FROM predictions WHERE team_key = $1 ORDER BY created_at DESC LIMIT $2`,
		TeamKey(team), clampLimit(limit))
}

// Recent returns the latest predictions across all teams.
func (r *PredictionRepository) Recent(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	return r.list(ctx,
		`SELECT `+predictionColumns+` FROM predictions ORDER BY created_at DESC LIMIT $1`,
		clampLimit(limit))
}

func (r *PredictionRepository) list(ctx context.Context, sql string, args ...any) ([]models.PredictionRecord, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	out := []models.PredictionRecord{}
	for rows.Next() {
		rec, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
