package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// MockStore implements PredictionStore for testing
type MockStore struct {
	mu      sync.Mutex
	Created []string
	FailFor map[string]bool
}

func (m *MockStore) Create(ctx context.Context, pred *models.LineupPrediction, createdBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFor[pred.ID] {
		return errors.New("insert failed")
	}
	m.Created = append(m.Created, pred.ID)
	return nil
}

func (m *MockStore) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Created...)
}

// MockScoreSink implements ScoreSink for testing
type MockScoreSink struct {
	mu      sync.Mutex
	Batches [][]models.PlayerScoreRow
	Err     error
}

func (m *MockScoreSink) WriteBatch(ctx context.Context, rows []models.PlayerScoreRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches = append(m.Batches, rows)
	return m.Err
}

func (m *MockScoreSink) RowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.Batches {
		n += len(b)
	}
	return n
}
