package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/models"
)

func prediction(id, team string) *models.LineupPrediction {
	return &models.LineupPrediction{
		ID:           id,
		TeamName:     team,
		Formation:    "4-3-3",
		StartingXI:   []models.PlayerRecord{{Name: "Keeper 1", Position: models.PositionGoalkeeper}},
		PlayerScores: map[string]float64{"Keeper 1": 0.8, "Defender 1": 0.7},
		PredictedAt:  time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestEnqueueFull(t *testing.T) {
	// Pool without started workers so the queue never drains
	pool := NewPool(PoolConfig{QueueSize: 1, Logger: zap.NewNop()})

	if !pool.Enqueue(prediction("1", "Arsenal"), "api") {
		t.Fatal("Failed to enqueue first prediction")
	}

	start := time.Now()
	enqueued := pool.Enqueue(prediction("2", "Arsenal"), "api")
	duration := time.Since(start)

	if enqueued {
		t.Error("Enqueue should have returned false when queue is full")
	}
	if duration > 10*time.Millisecond {
		t.Errorf("Enqueue took too long (%v), expected immediate return", duration)
	}
	if pool.QueueDepth() != 1 {
		t.Errorf("expected depth 1, got %d", pool.QueueDepth())
	}
	if pool.Enqueue(nil, "api") {
		t.Error("nil prediction should not be queued")
	}
}

func TestPool_StopFlushes(t *testing.T) {
	st := &MockStore{}
	sink := &MockScoreSink{}
	pool := NewPool(PoolConfig{
		WorkerCount:   2,
		BatchSize:     100,
		FlushInterval: time.Hour,
		Store:         st,
		Scores:        sink,
		Logger:        zap.NewNop(),
	})
	pool.Start(context.Background())

	for i := 0; i < 10; i++ {
		if !pool.Enqueue(prediction(fmt.Sprintf("p-%d", i), "Arsenal"), "api") {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	pool.Stop()

	if got := len(st.IDs()); got != 10 {
		t.Errorf("expected 10 persisted predictions, got %d", got)
	}
	if got := sink.RowCount(); got != 20 {
		t.Errorf("expected 20 score rows, got %d", got)
	}
	if pool.Enqueue(prediction("late", "Arsenal"), "api") {
		t.Error("enqueue after stop should fail")
	}
	pool.Stop()
}

func TestPool_FlushInterval(t *testing.T) {
	st := &MockStore{}
	pool := NewPool(PoolConfig{
		WorkerCount:   1,
		BatchSize:     100,
		FlushInterval: 5 * time.Millisecond,
		Store:         st,
		Logger:        zap.NewNop(),
	})
	pool.Start(context.Background())
	defer pool.Stop()

	pool.Enqueue(prediction("tick", "Chelsea"), "bot")

	deadline := time.Now().Add(time.Second)
	for len(st.IDs()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ids := st.IDs(); len(ids) != 1 || ids[0] != "tick" {
		t.Errorf("expected ticker flush, got %v", ids)
	}
}

func TestProcessBatch_Failures(t *testing.T) {
	st := &MockStore{FailFor: map[string]bool{"bad": true}}
	sink := &MockScoreSink{Err: errors.New("clickhouse down")}
	pool := NewPool(PoolConfig{Store: st, Scores: sink, Logger: zap.NewNop()})

	failed := pool.processBatch([]Job{
		{Prediction: prediction("good", "Arsenal")},
		{Prediction: prediction("bad", "Arsenal")},
	})
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
	if ids := st.IDs(); len(ids) != 1 || ids[0] != "good" {
		t.Errorf("unexpected persisted ids %v", ids)
	}
	if sink.RowCount() != 4 {
		t.Errorf("score rows should still be attempted, got %d", sink.RowCount())
	}
}

func TestProcessBatch_NoBackends(t *testing.T) {
	pool := NewPool(PoolConfig{Logger: zap.NewNop()})
	if failed := pool.processBatch([]Job{{Prediction: prediction("x", "Arsenal")}}); failed != 0 {
		t.Errorf("expected no failures without backends, got %d", failed)
	}
}

func TestPopularTeams_NilClient(t *testing.T) {
	teams, err := PopularTeams(context.Background(), nil, 5)
	if err != nil || teams != nil {
		t.Errorf("expected nil result, got %v %v", teams, err)
	}
}
