// Package worker implements the buffered persistence queue for predictions.
// This decouples request handling from database writes, providing:
// - Backpressure handling via load shedding
// - Batch inserts for efficient ClickHouse writes
// - Graceful shutdown with flush guarantees
package worker

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/models"
	"github.com/kickoffxi/lineup-api/internal/store"
)

const (
	// PopularTeamsKey is a sorted set of team keys scored by prediction count.
	PopularTeamsKey = "lineup:popular_teams"
	// LastPredictionKey is a hash of team key to the latest prediction id.
	LastPredictionKey = "lineup:last_prediction"
)

// Prometheus metrics
var (
	predictionsQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineup_predictions_queued_total",
		Help: "Total number of predictions queued for persistence",
	})

	predictionsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineup_predictions_persisted_total",
		Help: "Total number of predictions written to Postgres",
	})

	predictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineup_predictions_persist_failed_total",
		Help: "Total number of predictions that failed to persist",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lineup_worker_queue_depth",
		Help: "Current depth of the persistence queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lineup_batch_insert_duration_seconds",
		Help:    "Duration of persistence batches",
		Buckets: prometheus.DefBuckets,
	})

	predictionsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineup_predictions_load_shed_total",
		Help: "Total number of predictions dropped due to load shedding",
	})
)

// PredictionStore writes one prediction row.
type PredictionStore interface {
	Create(ctx context.Context, pred *models.LineupPrediction, createdBy string) error
}

// ScoreSink writes per-player score rows in bulk.
type ScoreSink interface {
	WriteBatch(ctx context.Context, rows []models.PlayerScoreRow) error
}

// Job represents a unit of work for the worker pool
type Job struct {
	Prediction *models.LineupPrediction
	CreatedBy  string
	Timestamp  time.Time
}

// PoolConfig configures the worker pool. Store, Scores and Redis are each
// optional; a nil backend is skipped.
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	WriteTimeout  time.Duration
	Store         PredictionStore
	Scores        ScoreSink
	Redis         redis.Cmdable
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async prediction persistence
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the worker pool, flushing queued predictions.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping worker pool...")
		close(p.jobQueue)
		p.wg.Wait()
		if p.cancel != nil {
			p.cancel()
		}
		p.logger.Info("Worker pool stopped")
	})
}

// Enqueue adds a prediction to the queue without blocking. It returns false
// when the queue is full or the pool is stopped.
func (p *Pool) Enqueue(pred *models.LineupPrediction, createdBy string) (ok bool) {
	if pred == nil {
		return false
	}
	job := Job{
		Prediction: pred,
		CreatedBy:  createdBy,
		Timestamp:  time.Now(),
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue prediction (pool stopped)", "error", r)
			predictionsLoadShed.Inc()
			ok = false
		}
	}()

	select {
	case p.jobQueue <- job:
		predictionsQueued.Inc()
		return true
	default:
		p.logger.Warnw("Persistence queue full, dropping prediction", "team", pred.TeamName, "id", pred.ID)
		predictionsLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		start := time.Now()
		failed := p.processBatch(batch)
		predictionsPersisted.Add(float64(len(batch) - failed))
		predictionsFailed.Add(float64(failed))
		batchInsertDuration.Observe(time.Since(start).Seconds())
		p.logger.Debugw("Batch processed", "worker", id, "batchSize", len(batch), "failed", failed, "duration", time.Since(start))
		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// processBatch persists a batch and returns how many predictions failed to
// reach Postgres. ClickHouse and Redis failures are logged only.
func (p *Pool) processBatch(batch []Job) int {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.WriteTimeout)
	defer cancel()

	failed := 0
	var rows []models.PlayerScoreRow
	for _, job := range batch {
		pred := job.Prediction
		if p.config.Store != nil {
			if err := p.config.Store.Create(ctx, pred, job.CreatedBy); err != nil {
				p.logger.Errorw("Failed to persist prediction", "team", pred.TeamName, "id", pred.ID, "error", err)
				failed++
			}
		}
		rows = append(rows, store.ScoreRows(pred, sanitizeName)...)
	}

	if p.config.Scores != nil && len(rows) > 0 {
		if err := p.config.Scores.WriteBatch(ctx, rows); err != nil {
			p.logger.Errorw("Failed to write player scores", "rows", len(rows), "error", err)
		}
	}

	p.processBatchSideEffects(ctx, batch)
	return failed
}

// processBatchSideEffects updates the popularity ranking and last-prediction
// index in one pipeline.
func (p *Pool) processBatchSideEffects(ctx context.Context, batch []Job) {
	if p.config.Redis == nil || len(batch) == 0 {
		return
	}

	pipe := p.config.Redis.Pipeline()
	for _, job := range batch {
		key := store.TeamKey(job.Prediction.TeamName)
		if key == "" {
			continue
		}
		pipe.ZIncrBy(ctx, PopularTeamsKey, 1, key)
		pipe.HSet(ctx, LastPredictionKey, key, job.Prediction.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Warnw("Failed to update prediction side effects", "batchSize", len(batch), "error", err)
	}
}

// PopularTeams returns up to n team keys with the most predictions.
func PopularTeams(ctx context.Context, rdb redis.Cmdable, n int) ([]string, error) {
	if rdb == nil || n <= 0 {
		return nil, nil
	}
	return rdb.ZRevRange(ctx, PopularTeamsKey, 0, int64(n-1)).Result()
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}

// Helper functions

// sanitizeName strips control characters and collapses runs of whitespace.
func sanitizeName(s string) string {
	// Fast path: nothing to strip
	clean := true
	for _, r := range s {
		if unicode.IsControl(r) || (unicode.IsSpace(r) && r != ' ') {
			clean = false
			break
		}
	}
	if clean && !strings.Contains(s, "  ") && strings.TrimSpace(s) == s {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = sb.Len() > 0
		case unicode.IsControl(r):
		default:
			if space {
				sb.WriteByte(' ')
				space = false
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
