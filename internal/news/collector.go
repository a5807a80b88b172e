package news

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kickoffxi/lineup-api/internal/models"
)

var sourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "lineup_news_source_failures_total",
	Help: "News source collections that failed",
}, []string{"source"})

// Collector queries every registered source concurrently.
type Collector struct {
	sources []Source
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewCollector returns a collector over sources. Each source gets timeout
// to answer; zero means the caller's context alone bounds it.
func NewCollector(logger *zap.Logger, timeout time.Duration, sources ...Source) *Collector {
	return &Collector{sources: sources, timeout: timeout, logger: logger.Sugar()}
}

// Sources returns the registered source labels.
func (c *Collector) Sources() []string {
	labels := make([]string, len(c.sources))
	for i, s := range c.sources {
		labels[i] = s.Label()
	}
	return labels
}

// Collect gathers items from all sources in registration order. A failing
// source is logged and contributes nothing.
func (c *Collector) Collect(ctx context.Context, team string, matchDate time.Time) []models.NewsItem {
	results := make([][]models.NewsItem, len(c.sources))

	var g errgroup.Group
	for i, src := range c.sources {
		g.Go(func() error {
			sctx := ctx
			if c.timeout > 0 {
				var cancel context.CancelFunc
				sctx, cancel = context.WithTimeout(ctx, c.timeout)
				defer cancel()
			}
			items, err := src.Collect(sctx, team, matchDate)
			if err != nil {
				sourceFailures.WithLabelValues(src.Label()).Inc()
				c.logger.Warnw("News source failed", "source", src.Label(), "team", team, "error", err)
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var items []models.NewsItem
	for _, r := range results {
		items = append(items, r...)
	}
	return items
}
