package logic

import (
	"math"
	"time"

	"github.com/kickoffxi/lineup-api/internal/models"
)

const (
	weightCompleteness = 0.3
	weightRecency      = 0.25
	weightReliability  = 0.25
	weightConsistency  = 0.2

	defaultRecency     = 0.3
	defaultReliability = 0.5
	stubConsistency    = 0.7
)

// ConfidenceInputs is everything the estimator looks at.
type ConfidenceInputs struct {
	Team          string
	Squad         []models.PlayerRecord
	Availability  []models.AvailabilityRecord
	News          *models.NewsInsight
	RecentLineups []models.Lineup
	Form          map[string]float64
	Now           time.Time
}

// ConsistencyFunc scores how consistent a prediction is with earlier ones.
type ConsistencyFunc func(in ConfidenceInputs) float64

// StubConsistency is a fixed placeholder until predictions are compared
// against history.
func StubConsistency(ConfidenceInputs) float64 {
	return stubConsistency
}

// EstimateConfidence computes the four sub-scores and their weighted blend.
// A nil consistency uses StubConsistency.
func EstimateConfidence(in ConfidenceInputs, consistency ConsistencyFunc) models.ConfidenceBreakdown {
	if consistency == nil {
		consistency = StubConsistency
	}
	b := models.ConfidenceBreakdown{
		DataCompleteness:      round3(dataCompleteness(in)),
		DataRecency:           round3(dataRecency(in.News, in.Now)),
		SourceReliability:     round3(sourceReliability(in.News)),
		PredictionConsistency: round3(clamp01(consistency(in))),
	}
	overall := weightCompleteness*b.DataCompleteness +
		weightRecency*b.DataRecency +
		weightReliability*b.SourceReliability +
		weightConsistency*b.PredictionConsistency
	b.Overall = round3(math.Min(clamp01(overall), MaxConfidence))
	return b
}

func dataCompleteness(in ConfidenceInputs) float64 {
	indicators := []float64{
		math.Min(float64(len(in.Squad))/20, 1),
		math.Min(float64(len(in.RecentLineups))/3, 1),
		presence(len(in.Availability) > 0),
		presence(in.News.Present()),
		presence(len(in.Form) > 0),
	}
	var sum float64
	for _, v := range indicators {
		sum += v
	}
	return sum / float64(len(indicators))
}

func presence(ok bool) float64 {
	if ok {
		return 1
	}
	return neutral
}

// dataRecency decays linearly over a day from the newest news item.
func dataRecency(news *models.NewsInsight, now time.Time) float64 {
	if !news.Present() || news.LatestItemAt.IsZero() {
		return defaultRecency
	}
	hours := now.Sub(news.LatestItemAt).Hours()
	return clamp01(1 - hours/24)
}

func sourceReliability(news *models.NewsInsight) float64 {
	if !news.Present() {
		return defaultReliability
	}
	return clamp01(news.Confidence)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
