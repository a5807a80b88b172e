package logic

import (
	"testing"
	"time"

	"github.com/kickoffxi/lineup-api/internal/models"
)

func TestEstimateConfidence(t *testing.T) {
	squad := testSquad()
	fresh := models.NewNewsInsight()
	fresh.SourceCount = 3
	fresh.Confidence = 0.8
	fresh.LatestItemAt = fixedNow.Add(-12 * time.Hour)

	tests := []struct {
		name string
		in   ConfidenceInputs
		want models.ConfidenceBreakdown
	}{
		{
			name: "SquadOnly",
			in:   ConfidenceInputs{Squad: squad, Now: fixedNow},
			want: models.ConfidenceBreakdown{DataCompleteness: 0.5, DataRecency: 0.3, SourceReliability: 0.5, PredictionConsistency: 0.7, Overall: 0.49},
		},
		{
			name: "Empty",
			in:   ConfidenceInputs{Now: fixedNow},
			want: models.ConfidenceBreakdown{DataCompleteness: 0.3, DataRecency: 0.3, SourceReliability: 0.5, PredictionConsistency: 0.7, Overall: 0.43},
		},
		{
			name: "WithNews",
			in: ConfidenceInputs{
				Squad:         squad[:10],
				RecentLineups: make([]models.Lineup, 3),
				Availability:  []models.AvailabilityRecord{{PlayerName: "X"}},
				News:          fresh,
				Form:          map[string]float64{"X": 0.5},
				Now:           fixedNow,
			},
			// completeness (0.5+1+1+1+1)/5 = 0.9, recency 1-12/24 = 0.5
			want: models.ConfidenceBreakdown{DataCompleteness: 0.9, DataRecency: 0.5, SourceReliability: 0.8, PredictionConsistency: 0.7, Overall: 0.735},
		},
		{
			name: "StaleNews",
			in:   ConfidenceInputs{Squad: squad, News: &models.NewsInsight{SourceCount: 1, Confidence: 0.4, LatestItemAt: fixedNow.Add(-48 * time.Hour)}, Now: fixedNow},
			want: models.ConfidenceBreakdown{DataCompleteness: 0.6, DataRecency: 0, SourceReliability: 0.4, PredictionConsistency: 0.7, Overall: 0.42},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateConfidence(tt.in, nil)
			if got.DataCompleteness != tt.want.DataCompleteness ||
				got.DataRecency != tt.want.DataRecency ||
				got.SourceReliability != tt.want.SourceReliability ||
				got.PredictionConsistency != tt.want.PredictionConsistency ||
				!approx(got.Overall, tt.want.Overall) {
				t.Errorf("EstimateConfidence() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEstimateConfidence_CustomConsistency(t *testing.T) {
	called := false
	got := EstimateConfidence(ConfidenceInputs{Team: "Arsenal", Now: fixedNow}, func(in ConfidenceInputs) float64 {
		called = in.Team == "Arsenal"
		return 2
	})
	if !called {
		t.Fatal("custom consistency not used")
	}
	if got.PredictionConsistency != 1 {
		t.Errorf("consistency should be clamped to 1, got %v", got.PredictionConsistency)
	}
}
