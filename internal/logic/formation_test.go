package logic

import (
	"testing"

	"github.com/kickoffxi/lineup-api/internal/models"
)

func lineups(formations ...string) []models.Lineup {
	out := make([]models.Lineup, len(formations))
	for i, f := range formations {
		out[i] = models.Lineup{Formation: f}
	}
	return out
}

func TestPredictFormation(t *testing.T) {
	hint := models.NewNewsInsight()
	hint.FormationHint = "3-4-3"

	tests := []struct {
		name   string
		recent []models.Lineup
		news   *models.NewsInsight
		want   string
	}{
		{"NewsHintWins", lineups("4-3-3", "4-3-3", "4-3-3"), hint, "3-4-3"},
		{"RecencyTieGoesToNewest", lineups("4-4-2", "4-4-2", "4-3-3"), nil, "4-3-3"},
		{"WeightedMajority", lineups("4-3-3", "4-4-2", "4-4-2"), nil, "4-4-2"},
		{"NewestOutweighsTwoOldest", lineups("4-4-2", "4-4-2", "3-5-2", "3-5-2"), nil, "3-5-2"},
		{"FourLineShapesFolded", lineups("4-2-3-1", "4-2-3-1"), nil, "4-5-1"},
		{"UnparsableSkipped", lineups("4-4-2", "", "nonsense"), nil, "4-4-2"},
		{"NoHistory", nil, nil, DefaultFormation},
		{"EmptyHint", lineups("5-3-2"), models.NewNewsInsight(), "5-3-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PredictFormation(tt.recent, tt.news); got != tt.want {
				t.Errorf("PredictFormation() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseFormation(t *testing.T) {
	tests := []struct {
		in      string
		want    Formation
		wantErr bool
	}{
		{"4-3-3", Formation{4, 3, 3}, false},
		{" 3-5-2 ", Formation{3, 5, 2}, false},
		{"4-4-2-0", Formation{}, true},
		{"4-3", Formation{}, true},
		{"a-b-c", Formation{}, true},
		{"0-5-5", Formation{}, true},
		{"5-4-2", Formation{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormation(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeFormation(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"4-2-3-1", "4-5-1", true},
		{"3-4-1-2", "3-5-2", true},
		{"4-4-2", "4-4-2", true},
		{"4-x-3-1", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeFormation(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeFormation(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
