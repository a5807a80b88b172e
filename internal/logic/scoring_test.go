package logic

import (
	"math"
	"testing"

	"github.com/kickoffxi/lineup-api/internal/models"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScorePlayer_Breakdown(t *testing.T) {
	p := models.PlayerRecord{Name: "Bukayo Saka", Position: models.PositionAttacker, Age: 23}
	recent := []models.Lineup{
		{Players: []models.PlayerRecord{{Name: "Bukayo Saka"}}},
		{Players: []models.PlayerRecord{{Name: "Leandro Trossard"}}},
		{Players: []models.PlayerRecord{{Name: "bukayo saka"}}},
		{Players: nil},
	}
	news := models.NewNewsInsight()
	news.LikelyStarters["Bukayo Saka"] = 0.9
	form := map[string]float64{"bukayo saka": 0.8}

	b := ScorePlayer(p, recent, nil, news, form)
	want := ScoreBreakdown{Position: 0.95, Appearance: 0.5, Form: 0.8, Availability: 1, News: 0.9, Age: 1}
	if b != want {
		t.Errorf("breakdown = %+v, want %+v", b, want)
	}
	// 0.1425 + 0.125 + 0.16 + 0.2 + 0.135 + 0.05
	if !approx(b.Total(), 0.8125) {
		t.Errorf("total = %v, want 0.8125", b.Total())
	}
}

func TestScorePlayer_Neutral(t *testing.T) {
	b := ScorePlayer(models.PlayerRecord{Name: "X", Position: models.PositionUnknown}, nil, nil, nil, nil)
	want := ScoreBreakdown{Position: 0.5, Appearance: 0.5, Form: 0.5, Availability: 1, News: 0.5, Age: 1}
	if b != want {
		t.Errorf("breakdown = %+v, want %+v", b, want)
	}
}

func TestAvailabilityFactor(t *testing.T) {
	tests := []struct {
		name    string
		record  models.AvailabilityRecord
		want    float64
		wantOut bool
	}{
		{"Injured", models.AvailabilityRecord{Status: models.StatusInjured, Severity: models.SeverityMinor}, 0, true},
		{"Suspended", models.AvailabilityRecord{Status: models.StatusSuspended}, 0, true},
		{"DoubtfulSevere", models.AvailabilityRecord{Status: models.StatusDoubtful, Severity: models.SeveritySevere}, 0.2, false},
		{"DoubtfulMinor", models.AvailabilityRecord{Status: models.StatusDoubtful, Severity: models.SeverityMinor}, 0.7, false},
		{"DoubtfulModerate", models.AvailabilityRecord{Status: models.StatusDoubtful, Severity: models.SeverityModerate}, 0.5, false},
		{"DoubtfulUnknown", models.AvailabilityRecord{Status: models.StatusDoubtful, Severity: models.SeverityUnknown}, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.record.PlayerName = "Ben White"
			got, out := availabilityFactor("ben white", []models.AvailabilityRecord{tt.record})
			if got != tt.want || out != tt.wantOut {
				t.Errorf("availabilityFactor() = %v, %v; want %v, %v", got, out, tt.want, tt.wantOut)
			}
		})
	}
	if got, out := availabilityFactor("Ben White", nil); got != 1 || out {
		t.Errorf("no record: got %v, %v", got, out)
	}
}

func TestNewsFactor(t *testing.T) {
	news := models.NewNewsInsight()
	news.RuledOut["A"] = 0.9
	news.LikelyStarters["A"] = 0.9
	news.LikelyStarters["B"] = 0.7
	news.Doubtful["C"] = 0.5

	tests := []struct {
		name     string
		want     float64
		ruledOut bool
	}{
		{"A", 0, true},
		{"B", 0.7, false},
		{"C", 0.35, false},
		{"D", 0.5, false},
	}
	for _, tt := range tests {
		got, out := newsFactor(tt.name, news)
		if !approx(got, tt.want) || out != tt.ruledOut {
			t.Errorf("newsFactor(%s) = %v, %v; want %v, %v", tt.name, got, out, tt.want, tt.ruledOut)
		}
	}
}

func TestAgeFactor(t *testing.T) {
	tests := []struct {
		age  int
		want float64
	}{
		{0, 1}, {19, 0.9}, {22, 0.9}, {23, 1}, {32, 1}, {33, 0.9}, {38, 0.9},
	}
	for _, tt := range tests {
		if got := ageFactor(tt.age); got != tt.want {
			t.Errorf("ageFactor(%d) = %v, want %v", tt.age, got, tt.want)
		}
	}
}

func TestScorePlayers_ExclusionAndWindow(t *testing.T) {
	squad := []models.PlayerRecord{
		{Name: "Out", Position: models.PositionDefender},
		{Name: "Ruled", Position: models.PositionDefender},
		{Name: "Regular", Position: models.PositionDefender},
	}
	news := models.NewNewsInsight()
	news.RuledOut["Ruled"] = 0.8
	avail := []models.AvailabilityRecord{{PlayerName: "Out", Status: models.StatusInjured}}

	// Six lineups; only the newest five count, and Regular missed the oldest.
	var recent []models.Lineup
	recent = append(recent, models.Lineup{})
	for i := 0; i < 5; i++ {
		recent = append(recent, models.Lineup{Players: []models.PlayerRecord{{Name: "Regular"}}})
	}

	scores := ScorePlayers(squad, recent, avail, news, nil)
	if scores["Out"] != 0 || scores["Ruled"] != 0 {
		t.Errorf("excluded players must score 0: %+v", scores)
	}
	want := ScoreBreakdown{Position: 0.85, Appearance: 1, Form: 0.5, Availability: 1, News: 0.5, Age: 1}.Total()
	if !approx(scores["Regular"], want) {
		t.Errorf("Regular = %v, want %v", scores["Regular"], want)
	}
}

func TestPlayerScores_Lookup(t *testing.T) {
	s := PlayerScores{"Bukayo Saka": 0.7}
	if s.Lookup("bukayo saka") != 0.7 || s.Lookup("Nobody") != 0 {
		t.Error("Lookup should match case-insensitively and default to 0")
	}
}

func TestPlayerScores_LookupIsDeterministic(t *testing.T) {
	s := PlayerScores{"B. Saka": 0.4, "b. saka": 0.6, "B. SAKA ": 0.8}
	want := s.Lookup("b. Saka")
	for i := 0; i < 50; i++ {
		if got := s.Lookup("b. Saka"); got != want {
			t.Fatalf("Lookup changed between calls: %v then %v", want, got)
		}
	}
	if want != 0.8 {
		t.Errorf("expected the smallest matching key to win, got %v", want)
	}

	form := map[string]float64{"D. Rice": 0.3, "d. rice": 0.9}
	for i := 0; i < 50; i++ {
		if got := formFactor("D. RICE", form); got != 0.3 {
			t.Fatalf("formFactor picked %v, want 0.3", got)
		}
	}
}
