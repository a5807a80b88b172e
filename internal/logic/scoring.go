package logic

import (
	"math"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// Scoring weights. They sum to one.
const (
	weightPosition     = 0.15
	weightAppearance   = 0.25
	weightForm         = 0.20
	weightAvailability = 0.20
	weightNews         = 0.15
	weightAge          = 0.05

	// AppearanceWindow is how many of the most recent lineups count towards
	// a player's appearance rate.
	AppearanceWindow = 5

	neutral = 0.5
)

var positionImportance = map[models.Position]float64{
	models.PositionGoalkeeper: 1.0,
	models.PositionDefender:   0.85,
	models.PositionMidfielder: 0.9,
	models.PositionAttacker:   0.95,
}

// PlayerScores maps player name to a composite score in [0,1].
type PlayerScores map[string]float64

// ScoreBreakdown holds one player's normalised sub-factors.
type ScoreBreakdown struct {
	Position     float64 `json:"position"`
	Appearance   float64 `json:"appearance"`
	Form         float64 `json:"form"`
	Availability float64 `json:"availability"`
	News         float64 `json:"news"`
	Age          float64 `json:"age"`
	Excluded     bool    `json:"excluded"`
}

// Total is the weighted sum, clamped to [0,1]. Excluded players score zero.
func (b ScoreBreakdown) Total() float64 {
	if b.Excluded {
		return 0
	}
	v := weightPosition*b.Position +
		weightAppearance*b.Appearance +
		weightForm*b.Form +
		weightAvailability*b.Availability +
		weightNews*b.News +
		weightAge*b.Age
	return math.Max(0, math.Min(1, v))
}

// ScorePlayers scores every squad member, available or not. Selection
// filters on the scores later.
func ScorePlayers(squad []models.PlayerRecord, recent []models.Lineup, availability []models.AvailabilityRecord, news *models.NewsInsight, form map[string]float64) PlayerScores {
	if len(recent) > AppearanceWindow {
		recent = recent[len(recent)-AppearanceWindow:]
	}
	scores := make(PlayerScores, len(squad))
	for _, p := range squad {
		scores[p.Name] = ScorePlayer(p, recent, availability, news, form).Total()
	}
	return scores
}

// ScorePlayer computes the sub-factors for a single player.
func ScorePlayer(p models.PlayerRecord, recent []models.Lineup, availability []models.AvailabilityRecord, news *models.NewsInsight, form map[string]float64) ScoreBreakdown {
	avail, out := availabilityFactor(p.Name, availability)
	newsScore, ruledOut := newsFactor(p.Name, news)
	return ScoreBreakdown{
		Position:     positionFactor(p.Position),
		Appearance:   appearanceRate(p.Name, recent),
		Form:         formFactor(p.Name, form),
		Availability: avail,
		News:         newsScore,
		Age:          ageFactor(p.Age),
		Excluded:     out || ruledOut,
	}
}

func positionFactor(pos models.Position) float64 {
	if v, ok := positionImportance[pos]; ok {
		return v
	}
	return neutral
}

func appearanceRate(name string, recent []models.Lineup) float64 {
	if len(recent) == 0 {
		return neutral
	}
	n := 0
	for _, l := range recent {
		if l.Contains(name) {
			n++
		}
	}
	return float64(n) / float64(len(recent))
}

func formFactor(name string, form map[string]float64) float64 {
	v, ok := form[name]
	if !ok {
		k, found := foldedKey(form, name)
		if !found {
			return neutral
		}
		v = form[k]
	}
	return math.Max(0, math.Min(1, v))
}

// availabilityFactor returns the sub-score and whether the player is out.
// With several records for one player the worst one counts.
func availabilityFactor(name string, records []models.AvailabilityRecord) (float64, bool) {
	score, out := 1.0, false
	for _, r := range records {
		if !models.SameName(r.PlayerName, name) {
			continue
		}
		var v float64
		switch {
		case r.Out():
			v, out = 0, true
		case r.Status == models.StatusAvailable:
			v = 1
		case r.Severity == models.SeveritySevere:
			v = 0.2
		case r.Severity == models.SeverityMinor:
			v = 0.7
		default:
			v = neutral
		}
		score = math.Min(score, v)
	}
	return score, out
}

// newsFactor returns the sub-score and whether news ruled the player out.
func newsFactor(name string, news *models.NewsInsight) (float64, bool) {
	if _, ok := news.RuledOutConfidence(name); ok {
		return 0, true
	}
	if c, ok := news.StarterConfidence(name); ok {
		return c, false
	}
	if c, ok := news.DoubtfulConfidence(name); ok {
		return neutral - c*0.3, false
	}
	return neutral, false
}

func ageFactor(age int) float64 {
	if age <= 0 || (age >= 23 && age <= 32) {
		return 1.0
	}
	return 0.9
}

// Lookup returns the score for name, matching case-insensitively when the
// exact key is missing.
func (s PlayerScores) Lookup(name string) float64 {
	if v, ok := s[name]; ok {
		return v
	}
	if k, ok := foldedKey(s, name); ok {
		return s[k]
	}
	return 0
}

// foldedKey returns the smallest key equal to name ignoring case and
// surrounding space, so repeated lookups pick the same entry.
func foldedKey(m map[string]float64, name string) (string, bool) {
	best, found := "", false
	for k := range m {
		if models.SameName(k, name) && (!found || k < best) {
			best, found = k, true
		}
	}
	return best, found
}
