package logic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// DefaultFormation is used whenever no usable formation is known.
const DefaultFormation = "4-3-3"

// Formation is the outfield shape: goalkeeper implicit.
type Formation struct {
	Defenders   int
	Midfielders int
	Attackers   int
}

func (f Formation) String() string {
	return fmt.Sprintf("%d-%d-%d", f.Defenders, f.Midfielders, f.Attackers)
}

// Outfield returns the number of outfield slots.
func (f Formation) Outfield() int {
	return f.Defenders + f.Midfielders + f.Attackers
}

// ParseFormation parses a strict "D-M-F" string. Every line needs at least
// one player and the outfield may not exceed ten.
func ParseFormation(s string) (Formation, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Formation{}, fmt.Errorf("formation %q: want 3 lines, got %d", s, len(parts))
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Formation{}, fmt.Errorf("formation %q: %w", s, err)
		}
		if v < 1 {
			return Formation{}, fmt.Errorf("formation %q: empty line", s)
		}
		n[i] = v
	}
	f := Formation{Defenders: n[0], Midfielders: n[1], Attackers: n[2]}
	if f.Outfield() > 10 {
		return Formation{}, fmt.Errorf("formation %q: %d outfield players", s, f.Outfield())
	}
	return f, nil
}

// NormalizeFormation folds provider formations such as "4-2-3-1" into the
// three-line form by merging the middle lines. It reports false for anything
// that still does not parse.
func NormalizeFormation(s string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) == 4 {
		a, errA := strconv.Atoi(parts[1])
		b, errB := strconv.Atoi(parts[2])
		if errA != nil || errB != nil {
			return "", false
		}
		parts = []string{parts[0], strconv.Itoa(a + b), parts[3]}
	}
	f, err := ParseFormation(strings.Join(parts, "-"))
	if err != nil {
		return "", false
	}
	return f.String(), true
}

// PredictFormation picks the formation to target: a news hint first, then
// the recency-weighted mode of recent lineups, then the default.
// recent is ordered oldest to newest; the newest entry weighs len(recent)
// and the oldest weighs 1. Ties go to the formation seen first when walking
// from newest to oldest.
func PredictFormation(recent []models.Lineup, news *models.NewsInsight) string {
	if news != nil && news.FormationHint != "" {
		return news.FormationHint
	}

	weights := map[string]int{}
	var order []string
	for i := len(recent) - 1; i >= 0; i-- {
		f, ok := NormalizeFormation(recent[i].Formation)
		if !ok {
			continue
		}
		if _, seen := weights[f]; !seen {
			order = append(order, f)
		}
		weights[f] += i + 1
	}

	best, bestWeight := "", 0
	for _, f := range order {
		if weights[f] > bestWeight {
			best, bestWeight = f, weights[f]
		}
	}
	if best == "" {
		return DefaultFormation
	}
	return best
}
