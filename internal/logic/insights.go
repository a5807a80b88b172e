package logic

import (
	"fmt"

	"github.com/kickoffxi/lineup-api/internal/models"
)

const (
	maxInsights  = 5
	inFormRating = 0.8
)

// Reasons attached to unavailable players.
const (
	ReasonInjured   = "injured"
	ReasonSuspended = "suspended"
	ReasonRuledOut  = "ruled_out_by_news"
)

// UnavailablePlayers lists squad members that cannot be picked, with why.
func UnavailablePlayers(squad []models.PlayerRecord, availability []models.AvailabilityRecord, news *models.NewsInsight) []models.UnavailablePlayer {
	out := []models.UnavailablePlayer{}
	for _, p := range squad {
		var reasons []string
		for _, r := range availability {
			if !models.SameName(r.PlayerName, p.Name) {
				continue
			}
			switch r.Status {
			case models.StatusInjured:
				reasons = appendOnce(reasons, ReasonInjured)
			case models.StatusSuspended:
				reasons = appendOnce(reasons, ReasonSuspended)
			}
		}
		if _, ok := news.RuledOutConfidence(p.Name); ok {
			reasons = appendOnce(reasons, ReasonRuledOut)
		}
		if len(reasons) > 0 {
			out = append(out, models.UnavailablePlayer{Player: p, Reasons: reasons})
		}
	}
	return out
}

func appendOnce(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// KeyInsights produces at most five short human-readable notes.
func KeyInsights(sel Selection, availability []models.AvailabilityRecord, news *models.NewsInsight, form map[string]float64) []string {
	notes := []string{}

	severe := 0
	for _, r := range availability {
		if r.Out() && r.Severity == models.SeveritySevere {
			severe++
		}
	}
	if severe > 0 {
		notes = append(notes, fmt.Sprintf("%d key player(s) out with serious injuries", severe))
	}

	for _, p := range sel.StartingXI {
		_, newsDoubt := news.DoubtfulConfidence(p.Name)
		status := CheckPlayerAvailability(p.Name, availability).Status
		if newsDoubt || status == models.StatusDoubtful {
			notes = append(notes, fmt.Sprintf("%s starts despite a fitness doubt", p.Name))
		}
	}

	inForm := 0
	for _, p := range sel.StartingXI {
		if formFactor(p.Name, form) > inFormRating {
			inForm++
		}
	}
	if inForm > 0 {
		notes = append(notes, fmt.Sprintf("%d starter(s) in excellent form", inForm))
	}

	if news != nil && news.FormationHint != "" {
		notes = append(notes, "Expected formation from team news: "+news.FormationHint)
	}
	if news.Present() {
		notes = append(notes, fmt.Sprintf("Team news from %d item(s), reliability %s", news.SourceCount, formatPct(news.Confidence)))
	}

	if len(notes) > maxInsights {
		notes = notes[:maxInsights]
	}
	return notes
}
