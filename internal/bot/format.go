package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/kickoffxi/lineup-api/internal/models"
)

var lineLabels = map[models.Position]string{
	models.PositionGoalkeeper: "GK",
	models.PositionDefender:   "DEF",
	models.PositionMidfielder: "MID",
	models.PositionAttacker:   "ATT",
}

// FormatPrediction renders a prediction as Telegram HTML.
func FormatPrediction(pred *models.LineupPrediction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>📋 %s predicted lineup</b>\n", html.EscapeString(pred.TeamName))
	if pred.Opponent != "" {
		fmt.Fprintf(&b, "vs %s", html.EscapeString(pred.Opponent))
		if pred.MatchDate != nil {
			fmt.Fprintf(&b, " (%s)", pred.MatchDate.UTC().Format("Mon 2 Jan 15:04 MST"))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n<b>Formation:</b> %s\n\n", html.EscapeString(pred.Formation))

	for _, pos := range models.Buckets {
		var names []string
		for _, p := range pred.StartingXI {
			if p.Position == pos {
				names = append(names, playerLabel(p))
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(&b, "<b>%s:</b> %s\n", lineLabels[pos], strings.Join(names, ", "))
		}
	}

	if len(pred.Substitutes) > 0 {
		subs := make([]string, 0, len(pred.Substitutes))
		for _, p := range pred.Substitutes {
			subs = append(subs, playerLabel(p))
		}
		fmt.Fprintf(&b, "\n<b>Bench:</b> %s\n", strings.Join(subs, ", "))
	}

	if len(pred.Unavailable) > 0 {
		out := make([]string, 0, len(pred.Unavailable))
		for _, u := range pred.Unavailable {
			out = append(out, html.EscapeString(u.Player.Name))
		}
		fmt.Fprintf(&b, "<b>Out:</b> %s\n", strings.Join(out, ", "))
	}

	fmt.Fprintf(&b, "\n<b>Confidence:</b> %.0f%%", pred.Confidence*100)
	if pred.Cached {
		b.WriteString("\n<i>📦 From cache</i>")
	}
	return b.String()
}

func playerLabel(p models.PlayerRecord) string {
	name := html.EscapeString(p.Name)
	if p.Number > 0 {
		return fmt.Sprintf("%d. %s", p.Number, name)
	}
	return name
}

// FormatInjuries renders the injury list of a team as Telegram HTML.
func FormatInjuries(resp *models.InjuriesResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>🏥 %s availability</b>\n\n", html.EscapeString(resp.Team))
	if len(resp.Injuries) == 0 {
		b.WriteString("No injuries or suspensions reported.")
		return b.String()
	}
	for _, r := range resp.Injuries {
		fmt.Fprintf(&b, "• %s: %s", html.EscapeString(r.PlayerName), r.Status)
		if r.Description != "" {
			fmt.Fprintf(&b, " (%s)", html.EscapeString(r.Description))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n<b>Impact:</b> %.2f", resp.ImpactScore)
	return b.String()
}
