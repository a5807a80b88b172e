package provider

import (
	"strconv"
	"strings"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// positionCodes maps provider position labels and sub-position codes to a
// bucket and the detail kept on the player record.
var positionCodes = map[string]struct {
	bucket models.Position
	detail string
}{
	"Goalkeeper":         {models.PositionGoalkeeper, "GK"},
	"G":                  {models.PositionGoalkeeper, "GK"},
	"GK":                 {models.PositionGoalkeeper, "GK"},
	"Defender":           {models.PositionDefender, "DEF"},
	"D":                  {models.PositionDefender, "DEF"},
	"DEF":                {models.PositionDefender, "DEF"},
	"Centre Back":        {models.PositionDefender, "CB"},
	"CB":                 {models.PositionDefender, "CB"},
	"Left Back":          {models.PositionDefender, "LB"},
	"LB":                 {models.PositionDefender, "LB"},
	"Right Back":         {models.PositionDefender, "RB"},
	"RB":                 {models.PositionDefender, "RB"},
	"Midfielder":         {models.PositionMidfielder, "MID"},
	"M":                  {models.PositionMidfielder, "MID"},
	"MID":                {models.PositionMidfielder, "MID"},
	"Defensive Midfield": {models.PositionMidfielder, "CDM"},
	"CDM":                {models.PositionMidfielder, "CDM"},
	"Central Midfield":   {models.PositionMidfielder, "CM"},
	"CM":                 {models.PositionMidfielder, "CM"},
	"Attacking Midfield": {models.PositionMidfielder, "CAM"},
	"CAM":                {models.PositionMidfielder, "CAM"},
	"LM":                 {models.PositionMidfielder, "LM"},
	"RM":                 {models.PositionMidfielder, "RM"},
	"Attacker":           {models.PositionAttacker, "FW"},
	"F":                  {models.PositionAttacker, "FW"},
	"FW":                 {models.PositionAttacker, "FW"},
	"Centre Forward":     {models.PositionAttacker, "ST"},
	"ST":                 {models.PositionAttacker, "ST"},
	"Left Winger":        {models.PositionAttacker, "LW"},
	"LW":                 {models.PositionAttacker, "LW"},
	"Right Winger":       {models.PositionAttacker, "RW"},
	"RW":                 {models.PositionAttacker, "RW"},
}

// MapPosition converts a provider position label into a bucket plus detail.
// Unrecognised labels fall back to keyword matching, then to unknown.
func MapPosition(label string) (models.Position, string) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "null") {
		return models.PositionUnknown, ""
	}
	if p, ok := positionCodes[label]; ok {
		return p.bucket, p.detail
	}
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "goal"):
		return models.PositionGoalkeeper, "GK"
	case strings.Contains(lower, "back") || strings.Contains(lower, "defen"):
		return models.PositionDefender, "DEF"
	case strings.Contains(lower, "midfield"):
		return models.PositionMidfielder, "MID"
	case strings.Contains(lower, "forward") || strings.Contains(lower, "striker") || strings.Contains(lower, "wing"):
		return models.PositionAttacker, "FW"
	}
	return models.PositionUnknown, ""
}

var defaultShape = []string{"GK", "RB", "CB", "CB", "LB", "CDM", "CM", "CM", "LW", "ST", "RW"}

// positionFromIndex infers a starter's position from the formation and
// their index in the published starting eleven, goalkeeper first.
func positionFromIndex(index int, formation string) string {
	parts := strings.Split(formation, "-")
	lines := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			lines = nil
			break
		}
		lines = append(lines, n)
	}
	if len(lines) < 3 {
		if index < len(defaultShape) {
			return defaultShape[index]
		}
		return ""
	}
	if index == 0 {
		return "GK"
	}

	defenders, forwards := lines[0], lines[len(lines)-1]
	midfielders := 0
	for _, n := range lines[1 : len(lines)-1] {
		midfielders += n
	}

	switch {
	case index <= defenders:
		switch {
		case defenders == 3:
			return "CB"
		case defenders == 4 && index <= 2:
			return "CB"
		case defenders == 4 && index == 3:
			return "LB"
		case defenders == 4:
			return "RB"
		}
		return "DEF"
	case index <= defenders+midfielders:
		mid := index - defenders
		switch {
		case midfielders == 3 && mid == 1:
			return "CDM"
		case midfielders == 3:
			return "CM"
		case midfielders == 4 && mid <= 2:
			return "CM"
		case midfielders == 4 && mid == 3:
			return "LM"
		case midfielders == 4:
			return "RM"
		}
		return "MID"
	case index <= defenders+midfielders+forwards:
		fwd := index - defenders - midfielders
		switch {
		case forwards == 3 && fwd == 1:
			return "LW"
		case forwards == 3 && fwd == 2:
			return "ST"
		case forwards == 3:
			return "RW"
		case forwards == 2:
			return "ST"
		}
		return "FW"
	}
	return ""
}
