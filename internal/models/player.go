package models

import (
	"strings"
	"time"
)

// Position is one of the four selection buckets.
type Position string

const (
	PositionGoalkeeper Position = "goalkeeper"
	PositionDefender   Position = "defender"
	PositionMidfielder Position = "midfielder"
	PositionAttacker   Position = "attacker"
	PositionUnknown    Position = "unknown"
)

// Buckets lists the selection buckets in the order lines are filled.
var Buckets = []Position{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionAttacker}

// PlayerRecord is an immutable snapshot of one squad member as returned by
// the data provider.
type PlayerRecord struct {
	ID       int      `json:"id,omitempty"`
	Name     string   `json:"name"`
	Number   int      `json:"number,omitempty"`
	Position Position `json:"position"`
	Detail   string   `json:"detail,omitempty"` // sub-position, e.g. "CB", "CDM"
	Age      int      `json:"age,omitempty"`
}

// SameName reports whether two player names refer to the same person.
// Names are the only natural key shared by every data source.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Lineup is one historical team sheet.
type Lineup struct {
	FixtureID int            `json:"fixture_id,omitempty"`
	Date      time.Time      `json:"date"`
	Formation string         `json:"formation"`
	Players   []PlayerRecord `json:"players"`
}

// Contains reports whether the player started in this lineup.
func (l Lineup) Contains(name string) bool {
	for _, p := range l.Players {
		if SameName(p.Name, name) {
			return true
		}
	}
	return false
}

// TeamInfo identifies a team at the provider.
type TeamInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"`
	Country string `json:"country,omitempty"`
}

// Fixture is a scheduled or played match.
type Fixture struct {
	ID       int       `json:"id"`
	Date     time.Time `json:"date"`
	League   string    `json:"league,omitempty"`
	HomeTeam TeamInfo  `json:"home_team"`
	AwayTeam TeamInfo  `json:"away_team"`
	Status   string    `json:"status,omitempty"`
}

// Opponent returns the other side of the fixture for teamID.
func (f Fixture) Opponent(teamID int) TeamInfo {
	if f.HomeTeam.ID == teamID {
		return f.AwayTeam
	}
	return f.HomeTeam
}

// SeasonFor returns the season a date belongs to. European seasons start in
// August, so spring dates belong to the previous year's season.
func SeasonFor(t time.Time) int {
	if t.Month() >= time.August {
		return t.Year()
	}
	return t.Year() - 1
}
