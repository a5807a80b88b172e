package provider

import "github.com/kickoffxi/lineup-api/internal/models"

// Wire shapes of the API-Football v3 responses. Only decoded fields are
// listed; numbers are tolerant of string encoding.

type apiTeam struct {
	ID      models.FlexInt `json:"id"`
	Name    string         `json:"name"`
	Logo    string         `json:"logo"`
	Country string         `json:"country"`
}

func (t apiTeam) info() models.TeamInfo {
	return models.TeamInfo{ID: t.ID.Int(), Name: t.Name, Logo: t.Logo, Country: t.Country}
}

type teamEntry struct {
	Team apiTeam `json:"team"`
}

type squadEntry struct {
	Team    apiTeam `json:"team"`
	Players []struct {
		ID       models.FlexInt `json:"id"`
		Name     string         `json:"name"`
		Age      models.FlexInt `json:"age"`
		Number   models.FlexInt `json:"number"`
		Position string         `json:"position"`
	} `json:"players"`
}

type fixtureEntry struct {
	Fixture struct {
		ID     models.FlexInt `json:"id"`
		Date   string         `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Name   string         `json:"name"`
		Season models.FlexInt `json:"season"`
	} `json:"league"`
	Teams struct {
		Home apiTeam `json:"home"`
		Away apiTeam `json:"away"`
	} `json:"teams"`
}

type lineupPlayer struct {
	Player struct {
		ID     models.FlexInt `json:"id"`
		Name   string         `json:"name"`
		Number models.FlexInt `json:"number"`
		Pos    *string        `json:"pos"`
		Grid   *string        `json:"grid"`
	} `json:"player"`
}

type lineupEntry struct {
	Team        apiTeam        `json:"team"`
	Formation   string         `json:"formation"`
	StartXI     []lineupPlayer `json:"startXI"`
	Substitutes []lineupPlayer `json:"substitutes"`
}

type injuryEntry struct {
	Player struct {
		ID     models.FlexInt `json:"id"`
		Name   string         `json:"name"`
		Type   string         `json:"type"`
		Reason string         `json:"reason"`
	} `json:"player"`
	Team    apiTeam `json:"team"`
	Fixture struct {
		ID   models.FlexInt `json:"id"`
		Date string         `json:"date"`
	} `json:"fixture"`
	League struct {
		Name string `json:"name"`
	} `json:"league"`
}

type playerStatsEntry struct {
	Player struct {
		ID   models.FlexInt `json:"id"`
		Name string         `json:"name"`
		Age  models.FlexInt `json:"age"`
	} `json:"player"`
	Statistics []struct {
		Team  apiTeam `json:"team"`
		Games struct {
			Appearances models.FlexInt   `json:"appearences"`
			Rating      models.FlexFloat `json:"rating"`
			Position    string           `json:"position"`
		} `json:"games"`
	} `json:"statistics"`
}
