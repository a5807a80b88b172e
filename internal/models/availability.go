package models

import "time"

// AvailabilityStatus describes whether a player can be picked.
type AvailabilityStatus string

const (
	StatusAvailable AvailabilityStatus = "available"
	StatusInjured   AvailabilityStatus = "injured"
	StatusSuspended AvailabilityStatus = "suspended"
	StatusDoubtful  AvailabilityStatus = "doubtful"
)

// Severity is the keyword-derived seriousness of an absence.
type Severity string

const (
	SeveritySevere   Severity = "severe"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
	SeverityUnknown  Severity = "unknown"
)

// InjuryReport is a raw sidelined-player entry as published by the provider.
type InjuryReport struct {
	PlayerID   int       `json:"player_id,omitempty"`
	PlayerName string    `json:"player_name"`
	Type       string    `json:"type"`   // e.g. "Missing Fixture", "Questionable"
	Reason     string    `json:"reason"` // e.g. "Hamstring Injury", "Red Card"
	FixtureID  int       `json:"fixture_id,omitempty"`
	FixtureAt  time.Time `json:"fixture_date,omitempty"`
	League     string    `json:"league_name,omitempty"`
}

// AvailabilityRecord is a classified injury or suspension for one player.
type AvailabilityRecord struct {
	PlayerID    int                `json:"player_id,omitempty"`
	PlayerName  string             `json:"player_name"`
	Status      AvailabilityStatus `json:"status"`
	Severity    Severity           `json:"severity"`
	Type        string             `json:"type"`
	Description string             `json:"description"`
	FixtureID   int                `json:"fixture_id,omitempty"`
	League      string             `json:"league_name,omitempty"`
	ReturnDate  *time.Time         `json:"return_date,omitempty"`
}

// Out reports whether the record rules the player out of selection.
func (r AvailabilityRecord) Out() bool {
	return r.Status == StatusInjured || r.Status == StatusSuspended
}

// PlayerAvailability is the answer to "can this player play?".
type PlayerAvailability struct {
	PlayerName  string             `json:"player_name"`
	Available   bool               `json:"available"`
	Status      AvailabilityStatus `json:"status"`
	Reason      string             `json:"reason,omitempty"`
	Description string             `json:"description,omitempty"`
	Severity    Severity           `json:"severity,omitempty"`
	ReturnDate  *time.Time         `json:"return_date,omitempty"`
}
