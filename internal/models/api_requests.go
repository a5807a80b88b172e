package models

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// InjuriesResponse is returned by the injuries analytics endpoint
type InjuriesResponse struct {
	Team         string               `json:"team"`
	Injuries     []AvailabilityRecord `json:"injuries"`
	LongTerm     []AvailabilityRecord `json:"long_term"`
	ImpactScore  float64              `json:"impact_score"`
	TotalInjured int                  `json:"total_injured"`
}

// LastLineupResponse is the most recent known team sheet
type LastLineupResponse struct {
	Team      string         `json:"team"`
	Formation string         `json:"formation"`
	Players   []PlayerRecord `json:"players"`
}
