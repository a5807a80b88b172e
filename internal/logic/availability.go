package logic

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/models"
)

const (
	// LongTermThresholdDays is the return horizon the analytics endpoints use.
	LongTermThresholdDays = 14

	// injuryLookback bounds how old a per-fixture injury report may be.
	injuryLookback = 21 * 24 * time.Hour
)

var severityKeywords = []struct {
	severity models.Severity
	words    []string
}{
	{models.SeveritySevere, []string{"cruciate", "acl", "broken", "fracture", "surgery"}},
	{models.SeverityModerate, []string{"hamstring", "muscle", "strain", "sprain"}},
	{models.SeverityMinor, []string{"knock", "minor", "doubt", "ill"}},
}

var impactWeights = map[models.Severity]float64{
	models.SeveritySevere:   0.3,
	models.SeverityModerate: 0.2,
	models.SeverityMinor:    0.1,
	models.SeverityUnknown:  0.15,
}

var suspensionKeywords = []string{"suspen", "red card", "yellow card", "ban"}

// ClassifySeverity maps a free-text injury description to a severity.
// Keyword groups are checked from most to least severe; matching is a plain
// substring test, so "ill" also matches "illness".
func ClassifySeverity(description string) models.Severity {
	text := strings.ToLower(description)
	for _, group := range severityKeywords {
		for _, w := range group.words {
			if strings.Contains(text, w) {
				return group.severity
			}
		}
	}
	return models.SeverityUnknown
}

func classifyStatus(report models.InjuryReport) models.AvailabilityStatus {
	reason := strings.ToLower(report.Reason)
	for _, w := range suspensionKeywords {
		if strings.Contains(reason, w) {
			return models.StatusSuspended
		}
	}
	kind := strings.ToLower(report.Type)
	if strings.Contains(kind, "questionable") || strings.Contains(kind, "doubt") || strings.Contains(reason, "doubt") {
		return models.StatusDoubtful
	}
	return models.StatusInjured
}

// BuildAvailability converts raw provider reports into availability records.
// Reports for fixtures before cutoff are dropped, and a player reported for
// several fixtures keeps only the most recent report.
func BuildAvailability(reports []models.InjuryReport, cutoff time.Time) []models.AvailabilityRecord {
	index := make(map[string]int)
	var (
		out   []models.AvailabilityRecord
		dates []time.Time
	)
	for _, r := range reports {
		name := strings.TrimSpace(r.PlayerName)
		if name == "" {
			continue
		}
		if !cutoff.IsZero() && !r.FixtureAt.IsZero() && r.FixtureAt.Before(cutoff) {
			continue
		}
		rec := models.AvailabilityRecord{
			PlayerID:    r.PlayerID,
			PlayerName:  name,
			Status:      classifyStatus(r),
			Severity:    ClassifySeverity(r.Reason),
			Type:        r.Type,
			Description: r.Reason,
			FixtureID:   r.FixtureID,
			League:      r.League,
		}
		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			if r.FixtureAt.After(dates[i]) {
				out[i], dates[i] = rec, r.FixtureAt
			}
			continue
		}
		index[key] = len(out)
		out = append(out, rec)
		dates = append(dates, r.FixtureAt)
	}
	return out
}

// CheckPlayerAvailability looks name up in records. Players without a record
// are available.
func CheckPlayerAvailability(name string, records []models.AvailabilityRecord) models.PlayerAvailability {
	for _, r := range records {
		if !models.SameName(r.PlayerName, name) {
			continue
		}
		return models.PlayerAvailability{
			PlayerName:  r.PlayerName,
			Available:   !r.Out(),
			Status:      r.Status,
			Reason:      r.Type,
			Description: r.Description,
			Severity:    r.Severity,
			ReturnDate:  r.ReturnDate,
		}
	}
	return models.PlayerAvailability{
		PlayerName: name,
		Available:  true,
		Status:     models.StatusAvailable,
	}
}

// InjuryImpactScore is a team-level measure of how depleted the squad is.
func InjuryImpactScore(records []models.AvailabilityRecord) float64 {
	var total float64
	for _, r := range records {
		w, ok := impactWeights[r.Severity]
		if !ok {
			w = impactWeights[models.SeverityUnknown]
		}
		total += w
	}
	if total > 1 {
		return 1
	}
	return total
}

// FilterLongTermInjuries keeps severe injuries, plus moderate ones when the
// threshold is 14 days or less.
func FilterLongTermInjuries(records []models.AvailabilityRecord, thresholdDays int) []models.AvailabilityRecord {
	out := make([]models.AvailabilityRecord, 0, len(records))
	for _, r := range records {
		if r.Severity == models.SeveritySevere || (r.Severity == models.SeverityModerate && thresholdDays <= 14) {
			out = append(out, r)
		}
	}
	return out
}

// AvailabilityService turns provider injury data into availability records.
// Every failure degrades to "no injury data".
type AvailabilityService struct {
	teams    *TeamResolver
	provider InjuryProvider
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewAvailabilityService(teams *TeamResolver, provider InjuryProvider, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		teams:    teams,
		provider: provider,
		logger:   logger.Sugar(),
		now:      time.Now,
	}
}

// GetTeamInjuries resolves team and returns its current absentees.
func (s *AvailabilityService) GetTeamInjuries(ctx context.Context, team string) []models.AvailabilityRecord {
	info, err := s.teams.Resolve(ctx, team)
	if err != nil {
		s.logger.Warnw("Injury lookup skipped, team unresolved", "team", team, "error", err)
		return nil
	}
	return s.ForTeam(ctx, *info)
}

// ForTeam returns the absentees of an already resolved team.
func (s *AvailabilityService) ForTeam(ctx context.Context, team models.TeamInfo) []models.AvailabilityRecord {
	if s.provider == nil {
		return nil
	}
	now := s.now()
	reports, err := s.provider.GetInjuries(ctx, team.ID, models.SeasonFor(now))
	if err != nil {
		s.logger.Warnw("Failed to fetch injuries", "team", team.Name, "team_id", team.ID, "error", err)
		return nil
	}
	return BuildAvailability(reports, now.Add(-injuryLookback))
}
