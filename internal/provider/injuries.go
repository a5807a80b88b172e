package provider

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// GetInjuries returns the sidelined-player reports for a team and season.
// The provider publishes one report per player per missed fixture.
func (c *Client) GetInjuries(ctx context.Context, teamID, season int) ([]models.InjuryReport, error) {
	entries, _, err := fetch[injuryEntry](ctx, c, "/injuries", url.Values{
		"team":   {strconv.Itoa(teamID)},
		"season": {strconv.Itoa(season)},
	})
	if err != nil {
		return nil, err
	}
	reports := make([]models.InjuryReport, 0, len(entries))
	for _, e := range entries {
		reports = append(reports, models.InjuryReport{
			PlayerID:   e.Player.ID.Int(),
			PlayerName: strings.TrimSpace(e.Player.Name),
			Type:       e.Player.Type,
			Reason:     e.Player.Reason,
			FixtureID:  e.Fixture.ID.Int(),
			FixtureAt:  parseTime(e.Fixture.Date),
			League:     e.League.Name,
		})
	}
	return reports, nil
}
