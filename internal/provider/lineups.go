package provider

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// maxLineupFetches bounds concurrent /fixtures/lineups calls per request.
const maxLineupFetches = 3

func (c *Client) fixtureLineup(ctx context.Context, fixture models.Fixture, teamID int) (*models.Lineup, error) {
	entries, _, err := fetch[lineupEntry](ctx, c, "/fixtures/lineups", url.Values{"fixture": {strconv.Itoa(fixture.ID)}})
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Team.ID.Int() != teamID {
			continue
		}
		lineup := &models.Lineup{
			FixtureID: fixture.ID,
			Date:      fixture.Date,
			Formation: e.Formation,
			Players:   make([]models.PlayerRecord, 0, len(e.StartXI)),
		}
		for i, lp := range e.StartXI {
			label := ""
			if lp.Player.Pos != nil {
				label = *lp.Player.Pos
			}
			if label == "" || strings.EqualFold(label, "null") {
				label = positionFromIndex(i, e.Formation)
			}
			pos, detail := MapPosition(label)
			lineup.Players = append(lineup.Players, models.PlayerRecord{
				ID:       lp.Player.ID.Int(),
				Name:     strings.TrimSpace(lp.Player.Name),
				Number:   lp.Player.Number.Int(),
				Position: pos,
				Detail:   detail,
			})
		}
		return lineup, nil
	}
	return nil, ErrNotFound
}

// GetRecentLineups returns the team's last n published lineups ordered
// oldest to newest. Fixtures without a published lineup are skipped.
func (c *Client) GetRecentLineups(ctx context.Context, teamID, n int) ([]models.Lineup, error) {
	fixtures, err := c.lastFixtures(ctx, teamID, n)
	if err != nil {
		return nil, err
	}

	results := make([]*models.Lineup, len(fixtures))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLineupFetches)
	for i, f := range fixtures {
		g.Go(func() error {
			lineup, err := c.fixtureLineup(gctx, f, teamID)
			if err != nil {
				c.logger.Warnw("Lineup unavailable", "fixture", f.ID, "team_id", teamID, "error", err)
				return nil
			}
			results[i] = lineup
			return nil
		})
	}
	_ = g.Wait()

	var lineups []models.Lineup
	for _, l := range results {
		if l != nil {
			lineups = append(lineups, *l)
		}
	}
	sort.SliceStable(lineups, func(i, j int) bool { return lineups[i].Date.Before(lineups[j].Date) })
	return lineups, nil
}

// GetLastLineup returns the formation and starters of the last played match.
func (c *Client) GetLastLineup(ctx context.Context, teamID int) (string, []models.PlayerRecord, error) {
	fixtures, err := c.lastFixtures(ctx, teamID, 1)
	if err != nil {
		return "", nil, err
	}
	if len(fixtures) == 0 {
		return "", nil, ErrNotFound
	}
	lineup, err := c.fixtureLineup(ctx, fixtures[0], teamID)
	if err != nil {
		return "", nil, err
	}
	return lineup.Formation, lineup.Players, nil
}
