package provider

import (
	"context"
	"math"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

const (
	// maxFormPages caps how many 20-player pages of season stats are read.
	maxFormPages = 3

	ratingFloor = 5.0
	ratingSpan  = 4.0
)

// NormalizeRating maps a match rating (roughly 5 to 9) onto [0,1].
func NormalizeRating(r float64) float64 {
	return math.Max(0, math.Min(1, (r-ratingFloor)/ratingSpan))
}

// GetPlayerForm returns each rated player's season form in [0,1], keyed by
// player name. Players without a rating are left out.
func (c *Client) GetPlayerForm(ctx context.Context, teamID, season int) (map[string]float64, error) {
	params := func(page int) url.Values {
		return url.Values{
			"team":   {strconv.Itoa(teamID)},
			"season": {strconv.Itoa(season)},
			"page":   {strconv.Itoa(page)},
		}
	}

	first, pg, err := fetch[playerStatsEntry](ctx, c, "/players", params(1))
	if err != nil {
		return nil, err
	}
	pages := make([][]playerStatsEntry, min(max(pg.Total, 1), maxFormPages))
	pages[0] = first

	g, gctx := errgroup.WithContext(ctx)
	for i := 1; i < len(pages); i++ {
		g.Go(func() error {
			entries, _, err := fetch[playerStatsEntry](gctx, c, "/players", params(i+1))
			if err != nil {
				return err
			}
			pages[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Warnw("Partial player form", "team_id", teamID, "season", season, "error", err)
	}

	form := map[string]float64{}
	for _, page := range pages {
		for _, e := range page {
			var sum float64
			n := 0
			for _, s := range e.Statistics {
				if s.Team.ID.Int() != 0 && s.Team.ID.Int() != teamID {
					continue
				}
				if r := s.Games.Rating.Float(); r > 0 {
					sum += r
					n++
				}
			}
			if n > 0 && e.Player.Name != "" {
				form[e.Player.Name] = NormalizeRating(sum / float64(n))
			}
		}
	}
	return form, nil
}
