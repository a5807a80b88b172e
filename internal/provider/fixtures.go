package provider

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/kickoffxi/lineup-api/internal/models"
)

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (f fixtureEntry) fixture() models.Fixture {
	return models.Fixture{
		ID:       f.Fixture.ID.Int(),
		Date:     parseTime(f.Fixture.Date),
		League:   f.League.Name,
		HomeTeam: f.Teams.Home.info(),
		AwayTeam: f.Teams.Away.info(),
		Status:   f.Fixture.Status.Short,
	}
}

func (c *Client) fixtures(ctx context.Context, params url.Values) ([]models.Fixture, error) {
	entries, _, err := fetch[fixtureEntry](ctx, c, "/fixtures", params)
	if err != nil {
		return nil, err
	}
	out := make([]models.Fixture, len(entries))
	for i, e := range entries {
		out[i] = e.fixture()
	}
	return out, nil
}

// GetFixtureByID returns one fixture.
func (c *Client) GetFixtureByID(ctx context.Context, fixtureID int) (*models.Fixture, error) {
	fs, err := c.fixtures(ctx, url.Values{"id": {strconv.Itoa(fixtureID)}})
	if err != nil {
		return nil, err
	}
	if len(fs) == 0 {
		return nil, ErrNotFound
	}
	return &fs[0], nil
}

// GetNextFixture returns the team's next scheduled fixture.
func (c *Client) GetNextFixture(ctx context.Context, teamID int) (*models.Fixture, error) {
	fs, err := c.UpcomingFixtures(ctx, teamID, 1)
	if err != nil {
		return nil, err
	}
	if len(fs) == 0 {
		return nil, ErrNotFound
	}
	return &fs[0], nil
}

// UpcomingFixtures returns up to n scheduled fixtures, soonest first.
func (c *Client) UpcomingFixtures(ctx context.Context, teamID, n int) ([]models.Fixture, error) {
	return c.fixtures(ctx, url.Values{"team": {strconv.Itoa(teamID)}, "next": {strconv.Itoa(n)}})
}

// lastFixtures returns up to n played fixtures as published, newest first.
func (c *Client) lastFixtures(ctx context.Context, teamID, n int) ([]models.Fixture, error) {
	return c.fixtures(ctx, url.Values{"team": {strconv.Itoa(teamID)}, "last": {strconv.Itoa(n)}})
}
