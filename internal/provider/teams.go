package provider

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// GetTeamInfo returns team metadata by provider id.
func (c *Client) GetTeamInfo(ctx context.Context, teamID int) (*models.TeamInfo, error) {
	teams, _, err := fetch[teamEntry](ctx, c, "/teams", url.Values{"id": {strconv.Itoa(teamID)}})
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrNotFound
	}
	info := teams[0].Team.info()
	return &info, nil
}

// SearchTeam finds a team by name. An exact case-insensitive name match is
// preferred over the provider's first hit.
func (c *Client) SearchTeam(ctx context.Context, name string) (*models.TeamInfo, error) {
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return nil, ErrNotFound
	}
	teams, _, err := fetch[teamEntry](ctx, c, "/teams", url.Values{"search": {name}})
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrNotFound
	}
	best := teams[0].Team.info()
	for _, t := range teams {
		if strings.EqualFold(t.Team.Name, name) {
			best = t.Team.info()
			break
		}
	}
	return &best, nil
}
