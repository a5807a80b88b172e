package provider

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// GetTeamSquad returns the current squad of a team.
func (c *Client) GetTeamSquad(ctx context.Context, teamID int) ([]models.PlayerRecord, error) {
	entries, _, err := fetch[squadEntry](ctx, c, "/players/squads", url.Values{"team": {strconv.Itoa(teamID)}})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	players := make([]models.PlayerRecord, 0, len(entries[0].Players))
	for _, p := range entries[0].Players {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		pos, detail := MapPosition(p.Position)
		players = append(players, models.PlayerRecord{
			ID:       p.ID.Int(),
			Name:     name,
			Number:   p.Number.Int(),
			Position: pos,
			Detail:   detail,
			Age:      p.Age.Int(),
		})
	}
	return players, nil
}
