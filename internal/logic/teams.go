package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/models"
)

var (
	// ErrTeamNotFound means neither the directory nor the provider knows the team.
	ErrTeamNotFound = errors.New("team not found")
	// ErrSquadUnavailable means no squad could be fetched, so no XI can be picked.
	ErrSquadUnavailable = errors.New("squad unavailable")
)

// TeamResolver maps free-text team names to provider team ids, trying the
// local directory before falling back to a provider search.
type TeamResolver struct {
	directory TeamDirectory
	searcher  TeamSearcher
	logger    *zap.SugaredLogger
}

func NewTeamResolver(directory TeamDirectory, searcher TeamSearcher, logger *zap.Logger) *TeamResolver {
	return &TeamResolver{directory: directory, searcher: searcher, logger: logger.Sugar()}
}

// Resolve returns ErrTeamNotFound when the team is unknown everywhere.
func (r *TeamResolver) Resolve(ctx context.Context, name string) (*models.TeamInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNotFound
	}
	if r.directory != nil {
		if info, ok := r.directory.Lookup(name); ok {
			return &info, nil
		}
	}
	if r.searcher == nil {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, name)
	}
	info, err := r.searcher.SearchTeam(ctx, name)
	if err != nil || info == nil {
		if err != nil {
			r.logger.Warnw("Team search failed", "team", name, "error", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, name)
	}
	return info, nil
}

// KnownPlayers returns directory players for a team, if the directory has any.
func (r *TeamResolver) KnownPlayers(team string) []string {
	if r.directory == nil {
		return nil
	}
	return r.directory.KnownPlayers(team)
}
