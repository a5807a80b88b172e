package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kickoffxi/lineup-api/internal/models"
)

const recentLineupCount = AppearanceWindow

// PredictionServiceConfig wires the orchestrator's collaborators. Only
// Provider and Logger are required.
type PredictionServiceConfig struct {
	Provider     DataProvider
	Directory    TeamDirectory
	News         NewsCollector
	Cache        Cache
	Recorder     PredictionRecorder
	CacheTTL     time.Duration
	NewsCacheTTL time.Duration
	FetchTimeout time.Duration
	Consistency  ConsistencyFunc
	Logger       *zap.Logger
}

type predictionService struct {
	provider     DataProvider
	teams        *TeamResolver
	availability *AvailabilityService
	news         *NewsAnalyzer
	cache        Cache
	recorder     PredictionRecorder
	engine       Engine
	cacheTTL     time.Duration
	fetchTimeout time.Duration
	logger       *zap.SugaredLogger
	now          func() time.Time
}

func NewPredictionService(cfg PredictionServiceConfig) PredictionService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if cfg.NewsCacheTTL <= 0 {
		cfg.NewsCacheTTL = 10 * time.Minute
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	teams := NewTeamResolver(cfg.Directory, cfg.Provider, cfg.Logger)
	return &predictionService{
		provider:     cfg.Provider,
		teams:        teams,
		availability: NewAvailabilityService(teams, cfg.Provider, cfg.Logger),
		news:         NewNewsAnalyzer(cfg.News, cfg.Cache, cfg.NewsCacheTTL, cfg.Logger),
		cache:        cfg.Cache,
		recorder:     cfg.Recorder,
		engine:       Engine{Consistency: cfg.Consistency},
		cacheTTL:     cfg.CacheTTL,
		fetchTimeout: cfg.FetchTimeout,
		logger:       cfg.Logger.Sugar(),
		now:          time.Now,
	}
}

// CacheKey is the prediction cache key for a request.
func CacheKey(req models.PredictionRequest) string {
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	return fmt.Sprintf("prediction:%s:%d:n%si%sf%sh%s",
		strings.ToLower(strings.TrimSpace(req.Team)), req.FixtureID,
		flag(req.UseNews), flag(req.UseInjuries), flag(req.UseForm), flag(req.UseHistorical))
}

// PredictLineup returns ErrTeamNotFound or ErrSquadUnavailable when no
// prediction can be made; every other failure only lowers confidence.
func (s *predictionService) PredictLineup(ctx context.Context, req models.PredictionRequest) (*models.LineupPrediction, error) {
	req.Team = strings.TrimSpace(req.Team)
	key := CacheKey(req)

	if cached := s.cached(ctx, key); cached != nil {
		predictionCache.WithLabelValues("hit").Inc()
		predictionsTotal.WithLabelValues("cached").Inc()
		return cached, nil
	}
	predictionCache.WithLabelValues("miss").Inc()

	start := time.Now()
	team, err := s.teams.Resolve(ctx, req.Team)
	if err != nil {
		predictionsTotal.WithLabelValues("team_not_found").Inc()
		return nil, err
	}

	in, err := s.gather(ctx, req, *team)
	if err != nil {
		predictionsTotal.WithLabelValues("squad_unavailable").Inc()
		return nil, err
	}

	pred := s.engine.BuildPrediction(in)
	pred.ID = uuid.NewString()
	predictionDuration.Observe(time.Since(start).Seconds())
	predictionsTotal.WithLabelValues("ok").Inc()

	s.store(ctx, key, pred)
	if s.recorder != nil && !s.recorder.Enqueue(pred, req.CreatedBy) {
		s.logger.Warnw("Prediction not persisted, queue full", "team", pred.TeamName, "id", pred.ID)
	}

	s.logger.Infow("Lineup predicted",
		"team", pred.TeamName,
		"formation", pred.Formation,
		"confidence", pred.Confidence,
		"sources", pred.DataSources,
		"duration", time.Since(start),
	)
	return pred, nil
}

func (s *predictionService) cached(ctx context.Context, key string) *models.LineupPrediction {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warnw("Prediction cache read failed", "key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var pred models.LineupPrediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		s.logger.Warnw("Discarding undecodable cache entry", "key", key, "error", err)
		return nil
	}
	pred.Cached = true
	return &pred
}

func (s *predictionService) store(ctx context.Context, key string, pred *models.LineupPrediction) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(pred)
	if err != nil {
		s.logger.Errorw("Failed to encode prediction", "team", pred.TeamName, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warnw("Prediction cache write failed", "key", key, "error", err)
	}
}

// gather fetches every input in parallel and waits for all of them. Only a
// missing squad is fatal.
func (s *predictionService) gather(ctx context.Context, req models.PredictionRequest, team models.TeamInfo) (PredictionInputs, error) {
	now := s.now()
	in := PredictionInputs{Team: team, Now: now}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	var (
		g        errgroup.Group
		squadErr error
		info     *models.TeamInfo
	)
	g.Go(func() error {
		in.Squad, squadErr = s.provider.GetTeamSquad(fetchCtx, team.ID)
		return nil
	})
	g.Go(func() error {
		var err error
		if info, err = s.provider.GetTeamInfo(fetchCtx, team.ID); err != nil {
			s.fetchFailed("team_info", team, err)
		}
		return nil
	})
	if req.UseHistorical {
		g.Go(func() error {
			var err error
			if in.RecentLineups, err = s.provider.GetRecentLineups(fetchCtx, team.ID, recentLineupCount); err != nil {
				s.fetchFailed("recent_lineups", team, err)
			}
			return nil
		})
	}
	if req.UseForm {
		g.Go(func() error {
			var err error
			if in.Form, err = s.provider.GetPlayerForm(fetchCtx, team.ID, models.SeasonFor(now)); err != nil {
				s.fetchFailed("form", team, err)
			}
			return nil
		})
	}
	if req.UseInjuries {
		g.Go(func() error {
			in.Availability = s.availability.ForTeam(fetchCtx, team)
			return nil
		})
	}
	if req.FixtureID > 0 || req.UseNews {
		g.Go(func() error {
			var err error
			if req.FixtureID > 0 {
				in.Fixture, err = s.provider.GetFixtureByID(fetchCtx, req.FixtureID)
			} else {
				in.Fixture, err = s.provider.GetNextFixture(fetchCtx, team.ID)
			}
			if err != nil {
				s.fetchFailed("fixture", team, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if squadErr != nil || len(in.Squad) == 0 {
		if squadErr != nil {
			s.fetchFailed("squad", team, squadErr)
		}
		return in, fmt.Errorf("%w: %s", ErrSquadUnavailable, team.Name)
	}
	if info != nil {
		if info.Name == "" {
			info.Name = team.Name
		}
		in.Team = *info
	}

	if req.UseNews {
		matchDate := now
		if in.Fixture != nil && !in.Fixture.Date.IsZero() {
			matchDate = in.Fixture.Date
		}
		newsCtx, cancelNews := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancelNews()
		in.News = s.news.AnalyzeTeamNews(newsCtx, in.Team.Name, matchDate, s.knownPlayers(in.Team.Name, in.Squad))
	}
	return in, nil
}

func (s *predictionService) fetchFailed(input string, team models.TeamInfo, err error) {
	fetchFailures.WithLabelValues(input).Inc()
	s.logger.Warnw("Fetch failed, continuing without it", "input", input, "team", team.Name, "team_id", team.ID, "error", err)
}

func (s *predictionService) knownPlayers(team string, squad []models.PlayerRecord) []string {
	names := s.teams.KnownPlayers(team)
	for _, p := range squad {
		names = append(names, p.Name)
	}
	return names
}

// TeamInjuries returns the current absentees of a team with long-term
// filtering and the impact score.
func (s *predictionService) TeamInjuries(ctx context.Context, team string) (*models.InjuriesResponse, error) {
	info, err := s.teams.Resolve(ctx, team)
	if err != nil {
		return nil, err
	}
	records := s.availability.ForTeam(ctx, *info)
	if records == nil {
		records = []models.AvailabilityRecord{}
	}
	return &models.InjuriesResponse{
		Team:         info.Name,
		Injuries:     records,
		LongTerm:     FilterLongTermInjuries(records, LongTermThresholdDays),
		ImpactScore:  round3(InjuryImpactScore(records)),
		TotalInjured: len(records),
	}, nil
}

// TeamNews analyses news ahead of the team's next fixture.
func (s *predictionService) TeamNews(ctx context.Context, team string) (*models.NewsInsight, error) {
	info, err := s.teams.Resolve(ctx, team)
	if err != nil {
		return nil, err
	}
	matchDate := s.now()
	if next, err := s.provider.GetNextFixture(ctx, info.ID); err == nil && next != nil {
		matchDate = next.Date
	}
	squad, err := s.provider.GetTeamSquad(ctx, info.ID)
	if err != nil {
		s.fetchFailed("squad", *info, err)
	}
	return s.news.AnalyzeTeamNews(ctx, info.Name, matchDate, s.knownPlayers(info.Name, squad)), nil
}

// PlayerAvailability checks one player against the team's injury list.
func (s *predictionService) PlayerAvailability(ctx context.Context, team, player string) (*models.PlayerAvailability, error) {
	info, err := s.teams.Resolve(ctx, team)
	if err != nil {
		return nil, err
	}
	status := CheckPlayerAvailability(player, s.availability.ForTeam(ctx, *info))
	return &status, nil
}

// LastLineup returns the most recent team sheet the provider has.
func (s *predictionService) LastLineup(ctx context.Context, team string) (*models.LastLineupResponse, error) {
	info, err := s.teams.Resolve(ctx, team)
	if err != nil {
		return nil, err
	}
	formation, players, err := s.provider.GetLastLineup(ctx, info.ID)
	if err != nil {
		s.fetchFailed("last_lineup", *info, err)
	}
	if players == nil {
		players = []models.PlayerRecord{}
	}
	return &models.LastLineupResponse{Team: info.Name, Formation: formation, Players: players}, nil
}
