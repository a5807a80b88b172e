package logic

import (
	"time"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// PredictionInputs is the full, already fetched input of one prediction.
type PredictionInputs struct {
	Team          models.TeamInfo
	Fixture       *models.Fixture
	Squad         []models.PlayerRecord
	RecentLineups []models.Lineup // oldest first
	Availability  []models.AvailabilityRecord
	News          *models.NewsInsight
	Form          map[string]float64
	Now           time.Time
}

// Engine runs the synchronous part of a prediction: scoring, formation,
// selection and confidence. It holds no per-call state.
type Engine struct {
	Consistency ConsistencyFunc
}

// BuildPrediction is a pure function of its inputs. The ID and cached flag
// are left for the caller.
func (e Engine) BuildPrediction(in PredictionInputs) *models.LineupPrediction {
	news := alignNews(in.News, in.Squad)
	scores := ScorePlayers(in.Squad, in.RecentLineups, in.Availability, news, in.Form)
	formation := PredictFormation(in.RecentLineups, news)
	sel := SelectLineup(scores, formation, in.Squad)

	breakdown := EstimateConfidence(ConfidenceInputs{
		Team:          in.Team.Name,
		Squad:         in.Squad,
		Availability:  in.Availability,
		News:          news,
		RecentLineups: in.RecentLineups,
		Form:          in.Form,
		Now:           in.Now,
	}, e.Consistency)
	breakdown.Caveats = sel.Caveats

	rounded := make(map[string]float64, len(scores))
	for name, s := range scores {
		rounded[name] = round3(s)
	}

	pred := &models.LineupPrediction{
		TeamName:            in.Team.Name,
		TeamID:              in.Team.ID,
		Formation:           sel.Formation,
		StartingXI:          nonNil(sel.StartingXI),
		Substitutes:         nonNil(sel.Substitutes),
		Unavailable:         UnavailablePlayers(in.Squad, in.Availability, news),
		Confidence:          breakdown.Overall,
		ConfidenceBreakdown: breakdown,
		KeyInsights:         KeyInsights(sel, in.Availability, news, in.Form),
		PlayerScores:        rounded,
		InjuryImpact:        round3(InjuryImpactScore(in.Availability)),
		DataSources: models.DataSources{
			Squad:      len(in.Squad) > 0,
			Injury:     len(in.Availability) > 0,
			News:       news.Present(),
			Historical: len(in.RecentLineups) > 0,
			Form:       len(in.Form) > 0,
		},
		PredictedAt: in.Now,
	}
	if in.Fixture != nil {
		pred.FixtureID = in.Fixture.ID
		pred.Opponent = in.Fixture.Opponent(in.Team.ID).Name
		date := in.Fixture.Date
		pred.MatchDate = &date
	}
	return pred
}

func nonNil(ps []models.PlayerRecord) []models.PlayerRecord {
	if ps == nil {
		return []models.PlayerRecord{}
	}
	return ps
}
