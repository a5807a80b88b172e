package logic

import (
	"sort"

	"github.com/kickoffxi/lineup-api/internal/models"
)

const (
	StartingSize   = 11
	MaxSubstitutes = 7
)

// Caveats surfaced when the selection had to bend its rules.
const (
	CaveatNoGoalkeeper      = "no_available_goalkeeper"
	CaveatBackfilled        = "formation_slots_backfilled"
	CaveatUnavailablePicked = "unavailable_players_selected"
	CaveatExtraGoalkeeper   = "extra_goalkeeper_selected"
	CaveatSmallSquad        = "squad_below_eleven"
	CaveatDefaultFormation  = "formation_defaulted"
)

// Selection is the outcome of SelectLineup.
type Selection struct {
	Formation   string
	StartingXI  []models.PlayerRecord
	Substitutes []models.PlayerRecord
	Caveats     []string
}

type candidate struct {
	player models.PlayerRecord
	score  float64
	order  int
}

func bucketRank(p models.Position) int {
	for i, b := range models.Buckets {
		if p == b {
			return i
		}
	}
	return len(models.Buckets)
}

// byScore sorts by descending score, keeping squad order on ties.
func byScore(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].score > cs[j].score })
}

// SelectLineup picks the starting eleven and up to seven substitutes.
// Players scoring zero are only picked when nobody eligible is left.
func SelectLineup(scores PlayerScores, formation string, squad []models.PlayerRecord) Selection {
	var sel Selection
	f, err := ParseFormation(formation)
	if err != nil {
		f, _ = ParseFormation(DefaultFormation)
		sel.Caveats = append(sel.Caveats, CaveatDefaultFormation)
	}
	sel.Formation = f.String()
	if len(squad) < StartingSize {
		sel.Caveats = append(sel.Caveats, CaveatSmallSquad)
	}

	buckets := map[models.Position][]candidate{}
	var eligible, ineligible []candidate
	for i, p := range squad {
		c := candidate{player: p, score: scores.Lookup(p.Name), order: i}
		if c.score > 0 {
			buckets[p.Position] = append(buckets[p.Position], c)
			eligible = append(eligible, c)
		} else {
			ineligible = append(ineligible, c)
		}
	}
	for _, cs := range buckets {
		byScore(cs)
	}
	byScore(eligible)

	picked := map[int]bool{}
	pick := func(c candidate) {
		picked[c.order] = true
		sel.StartingXI = append(sel.StartingXI, c.player)
	}
	take := func(cs []candidate, n int) {
		for _, c := range cs {
			if n == 0 || len(sel.StartingXI) == StartingSize {
				return
			}
			if !picked[c.order] {
				pick(c)
				n--
			}
		}
	}

	haveKeeper := false
	if gks := buckets[models.PositionGoalkeeper]; len(gks) > 0 {
		pick(gks[0])
		haveKeeper = true
	} else {
		sel.Caveats = append(sel.Caveats, CaveatNoGoalkeeper)
		take(eligible, 1)
	}

	take(buckets[models.PositionDefender], f.Defenders)
	take(buckets[models.PositionMidfielder], f.Midfielders)
	take(buckets[models.PositionAttacker], f.Attackers)

	outfield := func(cs []candidate) []candidate {
		var out []candidate
		for _, c := range cs {
			if !haveKeeper || c.player.Position != models.PositionGoalkeeper {
				out = append(out, c)
			}
		}
		return out
	}

	if n := len(sel.StartingXI); n < StartingSize {
		take(outfield(eligible), StartingSize-n)
		if len(sel.StartingXI) > n {
			sel.Caveats = append(sel.Caveats, CaveatBackfilled)
		}
	}
	if n := len(sel.StartingXI); n < StartingSize {
		take(outfield(ineligible), StartingSize-n)
		if len(sel.StartingXI) > n {
			sel.Caveats = append(sel.Caveats, CaveatUnavailablePicked)
		}
	}
	if n := len(sel.StartingXI); n < StartingSize {
		rest := append(append([]candidate{}, eligible...), ineligible...)
		take(rest, StartingSize-n)
		if len(sel.StartingXI) > n {
			sel.Caveats = append(sel.Caveats, CaveatExtraGoalkeeper)
		}
	}

	var bench []candidate
	for _, c := range eligible {
		if !picked[c.order] {
			bench = append(bench, c)
		}
	}
	sort.SliceStable(bench, func(i, j int) bool {
		if bench[i].score != bench[j].score {
			return bench[i].score > bench[j].score
		}
		if ri, rj := bucketRank(bench[i].player.Position), bucketRank(bench[j].player.Position); ri != rj {
			return ri < rj
		}
		return bench[i].order < bench[j].order
	})
	for i := 0; i < len(bench) && i < MaxSubstitutes; i++ {
		sel.Substitutes = append(sel.Substitutes, bench[i].player)
	}
	return sel
}
