package logic

import (
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/kickoffxi/lineup-api/internal/models"
)

// surnameSimilarity is the minimum Levenshtein similarity between surnames
// for a news name to be tied to a squad player.
const surnameSimilarity = 0.8

// MatchSquadName returns the squad name that a name written in news refers
// to. News usually spells players out in full ("Bukayo Saka") while squads
// from the provider abbreviate ("B. Saka"). An exact match wins; otherwise
// surnames must be similar, first initials must agree when both are present,
// and exactly one squad player may be closest.
func MatchSquadName(name string, squad []models.PlayerRecord) (string, bool) {
	for _, p := range squad {
		if models.SameName(p.Name, name) {
			return p.Name, true
		}
	}

	given, surname := splitName(name)
	if surname == "" {
		return "", false
	}

	best, bestScore, tied := "", 0.0, false
	for _, p := range squad {
		pGiven, pSurname := splitName(p.Name)
		if pSurname == "" || !initialsAgree(given, pGiven) {
			continue
		}
		score := nameSimilarity(surname, pSurname)
		switch {
		case score < surnameSimilarity:
		case score > bestScore:
			best, bestScore, tied = p.Name, score, false
		case score == bestScore:
			tied = true
		}
	}
	if best == "" || tied {
		return "", false
	}
	return best, true
}

// splitName returns the first token and the last token of a name. Initials
// lose their dots, so "B. Saka" and "B.Saka" both give ("B", "Saka").
func splitName(name string) (given, surname string) {
	fields := strings.Fields(strings.ReplaceAll(name, ".", " "))
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	default:
		return fields[0], fields[len(fields)-1]
	}
}

func initialsAgree(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	ra, _ := utf8.DecodeRuneInString(a)
	rb, _ := utf8.DecodeRuneInString(b)
	return foldEqual(string(ra), string(rb))
}

// foldEqual compares two strings ignoring case and diacritics.
func foldEqual(a, b string) bool {
	return fuzzy.MatchNormalizedFold(a, b) && fuzzy.MatchNormalizedFold(b, a)
}

func nameSimilarity(a, b string) float64 {
	if foldEqual(a, b) {
		return 1
	}
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(longest)
}

// alignNews rekeys the news buckets by squad names so that signals reach
// the squad records they talk about. Names matching no squad player keep
// their written form. The input insight is not modified.
func alignNews(news *models.NewsInsight, squad []models.PlayerRecord) *models.NewsInsight {
	if news == nil || len(squad) == 0 {
		return news
	}
	aligned := *news
	aligned.LikelyStarters = alignBucket(news.LikelyStarters, squad)
	aligned.Doubtful = alignBucket(news.Doubtful, squad)
	aligned.RuledOut = alignBucket(news.RuledOut, squad)
	return &aligned
}

func alignBucket(bucket map[string]float64, squad []models.PlayerRecord) map[string]float64 {
	out := make(map[string]float64, len(bucket))
	for name, c := range bucket {
		key := name
		if matched, ok := MatchSquadName(name, squad); ok {
			key = matched
		}
		if prev, ok := out[key]; !ok || c > prev {
			out[key] = c
		}
	}
	return out
}
