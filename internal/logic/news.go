package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/models"
)

const (
	// MaxConfidence is the ceiling on every reported confidence value.
	MaxConfidence = 0.95

	mentionWindow = 100

	starterThreshold  = 0.5
	doubtfulThreshold = 0.3
	ruledOutThreshold = 0.2
)

type newsBucket int

const (
	bucketStarter newsBucket = iota
	bucketDoubtful
	bucketRuledOut
)

// lineupRule is one row of the pattern table. Weight is the start likelihood
// the wording implies; negative buckets score on how strongly it rules the
// player out, i.e. 1 - weight.
type lineupRule struct {
	category string
	bucket   newsBucket
	weight   float64
	patterns []*regexp.Regexp
}

func (r lineupRule) strength() float64 {
	if r.bucket == bucketStarter {
		return r.weight
	}
	return 1 - r.weight
}

func mustPatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

var lineupRules = []lineupRule{
	{"confirmed_start", bucketStarter, 0.9, mustPatterns(
		`\bwill start\b`, `\bstarting (?:xi|eleven|lineup)\b`, `\bconfirmed\b`, `\bnamed in the (?:team|side|xi)\b`,
	)},
	{"likely_start", bucketStarter, 0.7, mustPatterns(
		`\bexpected to (?:start|play|feature)\b`, `\blikely to (?:start|play|feature)\b`, `\bset to (?:start|play|feature)\b`,
		`\bin contention\b`, `\bfit (?:to play|again)\b`, `\bback in training\b`, `\bavailable\b`,
	)},
	{"doubtful", bucketDoubtful, 0.3, mustPatterns(
		`\bdoubt(?:ful)?\b`, `\bquestionable\b`, `\bfitness test\b`, `\bfacing a race\b`, `\bgame[- ]time decision\b`, `\bknock\b`,
	)},
	{"ruled_out", bucketRuledOut, 0.0, mustPatterns(
		`\bruled out\b`, `\bwill miss\b`, `\bsidelined\b`, `\bsuspended\b`, `\bunavailable\b`, `\bout for\b`, `\bwon'?t (?:play|feature)\b`,
	)},
}

var sourceWeights = []struct {
	label  string
	weight float64
}{
	{"official", 1.0},
	{"press_conference", 0.95},
	{"press", 0.95},
	{"bbc", 0.9},
	{"sky", 0.85},
	{"guardian", 0.85},
	{"athletic", 0.85},
	{"telegraph", 0.8},
	{"journalist", 0.8},
	{"twitter_verified", 0.7},
	{"social", 0.7},
}

const defaultSourceWeight = 0.5

var (
	formationPattern = regexp.MustCompile(`\b([3-5])-([1-5])-([1-5])(?:-([1-5]))?\b`)
	namePattern      = regexp.MustCompile(`\b[A-Z][a-z'\-]+(?:\s+[A-Z][a-z'\-]+){1,2}\b`)
	quotePattern     = regexp.MustCompile(`["“]([^"”]{10,200})["”]`)

	tacticalKeywords = []string{"tactical", "system", "approach", "strategy", "formation change", "switch to"}
	managerKeywords  = []string{"manager", "coach", "head coach", "boss", "press conference"}
	quoteLineupVerbs = []string{"start", "play", "fit", "available", "ready", "team", "squad"}
	nonPlayerBigrams = map[string]bool{"the": true, "premier": true, "champions": true, "press": true, "head": true, "manager": true, "match": true, "team": true, "football": true, "league": true, "sky": true, "bbc": true}
)

// SourceWeight returns the reliability weight of a news source label.
func SourceWeight(source string) float64 {
	s := strings.ToLower(source)
	for _, w := range sourceWeights {
		if strings.Contains(s, w.label) {
			return w.weight
		}
	}
	return defaultSourceWeight
}

// RecencyDecay buckets the age of an item into a freshness weight.
func RecencyDecay(age time.Duration) float64 {
	switch h := age.Hours(); {
	case h < 6:
		return 1.0
	case h < 24:
		return 0.8
	case h < 48:
		return 0.5
	default:
		return 0.2
	}
}

// ParseFormationHint returns the first valid formation mentioned in text, with
// four-line shapes folded into three by merging the middle lines.
func ParseFormationHint(text string) (string, bool) {
	for _, m := range formationPattern.FindAllStringSubmatch(text, -1) {
		parts := make([]string, 0, 4)
		for _, g := range m[1:] {
			if g != "" {
				parts = append(parts, g)
			}
		}
		if f, ok := NormalizeFormation(strings.Join(parts, "-")); ok {
			return f, true
		}
	}
	return "", false
}

// extractPlayers finds candidate player names in content. Known players come
// first in the order given, then capitalised name patterns in order of appearance.
func extractPlayers(content string, known []string) []string {
	lower := strings.ToLower(content)
	var names []string
	seen := map[string]bool{}
	add := func(n string) {
		k := strings.ToLower(n)
		if !seen[k] {
			seen[k] = true
			names = append(names, n)
		}
	}
	for _, k := range known {
		if k = strings.TrimSpace(k); k != "" && strings.Contains(lower, strings.ToLower(k)) {
			add(k)
		}
	}
	for _, m := range namePattern.FindAllString(content, -1) {
		first := strings.ToLower(strings.Fields(m)[0])
		if nonPlayerBigrams[first] {
			continue
		}
		covered := false
		for n := range seen {
			if strings.Contains(n, strings.ToLower(m)) {
				covered = true
				break
			}
		}
		if !covered {
			add(m)
		}
	}
	return names
}

// mentionWindows returns the text around every mention of name.
func mentionWindows(lower, name string) []string {
	needle := strings.ToLower(name)
	var out []string
	for from := 0; ; {
		i := strings.Index(lower[from:], needle)
		if i < 0 {
			return out
		}
		i += from
		start, end := max(0, i-mentionWindow), min(len(lower), i+len(needle)+mentionWindow)
		out = append(out, lower[start:end])
		from = i + len(needle)
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

type newsSignal struct {
	value   float64
	sources map[string]bool
}

// ExtractInsight turns collected news items into a structured insight. It is
// pure: the same items, players and reference time give the same insight.
func ExtractInsight(items []models.NewsItem, knownPlayers []string, matchDate time.Time) *models.NewsInsight {
	insight := models.NewNewsInsight()
	insight.SourceCount = len(items)
	if len(items) == 0 {
		return insight
	}

	signals := [3]map[string]*newsSignal{{}, {}, {}}
	display := map[string]string{}

	for _, item := range items {
		content := item.Content
		if item.Title != "" {
			content = item.Title + ". " + content
		}
		lower := strings.ToLower(content)
		reliability := SourceWeight(item.Source)

		for _, player := range extractPlayers(content, knownPlayers) {
			key := strings.ToLower(player)
			if _, ok := display[key]; !ok {
				display[key] = player
			}
			for _, window := range mentionWindows(lower, player) {
				for _, rule := range lineupRules {
					if !anyMatch(rule.patterns, window) {
						continue
					}
					v := rule.strength() * reliability
					s := signals[rule.bucket][key]
					if s == nil {
						s = &newsSignal{sources: map[string]bool{}}
						signals[rule.bucket][key] = s
					}
					s.value = math.Max(s.value, v)
					s.sources[strings.ToLower(item.Source)] = true
				}
			}
		}

		if insight.FormationHint == "" {
			if f, ok := ParseFormationHint(lower); ok {
				insight.FormationHint = f
			}
		}
		if containsAny(lower, tacticalKeywords) {
			note := item.Title
			if note == "" {
				note = truncate(item.Content, 120)
			}
			insight.TacticalChanges = append(insight.TacticalChanges, note)
		}
		if containsAny(lower, managerKeywords) {
			for _, m := range quotePattern.FindAllStringSubmatch(content, -1) {
				if containsAny(strings.ToLower(m[1]), quoteLineupVerbs) {
					insight.ManagerQuotes = append(insight.ManagerQuotes, models.ManagerQuote{
						Quote: m[1], Source: item.Source, Date: item.PublishedAt,
					})
				}
			}
		}
		if item.PublishedAt.After(insight.LatestItemAt) {
			insight.LatestItemAt = item.PublishedAt
		}
	}

	thresholds := [3]float64{starterThreshold, doubtfulThreshold, ruledOutThreshold}
	targets := [3]map[string]float64{insight.LikelyStarters, insight.Doubtful, insight.RuledOut}
	for b := range signals {
		for key, s := range signals[b] {
			if s.value > thresholds[b] {
				targets[b][display[key]] = round3(s.value)
			}
		}
	}

	quality := averageSourceWeight(items)
	insight.SourceQuality = models.SourceQuality{Rating: qualityRating(quality), Score: round3(quality)}
	insight.Confidence = newsConfidence(items, insight, signals, quality, matchDate)
	return insight
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func averageSourceWeight(items []models.NewsItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += SourceWeight(it.Source)
	}
	return sum / float64(len(items))
}

func qualityRating(score float64) string {
	switch {
	case score > 0.8:
		return "high"
	case score > 0.6:
		return "medium"
	default:
		return "low"
	}
}

// newsConfidence blends source quality, recency, completeness and consensus.
func newsConfidence(items []models.NewsItem, insight *models.NewsInsight, signals [3]map[string]*newsSignal, quality float64, ref time.Time) float64 {
	if len(items) == 0 {
		return 0
	}

	var recency float64
	dated := 0
	for _, it := range items {
		if it.PublishedAt.IsZero() {
			continue
		}
		recency += RecencyDecay(ref.Sub(it.PublishedAt))
		dated++
	}
	if dated > 0 {
		recency /= float64(dated)
	}

	var completeness float64
	if len(insight.LikelyStarters) >= 7 {
		completeness += 0.5
	}
	if insight.FormationHint != "" {
		completeness += 0.3
	}
	if len(insight.RuledOut) > 0 {
		completeness += 0.2
	}

	consensus := 0.0
	if len(items) > 1 {
		consensus = crossSourceConsensus(signals)
	}

	v := 0.3*quality + 0.25*recency + 0.25*completeness + 0.2*consensus
	return round3(math.Min(v, MaxConfidence))
}

// crossSourceConsensus is the share of flagged players that at least two
// distinct sources agree on. Without any flagged player it is neutral.
func crossSourceConsensus(signals [3]map[string]*newsSignal) float64 {
	flagged, agreed := 0, 0
	for _, bucket := range signals {
		for _, s := range bucket {
			flagged++
			if len(s.sources) >= 2 {
				agreed++
			}
		}
	}
	if flagged == 0 {
		return 0.5
	}
	return float64(agreed) / float64(flagged)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// NewsAnalyzer collects and analyses team news, caching insights briefly.
type NewsAnalyzer struct {
	collector NewsCollector
	cache     Cache
	ttl       time.Duration
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewNewsAnalyzer(collector NewsCollector, cache Cache, ttl time.Duration, logger *zap.Logger) *NewsAnalyzer {
	return &NewsAnalyzer{
		collector: collector,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.Sugar(),
		now:       time.Now,
	}
}

func newsCacheKey(team string, matchDate time.Time) string {
	return fmt.Sprintf("news:%s:%s", strings.ToLower(strings.TrimSpace(team)), matchDate.Format("2006-01-02"))
}

// AnalyzeTeamNews never fails: a total collection failure yields an empty
// insight with zero confidence.
func (a *NewsAnalyzer) AnalyzeTeamNews(ctx context.Context, team string, matchDate time.Time, knownPlayers []string) *models.NewsInsight {
	if matchDate.IsZero() {
		matchDate = a.now()
	}
	key := newsCacheKey(team, matchDate)
	if a.cache != nil {
		if raw, ok, err := a.cache.Get(ctx, key); err != nil {
			a.logger.Warnw("News cache read failed", "team", team, "error", err)
		} else if ok {
			var cached models.NewsInsight
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached
			}
		}
	}

	var items []models.NewsItem
	if a.collector != nil {
		items = a.collector.Collect(ctx, team, matchDate)
	}
	ref := a.now()
	if matchDate.Before(ref) {
		ref = matchDate
	}
	insight := ExtractInsight(items, knownPlayers, ref)
	insight.AnalyzedAt = a.now()

	if a.cache != nil && len(items) > 0 {
		if raw, err := json.Marshal(insight); err == nil {
			if err := a.cache.Set(ctx, key, raw, a.ttl); err != nil {
				a.logger.Warnw("News cache write failed", "team", team, "error", err)
			}
		}
	}
	a.logger.Infow("News analysed", "team", team, "items", len(items), "confidence", insight.Confidence, "hint", insight.FormationHint)
	return insight
}

// formatPct renders a [0,1] value as a whole percentage.
func formatPct(v float64) string {
	return strconv.Itoa(int(math.Round(v*100))) + "%"
}
