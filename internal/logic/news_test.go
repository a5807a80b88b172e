package logic

import (
	"context"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/models"
)

var arsenalPlayers = []string{"Bukayo Saka", "Gabriel Jesus", "Martin Odegaard", "Declan Rice"}

func newsItems(matchDate time.Time) []models.NewsItem {
	at := matchDate.Add(-2 * time.Hour)
	return []models.NewsItem{
		{Source: "official", Content: "Bukayo Saka will start against Chelsea on Sunday.", PublishedAt: at},
		{Source: "press_conference", Content: "Gabriel Jesus has been ruled out of the weekend.", PublishedAt: at},
		{Source: "twitter_verified", Content: "Martin Odegaard is a doubt after picking up a knock.", PublishedAt: at},
		{Source: "blog", Content: "Expect the side to line up in a 4-2-3-1 again.", PublishedAt: at},
	}
}

func TestExtractInsight(t *testing.T) {
	match := fixedNow
	insight := ExtractInsight(newsItems(match), arsenalPlayers, match)

	if got := insight.LikelyStarters["Bukayo Saka"]; got != 0.9 {
		t.Errorf("Saka starter confidence = %v, want 0.9", got)
	}
	if got := insight.RuledOut["Gabriel Jesus"]; got != 0.95 {
		t.Errorf("Jesus ruled-out confidence = %v, want 0.95", got)
	}
	if got := insight.Doubtful["Martin Odegaard"]; got != 0.49 {
		t.Errorf("Odegaard doubtful confidence = %v, want 0.49", got)
	}
	if insight.FormationHint != "4-5-1" {
		t.Errorf("FormationHint = %q, want 4-5-1", insight.FormationHint)
	}
	if insight.SourceCount != 4 {
		t.Errorf("SourceCount = %d, want 4", insight.SourceCount)
	}
	// quality 0.7875, recency 1, completeness 0.5, consensus 0
	if math.Abs(insight.Confidence-0.611) > 0.001 {
		t.Errorf("Confidence = %v, want ~0.611", insight.Confidence)
	}
	if insight.SourceQuality.Rating != "medium" {
		t.Errorf("SourceQuality = %+v, want medium", insight.SourceQuality)
	}
	if !insight.LatestItemAt.Equal(match.Add(-2 * time.Hour)) {
		t.Errorf("LatestItemAt = %v", insight.LatestItemAt)
	}
}

func TestExtractInsight_MaxAcrossItemsAndThresholds(t *testing.T) {
	items := []models.NewsItem{
		{Source: "blog", Content: "Declan Rice is expected to start."},
		{Source: "official", Content: "Declan Rice will start."},
		{Source: "blog", Content: "Ben White expected to play at right back."},
		{Source: "fan forum", Content: "Kai Havertz is doubtful for the trip."},
	}
	insight := ExtractInsight(items, arsenalPlayers, fixedNow)

	if got := insight.LikelyStarters["Declan Rice"]; got != 0.9 {
		t.Errorf("Rice = %v, want the stronger 0.9", got)
	}
	if _, ok := insight.LikelyStarters["Ben White"]; ok {
		t.Error("weak single-source starter signal (0.35) should be dropped")
	}
	if got := insight.Doubtful["Kai Havertz"]; got != 0.35 {
		t.Errorf("Havertz doubtful = %v, want 0.35 from pattern-matched name", got)
	}
}

func TestExtractInsight_Empty(t *testing.T) {
	insight := ExtractInsight(nil, arsenalPlayers, fixedNow)
	if insight.Confidence != 0 || insight.SourceCount != 0 || insight.Present() {
		t.Errorf("expected empty insight, got %+v", insight)
	}
	if insight.LikelyStarters == nil || insight.RuledOut == nil || insight.Doubtful == nil {
		t.Error("buckets must be initialised")
	}
}

func TestCrossSourceConsensus(t *testing.T) {
	items := []models.NewsItem{
		{Source: "official", Content: "Bukayo Saka will start."},
		{Source: "bbc", Content: "Bukayo Saka is confirmed in the starting xi."},
	}
	single := ExtractInsight(items[:1], arsenalPlayers, fixedNow)
	both := ExtractInsight(items, arsenalPlayers, fixedNow)
	if both.Confidence <= single.Confidence {
		t.Errorf("corroborated news should be more confident: single=%v both=%v", single.Confidence, both.Confidence)
	}
}

func TestSourceWeight(t *testing.T) {
	tests := []struct {
		source string
		want   float64
	}{
		{"official", 1.0},
		{"Official Club Site", 1.0},
		{"press_conference", 0.95},
		{"BBC Sport", 0.9},
		{"Sky Sports", 0.85},
		{"twitter_verified", 0.7},
		{"random blog", 0.5},
	}
	for _, tt := range tests {
		if got := SourceWeight(tt.source); got != tt.want {
			t.Errorf("SourceWeight(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestRecencyDecay(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want float64
	}{
		{time.Hour, 1.0},
		{5*time.Hour + 59*time.Minute, 1.0},
		{6 * time.Hour, 0.8},
		{30 * time.Hour, 0.5},
		{72 * time.Hour, 0.2},
	}
	for _, tt := range tests {
		if got := RecencyDecay(tt.age); got != tt.want {
			t.Errorf("RecencyDecay(%v) = %v, want %v", tt.age, got, tt.want)
		}
	}
}

func TestParseFormationHint(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"they will play 4-4-2", "4-4-2", true},
		{"a 4-2-3-1 shape", "4-5-1", true},
		{"won 2-1 last week", "", false},
		{"5-5-5 chaos, really a 3-5-2", "3-5-2", true},
		{"first 4-3-3 then 3-4-3", "4-3-3", true},
	}
	for _, tt := range tests {
		got, ok := ParseFormationHint(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFormationHint(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractPlayers_KnownFirst(t *testing.T) {
	got := extractPlayers("Leandro Trossard and bukayo saka trained today", arsenalPlayers)
	if len(got) < 2 || got[0] != "Bukayo Saka" || got[1] != "Leandro Trossard" {
		t.Errorf("extractPlayers() = %v", got)
	}
}

func TestNewsAnalyzer_CachesInsight(t *testing.T) {
	collector := &MockCollector{CollectFunc: func(ctx context.Context, team string, matchDate time.Time) []models.NewsItem {
		return newsItems(matchDate)
	}}
	cache := NewMockCache()
	a := NewNewsAnalyzer(collector, cache, 5*time.Minute, zap.NewNop())
	a.now = func() time.Time { return fixedNow }

	first := a.AnalyzeTeamNews(context.Background(), "Arsenal", fixedNow, arsenalPlayers)
	second := a.AnalyzeTeamNews(context.Background(), "Arsenal", fixedNow, arsenalPlayers)

	if collector.Calls != 1 {
		t.Errorf("expected one collection, got %d", collector.Calls)
	}
	if second.FormationHint != first.FormationHint || second.Confidence != first.Confidence {
		t.Errorf("cached insight differs: %+v vs %+v", first, second)
	}
	if ttl := cache.TTLs[newsCacheKey("Arsenal", fixedNow)]; ttl != 5*time.Minute {
		t.Errorf("news TTL = %v", ttl)
	}
}

func TestNewsAnalyzer_NoItems(t *testing.T) {
	cache := NewMockCache()
	a := NewNewsAnalyzer(&MockCollector{}, cache, time.Minute, zap.NewNop())
	insight := a.AnalyzeTeamNews(context.Background(), "Arsenal", fixedNow, nil)
	if insight.Confidence != 0 || insight.Present() {
		t.Errorf("expected empty insight, got %+v", insight)
	}
	if cache.Sets != 0 {
		t.Error("empty insights should not be cached")
	}
}
