package models

import "time"

// NewsItem is one piece of collected team news.
type NewsItem struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_date"`
}

// ManagerQuote is a lineup-relevant quotation lifted from news content.
type ManagerQuote struct {
	Quote  string    `json:"quote"`
	Source string    `json:"source"`
	Date   time.Time `json:"date"`
}

// SourceQuality summarises how trustworthy the collected sources were.
type SourceQuality struct {
	Rating string  `json:"rating"` // high, medium or low
	Score  float64 `json:"score"`
}

// NewsInsight is the structured extraction of lineup signals from news.
// Bucket maps hold player name -> confidence in [0,1].
type NewsInsight struct {
	LikelyStarters  map[string]float64 `json:"likely_starters"`
	Doubtful        map[string]float64 `json:"doubtful"`
	RuledOut        map[string]float64 `json:"ruled_out"`
	FormationHint   string             `json:"formation_hint,omitempty"`
	TacticalChanges []string           `json:"tactical_changes,omitempty"`
	ManagerQuotes   []ManagerQuote     `json:"manager_quotes,omitempty"`
	Confidence      float64            `json:"confidence"`
	SourceCount     int                `json:"source_count"`
	SourceQuality   SourceQuality      `json:"source_quality"`
	LatestItemAt    time.Time          `json:"latest_item_at,omitempty"`
	AnalyzedAt      time.Time          `json:"analyzed_at"`
}

// NewNewsInsight returns an empty insight with initialised buckets.
func NewNewsInsight() *NewsInsight {
	return &NewsInsight{
		LikelyStarters: map[string]float64{},
		Doubtful:       map[string]float64{},
		RuledOut:       map[string]float64{},
	}
}

// Present reports whether any news actually contributed to the insight.
func (n *NewsInsight) Present() bool {
	return n != nil && n.SourceCount > 0
}

// lookup finds a player in a bucket by case-insensitive name. When several
// spellings match, the strongest signal wins.
func lookup(bucket map[string]float64, name string) (float64, bool) {
	if c, ok := bucket[name]; ok {
		return c, true
	}
	best, found := 0.0, false
	for k, c := range bucket {
		if SameName(k, name) && (!found || c > best) {
			best, found = c, true
		}
	}
	return best, found
}

// RuledOutConfidence returns the ruled-out confidence for name, if any.
func (n *NewsInsight) RuledOutConfidence(name string) (float64, bool) {
	if n == nil {
		return 0, false
	}
	return lookup(n.RuledOut, name)
}

// StarterConfidence returns the likely-starter confidence for name, if any.
func (n *NewsInsight) StarterConfidence(name string) (float64, bool) {
	if n == nil {
		return 0, false
	}
	return lookup(n.LikelyStarters, name)
}

// DoubtfulConfidence returns the doubtful confidence for name, if any.
func (n *NewsInsight) DoubtfulConfidence(name string) (float64, bool) {
	if n == nil {
		return 0, false
	}
	return lookup(n.Doubtful, name)
}
