// Package news collects recent team news items from configured feeds.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/kickoffxi/lineup-api/internal/models"
)

const (
	// Window is how far before the match an item may be published and still
	// count as team news.
	Window = 72 * time.Hour
	// DefaultLimit bounds the items kept per source.
	DefaultLimit = 20
)

// Source is one news outlet. The label doubles as the item source used for
// reliability weighting.
type Source interface {
	Label() string
	Collect(ctx context.Context, team string, matchDate time.Time) ([]models.NewsItem, error)
}

// FeedSource reads a JSON feed over HTTP. A "{team}" placeholder in the URL
// is replaced with the escaped team name; feeds without one are filtered to
// items that mention the team.
type FeedSource struct {
	label  string
	url    string
	limit  int
	client *http.Client
}

// NewFeedSource returns a feed source. A nil client gets a 10 second timeout.
func NewFeedSource(label, feedURL string, client *http.Client) *FeedSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &FeedSource{label: label, url: feedURL, limit: DefaultLimit, client: client}
}

func (s *FeedSource) Label() string { return s.label }

type feedItem struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	Link        string `json:"link"`
	PublishedAt string `json:"published_at"`
	Published   string `json:"published"`
}

// feedDocument accepts both a bare array and an {"items": [...]} object.
type feedDocument []feedItem

func (d *feedDocument) UnmarshalJSON(data []byte) error {
	var items []feedItem
	if err := json.Unmarshal(data, &items); err == nil {
		*d = items
		return nil
	}
	var wrapped struct {
		Items    []feedItem `json:"items"`
		Articles []feedItem `json:"articles"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*d = append(wrapped.Items, wrapped.Articles...)
	return nil
}

var timeLayouts = []string{time.RFC3339, time.RFC1123Z, time.RFC1123, "2006-01-02 15:04:05", "2006-01-02"}

func parsePublished(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *FeedSource) Collect(ctx context.Context, team string, matchDate time.Time) ([]models.NewsItem, error) {
	templated := strings.Contains(s.url, "{team}")
	target := strings.ReplaceAll(s.url, "{team}", url.QueryEscape(team))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", s.label, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.label, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s: unexpected status %d", s.label, resp.StatusCode)
	}

	var doc feedDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: decode feed: %w", s.label, err)
	}
	return s.filter(doc, team, matchDate, !templated), nil
}

// filter keeps items published inside the window before matchDate, newest
// first, capped at the source limit.
func (s *FeedSource) filter(doc feedDocument, team string, matchDate time.Time, mustMention bool) []models.NewsItem {
	from := matchDate.Add(-Window)
	lowerTeam := strings.ToLower(team)

	var items []models.NewsItem
	for _, fi := range doc {
		published, ok := parsePublished(firstNonEmpty(fi.PublishedAt, fi.Published))
		if !ok || published.Before(from) || published.After(matchDate) {
			continue
		}
		content := firstNonEmpty(fi.Content, fi.Summary)
		if mustMention && !strings.Contains(strings.ToLower(fi.Title+" "+content), lowerTeam) {
			continue
		}
		items = append(items, models.NewsItem{
			Title:       strings.TrimSpace(fi.Title),
			Content:     strings.TrimSpace(content),
			Source:      s.label,
			URL:         firstNonEmpty(fi.URL, fi.Link),
			PublishedAt: published,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].PublishedAt.After(items[j].PublishedAt) })
	if len(items) > s.limit {
		items = items[:s.limit]
	}
	return items
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// ParseFeeds turns "label=url" entries into feed sources.
func ParseFeeds(entries []string, client *http.Client) ([]Source, error) {
	var sources []Source
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		label, feedURL, ok := strings.Cut(entry, "=")
		label, feedURL = strings.TrimSpace(label), strings.TrimSpace(feedURL)
		if !ok || label == "" || feedURL == "" {
			return nil, fmt.Errorf("invalid news feed %q: want label=url", entry)
		}
		if _, err := url.Parse(strings.ReplaceAll(feedURL, "{team}", "x")); err != nil {
			return nil, fmt.Errorf("invalid news feed %q: %w", entry, err)
		}
		sources = append(sources, NewFeedSource(strings.ToLower(label), feedURL, client))
	}
	return sources, nil
}
