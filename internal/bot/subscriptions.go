package bot

import (
	"sort"
	"strings"
	"sync"
)

// Subscriptions records which chats follow which teams. Teams are keyed
// case-insensitively and keep the first spelling seen for display.
type Subscriptions struct {
	mu     sync.RWMutex
	byChat map[int64]map[string]struct{}
	names  map[string]string
}

func NewSubscriptions() *Subscriptions {
	return &Subscriptions{
		byChat: map[int64]map[string]struct{}{},
		names:  map[string]string{},
	}
}

func teamKey(team string) string {
	return strings.ToLower(strings.Join(strings.Fields(team), " "))
}

// Subscribe returns false if the chat already follows the team.
func (s *Subscriptions) Subscribe(chatID int64, team string) bool {
	key := teamKey(team)
	if key == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	teams, ok := s.byChat[chatID]
	if !ok {
		teams = map[string]struct{}{}
		s.byChat[chatID] = teams
	}
	if _, ok := teams[key]; ok {
		return false
	}
	teams[key] = struct{}{}
	if _, ok := s.names[key]; !ok {
		s.names[key] = strings.TrimSpace(team)
	}
	return true
}

// Unsubscribe returns false if the chat did not follow the team.
func (s *Subscriptions) Unsubscribe(chatID int64, team string) bool {
	key := teamKey(team)
	s.mu.Lock()
	defer s.mu.Unlock()

	teams, ok := s.byChat[chatID]
	if !ok {
		return false
	}
	if _, ok := teams[key]; !ok {
		return false
	}
	delete(teams, key)
	if len(teams) == 0 {
		delete(s.byChat, chatID)
	}
	if !s.followedLocked(key) {
		delete(s.names, key)
	}
	return true
}

func (s *Subscriptions) followedLocked(key string) bool {
	for _, teams := range s.byChat {
		if _, ok := teams[key]; ok {
			return true
		}
	}
	return false
}

// ForChat lists the teams a chat follows, sorted.
func (s *Subscriptions) ForChat(chatID int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.byChat[chatID]))
	for key := range s.byChat[chatID] {
		out = append(out, s.names[key])
	}
	sort.Strings(out)
	return out
}

// Teams lists every followed team once, sorted.
func (s *Subscriptions) Teams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Subscribers lists the chats following a team in ascending id order.
func (s *Subscriptions) Subscribers(team string) []int64 {
	key := teamKey(team)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []int64
	for chatID, teams := range s.byChat {
		if _, ok := teams[key]; ok {
			out = append(out, chatID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
