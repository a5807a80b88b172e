package provider

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/kickoffxi/lineup-api/internal/models"
)

//go:embed teams.yaml
var embeddedTeams []byte

// fuzzyThreshold is the minimum name similarity for a fuzzy directory hit.
const fuzzyThreshold = 0.8

// TeamEntry is one team in the directory file.
type TeamEntry struct {
	ID      int      `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Country string   `yaml:"country" json:"country,omitempty"`
	Aliases []string `yaml:"aliases" json:"aliases,omitempty"`
	Players []string `yaml:"players" json:"players,omitempty"`
}

func (t TeamEntry) info() models.TeamInfo {
	return models.TeamInfo{ID: t.ID, Name: t.Name, Country: t.Country}
}

type directoryFile struct {
	Teams []TeamEntry `yaml:"teams"`
}

// Directory is the local table of known teams, consulted before the
// provider's search endpoint.
type Directory struct {
	teams  []TeamEntry
	byName map[string]int
}

// LoadDirectory reads the directory from path, or the embedded table when
// path is empty.
func LoadDirectory(path string) (*Directory, error) {
	data := embeddedTeams
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read team directory: %w", err)
		}
		data = b
	}
	return ParseDirectory(data)
}

// ParseDirectory decodes a YAML directory document.
func ParseDirectory(data []byte) (*Directory, error) {
	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse team directory: %w", err)
	}
	d := &Directory{byName: map[string]int{}}
	for _, t := range file.Teams {
		if t.ID <= 0 || strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("parse team directory: entry %q needs an id and a name", t.Name)
		}
		idx := len(d.teams)
		d.teams = append(d.teams, t)
		for _, key := range append([]string{t.Name}, t.Aliases...) {
			d.byName[normalizeTeam(key)] = idx
		}
	}
	return d, nil
}

func normalizeTeam(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Resolve finds a team by exact name or alias, then by fuzzy similarity.
func (d *Directory) Resolve(name string) (TeamEntry, bool) {
	key := normalizeTeam(name)
	if key == "" {
		return TeamEntry{}, false
	}
	if idx, ok := d.byName[key]; ok {
		return d.teams[idx], true
	}

	best, bestScore := -1, 0.0
	for candidate, idx := range d.byName {
		distance := fuzzy.LevenshteinDistance(key, candidate)
		maxLen := float64(max(len(key), len(candidate)))
		similarity := 1 - float64(distance)/maxLen
		if similarity >= fuzzyThreshold && (similarity > bestScore || (similarity == bestScore && idx < best)) {
			best, bestScore = idx, similarity
		}
	}
	if best < 0 {
		return TeamEntry{}, false
	}
	return d.teams[best], true
}

// Lookup resolves name to provider team info.
func (d *Directory) Lookup(name string) (models.TeamInfo, bool) {
	t, ok := d.Resolve(name)
	if !ok {
		return models.TeamInfo{}, false
	}
	return t.info(), true
}

// KnownPlayers lists the players the directory associates with a team.
func (d *Directory) KnownPlayers(team string) []string {
	t, ok := d.Resolve(team)
	if !ok {
		return nil
	}
	return append([]string(nil), t.Players...)
}

// Teams returns every directory entry in file order.
func (d *Directory) Teams() []TeamEntry {
	return append([]TeamEntry(nil), d.teams...)
}
