package provider

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirectory_Lookup(t *testing.T) {
	dir, err := LoadDirectory("")
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	tests := []struct {
		name   string
		input  string
		wantID int
		wantOK bool
	}{
		{"exact", "Arsenal", 42, true},
		{"case and spacing", "  manchester   UNITED ", 33, true},
		{"alias", "Man Utd", 33, true},
		{"alias psg", "PSG", 85, true},
		{"fuzzy misspelling", "Liverpol", 40, true},
		{"fuzzy arsenal", "Arsenel", 42, true},
		{"too different", "Xyzzy Rovers", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := dir.Lookup(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if info.ID != tt.wantID {
				t.Errorf("Lookup(%q) id = %d, want %d", tt.input, info.ID, tt.wantID)
			}
		})
	}
}

func TestDirectory_KnownPlayers(t *testing.T) {
	dir, err := LoadDirectory("")
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	players := dir.KnownPlayers("liverpool")
	found := false
	for _, p := range players {
		if p == "Mohamed Salah" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Mohamed Salah among %v", players)
	}

	players[0] = "mutated"
	if dir.KnownPlayers("liverpool")[0] == "mutated" {
		t.Error("KnownPlayers must return a copy")
	}
	if got := dir.KnownPlayers("Everton"); len(got) != 0 {
		t.Errorf("expected no known players, got %v", got)
	}
}

func TestLoadDirectory_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams.yaml")
	doc := "teams:\n  - id: 7\n    name: Test Town\n    aliases: [towners]\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	dir, err := LoadDirectory(path)
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if len(dir.Teams()) != 1 {
		t.Fatalf("expected 1 team, got %d", len(dir.Teams()))
	}
	if info, ok := dir.Lookup("towners"); !ok || info.ID != 7 {
		t.Errorf("alias lookup failed: %+v %v", info, ok)
	}
	if _, ok := dir.Lookup("Arsenal"); ok {
		t.Error("override must replace the embedded table")
	}

	if _, err := LoadDirectory(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseDirectory_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing id", "teams:\n  - name: Nobody\n"},
		{"missing name", "teams:\n  - id: 3\n"},
		{"bad yaml", "teams: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDirectory([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
