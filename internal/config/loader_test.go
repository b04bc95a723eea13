package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/guess-the-met/internal/game"
)

func TestEmbeddedDefaultsMatchDefaultConfig(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	def := DefaultConfig()

	if cfg.Rules.FeedbackDelay != def.Rules.FeedbackDelay {
		t.Errorf("FeedbackDelay = %v, want %v", cfg.Rules.FeedbackDelay, def.Rules.FeedbackDelay)
	}
	if cfg.Rules.Obfuscation != def.Rules.Obfuscation {
		t.Errorf("Obfuscation = %+v, want %+v", cfg.Rules.Obfuscation, def.Rules.Obfuscation)
	}
	if cfg.Source.Met.BaseURL != def.Source.Met.BaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Source.Met.BaseURL, def.Source.Met.BaseURL)
	}
	if len(cfg.Settings.Mediums) != len(def.Settings.Mediums) || len(cfg.Settings.Countries) != len(def.Settings.Countries) {
		t.Error("embedded choice lists differ from DefaultConfig")
	}
	if cfg.Scores.TopN != 10 || cfg.Scores.NameMaxLength != 15 {
		t.Errorf("Scores = %+v", cfg.Scores)
	}
}

func TestGameRulesFromDefaults(t *testing.T) {
	got := DefaultConfig().GameRules()
	want := game.DefaultRules()

	if got.StartingLives != want.StartingLives || got.BaseScore != want.BaseScore {
		t.Errorf("lives/base = %d/%d, want %d/%d", got.StartingLives, got.BaseScore, want.StartingLives, want.BaseScore)
	}
	if got.MinObfuscation != 5 || got.MaxObfuscation != 30 || got.RevealObfuscation != 0 {
		t.Errorf("obfuscation bounds = %d..%d reveal %d", got.MinObfuscation, got.MaxObfuscation, got.RevealObfuscation)
	}
	for _, d := range game.Difficulties() {
		if got.For(d) != want.For(d) {
			t.Errorf("%s rules = %+v, want %+v", d, got.For(d), want.For(d))
		}
	}
}

func TestLoadCustomPathOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	data := []byte(`
rules:
  feedback_delay: 500ms
  difficulties:
    easy:
      options: 4
source:
  kind: catalog
  catalog:
    path: /tmp/art.yaml
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Rules.FeedbackDelay != 500*time.Millisecond {
		t.Errorf("FeedbackDelay = %v, want 500ms", cfg.Rules.FeedbackDelay)
	}
	if cfg.Source.Kind != "catalog" || cfg.Source.Catalog.Path != "/tmp/art.yaml" {
		t.Errorf("Source = %+v", cfg.Source)
	}
	// Untouched sections keep their defaults.
	if cfg.Scores.TopN != 10 || cfg.Source.Met.ImageAttempts != 5 {
		t.Errorf("defaults lost: scores=%+v met=%+v", cfg.Scores, cfg.Source.Met)
	}

	rules := cfg.GameRules()
	easy := rules.For(game.DifficultyEasy)
	if easy.Options != 4 {
		t.Errorf("easy options = %d, want 4", easy.Options)
	}
	// Fields left out of a difficulty entry fall back to the defaults.
	if easy.Obfuscation != 15 || easy.Multiplier != 1 || !easy.Clues {
		t.Errorf("easy = %+v, want defaults for unset fields", easy)
	}
	if rules.For(game.DifficultyHard).Options != 10 {
		t.Error("hard rules lost")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom path should fail")
	}

	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "rules: [unclosed"},
		{"inverted bounds", "rules:\n  obfuscation:\n    min: 40\n    max: 30\n"},
		{"unknown difficulty", "rules:\n  difficulties:\n    extreme:\n      options: 20\n"},
		{"too many options", "rules:\n  difficulties:\n    hard:\n      options: 11\n"},
		{"bad default difficulty", "settings:\n  default_difficulty: impossible\n"},
		{"inverted years", "settings:\n  year_min: 2000\n  year_max: 1000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "game.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestDefaultDifficulty(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.DefaultDifficulty(); got != game.DifficultyMedium {
		t.Errorf("DefaultDifficulty() = %s, want medium", got)
	}
	cfg.Settings.DefaultDifficulty = "hard"
	if got := cfg.DefaultDifficulty(); got != game.DifficultyHard {
		t.Errorf("DefaultDifficulty() = %s, want hard", got)
	}
}
