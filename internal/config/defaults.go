package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/game.yaml
var defaultGameYAML []byte

func boolPtr(b bool) *bool { return &b }

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Rules: RulesConfig{
			StartingLives:     3,
			BaseScore:         100,
			ObfuscationWeight: 2,
			Obfuscation: ObfuscationConfig{
				Min:            5,
				Max:            30,
				Reveal:         0,
				CorrectDelta:   2,
				IncorrectDelta: 5,
			},
			FeedbackDelay:    1500 * time.Millisecond,
			TargetAttempts:   3,
			DistractorBudget: 3,
			FetchTimeout:     20 * time.Second,
			Difficulties: map[string]DifficultyConfig{
				"easy":   {Options: 3, Obfuscation: 15, Multiplier: 1, Clues: boolPtr(true)},
				"medium": {Options: 5, Obfuscation: 20, Multiplier: 1.5, Clues: boolPtr(true)},
				"hard":   {Options: 10, Obfuscation: 25, Multiplier: 2, Clues: boolPtr(false)},
			},
		},
		Source: SourceConfig{
			Kind: "met",
			Met: MetConfig{
				BaseURL:        "https://collectionapi.metmuseum.org/public/collection/v1",
				Timeout:        15 * time.Second,
				ImageAttempts:  5,
				SearchCacheTTL: 10 * time.Minute,
				UserAgent:      "guessmet/1.0",
			},
		},
		Settings: SettingsConfig{
			DefaultDifficulty: "medium",
			Mediums: []string{
				"Paintings", "Sculpture", "Drawings", "Photographs",
				"Ceramics", "Textiles", "Prints", "Armor", "Furniture",
			},
			Countries: []string{
				"United States", "Italy", "France", "China", "Japan",
				"Egypt", "Greece", "India", "United Kingdom", "Spain",
			},
			YearMin: -3000,
			YearMax: 2023,
		},
		Scores: ScoresConfig{
			DBPath:        "~/.guessmet/scores.db",
			TopN:          10,
			NameMaxLength: 15,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultGameYAML
}
