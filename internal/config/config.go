// Package config provides YAML-based configuration loading for the game:
// engine rules, the artwork source, settings form choices and high scores.
package config

import "time"

// Config is the root of the configuration file.
type Config struct {
	Rules    RulesConfig    `yaml:"rules"`
	Source   SourceConfig   `yaml:"source"`
	Settings SettingsConfig `yaml:"settings"`
	Scores   ScoresConfig   `yaml:"scores"`
}

// RulesConfig defines lives, scoring, the obfuscation curve and retry budgets.
type RulesConfig struct {
	StartingLives     int                         `yaml:"starting_lives"`
	BaseScore         int                         `yaml:"base_score"`
	ObfuscationWeight int                         `yaml:"obfuscation_weight"` // Points per obfuscation level
	Obfuscation       ObfuscationConfig           `yaml:"obfuscation"`
	FeedbackDelay     time.Duration               `yaml:"feedback_delay"`
	TargetAttempts    int                         `yaml:"target_attempts"`
	DistractorBudget  int                         `yaml:"distractor_attempts_per_slot"`
	FetchTimeout      time.Duration               `yaml:"fetch_timeout"`
	Difficulties      map[string]DifficultyConfig `yaml:"difficulties"`
}

// ObfuscationConfig bounds the obfuscation level and sets its deltas.
type ObfuscationConfig struct {
	Min            int `yaml:"min"`
	Max            int `yaml:"max"`
	Reveal         int `yaml:"reveal"` // Level shown once the game is lost
	CorrectDelta   int `yaml:"correct_delta"`
	IncorrectDelta int `yaml:"incorrect_delta"`
}

// DifficultyConfig holds per-difficulty parameters.
type DifficultyConfig struct {
	Options     int     `yaml:"options"`
	Obfuscation int     `yaml:"obfuscation"` // First-round level
	Multiplier  float64 `yaml:"multiplier"`
	Clues       *bool   `yaml:"clues"`
}

// SourceConfig selects and configures the artwork source.
type SourceConfig struct {
	Kind    string        `yaml:"kind"` // "met" or "catalog"
	Met     MetConfig     `yaml:"met"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// MetConfig configures the Metropolitan Museum collection API client.
type MetConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	ImageAttempts  int           `yaml:"image_attempts"`
	SearchCacheTTL time.Duration `yaml:"search_cache_ttl"`
	UserAgent      string        `yaml:"user_agent"`
}

// CatalogConfig configures the offline catalog source.
type CatalogConfig struct {
	Path string `yaml:"path"`
	Seed int64  `yaml:"seed"` // 0 means seed from the clock
}

// SettingsConfig holds the choices offered by the settings form.
type SettingsConfig struct {
	DefaultDifficulty string   `yaml:"default_difficulty"`
	Mediums           []string `yaml:"mediums"`
	Countries         []string `yaml:"countries"`
	YearMin           int      `yaml:"year_min"` // Also fills a missing bound of a one-sided year filter
	YearMax           int      `yaml:"year_max"`
}

// ScoresConfig configures the high score board.
type ScoresConfig struct {
	DBPath        string `yaml:"db_path"`
	TopN          int    `yaml:"top_n"`
	NameMaxLength int    `yaml:"name_max_length"`
}
