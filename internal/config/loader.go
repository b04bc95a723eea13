package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalPath is the project-local configuration file.
const LocalPath = "configs/game.yaml"

// Load loads the game configuration. Values missing from the file keep
// their defaults.
// Search order: customPath -> ~/.guessmet/config.yaml -> ./configs/game.yaml -> embedded default
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(LocalPath); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultGameYAML)
	if err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of DefaultConfig and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// maxOptions is how many options the digit keys 1..9 and 0 can select.
const maxOptions = 10

// Validate rejects configurations the game cannot run with.
func (c Config) Validate() error {
	o := c.Rules.Obfuscation
	if o.Min < 0 || (o.Max > 0 && o.Min > o.Max) {
		return fmt.Errorf("config: obfuscation bounds [%d, %d] are invalid", o.Min, o.Max)
	}
	if c.Rules.StartingLives < 0 {
		return fmt.Errorf("config: starting_lives must not be negative")
	}
	for name, d := range c.Rules.Difficulties {
		if _, err := parseDifficulty(name); err != nil {
			return fmt.Errorf("config: rules.difficulties: %w", err)
		}
		if d.Options < 0 || d.Multiplier < 0 {
			return fmt.Errorf("config: difficulty %s has negative values", name)
		}
		if d.Options > maxOptions {
			return fmt.Errorf("config: difficulty %s has %d options, at most %d fit the number keys", name, d.Options, maxOptions)
		}
	}
	if c.Settings.DefaultDifficulty != "" {
		if _, err := parseDifficulty(c.Settings.DefaultDifficulty); err != nil {
			return fmt.Errorf("config: settings.default_difficulty: %w", err)
		}
	}
	if c.Settings.YearMin > c.Settings.YearMax {
		return fmt.Errorf("config: year_min %d is after year_max %d", c.Settings.YearMin, c.Settings.YearMax)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".guessmet", filename)
}
