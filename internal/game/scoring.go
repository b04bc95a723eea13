package game

import (
	"math"

	"github.com/dustin/go-humanize"
)

// Multiplier returns the default score multiplier for a difficulty.
func Multiplier(d Difficulty) float64 {
	return DefaultRules().For(d).Multiplier
}

// Score returns the points awarded for a correct guess under the default
// rules: round(100 * multiplier + obfuscationLevel * 2).
// Higher obfuscation at guess time never yields fewer points.
func Score(d Difficulty, obfuscationLevel int) int {
	return DefaultRules().Score(d, obfuscationLevel)
}

// SettingsBonus rates how narrow the player's filters are.
// It starts at 1 and grows with every filter; smaller year spans count more.
func SettingsBonus(s Settings) float64 {
	bonus := 1.0
	if s.Medium != "" {
		bonus += 0.1
	}
	if s.Country != "" {
		bonus += 0.1
	}
	if s.YearStart != nil && s.YearEnd != nil {
		switch span := *s.YearEnd - *s.YearStart; {
		case span <= 50:
			bonus += 0.3
		case span <= 100:
			bonus += 0.2
		default:
			bonus += 0.1
		}
	}
	return math.Round(bonus*10) / 10
}

// FormatScore renders a score with thousands separators.
func FormatScore(score int) string {
	return humanize.Comma(int64(score))
}
