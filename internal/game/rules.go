package game

import (
	"math"
	"time"
)

// DifficultyRules are the per-difficulty parameters of a game.
type DifficultyRules struct {
	Options     int     // Total options per round (target included)
	Obfuscation int     // Obfuscation level of the first round
	Multiplier  float64 // Score multiplier
	Clues       bool    // Whether rounds get a location/time period clue
}

// Rules holds every tunable of the engine.
type Rules struct {
	StartingLives     int
	BaseScore         int
	ObfuscationWeight int

	MinObfuscation    int
	MaxObfuscation    int
	RevealObfuscation int // Level used once the game is lost
	CorrectDelta      int // Level decrease after a correct guess
	IncorrectDelta    int // Level decrease after an incorrect guess

	FeedbackDelay time.Duration // Pause before the next round or a retry

	TargetAttempts            int // Fetch attempts for the target artwork
	DistractorAttemptsPerSlot int // Fetch budget per distractor slot
	FetchTimeout              time.Duration

	Difficulties map[Difficulty]DifficultyRules
}

// DefaultRules returns the standard rules.
func DefaultRules() Rules {
	return Rules{
		StartingLives:     3,
		BaseScore:         100,
		ObfuscationWeight: 2,

		MinObfuscation:    5,
		MaxObfuscation:    30,
		RevealObfuscation: 0,
		CorrectDelta:      2,
		IncorrectDelta:    5,

		FeedbackDelay: 1500 * time.Millisecond,

		TargetAttempts:            3,
		DistractorAttemptsPerSlot: 3,
		FetchTimeout:              20 * time.Second,

		Difficulties: map[Difficulty]DifficultyRules{
			DifficultyEasy:   {Options: 3, Obfuscation: 15, Multiplier: 1, Clues: true},
			DifficultyMedium: {Options: 5, Obfuscation: 20, Multiplier: 1.5, Clues: true},
			DifficultyHard:   {Options: 10, Obfuscation: 25, Multiplier: 2, Clues: false},
		},
	}
}

// For returns the rules for a difficulty, falling back to the defaults
// when the difficulty is not configured.
func (r Rules) For(d Difficulty) DifficultyRules {
	if dr, ok := r.Difficulties[d]; ok {
		return dr
	}
	return DefaultRules().Difficulties[d]
}

// OptionCount returns the number of options per round for d.
func (r Rules) OptionCount(d Difficulty) int {
	n := r.For(d).Options
	if n < 1 {
		n = 1
	}
	return n
}

// InitialObfuscation returns the first-round obfuscation level for d,
// clamped to the configured bounds.
func (r Rules) InitialObfuscation(d Difficulty) int {
	return r.clampLevel(r.For(d).Obfuscation)
}

// Score returns the points for a correct guess at the given obfuscation level.
func (r Rules) Score(d Difficulty, level int) int {
	return int(math.Round(float64(r.BaseScore)*r.For(d).Multiplier + float64(level*r.ObfuscationWeight)))
}

// AfterCorrect returns the obfuscation level that follows a correct guess.
func (r Rules) AfterCorrect(level int) int {
	return r.clampLevel(level - r.CorrectDelta)
}

// AfterIncorrect returns the obfuscation level that follows an incorrect guess.
func (r Rules) AfterIncorrect(level int) int {
	return r.clampLevel(level - r.IncorrectDelta)
}

func (r Rules) clampLevel(level int) int {
	if level < r.MinObfuscation {
		return r.MinObfuscation
	}
	if r.MaxObfuscation > 0 && level > r.MaxObfuscation {
		return r.MaxObfuscation
	}
	return level
}
