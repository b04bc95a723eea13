package config

import "github.com/vovakirdan/guess-the-met/internal/game"

func parseDifficulty(name string) (game.Difficulty, error) {
	return game.ParseDifficulty(name)
}

// GameRules converts the rules section into engine rules.
// Zero values fall back to the engine defaults.
func (c Config) GameRules() game.Rules {
	r := game.DefaultRules()
	rc := c.Rules

	setInt(&r.StartingLives, rc.StartingLives)
	setInt(&r.BaseScore, rc.BaseScore)
	setInt(&r.ObfuscationWeight, rc.ObfuscationWeight)
	setInt(&r.MinObfuscation, rc.Obfuscation.Min)
	setInt(&r.MaxObfuscation, rc.Obfuscation.Max)
	setInt(&r.CorrectDelta, rc.Obfuscation.CorrectDelta)
	setInt(&r.IncorrectDelta, rc.Obfuscation.IncorrectDelta)
	setInt(&r.TargetAttempts, rc.TargetAttempts)
	setInt(&r.DistractorAttemptsPerSlot, rc.DistractorBudget)
	r.RevealObfuscation = rc.Obfuscation.Reveal
	if rc.FeedbackDelay > 0 {
		r.FeedbackDelay = rc.FeedbackDelay
	}
	if rc.FetchTimeout > 0 {
		r.FetchTimeout = rc.FetchTimeout
	}

	for name, dc := range rc.Difficulties {
		d, err := parseDifficulty(name)
		if err != nil {
			continue
		}
		dr := r.Difficulties[d]
		setInt(&dr.Options, dc.Options)
		setInt(&dr.Obfuscation, dc.Obfuscation)
		if dc.Multiplier > 0 {
			dr.Multiplier = dc.Multiplier
		}
		if dc.Clues != nil {
			dr.Clues = *dc.Clues
		}
		r.Difficulties[d] = dr
	}
	return r
}

// DefaultDifficulty returns the difficulty preselected in the settings form.
func (c Config) DefaultDifficulty() game.Difficulty {
	d, err := parseDifficulty(c.Settings.DefaultDifficulty)
	if err != nil {
		return game.DifficultyMedium
	}
	return d
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
