package game

import "testing"

func TestRulesObfuscationDeltas(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		level         int
		wantCorrect   int
		wantIncorrect int
	}{
		{25, 23, 20},
		{15, 13, 10},
		{9, 7, 5},
		{7, 5, 5},
		{5, 5, 5},
	}

	for _, tt := range tests {
		if got := r.AfterCorrect(tt.level); got != tt.wantCorrect {
			t.Errorf("AfterCorrect(%d) = %d, want %d", tt.level, got, tt.wantCorrect)
		}
		if got := r.AfterIncorrect(tt.level); got != tt.wantIncorrect {
			t.Errorf("AfterIncorrect(%d) = %d, want %d", tt.level, got, tt.wantIncorrect)
		}
	}
}

func TestRulesPerDifficulty(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		d       Difficulty
		options int
		level   int
	}{
		{DifficultyEasy, 3, 15},
		{DifficultyMedium, 5, 20},
		{DifficultyHard, 10, 25},
	}
	for _, tt := range tests {
		if got := r.OptionCount(tt.d); got != tt.options {
			t.Errorf("OptionCount(%s) = %d, want %d", tt.d, got, tt.options)
		}
		if got := r.InitialObfuscation(tt.d); got != tt.level {
			t.Errorf("InitialObfuscation(%s) = %d, want %d", tt.d, got, tt.level)
		}
	}
}

func TestRulesClampConfiguredLevels(t *testing.T) {
	r := DefaultRules()
	r.Difficulties = map[Difficulty]DifficultyRules{
		DifficultyEasy: {Options: 0, Obfuscation: 99, Multiplier: 1},
	}

	if got := r.InitialObfuscation(DifficultyEasy); got != r.MaxObfuscation {
		t.Errorf("InitialObfuscation = %d, want clamped to %d", got, r.MaxObfuscation)
	}
	if got := r.OptionCount(DifficultyEasy); got != 1 {
		t.Errorf("OptionCount = %d, want at least 1", got)
	}
	// Unconfigured difficulties fall back to the defaults.
	if got := r.OptionCount(DifficultyHard); got != 10 {
		t.Errorf("OptionCount(hard) = %d, want 10", got)
	}
}
