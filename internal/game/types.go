// Package game implements the guessing game engine: settings, rounds,
// scoring, lives and the obfuscation curve.
//
// The engine contains no presentation code. Callers read immutable GameState
// snapshots and drive the game with StartGame, SubmitGuess and LoadNextRound.
package game

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
)

// Difficulty is the player-selected difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every difficulty in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty converts a name into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("game: unknown difficulty %q (want easy, medium or hard)", s)
	}
	return d, nil
}

// Clue is the kind of hint shown alongside a round.
type Clue string

const (
	ClueNone       Clue = "none"
	ClueArtist     Clue = "artist"
	ClueYear       Clue = "year"
	ClueTitle      Clue = "title"
	ClueLocation   Clue = "location"
	ClueTimePeriod Clue = "timeperiod"
)

// GuessResult is the outcome of the most recent guess.
type GuessResult string

const (
	GuessNone      GuessResult = "none"
	GuessCorrect   GuessResult = "correct"
	GuessIncorrect GuessResult = "incorrect"
)

// Engine errors returned when an operation's preconditions are not met.
// State is never modified when one of these is returned.
var (
	ErrInvalidSettings = errors.New("game: invalid settings")
	ErrGameOver        = errors.New("game: game is over")
	ErrLoading         = errors.New("game: round is loading")
	ErrNoRound         = errors.New("game: no active round")
	ErrGuessClosed     = errors.New("game: guessing is closed for this round")
	ErrInvalidOption   = errors.New("game: option index out of range")
)

// Settings is the player-chosen configuration for one game.
type Settings struct {
	Difficulty Difficulty
	Medium     string // Empty means any medium
	Country    string // Empty means any country
	YearStart  *int
	YearEnd    *int
}

// Validate checks the settings preconditions.
func (s Settings) Validate() error {
	if !s.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSettings, s.Difficulty)
	}
	if s.YearStart != nil && s.YearEnd != nil && *s.YearStart > *s.YearEnd {
		return fmt.Errorf("%w: year start %d is after year end %d", ErrInvalidSettings, *s.YearStart, *s.YearEnd)
	}
	return nil
}

// Filter converts the settings into an artwork source filter.
func (s Settings) Filter() artwork.Filter {
	return artwork.Filter{
		Difficulty: string(s.Difficulty),
		Medium:     s.Medium,
		Country:    s.Country,
		YearStart:  s.YearStart,
		YearEnd:    s.YearEnd,
	}
}

// RoundState is one target artwork plus its options.
// A RoundState is never modified after it is published; guess handling
// publishes a copy with the changed fields.
type RoundState struct {
	Number       int // 1-based round counter within the game
	Target       artwork.Artwork
	Options      []artwork.Artwork
	CorrectIndex int
	Clue         Clue
	Obfuscation  int
	CanGuess     bool
}

// GameState is a consistent snapshot of a game.
type GameState struct {
	ID        string // Unique per StartGame call
	Version   uint64 // Increases with every published snapshot
	Score     int
	Lives     int
	Round     *RoundState
	GameOver  bool
	LastGuess GuessResult
	Loading   bool
	Settings  Settings
	Correct   int   // Correct guesses this game
	Incorrect int   // Incorrect guesses this game
	LastError error // Last absorbed load failure, nil after a successful load
}

// Started reports whether a game has been started on this engine.
func (s GameState) Started() bool {
	return s.ID != ""
}
