package main

import (
	"path/filepath"
	"testing"

	"github.com/vovakirdan/guess-the-met/internal/game"
	"github.com/vovakirdan/guess-the-met/internal/storage"
)

func TestScoreStats(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, e := range []storage.ScoreEntry{
		{Name: "a", Difficulty: "easy", Score: 100},
		{Name: "b", Difficulty: "easy", Score: 300},
		{Name: "c", Difficulty: "hard", Score: 500},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	all, err := scoreStats(store, game.Difficulties())
	if err != nil {
		t.Fatalf("scoreStats() failed: %v", err)
	}
	if len(all) != 2 || all["easy"].GamesCount != 2 || all["hard"].HighScore != 500 {
		t.Errorf("all stats = %v", all)
	}
	if all["medium"] != nil {
		t.Error("medium has no scores and should have no stats")
	}

	one, err := scoreStats(store, []game.Difficulty{game.DifficultyEasy})
	if err != nil {
		t.Fatalf("scoreStats() failed: %v", err)
	}
	if len(one) != 1 || one["easy"].HighScore != 300 || one["easy"].AvgScore != 200 {
		t.Errorf("easy stats = %v", one)
	}

	none, err := scoreStats(store, []game.Difficulty{game.DifficultyMedium})
	if err != nil {
		t.Fatalf("scoreStats() failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("medium stats = %v", none)
	}
}
