package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/guess-the-met/internal/game"
	"github.com/vovakirdan/guess-the-met/internal/platform/tui"
	"github.com/vovakirdan/guess-the-met/internal/storage"
)

var (
	flagScoresTUI bool
	flagClear     bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [difficulty]",
	Short: "Show high scores",
	Long: `Display the high scores for one difficulty, or for all of them.

Examples:
  guessmet scores
  guessmet scores hard
  guessmet scores --tui
  guessmet scores easy --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the scores instead of showing them")
}

func runScores(_ *cobra.Command, args []string) {
	e, err := loadEnv(os.Stderr, log.Options{})
	if err != nil {
		fail("%v", err)
	}
	defer e.close()

	difficulties := game.Difficulties()
	if len(args) == 1 {
		d, err := game.ParseDifficulty(args[0])
		if err != nil {
			fail("%v", err)
		}
		difficulties = []game.Difficulty{d}
	}

	// Open score storage
	store, err := storage.Open(e.cfg.Scores.DBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		clearScores(store, args)
	case flagScoresTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, e.cfg.Scores.TopN, width, height, difficulties[0]); err != nil {
			store.Close()
			fail("%v", err)
		}
	default:
		stats, err := scoreStats(store, difficulties)
		if err != nil {
			store.Close()
			fail("retrieving stats: %v", err)
		}
		for i, d := range difficulties {
			if i > 0 {
				fmt.Println()
			}
			if err := printScores(store, d, e.cfg.Scores.TopN, stats[string(d)]); err != nil {
				store.Close()
				fail("retrieving scores: %v", err)
			}
		}
	}
}

func clearScores(store *storage.Store, args []string) {
	difficulty := ""
	if len(args) == 1 {
		difficulty = args[0]
	}
	if err := store.ClearScores(difficulty); err != nil {
		store.Close()
		fail("%v", err)
	}
	if difficulty == "" {
		fmt.Println("All high scores cleared.")
		return
	}
	fmt.Printf("High scores for %s cleared.\n", difficulty)
}

// scoreStats loads the summary for the listed difficulties. A single
// difficulty is queried directly; otherwise every difficulty is read at once.
// Difficulties without scores have no entry.
func scoreStats(store *storage.Store, difficulties []game.Difficulty) (map[string]*storage.GameStats, error) {
	if len(difficulties) != 1 {
		return store.GetAllStats()
	}
	d := string(difficulties[0])
	st, err := store.GetStats(d)
	if err != nil {
		return nil, err
	}
	stats := make(map[string]*storage.GameStats)
	if st.GamesCount > 0 {
		stats[d] = st
	}
	return stats, nil
}

func printScores(store *storage.Store, d game.Difficulty, topN int, stats *storage.GameStats) error {
	scores, err := store.TopScores(string(d), topN)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", d)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'guessmet play --difficulty %s' to set the first high score!\n", d)
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-15s  %-10s  %-5s  %s\n", "Rank", "Name", "Score", "Bonus", "Date")
	fmt.Printf("  %-4s  %-15s  %-10s  %-5s  %s\n", "----", "----", "-----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-15s  %-10s  x%-4.1f  %s\n",
			i+1, entry.Name, game.FormatScore(entry.Score), entry.FilterBonus, dateStr)
	}

	fmt.Println()
	if stats != nil {
		fmt.Printf("Best: %s  Games: %d  Average: %s  Last played: %s\n",
			game.FormatScore(stats.HighScore), stats.GamesCount,
			humanize.CommafWithDigits(stats.AvgScore, 0), humanize.Time(stats.LastPlayed))
	}
	return nil
}
