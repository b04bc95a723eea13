package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/guess-the-met/internal/core"
	"github.com/vovakirdan/guess-the-met/internal/game"
	"github.com/vovakirdan/guess-the-met/internal/imagery"
	"github.com/vovakirdan/guess-the-met/internal/platform/tui"
)

var (
	flagDifficulty string
	flagMedium     string
	flagCountry    string
	flagYearStart  int
	flagYearEnd    int
	flagQuick      bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game. The settings form opens first, preset from the flags;
with --quick the game starts right away.

Controls:
  1-9, 0       - Pick an option
  Up/Down      - Move the cursor, Enter to pick
  R            - Retry a failed load, or play again after game over
  S            - Scoreboard (after game over)
  Esc          - Back to settings
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - 3 options, a clue, lightly obscured
  medium - 5 options, a clue, x1.5 points
  hard   - 10 options, no clue, heavily obscured, x2 points

Examples:
  guessmet play
  guessmet play --difficulty easy --country France
  guessmet play --year-start 1850 --year-end 1900 --quick
  guessmet play --catalog ./artworks.yaml --log-file guessmet.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: easy, medium, hard (default from config)")
	playCmd.Flags().StringVar(&flagMedium, "medium", "", "Only artworks of this medium, e.g. Paintings")
	playCmd.Flags().StringVar(&flagCountry, "country", "", "Only artworks from this country")
	playCmd.Flags().IntVar(&flagYearStart, "year-start", 0, "Earliest year (negative for BC)")
	playCmd.Flags().IntVar(&flagYearEnd, "year-end", 0, "Latest year")
	playCmd.Flags().BoolVar(&flagQuick, "quick", false, "Skip the settings form")
}

// playSettings builds the preset for the settings form from the flags.
func playSettings(cmd *cobra.Command, e *env) (game.Settings, error) {
	s := game.Settings{
		Difficulty: e.cfg.DefaultDifficulty(),
		Medium:     flagMedium,
		Country:    flagCountry,
	}
	if flagDifficulty != "" {
		d, err := game.ParseDifficulty(flagDifficulty)
		if err != nil {
			return s, err
		}
		s.Difficulty = d
	}
	if cmd.Flags().Changed("year-start") {
		y := flagYearStart
		s.YearStart = &y
	}
	if cmd.Flags().Changed("year-end") {
		y := flagYearEnd
		s.YearEnd = &y
	}
	return s, s.Validate()
}

func runPlay(cmd *cobra.Command, _ []string) {
	// The alt screen owns the terminal, so logs only go to --log-file.
	e, err := loadEnv(io.Discard, log.Options{Prefix: "guessmet"})
	if err != nil {
		fail("%v", err)
	}
	defer e.close()

	initial, err := playSettings(cmd, e)
	if err != nil {
		fail("%v", err)
	}

	src, err := e.source()
	if err != nil {
		fail("%v", err)
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store := e.openStore()

	player := os.Getenv("USER")
	if player == "" {
		player = "player"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := tui.Run(ctx, tui.Deps{
		Source: src,
		Store:  store,
		Config: e.cfg,
		Loader: imagery.NewLoader(
			imagery.WithLogger(e.logger),
			imagery.WithUserAgent(e.cfg.Source.Met.UserAgent),
		),
		Logger: e.logger,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: core.DefaultConfig().TickRate,
			Seed:     flagSeed,
		},
		Player:     player,
		Initial:    initial,
		QuickStart: flagQuick,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
