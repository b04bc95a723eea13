// guessmet is a terminal trivia game: name the artwork from the
// Metropolitan Museum collection before it comes into focus.
//
// Usage:
//
//	guessmet play                 - Play in this terminal
//	guessmet scores [difficulty]  - Show high scores
//	guessmet categories           - List the source's categories
//	guessmet sources              - List available artwork sources
//	guessmet serve                - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>   - Config file (default: ~/.guessmet/config.yaml)
//	--source <id>     - Artwork source: met or catalog
//	--catalog <path>  - Catalog file, implies --source catalog
//	--seed <value>    - Set RNG seed for reproducible games
//	--db <path>       - Set database path (default: ~/.guessmet/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import sources to register them
	_ "github.com/vovakirdan/guess-the-met/internal/catalog"
	_ "github.com/vovakirdan/guess-the-met/internal/metapi"
)

var (
	// Global flags
	flagConfig   string
	flagSource   string
	flagCatalog  string
	flagSeed     int64
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "guessmet",
	Short: "Guess the Met - name the artwork before it comes into focus",
	Long: `Guess the Met is a terminal trivia game built on the Metropolitan
Museum of Art collection. Each round shows an obscured artwork and a list
of titles; pick the right one to score and sharpen the next image.

Available commands:
  play        - Play in this terminal
  scores      - View high scores
  categories  - List collection categories
  sources     - List artwork sources
  serve       - Start SSH server for remote play

Examples:
  guessmet play
  guessmet play --difficulty hard --medium Paintings
  guessmet play --catalog ./artworks.yaml
  guessmet scores medium
  guessmet serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "Artwork source (see 'guessmet sources')")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "Path to an offline catalog YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(serveCmd)
}
