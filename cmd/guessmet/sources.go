package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/guess-the-met/internal/registry"
)

const categoriesTimeout = 30 * time.Second

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available artwork sources",
	Long:  `Shows the artwork sources the game can draw from.`,
	Args:  cobra.NoArgs,
	Run:   runSources,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories of the artwork source",
	Long: `Shows the categories (museum departments) of the selected source.

Examples:
  guessmet categories
  guessmet categories --catalog ./artworks.yaml`,
	Args: cobra.NoArgs,
	Run:  runCategories,
}

func runSources(_ *cobra.Command, _ []string) {
	sources := registry.List()

	if len(sources) == 0 {
		fmt.Println("No sources available.")
		return
	}

	active := ""
	if e, err := loadEnv(os.Stderr, log.Options{}); err == nil {
		active = e.cfg.Source.Kind
		e.close()
	}

	fmt.Println("Available sources:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range sources {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	// Print header
	fmt.Printf("    %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("    %-*s  %s\n", maxIDLen, "--", "-----")

	for _, s := range sources {
		marker := "  "
		if s.ID == active {
			marker = "* "
		}
		fmt.Printf("  %s%-*s  %s\n", marker, maxIDLen, s.ID, s.Title)
	}

	fmt.Println()
	fmt.Println("Run 'guessmet play --source <id>' to play with a source.")
}

func runCategories(_ *cobra.Command, _ []string) {
	e, err := loadEnv(os.Stderr, log.Options{})
	if err != nil {
		fail("%v", err)
	}
	defer e.close()

	src, err := e.source()
	if err != nil {
		fail("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), categoriesTimeout)
	defer cancel()

	categories, err := src.ListCategories(ctx)
	if err != nil {
		cancel()
		fail("listing categories: %v", err)
	}

	if len(categories) == 0 {
		fmt.Println("No categories available.")
		return
	}

	fmt.Printf("Categories (%s):\n", e.cfg.Source.Kind)
	fmt.Println()
	for _, c := range categories {
		fmt.Printf("  %s\n", c)
	}
}
