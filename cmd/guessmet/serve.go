package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/guess-the-met/internal/core"
	"github.com/vovakirdan/guess-the-met/internal/imagery"
	"github.com/vovakirdan/guess-the-met/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game; the artwork source and the
scoreboard are shared by everyone connected to the server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.guessmet/host_key

Examples:
  guessmet serve                           # Listen on :23234 with auto-generated key
  guessmet serve --ssh :2222               # Listen on port 2222
  guessmet serve --host-key ./my_host_key  # Use specific host key
  guessmet serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	e, err := loadEnv(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "guessmet-ssh",
	})
	if err != nil {
		fail("%v", err)
	}
	defer e.close()

	src, err := e.source()
	if err != nil {
		fail("%v", err)
	}

	store := e.openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg, tui.Deps{
		Source: src,
		Store:  store,
		Config: e.cfg,
		Loader: imagery.NewLoader(
			imagery.WithLogger(e.logger),
			imagery.WithUserAgent(e.cfg.Source.Met.UserAgent),
		),
		Logger:  e.logger,
		Runtime: core.RuntimeConfig{Seed: flagSeed},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Guess the Met SSH server on %s (source: %s)\n", cfg.Address, e.cfg.Source.Kind)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
