// Command cardex browses a collectible-card catalog in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/cardex/internal/app"
	"github.com/rebeliceyang/cardex/internal/config"
	"github.com/rebeliceyang/cardex/internal/db/connection"
	"github.com/rebeliceyang/cardex/internal/db/store"
	"github.com/rebeliceyang/cardex/internal/favorites"
	"github.com/rebeliceyang/cardex/internal/history"
	"github.com/rebeliceyang/cardex/internal/logging"
)

var (
	// Global flags
	configFile string
	verbose    bool
	timeout    time.Duration

	cfg       *config.Config
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "cardex",
	Short: "Browse a collectible-card catalog",
	Long: `cardex browses a card catalog in the terminal: search, filter,
sort and page through cards, keep a selection, run raw SQL and manage
user attributes and custom records.

Run without arguments to start the browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		configDir, err = config.GetConfigPath()
		if err != nil {
			configDir = "."
		}
		return nil
	},
	RunE: runBrowser,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Start the interactive browser (default)",
	Args:  cobra.NoArgs,
	RunE:  runBrowser,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default: <config dir>/cardex/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Timeout for non-interactive commands")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(attrCmd)
	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runBrowser starts the TUI
func runBrowser(cmd *cobra.Command, args []string) error {
	log, closer, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := context.Background()
	catalog, closeCatalog, err := openCatalog(ctx, log)
	if err != nil {
		return err
	}
	defer closeCatalog()

	opts := app.Options{
		Config:  cfg,
		Catalog: catalog,
		Logger:  log,
	}

	if cfg.History.Enabled {
		hist, err := openHistory()
		if err != nil {
			log.Warn().Err(err).Msg("Query history disabled")
		} else {
			defer hist.Close()
			opts.History = hist
		}
	}

	favs, err := favorites.NewManager(configDir)
	if err != nil {
		log.Warn().Err(err).Msg("Saved views disabled")
	} else {
		opts.Favorites = favs
	}

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	log.Info().Str("driver", cfg.Catalog.Driver).Msg("Starting browser")
	p := tea.NewProgram(app.New(opts), programOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser exited: %w", err)
	}
	return nil
}

// openCatalog connects to the configured database and opens the store.
// The returned func closes the connection.
func openCatalog(ctx context.Context, log zerolog.Logger) (*store.Store, func(), error) {
	if cfg.Catalog.Driver == connection.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Catalog.DSN), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	pool, err := connection.NewPool(ctx, connection.Config{
		Driver: cfg.Catalog.Driver,
		DSN:    cfg.Catalog.DSN,
	})
	if err != nil {
		return nil, nil, err
	}

	s, err := store.Open(ctx, pool, log)
	if err != nil {
		_ = pool.Close()
		return nil, nil, err
	}
	return s, func() { _ = pool.Close() }, nil
}

func openHistory() (*history.Store, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return history.NewStore(filepath.Join(configDir, "history.db"), cfg.History.MaxEntries)
}

// withCatalog runs fn against the catalog with a console logger, for the
// non-interactive commands
func withCatalog(fn func(ctx context.Context, s *store.Store, log zerolog.Logger) error) error {
	log := logging.Console(cfg.Log.Level)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s, closeCatalog, err := openCatalog(ctx, log)
	if err != nil {
		return err
	}
	defer closeCatalog()

	return fn(ctx, s, log)
}
