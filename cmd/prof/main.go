// Package main provides the prof CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/profiles/internal/asset"
	"github.com/matsen/profiles/internal/config"
	"github.com/matsen/profiles/internal/logging"
	"github.com/matsen/profiles/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool

	dataDirFlag  string
	logLevelFlag string

	settings *config.Settings
	logger   = zap.NewNop()
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "prof",
	Short: "Validated profile record store",
	Long: `prof collects identity profiles (name, demographics, location and a
photograph), validates them field by field and stores them in a local SQLite
database keyed by a unique mobile number.

Images are copied into a managed Pictures directory next to the database.
All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data directory (overrides config and "+config.EnvDataDir+")")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Version = Version
}

// setup loads .env and the config file, then builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}

	s, err := config.Resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		exitWithError(ExitConfigError, "loading configuration: %v", err)
	}
	if dataDirFlag != "" {
		s.SetDataDir(config.ExpandPath(dataDirFlag))
	}
	if logLevelFlag != "" {
		if err := config.ValidateLogLevel(logLevelFlag); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		s.LogLevel = logLevelFlag
	}
	settings = s

	l, err := logging.New(s.LogLevel, s.LogFormat)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	logger = l
	return nil
}

// mustEnsureDataDir creates the data directory, exits on error.
func mustEnsureDataDir() {
	if err := os.MkdirAll(settings.DataDir, 0755); err != nil {
		exitWithError(ExitStorageError, "creating data directory: %v", err)
	}
}

// newAssetManager returns the manager for the configured image directory.
func newAssetManager() *asset.Manager {
	return asset.NewManager(settings.DataDir, logger, asset.WithSubdir(settings.ImageDir))
}

// mustOpenStore opens the record store, exits on error.
// The caller must Close the returned store.
func mustOpenStore(ctx context.Context, assets *asset.Manager) *storage.Store {
	mustEnsureDataDir()
	store := storage.New(settings.DBPath, logger, storage.WithAssetChecker(assets))
	if err := store.Open(ctx); err != nil {
		exitWithError(ExitStorageError, "opening database: %v", err)
	}
	return store
}
