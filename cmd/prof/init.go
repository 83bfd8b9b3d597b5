package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory, photo storage and database",
	Long: `Create the data directory, photo storage and database.

Creates:
  <data_dir>/
  ├── profiles.db   # SQLite database with the User table
  └── Pictures/     # managed photographs

Safe to run more than once.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	mustEnsureDataDir()

	assets := newAssetManager()
	if err := assets.EnsureStorageReady(); err != nil {
		exitWithError(ExitStorageError, "%v", err)
	}

	store := mustOpenStore(ctx, assets)
	defer store.Close()

	n, err := store.Count(ctx)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Initialized %s (%d profile(s))\n", settings.DataDir, n)
	} else {
		outputJSON(CountResponse{Status: "initialized", Count: n, Path: settings.DBPath})
	}
	return nil
}
