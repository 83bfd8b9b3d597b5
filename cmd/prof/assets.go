package main

import (
	"github.com/spf13/cobra"
)

func init() {
	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsPruneCmd)
	rootCmd.AddCommand(assetsCmd)
}

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Inspect and clean managed photographs",
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed photographs",
	Args:  cobra.NoArgs,
	RunE:  runAssetsList,
}

var assetsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete photographs no stored profile refers to",
	Long: `Delete photographs in managed storage that no stored profile refers to.

These are left behind when a process is interrupted between copying a new
photograph and storing its profile.`,
	Args: cobra.NoArgs,
	RunE: runAssetsPrune,
}

func runAssetsList(cmd *cobra.Command, args []string) error {
	files, err := newAssetManager().List()
	if err != nil {
		exitWithError(ExitStorageError, "%v", err)
	}
	if files == nil {
		files = []string{}
	}

	if humanOutput {
		for _, f := range files {
			outputHuman("%s\n", f)
		}
		outputHuman("\n%d photograph(s)\n", len(files))
	} else {
		outputJSON(files)
	}
	return nil
}

func runAssetsPrune(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	assets := newAssetManager()
	store := mustOpenStore(ctx, assets)
	defer store.Close()

	records, err := store.ListAll(ctx)
	if err != nil {
		exitWithError(ExitError, "listing profiles: %v", err)
	}
	referenced := make(map[string]bool, len(records))
	for _, r := range records {
		referenced[r.ProfilePicLocation] = true
	}

	n, err := assets.Prune(referenced)
	if err != nil {
		exitWithError(ExitStorageError, "%v", err)
	}

	if humanOutput {
		outputHuman("Removed %d orphaned photograph(s)\n", n)
	} else {
		outputJSON(CountResponse{Status: "pruned", Count: n, Path: assets.Dir()})
	}
	return nil
}
