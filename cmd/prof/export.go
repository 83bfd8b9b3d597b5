package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <file.jsonl>",
	Short: "Export all profiles to a JSONL file",
	Long: `Export all profiles to a JSONL file, one profile per line.

The file is written atomically. Photographs are not copied; picture paths
stay relative to the data directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := mustOpenStore(ctx, newAssetManager())
	defer store.Close()

	path := args[0]
	n, err := store.ExportJSONL(ctx, path)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Exported %d profile(s) to %s\n", n, path)
	} else {
		outputJSON(CountResponse{Status: "exported", Count: n, Path: path})
	}
	return nil
}
