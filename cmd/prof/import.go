package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/profiles/internal/draft"
	"github.com/matsen/profiles/internal/intake"
	"github.com/matsen/profiles/internal/profile"
	"github.com/matsen/profiles/internal/storage"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.jsonl>",
	Short: "Import profiles from a JSONL file",
	Long: `Import profiles from a JSONL file, one profile per line.

Each profile is validated like a submitted form. Lines that fail validation
or reuse a stored mobile number are reported and skipped; the rest are
stored. Exits with code 3 if any line was skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := mustOpenStore(ctx, newAssetManager())
	defer store.Close()

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		exitWithError(ExitError, "file not found: %s", path)
	}

	check := func(r profile.Record) error {
		return intake.CheckRecord(r, draft.WithMinimumAge(settings.MinimumAge))
	}
	results, err := store.ImportJSONL(ctx, path, check)
	if err != nil {
		if storage.IsStorageUnavailable(err) {
			exitWithError(ExitStorageError, "%v", err)
		}
		exitWithError(ExitError, "importing: %v", err)
	}

	resp := summarizeImport(results)
	if humanOutput {
		for _, l := range resp.Lines {
			if l.Error != "" {
				outputHuman("line %d (%s): %s\n", l.Line, l.Mobile, l.Error)
			}
		}
		outputHuman("Imported %d profile(s), skipped %d\n", resp.Imported, resp.Failed)
	} else {
		outputJSON(resp)
	}

	if resp.Failed > 0 {
		os.Exit(ExitValidationError)
	}
	return nil
}

func summarizeImport(results []storage.ImportResult) ImportResponse {
	resp := ImportResponse{Lines: make([]ImportLine, 0, len(results))}
	for _, r := range results {
		line := ImportLine{Line: r.Line, Mobile: r.Mobile, ID: r.ID}
		if r.Err != nil {
			line.Error = r.Err.Error()
			resp.Failed++
		} else {
			resp.Imported++
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}
