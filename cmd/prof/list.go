package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// ListNameMaxLen is the name column width in human list output.
const ListNameMaxLen = 32

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored profiles",
	Long:  `List all stored profiles in the order they were added.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	assets := newAssetManager()
	store := mustOpenStore(ctx, assets)
	defer store.Close()

	records, err := store.ListAll(ctx)
	if err != nil {
		exitWithError(ExitError, "listing profiles: %v", err)
	}

	if humanOutput {
		if len(records) == 0 {
			outputHuman("No profiles stored\n")
			return nil
		}
		for _, r := range records {
			name := strings.TrimSpace(r.FirstName + " " + r.LastName)
			outputHuman("%-10s  %-*s  %s\n", r.MobileNumber, ListNameMaxLen, truncateString(name, ListNameMaxLen), r.HighestEducation)
		}
		outputHuman("\n%d profile(s)\n", len(records))
		return nil
	}

	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, recordResponse(r, assets))
	}
	outputJSON(out)
	return nil
}
