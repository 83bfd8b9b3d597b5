package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <mobile>",
	Short: "Get a single profile by mobile number",
	Long: `Get a single profile by its mobile number.

Example:
  prof get 9988776655`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	assets := newAssetManager()
	store := mustOpenStore(ctx, assets)
	defer store.Close()

	mobile := args[0]
	rec, err := store.FindByKey(ctx, mobile)
	if err != nil {
		exitWithError(ExitError, "getting profile: %v", err)
	}
	if rec == nil {
		exitWithError(ExitNotFound, "profile not found: %s", mobile)
	}

	resp := recordResponse(*rec, assets)
	if humanOutput {
		printRecordHuman(resp)
	} else {
		outputJSON(resp)
	}
	return nil
}
