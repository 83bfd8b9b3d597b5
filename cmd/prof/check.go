package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/profiles/internal/draft"
	"github.com/matsen/profiles/internal/intake"
	"github.com/matsen/profiles/internal/profile"
)

var checkFlags recordFlags

func init() {
	checkFlags.register(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate profile fields without storing anything",
	Long: `Validate profile fields without storing anything.

Takes the same flags as add. The photograph is only checked for existence;
it is not copied and the database is not opened, so a taken mobile number
is not reported here.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	svc := &intake.Service{Draft: newDraft(), Logger: logger}

	checkFlags.apply(cmd, svc.Draft)
	_ = svc.CaptureLocation(cmd.Context(), checkFlags.location(cmd))
	if checkFlags.photo != "" {
		if info, err := os.Stat(checkFlags.photo); err == nil && info.Mode().IsRegular() {
			svc.Draft.SetProfilePicture(checkFlags.photo)
		} else {
			svc.Draft.SetError(profile.FieldProfilePicLocation, draft.MsgPictureInvalid)
		}
	}

	if !svc.Draft.CheckSubmit() {
		exitWithFieldErrors(svc.Draft.Errors())
	}

	if humanOutput {
		outputHuman("All fields valid\n")
	} else {
		outputJSON(StatusResponse{Status: "valid"})
	}
	return nil
}
