package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/profiles/internal/draft"
	"github.com/matsen/profiles/internal/intake"
	"github.com/matsen/profiles/internal/profile"
	"github.com/matsen/profiles/internal/storage"
)

var addFlags recordFlags

func init() {
	addFlags.register(addCmd)
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Validate and store a new profile",
	Long: `Validate and store a new profile.

Every field is validated; on failure the per-field messages are printed and
nothing is stored. The photograph is copied into managed storage and removed
again if the profile is rejected.

Example:
  prof add --first-name Naman --last-name Mishra --mobile 9988776655 \
    --dob 1999-04-02 --gender Male --education Graduate \
    --address "CDAC, Pune Maharastra" --lat 18.5352 --long 73.8111 \
    --photo ~/Pictures/naman.jpg`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	assets := newAssetManager()
	store := mustOpenStore(ctx, assets)
	defer store.Close()

	svc := &intake.Service{
		Draft:  newDraft(),
		Assets: assets,
		Store:  store,
		Logger: logger,
	}

	addFlags.apply(cmd, svc.Draft)
	if err := svc.CaptureLocation(ctx, addFlags.location(cmd)); err != nil {
		logger.Debug("no usable location", zap.Error(err))
	}
	if addFlags.photo != "" {
		// failure is recorded on the draft and reported by Submit
		_ = svc.AttachPicture(addFlags.photo)
	}

	id, err := svc.Submit(ctx)
	if err != nil {
		errs := svc.Draft.Errors()
		svc.Discard()
		switch {
		case storage.IsDuplicateKey(err):
			exitWithError(ExitDuplicate, "mobileNumber: %s", draft.MsgMobileTaken)
		case intake.IsValidation(err):
			exitWithFieldErrors(errs)
		case storage.IsStorageUnavailable(err):
			exitWithError(ExitStorageError, "%v", err)
		default:
			exitWithError(ExitError, "%v", err)
		}
	}

	rec, err := store.FindByKey(ctx, addFlags.mobile)
	if err != nil || rec == nil {
		exitWithError(ExitError, "reading back stored profile: %v", err)
	}
	resp := recordResponse(*rec, assets)

	if humanOutput {
		outputHuman("Stored profile %d\n\n", id)
		printRecordHuman(resp)
	} else {
		outputJSON(CreatedResponse{Status: "created", ID: id, Record: resp})
	}
	return nil
}

// previewer resolves a picture path to a displayable URI.
type previewer interface {
	ResolvePreviewable(rel string) (string, bool)
}

func recordResponse(r profile.Record, p previewer) RecordResponse {
	uri, _ := p.ResolvePreviewable(r.ProfilePicLocation)
	return RecordResponse{Record: r, Preview: uri}
}
