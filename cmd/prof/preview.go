package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/profiles/internal/desktop"
)

var (
	previewOpen bool
	previewCopy bool
)

func init() {
	previewCmd.Flags().BoolVar(&previewOpen, "open", false, "Open the photograph in the configured image viewer")
	previewCmd.Flags().BoolVar(&previewCopy, "copy", false, "Copy the file URI to the clipboard")
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview <mobile>",
	Short: "Print the file URI of a profile's photograph",
	Long: `Print the file:// URI of a profile's photograph.

With --open the photograph is shown in the image viewer set by
"prof config image-viewer" (default: the system viewer). With --copy the
URI is also placed on the clipboard.

Exits with code 5 when the profile does not exist or its photograph is
missing from managed storage.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
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

	uri, ok := assets.ResolvePreviewable(rec.ProfilePicLocation)
	if !ok {
		exitWithError(ExitNotFound, "no photograph available for %s", mobile)
	}

	if previewOpen {
		path, _ := assets.LocalPath(rec.ProfilePicLocation)
		if err := desktop.NewOpener(settings.ImageViewer).Open(path); err != nil {
			exitWithError(ExitError, "opening photograph: %v", err)
		}
		logger.Debug("opened photograph", zap.String("path", path), zap.String("viewer", settings.ImageViewer))
	}
	if previewCopy {
		if err := desktop.Copy(uri); err != nil {
			exitWithError(ExitError, "copying to clipboard: %v", err)
		}
	}

	if humanOutput {
		outputHuman("%s\n", uri)
		if previewCopy {
			outputHuman("Copied to clipboard\n")
		}
	} else {
		outputJSON(PreviewResponse{MobileNumber: mobile, Preview: uri})
	}
	return nil
}
