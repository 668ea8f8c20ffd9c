package cmd

import (
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytranscript/internal"
)

// appOptions apply to every App the commands build
var appOptions []internal.AppOption

// newApp applies the provider flags and builds the application
func newApp(cmd *cobra.Command, options ...internal.AppOption) (*internal.App, error) {
	if err := internal.HandleProviderFlags(cmd, config); err != nil {
		return nil, err
	}
	return internal.NewApp(config, logger, slices.Concat(appOptions, options)...)
}

// fetchTranscript resolves the transcript text for a video ID or URL
func fetchTranscript(cmd *cobra.Command, app *internal.App, arg, lang string) (string, error) {
	result, err := app.GetTranscript(cmd.Context(), arg, lang)
	if err != nil {
		return "", err
	}

	logger.Debug("transcript resolved",
		slog.String("video", result.VideoID),
		slog.String("source", result.Source),
		slog.Int("chars", len(result.Text)),
	)
	return result.Text, nil
}
