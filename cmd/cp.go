package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rtzll/ytranscript/internal"
)

// cpCmd copies the transcript to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp <video_id> [language_code]",
	Short: "Copy a YouTube transcript to the clipboard",
	Example: `  # Copy the English transcript
  ytranscript cp "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  ytranscript cp dQw4w9WgXcQ

  # Prefer Turkish
  ytranscript cp dQw4w9WgXcQ tr`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		lang := ""
		if len(args) > 1 {
			lang = args[1]
		}

		transcript, err := fetchTranscript(cmd, app, args[0], lang)
		if err != nil {
			return err
		}

		if err := clipboard.WriteAll(transcript); err != nil {
			return fmt.Errorf("copying transcript to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "Transcript copied to clipboard")
		}

		return nil
	},
}

func init() {
	internal.AddProviderFlags(cpCmd)
	rootCmd.AddCommand(cpCmd)
}
