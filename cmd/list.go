package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytranscript/internal"
)

// listCmd prints the transcripts available for a video
var listCmd = &cobra.Command{
	Use:   "list <video_id>",
	Short: "List the transcripts available for a YouTube video",
	Example: `  # Show language codes and kinds
  ytranscript list dQw4w9WgXcQ
  ytranscript list "https://www.youtube.com/watch?v=dQw4w9WgXcQ"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		list, err := app.ListTranscripts(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), internal.FormatTranscriptList(list))
		return err
	},
}

func init() {
	internal.AddProviderFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}
