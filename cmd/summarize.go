package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytranscript/internal"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize <video_id> [language_code]",
	Short: "Summarize a YouTube video from its transcript",
	Example: `  # Summarize in English
  ytranscript summarize "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

  # Summarize in Arabic, reading the Arabic transcript when there is one
  ytranscript summarize dQw4w9WgXcQ --summary-language Arabic

  # Use a specific OpenAI model
  ytranscript summarize dQw4w9WgXcQ --model gpt-4o

  # Use a custom prompt
  ytranscript summarize dQw4w9WgXcQ --prompt "tldr in {{.Language}}: {{.Transcript}}"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
			return err
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := internal.HandlePromptFlag(cmd, app); err != nil {
			return err
		}

		lang := ""
		if len(args) > 1 {
			lang = args[1]
		}
		summaryLanguage, _ := cmd.Flags().GetString("summary-language")

		summary, err := app.Summarize(cmd.Context(), args[0], lang, summaryLanguage)
		if err != nil {
			return err
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw || !internal.StdoutIsTerminal() {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), summary)
			return err
		}

		rendered, err := internal.RenderMarkdown(summary)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
		return err
	},
}

func init() {
	internal.AddProviderFlags(summarizeCmd)
	internal.AddOpenAIFlags(summarizeCmd)
	summarizeCmd.Flags().Bool("raw", false, "Print the markdown without rendering it")
	rootCmd.AddCommand(summarizeCmd)
}
