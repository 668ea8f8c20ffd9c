package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddProviderFlags adds flags that control transcript lookup
func AddProviderFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Transcript provider (innertube or ytdlp)")
	cmd.Flags().Bool("no-cache", false, "Skip the transcript cache")
}

// AddOpenAIFlags adds flags related to OpenAI API functionality
func AddOpenAIFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "OpenAI model to use for summaries")
	cmd.Flags().StringP("prompt", "p", "", "Custom prompt (string or file path)")
	cmd.Flags().StringP("summary-language", "s", "", "Language to write the summary in (e.g. English, Arabic, Turkish)")
}

// HandleProviderFlags applies --provider and --no-cache to config
func HandleProviderFlags(cmd *cobra.Command, config *Config) error {
	if f := cmd.Flags().Lookup("provider"); f != nil && f.Changed {
		config.Provider = f.Value.String()
	}
	if err := ValidateProvider(config.Provider); err != nil {
		return err
	}

	if noCache, err := cmd.Flags().GetBool("no-cache"); err == nil && noCache {
		config.Cache = false
	}
	return nil
}

// HandlePromptFlag processes the --prompt flag to set custom prompt
func HandlePromptFlag(cmd *cobra.Command, app *App) error {
	promptFlag := cmd.Flags().Lookup("prompt")
	if promptFlag == nil || !promptFlag.Changed {
		return nil
	}

	prompt, err := cmd.Flags().GetString("prompt")
	if err != nil {
		return fmt.Errorf("failed to get prompt flag: %w", err)
	}

	if prompt == "" {
		return nil
	}

	app.SetPromptManager(NewPromptManager(app.config.ConfigDir, prompt))
	return nil
}

// HandleVerboseFlag processes the --verbose and --quiet flags to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Changed {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		config.Verbose = verbose
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Changed {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		config.Quiet = quiet
	}
	if config.Verbose && config.Quiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	return nil
}

// ValidateOpenAIRequirements validates OpenAI API key and model from command flags and config
func ValidateOpenAIRequirements(cmd *cobra.Command, config *Config) error {
	if err := ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
		return err
	}

	modelFlag, _ := cmd.Flags().GetString("model")
	if modelFlag != "" {
		if err := ValidateModel(modelFlag); err != nil {
			return err
		}
		config.TLDRModel = modelFlag
	} else if err := ValidateModel(config.TLDRModel); err != nil {
		return fmt.Errorf("invalid model in config: %w", err)
	}

	return nil
}
