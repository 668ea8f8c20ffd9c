package internal

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	AddProviderFlags(cmd)
	AddOpenAIFlags(cmd)
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().Bool("quiet", false, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestHandleProviderFlags(t *testing.T) {
	config := &Config{Provider: ProviderInnertube, Cache: true}
	require.NoError(t, HandleProviderFlags(newFlagCommand(t), config))
	assert.Equal(t, ProviderInnertube, config.Provider)
	assert.True(t, config.Cache)

	require.NoError(t, HandleProviderFlags(newFlagCommand(t, "--provider", "ytdlp", "--no-cache"), config))
	assert.Equal(t, ProviderYtDlp, config.Provider)
	assert.False(t, config.Cache)

	err := HandleProviderFlags(newFlagCommand(t, "--provider", "pytube"), config)
	assert.ErrorContains(t, err, "unsupported provider")
}

func TestHandleVerboseFlag(t *testing.T) {
	config := &Config{Quiet: true}
	require.NoError(t, HandleVerboseFlag(newFlagCommand(t, "--quiet=false", "--verbose"), config))
	assert.True(t, config.Verbose)
	assert.False(t, config.Quiet)

	err := HandleVerboseFlag(newFlagCommand(t, "--verbose", "--quiet"), &Config{})
	assert.Error(t, err)
}

func TestValidateOpenAIRequirements(t *testing.T) {
	config := &Config{TLDRModel: "gpt-4o-mini"}
	assert.ErrorContains(t, ValidateOpenAIRequirements(newFlagCommand(t), config), "API key")

	config.OpenAIAPIKey = "sk-test"
	require.NoError(t, ValidateOpenAIRequirements(newFlagCommand(t, "--model", "gpt-4o"), config))
	assert.Equal(t, "gpt-4o", config.TLDRModel)

	assert.ErrorContains(t, ValidateOpenAIRequirements(newFlagCommand(t, "-m", "davinci"), config), "unsupported model")

	config.TLDRModel = "davinci"
	assert.ErrorContains(t, ValidateOpenAIRequirements(newFlagCommand(t), config), "invalid model in config")
}

func TestHandlePromptFlag(t *testing.T) {
	config := testConfig(t)
	app := newTestApp(t, config, &fakeProvider{})
	before := app.promptManager

	require.NoError(t, HandlePromptFlag(newFlagCommand(t), app))
	assert.Same(t, before, app.promptManager)

	require.NoError(t, HandlePromptFlag(newFlagCommand(t, "--prompt", "short: {{.Transcript}}"), app))
	prompt, err := app.promptManager.CreatePrompt(PromptData{Transcript: "x"})
	require.NoError(t, err)
	assert.Equal(t, "short: x", prompt)
}
