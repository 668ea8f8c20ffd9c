package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
default_language = "de"
provider = "ytdlp"
http_timeout = "5s"
cache = false
max_transcript_chars = 100
`), 0644))

	config := InitConfig(file)
	assert.Equal(t, "de", config.DefaultLanguage)
	assert.Equal(t, ProviderYtDlp, config.Provider)
	assert.Equal(t, 5*time.Second, config.HTTPTimeout)
	assert.False(t, config.Cache)
	assert.Equal(t, 100, config.MaxTranscriptChars)

	// untouched keys keep their defaults
	assert.Equal(t, "gpt-4o-mini", config.TLDRModel)
	assert.Equal(t, "English", config.SummaryLanguage)
	assert.Equal(t, filepath.Join(config.DataDir, "transcripts"), config.TranscriptsDir)
}

func TestInitConfigEnv(t *testing.T) {
	t.Setenv("YTRANSCRIPT_PROVIDER", "ytdlp")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	config := InitConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Equal(t, ProviderYtDlp, config.Provider)
	assert.Equal(t, "sk-test", config.OpenAIAPIKey)
	assert.Equal(t, DefaultLanguage, config.DefaultLanguage)
}

func TestEmbeddedDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, EnsureDefaultConfig(dir))
	require.NoError(t, EnsureDefaultPrompt(dir))

	config := InitConfig(filepath.Join(dir, "config.toml"))
	assert.Equal(t, DefaultLanguage, config.DefaultLanguage)
	assert.Equal(t, ProviderInnertube, config.Provider)
	assert.True(t, config.Cache)
	assert.Equal(t, 15000, config.MaxTranscriptChars)
	assert.FileExists(t, filepath.Join(dir, "prompt.txt"))

	// existing files are left alone
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompt.txt"), []byte("mine"), 0644))
	require.NoError(t, EnsureDefaultPrompt(dir))
	content, err := os.ReadFile(filepath.Join(dir, "prompt.txt"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(content))
}
