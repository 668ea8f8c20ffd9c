package internal

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpenAI struct {
	model  string
	prompt string
	reply  string
	err    error
}

func (f *fakeOpenAI) CreateChatCompletion(_ context.Context, model, prompt string) (string, error) {
	f.model = model
	f.prompt = prompt
	return f.reply, f.err
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		DefaultLanguage:    DefaultLanguage,
		Provider:           ProviderInnertube,
		HTTPTimeout:        time.Second,
		Cache:              true,
		TranscriptsDir:     filepath.Join(dir, "transcripts"),
		TLDRModel:          "gpt-4o-mini",
		SummaryLanguage:    "English",
		MaxTranscriptChars: 15000,
		ConfigDir:          filepath.Join(dir, "config"),
		DataDir:            filepath.Join(dir, "data"),
		CacheDir:           filepath.Join(dir, "cache"),
	}
}

func newTestApp(t *testing.T, config *Config, p Provider, options ...AppOption) *App {
	t.Helper()
	options = append([]AppOption{WithProvider(p), WithUI(&StandardUIManager{})}, options...)
	app, err := NewApp(config, nil, options...)
	require.NoError(t, err)
	return app
}

func TestGetTranscriptCache(t *testing.T) {
	config := testConfig(t)
	p := &fakeProvider{fetchEntries: []Entry{Snippet{Text: "fresh"}, Snippet{Text: "text"}}}
	app := newTestApp(t, config, p)

	res, err := app.GetTranscript(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "")
	require.NoError(t, err)
	assert.Equal(t, "fresh text", res.Text)
	assert.Equal(t, SourceDirect, res.Source)
	assert.Equal(t, [][]string{{"en"}}, p.fetchLanguages)

	res, err = app.GetTranscript(context.Background(), "dQw4w9WgXcQ", "en")
	require.NoError(t, err)
	assert.Equal(t, "fresh text", res.Text)
	assert.Equal(t, SourceCache, res.Source)
	assert.Len(t, p.fetchLanguages, 1)

	// another language misses the cache
	_, err = app.GetTranscript(context.Background(), "dQw4w9WgXcQ", "fr")
	require.NoError(t, err)
	assert.Len(t, p.fetchLanguages, 2)
}

func TestGetTranscriptNoCache(t *testing.T) {
	config := testConfig(t)
	config.Cache = false
	p := &fakeProvider{fetchEntries: []Entry{Snippet{Text: "text"}}}
	app := newTestApp(t, config, p)

	for range 2 {
		_, err := app.GetTranscript(context.Background(), "dQw4w9WgXcQ", "en")
		require.NoError(t, err)
	}
	assert.Len(t, p.fetchLanguages, 2)
	assert.NoDirExists(t, config.TranscriptsDir)
}

func TestGetTranscriptFailure(t *testing.T) {
	config := testConfig(t)
	p := &fakeProvider{fetchErr: ErrNoTranscriptFound}
	app := newTestApp(t, config, p)

	_, err := app.GetTranscript(context.Background(), "abc123", "fr")
	require.ErrorIs(t, err, ErrNoTranscriptsAvailable)

	var failure *FailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "abc123", failure.VideoID)
	assert.True(t, strings.HasPrefix(err.Error(), "Could not retrieve a transcript for video ID abc123"))

	_, ok, _ := LoadTranscript("abc123", "fr", config.TranscriptsDir)
	assert.False(t, ok)
}

func TestListTranscripts(t *testing.T) {
	config := testConfig(t)
	p := &fakeProvider{list: NewTranscriptList("dQw4w9WgXcQ", []*Transcript{stubTranscript("en", Bool(true))})}
	app := newTestApp(t, config, p)

	list, err := app.ListTranscripts(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())
	assert.Equal(t, "en         generated  en name\n", FormatTranscriptList(list))

	p.listErr = ErrTranscriptsDisabled
	_, err = app.ListTranscripts(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrTranscriptsDisabled)
}

func TestGenerateSummary(t *testing.T) {
	config := testConfig(t)
	config.MaxTranscriptChars = 10
	client := &fakeOpenAI{reply: "## Summary"}
	app := newTestApp(t, config, &fakeProvider{}, WithAI(NewAI(client, "gpt-4o", time.Second)))
	app.SetPromptManager(NewPromptManager(config.ConfigDir, "{{.Language}}|{{.Transcript}}"))

	summary, err := app.GenerateSummary(context.Background(), "vid", "0123456789abcdef", "Turkish")
	require.NoError(t, err)
	assert.Equal(t, "## Summary", summary)
	assert.Equal(t, "gpt-4o", client.model)
	assert.Equal(t, "Turkish|0123456789", client.prompt)

	_, err = app.GenerateSummary(context.Background(), "vid", "", "Turkish")
	assert.Error(t, err)

	client.err = errors.New("rate limited")
	_, err = app.GenerateSummary(context.Background(), "vid", "text", "Turkish")
	assert.ErrorContains(t, err, "rate limited")
}

func TestSummarizePicksTranscriptLanguage(t *testing.T) {
	config := testConfig(t)
	p := &fakeProvider{fetchEntries: []Entry{Snippet{Text: "merhaba"}}}
	client := &fakeOpenAI{reply: "ok"}
	app := newTestApp(t, config, p, WithAI(NewAI(client, "gpt-4o-mini", 0)))
	app.SetPromptManager(NewPromptManager(config.ConfigDir, "{{.Language}}: {{.Transcript}}"))

	_, err := app.Summarize(context.Background(), "dQw4w9WgXcQ", "", "Turkish")
	require.NoError(t, err)
	assert.Equal(t, []string{"tr", "en"}, p.fetchLanguages[0])
	assert.Equal(t, "Turkish: merhaba", client.prompt)

	// config summary language applies when none is given
	_, err = app.Summarize(context.Background(), "dQw4w9WgXcQ", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, p.fetchLanguages[1])
	assert.Equal(t, "English: merhaba", client.prompt)
}

func TestSummaryWithoutKey(t *testing.T) {
	ai := NewAIWithKey("", "gpt-4o-mini", time.Second)
	_, err := ai.Summary(context.Background(), "prompt")
	assert.ErrorContains(t, err, "API key")
}
