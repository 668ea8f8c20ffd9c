package internal

import (
	"context"
	"fmt"
	"log/slog"
)

// SourceCache marks a Result read from the transcript cache.
const SourceCache = "cache"

// App holds the application state and dependencies
type App struct {
	provider      Provider
	resolver      *Resolver
	ai            *AI
	promptManager *PromptManager
	config        *Config
	ui            UIManager
	logger        *slog.Logger
}

// NewApp initializes the application
func NewApp(config *Config, logger *slog.Logger, options ...AppOption) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	app := &App{
		ai:            NewAIWithKey(config.OpenAIAPIKey, config.TLDRModel, config.SummaryTimeout),
		promptManager: NewPromptManager(config.ConfigDir, config.Prompt),
		config:        config,
		ui:            NewUIManager(config.Verbose, config.Quiet),
		logger:        logger,
	}

	for _, option := range options {
		option(app)
	}

	if app.provider == nil {
		provider, err := NewProvider(config, logger)
		if err != nil {
			return nil, err
		}
		app.provider = provider
	}
	app.resolver = NewResolver(app.provider, config.DefaultLanguage, logger)

	return app, nil
}

// AppOption customizes App creation
type AppOption func(*App)

// WithProvider sets a custom transcript provider
func WithProvider(provider Provider) AppOption {
	return func(a *App) {
		a.provider = provider
	}
}

// WithAI sets a custom AI processor
func WithAI(ai *AI) AppOption {
	return func(a *App) {
		a.ai = ai
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// SetPromptManager sets a new prompt manager
func (app *App) SetPromptManager(pm *PromptManager) {
	app.promptManager = pm
}

// GetTranscript resolves the transcript for a video ID or URL, using the cache
// when enabled. An empty lang means the configured default language.
// Resolution failures are returned as *FailureError.
func (app *App) GetTranscript(ctx context.Context, arg, lang string) (*Result, error) {
	_, youtubeID, err := ParseArg(arg)
	if err != nil {
		return nil, err
	}
	if lang == "" {
		lang = app.config.DefaultLanguage
	}

	if app.config.Cache {
		text, ok, err := LoadTranscript(youtubeID, lang, app.config.TranscriptsDir)
		if err != nil {
			app.logger.Warn("transcript cache unreadable", slog.Any("error", err))
		}
		if ok {
			app.logger.Info("using cached transcript", slog.String("video", youtubeID), slog.String("language", lang))
			return &Result{VideoID: youtubeID, Text: text, Source: SourceCache}, nil
		}
	}

	spinner := app.ui.NewSpinner("Fetching transcript...")
	result, err := app.resolver.Resolve(ctx, youtubeID, lang)
	spinner.Finish()
	if err != nil {
		return nil, &FailureError{VideoID: youtubeID, Err: err}
	}

	if app.config.Cache {
		if err := SaveTranscript(youtubeID, lang, result.Text, app.config.TranscriptsDir); err != nil {
			app.logger.Warn("caching transcript failed", slog.Any("error", err))
		}
	}
	return result, nil
}

// ListTranscripts returns every transcript available for a video ID or URL.
func (app *App) ListTranscripts(ctx context.Context, arg string) (*TranscriptList, error) {
	_, youtubeID, err := ParseArg(arg)
	if err != nil {
		return nil, err
	}

	spinner := app.ui.NewSpinner("Listing transcripts...")
	defer spinner.Finish()

	list, err := app.provider.List(ctx, youtubeID)
	if err != nil {
		return nil, &FailureError{VideoID: youtubeID, Err: err}
	}
	return list, nil
}

// GenerateSummary prompts the model with a transcript and returns the raw markdown
func (app *App) GenerateSummary(ctx context.Context, videoID, transcript, summaryLanguage string) (string, error) {
	if transcript == "" {
		return "", fmt.Errorf("transcript is empty")
	}

	transcript, truncated := Truncate(transcript, app.config.MaxTranscriptChars)
	if truncated {
		app.logger.Warn("transcript too long, truncating", slog.Int("max_chars", app.config.MaxTranscriptChars))
	}

	prompt, err := app.promptManager.CreatePrompt(PromptData{
		VideoID:    videoID,
		Language:   summaryLanguage,
		Transcript: transcript,
	})
	if err != nil {
		return "", fmt.Errorf("creating prompt: %w", err)
	}

	spinner := app.ui.NewSpinner("Summarizing...")
	defer spinner.Finish()

	app.logger.Info("requesting summary", slog.String("model", app.config.TLDRModel), slog.String("language", summaryLanguage))
	summary, err := app.ai.Summary(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}
	return summary, nil
}

// Summarize performs the complete workflow: get transcript -> summarize.
// An empty lang picks the transcript language matching summaryLanguage.
func (app *App) Summarize(ctx context.Context, arg, lang, summaryLanguage string) (string, error) {
	if summaryLanguage == "" {
		summaryLanguage = app.config.SummaryLanguage
	}
	if lang == "" {
		lang = LanguageCodeFor(summaryLanguage, app.config.DefaultLanguage)
	}

	result, err := app.GetTranscript(ctx, arg, lang)
	if err != nil {
		return "", err
	}

	return app.GenerateSummary(ctx, result.VideoID, result.Text, summaryLanguage)
}
