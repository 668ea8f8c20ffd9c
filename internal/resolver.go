package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultLanguage is tried after the preferred language.
const DefaultLanguage = "en"

// Resolution sources reported in Result.Source.
const (
	SourceDirect = "direct"
	SourceList   = "list"
)

// Result is a resolved transcript.
type Result struct {
	VideoID string
	Text    string
	Source  string
	// Transcript is the descriptor used on the list path; nil for direct fetches.
	Transcript *Transcript
}

// lookup is one step of the fallback chain over a transcript list.
// A step that finds nothing returns an error wrapping ErrNoTranscriptFound.
type lookup struct {
	name string
	find func(*TranscriptList) (*Transcript, error)
}

// Resolver picks a transcript for a video, falling back from the preferred
// language to the default language and finally to whatever is listed first.
type Resolver struct {
	provider        Provider
	defaultLanguage string
	logger          *slog.Logger
}

// NewResolver creates a resolver over provider. An empty defaultLanguage means "en".
func NewResolver(provider Provider, defaultLanguage string, logger *slog.Logger) *Resolver {
	if defaultLanguage == "" {
		defaultLanguage = DefaultLanguage
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		provider:        provider,
		defaultLanguage: defaultLanguage,
		logger:          logger,
	}
}

// Resolve returns the flattened transcript text for videoID.
func (r *Resolver) Resolve(ctx context.Context, videoID, preferredLang string) (*Result, error) {
	if preferredLang == "" {
		preferredLang = r.defaultLanguage
	}
	logger := r.logger.With(slog.String("video", videoID))

	provider := r.provider
	if _, ok := provider.(listBacked); ok {
		provider = &sharedListing{Provider: provider}
	}

	languages := dedupe(preferredLang, r.defaultLanguage)
	logger.Info("attempting direct fetch", slog.Any("languages", languages))
	entries, err := provider.Fetch(ctx, videoID, languages)
	switch {
	case err != nil:
		logger.Info("direct fetch failed", slog.Any("error", err))
	default:
		logEntries(logger, "direct fetch returned entries", entries)
		if text := FlattenEntries(entries); text != "" {
			logger.Info("transcript ok", slog.String("source", SourceDirect))
			return &Result{VideoID: videoID, Text: text, Source: SourceDirect}, nil
		}
		logger.Info("direct fetch returned entries but text was empty")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("falling back to transcript listing")
	list, err := provider.List(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("listing transcripts for %s: %w", videoID, err)
	}
	logAvailable(logger, list)

	transcript, err := choose(logger, list, r.lookups(preferredLang))
	if err != nil {
		return nil, err
	}

	entries, err = transcript.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s transcript for %s: %w", transcript.LanguageCode, videoID, err)
	}
	logEntries(logger, "fetched transcript entries", entries)

	text := FlattenEntries(entries)
	if text == "" {
		logger.Warn("fetched transcript has no text", slog.String("transcript", transcript.String()))
		return nil, fmt.Errorf("%w: %s %s", ErrEmptyTranscript, videoID, transcript)
	}

	logger.Info("transcript ok", slog.String("source", SourceList), slog.String("transcript", transcript.String()))
	return &Result{VideoID: videoID, Text: text, Source: SourceList, Transcript: transcript}, nil
}

// choose walks steps and returns the first match. Only ErrNoTranscriptFound
// advances the chain; any other error is returned as is.
func choose(logger *slog.Logger, list *TranscriptList, steps []lookup) (*Transcript, error) {
	for _, step := range steps {
		t, err := step.find(list)
		if err == nil {
			logger.Info("found transcript", slog.String("step", step.name), slog.String("transcript", t.String()))
			return t, nil
		}
		if !errors.Is(err, ErrNoTranscriptFound) {
			return nil, fmt.Errorf("%s lookup: %w", step.name, err)
		}
		logger.Debug("lookup found nothing", slog.String("step", step.name))
	}
	logger.Info("no transcript matched any lookup")
	return nil, fmt.Errorf("%w: %s", ErrNoTranscriptsAvailable, list.VideoID)
}

// lookups returns the fallback chain: manual beats generated, the preferred
// language beats the default one, and both beat the first listed transcript.
func (r *Resolver) lookups(preferredLang string) []lookup {
	var steps []lookup
	for _, lang := range dedupe(preferredLang, r.defaultLanguage) {
		steps = append(steps,
			lookup{name: "manual " + lang, find: func(l *TranscriptList) (*Transcript, error) { return l.FindManual(lang) }},
			lookup{name: "generated " + lang, find: func(l *TranscriptList) (*Transcript, error) { return l.FindGenerated(lang) }},
			lookup{name: "unknown-kind " + lang, find: func(l *TranscriptList) (*Transcript, error) { return l.FindUnknownKind(lang) }},
		)
	}
	return append(steps, lookup{name: "first available", find: func(l *TranscriptList) (*Transcript, error) {
		if t, ok := l.First(); ok {
			return t, nil
		}
		return nil, fmt.Errorf("%w: listing is empty", ErrNoTranscriptFound)
	}})
}

func dedupe(langs ...string) []string {
	out := make([]string, 0, len(langs))
	seen := make(map[string]bool, len(langs))
	for _, l := range langs {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func logAvailable(logger *slog.Logger, list *TranscriptList) {
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		return
	}
	all := list.All()
	sample := make([]string, 0, min(len(all), 10))
	for _, t := range all[:min(len(all), 10)] {
		sample = append(sample, t.String())
	}
	logger.Info("available transcripts", slog.Int("count", len(all)), slog.Any("sample", sample))
}

func logEntries(logger *slog.Logger, msg string, entries []Entry) {
	types := make([]string, 0, 5)
	for _, e := range entries[:min(len(entries), 5)] {
		types = append(types, fmt.Sprintf("%T", e))
	}
	logger.Info(msg, slog.Int("count", len(entries)), slog.Any("types", types))

	for i, e := range entries[:min(len(entries), 3)] {
		logger.Debug("sample entry", slog.Int("index", i), slog.String("value", fmt.Sprintf("%#v", e)))
	}
}
