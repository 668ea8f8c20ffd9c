package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

// Provider looks up and downloads YouTube transcripts
type Provider interface {
	// Fetch returns the caption lines of the best transcript for languages,
	// tried in order.
	Fetch(ctx context.Context, videoID string, languages []string) ([]Entry, error)
	// List returns every transcript available for the video.
	List(ctx context.Context, videoID string) (*TranscriptList, error)
}

// Provider names accepted in config and on the command line.
const (
	ProviderInnertube = "innertube"
	ProviderYtDlp     = "ytdlp"
)

var providerNames = []string{ProviderInnertube, ProviderYtDlp}

// ValidateProvider checks if the provider name is supported
func ValidateProvider(name string) error {
	if slices.Contains(providerNames, name) {
		return nil
	}
	return fmt.Errorf("unsupported provider: %s (supported: %s)", name, strings.Join(providerNames, ", "))
}

// NewProvider builds the provider selected in config.
func NewProvider(config *Config, logger *slog.Logger) (Provider, error) {
	httpClient := &http.Client{Timeout: config.HTTPTimeout}

	switch config.Provider {
	case ProviderInnertube, "":
		return NewInnertube(httpClient, logger), nil
	case ProviderYtDlp:
		return NewYtDlp(httpClient, logger), nil
	default:
		return nil, ValidateProvider(config.Provider)
	}
}

// listBacked is implemented by providers whose Fetch is a List followed by
// a lookup.
type listBacked interface {
	Provider
	fetchesFromList()
}

// sharedListing runs List at most once, so a failed direct fetch and the
// fallback that follows it read the same listing.
type sharedListing struct {
	Provider
	done bool
	list *TranscriptList
	err  error
}

func (s *sharedListing) Fetch(ctx context.Context, videoID string, languages []string) ([]Entry, error) {
	return fetchFromList(ctx, s, videoID, languages)
}

func (s *sharedListing) List(ctx context.Context, videoID string) (*TranscriptList, error) {
	if !s.done {
		s.list, s.err = s.Provider.List(ctx, videoID)
		s.done = true
	}
	return s.list, s.err
}

// fetchFromList implements direct fetch on top of List for providers that
// have no cheaper path.
func fetchFromList(ctx context.Context, p Provider, videoID string, languages []string) ([]Entry, error) {
	list, err := p.List(ctx, videoID)
	if err != nil {
		return nil, err
	}
	t, err := list.FindTranscript(languages...)
	if err != nil {
		return nil, err
	}
	return t.Fetch(ctx)
}
