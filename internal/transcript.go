package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoTranscriptFound means no transcript matched the requested languages or kind.
	ErrNoTranscriptFound = errors.New("no transcript found")
	// ErrTranscriptsDisabled means the video owner turned captions off.
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	// ErrNoTranscriptsAvailable means every lookup in the fallback chain came up empty.
	ErrNoTranscriptsAvailable = errors.New("no transcripts available for this video")
	// ErrEmptyTranscript means a transcript was fetched but held no text.
	ErrEmptyTranscript = errors.New("transcript is empty")
	// ErrVideoUnavailable means the provider could not play the video at all.
	ErrVideoUnavailable = errors.New("video unavailable")
)

// Entry is one caption line returned by a provider.
type Entry interface {
	EntryText() string
}

// EntryMap is a caption line decoded as loose key/value data.
type EntryMap map[string]any

// EntryText returns the "text" value, or "" when it is missing or not a string.
func (m EntryMap) EntryText() string {
	s, _ := m["text"].(string)
	return s
}

// Snippet is a caption line with timing.
type Snippet struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

func (s Snippet) EntryText() string {
	return s.Text
}

// entryText reads the text of e. Nil entries yield "".
func entryText(e Entry) string {
	if e == nil {
		return ""
	}
	return e.EntryText()
}

// FlattenEntries joins the non-empty entry texts with single spaces.
func FlattenEntries(entries []Entry) string {
	texts := make([]string, 0, len(entries))
	for _, e := range entries {
		if t := entryText(e); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.TrimSpace(strings.Join(texts, " "))
}

// FetchFunc downloads the caption lines of one transcript.
type FetchFunc func(ctx context.Context) ([]Entry, error)

// Transcript describes one transcript available for a video.
type Transcript struct {
	VideoID      string
	Language     string
	LanguageCode string
	// Generated is nil when the provider cannot tell manual from generated.
	Generated *bool

	fetch FetchFunc
}

// NewTranscript creates a transcript descriptor backed by fetch.
func NewTranscript(videoID, language, languageCode string, generated *bool, fetch FetchFunc) *Transcript {
	return &Transcript{
		VideoID:      videoID,
		Language:     language,
		LanguageCode: languageCode,
		Generated:    generated,
		fetch:        fetch,
	}
}

// Fetch downloads the caption lines
func (t *Transcript) Fetch(ctx context.Context) ([]Entry, error) {
	if t.fetch == nil {
		return nil, fmt.Errorf("transcript %s/%s has no fetcher", t.VideoID, t.LanguageCode)
	}
	return t.fetch(ctx)
}

// Kind returns "manual", "generated" or "unknown".
func (t *Transcript) Kind() string {
	switch {
	case t.Generated == nil:
		return "unknown"
	case *t.Generated:
		return "generated"
	default:
		return "manual"
	}
}

func (t *Transcript) isManual() bool    { return t.Generated != nil && !*t.Generated }
func (t *Transcript) isGenerated() bool { return t.Generated != nil && *t.Generated }
func (t *Transcript) isUnknown() bool   { return t.Generated == nil }

func (t *Transcript) String() string {
	lang := t.Language
	if lang == "" {
		lang = t.LanguageCode
	}
	return fmt.Sprintf("%s (%s, %s)", lang, t.LanguageCode, t.Kind())
}

// Bool returns a pointer to b, for filling Transcript.Generated.
func Bool(b bool) *bool {
	return &b
}

// TranscriptList holds every transcript available for a video, in provider order.
type TranscriptList struct {
	VideoID     string
	transcripts []*Transcript
}

// NewTranscriptList creates a list over transcripts, keeping their order.
func NewTranscriptList(videoID string, transcripts []*Transcript) *TranscriptList {
	return &TranscriptList{VideoID: videoID, transcripts: transcripts}
}

// All returns the transcripts in listing order.
func (l *TranscriptList) All() []*Transcript {
	return l.transcripts
}

// Len returns the number of transcripts.
func (l *TranscriptList) Len() int {
	return len(l.transcripts)
}

// First returns the first listed transcript, if any.
func (l *TranscriptList) First() (*Transcript, bool) {
	if len(l.transcripts) == 0 {
		return nil, false
	}
	return l.transcripts[0], true
}

// FindManual returns the first manually created transcript matching languages,
// trying languages in order.
func (l *TranscriptList) FindManual(languages ...string) (*Transcript, error) {
	return l.find(languages, (*Transcript).isManual)
}

// FindGenerated returns the first auto-generated transcript matching languages.
func (l *TranscriptList) FindGenerated(languages ...string) (*Transcript, error) {
	return l.find(languages, (*Transcript).isGenerated)
}

// FindUnknownKind returns the first transcript matching languages whose kind
// the provider did not report.
func (l *TranscriptList) FindUnknownKind(languages ...string) (*Transcript, error) {
	return l.find(languages, (*Transcript).isUnknown)
}

// FindTranscript tries each language in order, preferring manual over
// generated over unknown-kind transcripts for the same language.
func (l *TranscriptList) FindTranscript(languages ...string) (*Transcript, error) {
	for _, lang := range languages {
		for _, match := range []func(*Transcript) bool{(*Transcript).isManual, (*Transcript).isGenerated, (*Transcript).isUnknown} {
			if t, err := l.find([]string{lang}, match); err == nil {
				return t, nil
			}
		}
	}
	return nil, l.notFound(languages)
}

func (l *TranscriptList) find(languages []string, match func(*Transcript) bool) (*Transcript, error) {
	for _, lang := range languages {
		for _, t := range l.transcripts {
			if t.LanguageCode == lang && match(t) {
				return t, nil
			}
		}
	}
	return nil, l.notFound(languages)
}

func (l *TranscriptList) notFound(languages []string) error {
	codes := make([]string, 0, len(l.transcripts))
	for _, t := range l.transcripts {
		codes = append(codes, t.LanguageCode)
	}
	return fmt.Errorf("%w for %s in %v (available: %v)", ErrNoTranscriptFound, l.VideoID, languages, codes)
}
