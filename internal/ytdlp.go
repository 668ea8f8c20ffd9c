package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/lrstanley/go-ytdlp"
)

// subtitleFormat is one downloadable rendition of a caption track in yt-dlp's info JSON
type subtitleFormat struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ytdlpInfo is the part of --dump-single-json output we read
type ytdlpInfo struct {
	ID                string                      `json:"id"`
	Title             string                      `json:"title"`
	Subtitles         map[string][]subtitleFormat `json:"subtitles"`
	AutomaticCaptions map[string][]subtitleFormat `json:"automatic_captions"`
}

// json3 is YouTube's JSON caption format
type json3 struct {
	Events []map[string]any `json:"events"`
}

// YtDlp lists transcripts through yt-dlp and downloads them over HTTP.
type YtDlp struct {
	client *http.Client
	logger *slog.Logger

	install     func(context.Context) error
	installOnce sync.Once
	installErr  error
}

// NewYtDlp creates a yt-dlp backed provider
func NewYtDlp(client *http.Client, logger *slog.Logger) *YtDlp {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &YtDlp{client: client, logger: logger, install: installYtDlp}
}

// installYtDlp makes sure a yt-dlp binary is available, downloading it into
// the cache when it is not on PATH.
func installYtDlp(ctx context.Context) error {
	_, err := ytdlp.Install(ctx, nil)
	return err
}

// Fetch returns the entries of the best transcript for languages.
func (y *YtDlp) Fetch(ctx context.Context, videoID string, languages []string) ([]Entry, error) {
	return fetchFromList(ctx, y, videoID, languages)
}

func (y *YtDlp) fetchesFromList() {}

// List runs yt-dlp to collect manual subtitles and automatic captions.
func (y *YtDlp) List(ctx context.Context, videoID string) (*TranscriptList, error) {
	y.installOnce.Do(func() {
		y.installErr = y.install(ctx)
	})
	if y.installErr != nil {
		return nil, fmt.Errorf("installing yt-dlp: %w", y.installErr)
	}

	dl := ytdlp.New().
		DumpSingleJSON(). // Get all info in JSON format
		NoPlaylist().     // Don't process playlists
		SkipDownload()    // Don't download the actual video

	y.logger.Debug("running yt-dlp", slog.String("video", videoID))
	result, err := dl.Run(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err != nil {
		if result != nil {
			y.logger.Debug("yt-dlp stderr", slog.String("stderr", result.Stderr))
		}
		return nil, fmt.Errorf("extracting video info: %w", err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
		return nil, fmt.Errorf("parsing video info: %w", err)
	}

	return y.transcriptsFromInfo(videoID, &info)
}

// transcriptsFromInfo lists manual tracks before generated ones, each group
// ordered by language code.
func (y *YtDlp) transcriptsFromInfo(videoID string, info *ytdlpInfo) (*TranscriptList, error) {
	if len(info.Subtitles) == 0 && len(info.AutomaticCaptions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTranscriptsDisabled, videoID)
	}

	var transcripts []*Transcript
	add := func(tracks map[string][]subtitleFormat, generated bool) {
		codes := make([]string, 0, len(tracks))
		for code := range tracks {
			if code == "live_chat" {
				continue
			}
			codes = append(codes, code)
		}
		slices.Sort(codes)

		for _, code := range codes {
			format, ok := pickJSON3(tracks[code])
			if !ok {
				y.logger.Debug("no json3 rendition", slog.String("language", code))
				continue
			}
			url := format.URL
			transcripts = append(transcripts, NewTranscript(videoID, format.Name, code, Bool(generated),
				func(ctx context.Context) ([]Entry, error) {
					return y.fetchJSON3(ctx, url)
				}))
		}
	}
	add(info.Subtitles, false)
	add(info.AutomaticCaptions, true)

	return NewTranscriptList(videoID, transcripts), nil
}

func pickJSON3(formats []subtitleFormat) (subtitleFormat, bool) {
	for _, f := range formats {
		if f.Ext == "json3" && f.URL != "" {
			return f, true
		}
	}
	return subtitleFormat{}, false
}

func (y *YtDlp) fetchJSON3(ctx context.Context, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch json3 captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch json3 captions: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBytes))
	if err != nil {
		return nil, fmt.Errorf("reading json3 captions: %w", err)
	}
	return parseJSON3(body)
}

// parseJSON3 turns caption events into EntryMap values. Events without
// segments (window styling, line breaks) have no "text" key.
func parseJSON3(body []byte) ([]Entry, error) {
	var doc json3
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parsing json3 captions: %w", err)
	}

	entries := make([]Entry, 0, len(doc.Events))
	for _, event := range doc.Events {
		entry := EntryMap{}
		if start, ok := event["tStartMs"].(float64); ok {
			entry["start"] = start / 1000
		}
		if dur, ok := event["dDurationMs"].(float64); ok {
			entry["duration"] = dur / 1000
		}

		segs, _ := event["segs"].([]any)
		var sb strings.Builder
		for _, s := range segs {
			seg, _ := s.(map[string]any)
			text, _ := seg["utf8"].(string)
			sb.WriteString(text)
		}
		if text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " ")); text != "" {
			entry["text"] = text
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
