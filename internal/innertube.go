package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
)

// YouTube Innertube API: the ANDROID /player endpoint lists caption tracks,
// each track's baseUrl serves timedtext XML.

const (
	innertubePlayerURL = "https://www.youtube.com/youtubei/v1/player"
	ytAndroidVersion   = "20.10.38"
	ytAndroidUA        = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"

	// caption XML is small; anything larger is not a transcript
	maxTimedTextBytes = 4 << 20
)

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type innertubePlayerResp struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL string `json:"baseUrl"`
	Name    struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

func (t captionTrack) displayName() string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	var sb strings.Builder
	for _, r := range t.Name.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

type timedText struct {
	Lines []struct {
		Text  string  `xml:",chardata"`
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
	} `xml:"text"`
}

var htmlTagRE = regexp.MustCompile(`<[^>]*>`)

// Innertube lists and fetches transcripts straight from YouTube's internal API.
type Innertube struct {
	client    *http.Client
	playerURL string
	logger    *slog.Logger
}

// InnertubeOption customizes an Innertube provider
type InnertubeOption func(*Innertube)

// WithPlayerURL points the provider at a different /player endpoint
func WithPlayerURL(u string) InnertubeOption {
	return func(it *Innertube) {
		it.playerURL = u
	}
}

// NewInnertube creates the default provider
func NewInnertube(client *http.Client, logger *slog.Logger, options ...InnertubeOption) *Innertube {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	it := &Innertube{
		client:    client,
		playerURL: innertubePlayerURL,
		logger:    logger,
	}
	for _, option := range options {
		option(it)
	}
	return it
}

// Fetch returns the entries of the best transcript for languages.
func (it *Innertube) Fetch(ctx context.Context, videoID string, languages []string) ([]Entry, error) {
	return fetchFromList(ctx, it, videoID, languages)
}

func (it *Innertube) fetchesFromList() {}

// List asks the /player endpoint for the video's caption tracks.
func (it *Innertube) List(ctx context.Context, videoID string) (*TranscriptList, error) {
	player, err := it.player(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if ps := player.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
		return nil, fmt.Errorf("%w: %s: %s %s", ErrVideoUnavailable, videoID, ps.Status, ps.Reason)
	}
	if player.Captions == nil {
		return nil, fmt.Errorf("%w: %s", ErrTranscriptsDisabled, videoID)
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: %s has no caption tracks", ErrTranscriptsDisabled, videoID)
	}

	transcripts := make([]*Transcript, 0, len(tracks))
	for _, track := range tracks {
		baseURL := track.BaseURL
		transcripts = append(transcripts, NewTranscript(
			videoID,
			track.displayName(),
			track.LanguageCode,
			Bool(track.Kind == "asr"),
			func(ctx context.Context) ([]Entry, error) {
				return it.timedText(ctx, baseURL)
			},
		))
	}
	return NewTranscriptList(videoID, transcripts), nil
}

func (it *Innertube) player(ctx context.Context, videoID string) (*innertubePlayerResp, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, it.playerURL+"?prettyPrint=false", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", ytAndroidUA)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)

	it.logger.Debug("innertube player request", slog.String("video", videoID))
	resp, err := it.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("innertube player: status %d", resp.StatusCode)
	}

	var player innertubePlayerResp
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	return &player, nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

func (it *Innertube) timedText(ctx context.Context, baseURL string) ([]Entry, error) {
	if needsPoToken(baseURL) {
		return nil, errors.New("caption track requires a PO token")
	}
	// srv3 carries per-word timing; the plain format is one <text> per line
	baseURL = strings.ReplaceAll(baseURL, "&fmt=srv3", "")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ytAndroidUA)

	resp, err := it.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch timedtext: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBytes))
	if err != nil {
		return nil, fmt.Errorf("reading timedtext: %w", err)
	}
	return parseTimedText(body)
}

// parseTimedText converts timedtext XML into snippets, unescaping entities and
// dropping inline markup.
func parseTimedText(body []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	entries := make([]Entry, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := html.UnescapeString(line.Text)
		text = strings.TrimSpace(htmlTagRE.ReplaceAllString(text, ""))
		text = strings.ReplaceAll(text, "\n", " ")
		entries = append(entries, Snippet{Text: text, Start: line.Start, Duration: line.Dur})
	}
	return entries, nil
}
