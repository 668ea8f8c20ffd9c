package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTimedText = `<?xml version="1.0" encoding="utf-8" ?><transcript>
<text start="0.5" dur="1.2">Hello &amp;amp; welcome</text>
<text start="1.7" dur="2">to the &lt;font color=&quot;#fff&quot;&gt;show&lt;/font&gt;</text>
<text start="3.7" dur="1"></text>
<text start="4.7" dur="1">it&amp;#39;s
great</text>
</transcript>`

// newPlayerServer serves /player with player(serverURL) and /timedtext with captions.
func newPlayerServer(t *testing.T, player func(baseURL string) string, captions string) *httptest.Server {
	t.Helper()

	var baseURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/player", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req innertubeReq
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ANDROID", req.Context.Client.ClientName)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, player(baseURL))
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEqual(t, "srv3", r.URL.Query().Get("fmt"))
		fmt.Fprint(w, captions)
	})

	srv := httptest.NewUnstartedServer(mux)
	baseURL = "http://" + srv.Listener.Addr().String()
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

func playerJSON(baseURL string) string {
	return fmt.Sprintf(`{
  "playabilityStatus": {"status": "OK"},
  "captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
    {"baseUrl": "%[1]s/timedtext?v=vid&lang=en&kind=asr&fmt=srv3", "name": {"runs": [{"text": "English (auto-generated)"}]}, "languageCode": "en", "kind": "asr"},
    {"baseUrl": "%[1]s/timedtext?v=vid&lang=fr", "name": {"simpleText": "French"}, "languageCode": "fr"}
  ]}}
}`, baseURL)
}

func TestInnertubeList(t *testing.T) {
	srv := newPlayerServer(t, playerJSON, sampleTimedText)
	it := NewInnertube(srv.Client(), nil, WithPlayerURL(srv.URL+"/player"))
	list, err := it.List(context.Background(), "vid")
	require.NoError(t, err)
	require.Equal(t, 2, list.Len())

	en, err := list.FindGenerated("en")
	require.NoError(t, err)
	assert.Equal(t, "English (auto-generated)", en.Language)

	fr, err := list.FindManual("fr")
	require.NoError(t, err)
	assert.Equal(t, "French", fr.Language)

	entries, err := fr.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello & welcome to the show it's great", FlattenEntries(entries))

	entries, err = it.Fetch(context.Background(), "vid", []string{"de", "en"})
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestInnertubeListFailures(t *testing.T) {
	tests := []struct {
		name   string
		player string
		want   error
	}{
		{
			name:   "captions missing",
			player: `{"playabilityStatus": {"status": "OK"}}`,
			want:   ErrTranscriptsDisabled,
		},
		{
			name:   "no caption tracks",
			player: `{"playabilityStatus": {"status": "OK"}, "captions": {"playerCaptionsTracklistRenderer": {"captionTracks": []}}}`,
			want:   ErrTranscriptsDisabled,
		},
		{
			name:   "video unavailable",
			player: `{"playabilityStatus": {"status": "ERROR", "reason": "Video unavailable"}}`,
			want:   ErrVideoUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newPlayerServer(t, func(string) string { return tt.player }, "")
			it := NewInnertube(srv.Client(), nil, WithPlayerURL(srv.URL+"/player"))

			_, err := it.List(context.Background(), "vid")
			assert.ErrorIs(t, err, tt.want)

			_, err = it.Fetch(context.Background(), "vid", []string{"en"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInnertubePlayerHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	it := NewInnertube(srv.Client(), nil, WithPlayerURL(srv.URL))
	_, err := it.List(context.Background(), "vid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestTimedTextPoToken(t *testing.T) {
	it := NewInnertube(nil, nil)
	_, err := it.timedText(context.Background(), "https://example.invalid/api/timedtext?v=vid&exp=xpe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PO token")
}

func TestParseTimedText(t *testing.T) {
	entries, err := parseTimedText([]byte(sampleTimedText))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	first, ok := entries[0].(Snippet)
	require.True(t, ok)
	assert.Equal(t, Snippet{Text: "Hello & welcome", Start: 0.5, Duration: 1.2}, first)
	assert.Equal(t, "", entries[2].EntryText())
	assert.Equal(t, "it's great", entries[3].EntryText())

	entries, err = parseTimedText([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = parseTimedText([]byte("<transcript><text>"))
	assert.Error(t, err)
}

func TestInnertubeResolveFallbackPostsPlayerOnce(t *testing.T) {
	var posts atomic.Int32
	srv := newPlayerServer(t, func(baseURL string) string {
		posts.Add(1)
		return playerJSON(baseURL)
	}, sampleTimedText)
	it := NewInnertube(srv.Client(), nil, WithPlayerURL(srv.URL+"/player"))

	res, err := NewResolver(it, "es", nil).Resolve(context.Background(), "vid", "de")
	require.NoError(t, err)
	assert.Equal(t, SourceList, res.Source)
	assert.Equal(t, "en", res.Transcript.LanguageCode)
	assert.Equal(t, int32(1), posts.Load())
}
