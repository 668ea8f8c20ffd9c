package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		arg     string
		wantID  string
		wantErr bool
	}{
		{arg: "dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "  dQw4w9WgXcQ\n", wantID: "dQw4w9WgXcQ"},
		{arg: "abc123", wantID: "abc123"},
		{arg: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", wantID: "dQw4w9WgXcQ"},
		{arg: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://music.youtube.com/watch?v=dQw4w9WgXcQ&list=RD", wantID: "dQw4w9WgXcQ"},
		{arg: "https://youtu.be/dQw4w9WgXcQ?si=abc", wantID: "dQw4w9WgXcQ"},
		{arg: "https://www.youtube.com/embed/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://youtube.com/shorts/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://www.youtube.com/live/dQw4w9WgXcQ?feature=share", wantID: "dQw4w9WgXcQ"},
		{arg: "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "", wantErr: true},
		{arg: "two words", wantErr: true},
		{arg: "https://vimeo.com/12345", wantErr: true},
		{arg: "https://www.youtube.com/channel/UCabc", wantErr: true},
		{arg: "https://youtu.be/short", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			url, id, err := ParseArg(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, "https://www.youtube.com/watch?v="+tt.wantID, url)
		})
	}
}

func TestTruncate(t *testing.T) {
	s, cut := Truncate("hello", 10)
	assert.Equal(t, "hello", s)
	assert.False(t, cut)

	s, cut = Truncate("héllo wörld", 5)
	assert.Equal(t, "héllo", s)
	assert.True(t, cut)

	s, cut = Truncate("unbounded", 0)
	assert.Equal(t, "unbounded", s)
	assert.False(t, cut)
}

func TestTranscriptCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "transcripts")

	_, ok, err := LoadTranscript("vid", "en", dir)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SaveTranscript("vid", "en", "cached text", dir))
	assert.FileExists(t, filepath.Join(dir, "vid.en.txt"))

	text, ok, err := LoadTranscript("vid", "en", dir)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cached text", text)

	// languages are cached separately
	_, ok, err = LoadTranscript("vid", "fr", dir)
	require.NoError(t, err)
	assert.False(t, ok)

	// blank files are misses
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blank.en.txt"), []byte(" \n"), 0644))
	_, ok, err = LoadTranscript("blank", "en", dir)
	require.NoError(t, err)
	assert.False(t, ok)
}
