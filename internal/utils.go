package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var videoIDRE = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseArg normalizes a YouTube video ID or URL into a watch URL and the video ID.
func ParseArg(arg string) (string, string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", "", fmt.Errorf("empty video ID")
	}

	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		videoID, err := getVideoID(arg)
		if err != nil {
			return "", "", err
		}
		return "https://www.youtube.com/watch?v=" + videoID, videoID, nil
	}

	// bare IDs are passed through; YouTube decides whether they exist
	if strings.ContainsAny(arg, " \t/\\?&") {
		return "", "", fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID", arg)
	}
	return "https://www.youtube.com/watch?v=" + arg, arg, nil
}

// getVideoID extracts the video ID from watch, youtu.be, embed, shorts and live URLs
func getVideoID(youtubeURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(youtubeURL))
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	host := strings.TrimPrefix(strings.TrimPrefix(u.Host, "www."), "m.")
	var candidate string
	switch host {
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			candidate = v
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 && (parts[0] == "embed" || parts[0] == "shorts" || parts[0] == "live" || parts[0] == "v" || parts[0] == "e") {
			candidate = parts[1]
		}
	case "youtu.be":
		candidate = strings.Trim(u.Path, "/")
	default:
		return "", fmt.Errorf("not a YouTube URL: %s", youtubeURL)
	}

	if !IsValidYouTubeID(candidate) {
		return "", fmt.Errorf("could not extract video ID from URL: %s", youtubeURL)
	}
	return candidate, nil
}

// IsValidYouTubeID checks if a string looks like a valid YouTube video ID
func IsValidYouTubeID(id string) bool {
	return videoIDRE.MatchString(id)
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Truncate cuts s to at most n runes. n <= 0 disables truncation.
func Truncate(s string, n int) (string, bool) {
	if n <= 0 {
		return s, false
	}
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}

func transcriptPath(transcriptsDir, youtubeID, lang string) string {
	return filepath.Join(transcriptsDir, youtubeID+"."+lang+".txt")
}

// SaveTranscript caches a resolved transcript under transcriptsDir
func SaveTranscript(youtubeID, lang, transcript, transcriptsDir string) error {
	if err := EnsureDirs(transcriptsDir); err != nil {
		return fmt.Errorf("creating transcripts directory: %w", err)
	}
	if err := os.WriteFile(transcriptPath(transcriptsDir, youtubeID, lang), []byte(transcript), 0644); err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}

// LoadTranscript reads a cached transcript. ok is false when none is cached.
func LoadTranscript(youtubeID, lang, transcriptsDir string) (string, bool, error) {
	path := transcriptPath(transcriptsDir, youtubeID, lang)
	if !FileExists(path) {
		return "", false, nil
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("reading cached transcript: %w", err)
	}
	if strings.TrimSpace(string(text)) == "" {
		return "", false, nil
	}
	return string(text), true, nil
}
