package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const appName = "ytranscript"

// Config holds application settings
type Config struct {
	// User configurable settings
	DefaultLanguage    string
	Provider           string
	HTTPTimeout        time.Duration
	Cache              bool
	TranscriptsDir     string
	Verbose            bool
	Quiet              bool
	OpenAIAPIKey       string
	TLDRModel          string
	SummaryTimeout     time.Duration
	SummaryLanguage    string
	MaxTranscriptChars int
	Prompt             string
	MCPLogEnabled      bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
}

//go:embed config.toml prompt.txt
var defaultFS embed.FS

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	// stdout carries the transcript, so this goes to stderr
	fmt.Fprintf(os.Stderr, "Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig creates config.toml in the config directory if missing
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultPrompt creates prompt.txt in the config directory if missing
func EnsureDefaultPrompt(configDir string) error {
	return ensureDefaultFile(configDir, "prompt.txt", "prompt template")
}

// InitConfig initializes Viper and loads configuration. configFile overrides
// the XDG lookup when non-empty.
func InitConfig(configFile string) *Config {
	configDir := filepath.Join(xdg.ConfigHome, appName)
	dataDir := filepath.Join(xdg.DataHome, appName)
	cacheDir := filepath.Join(xdg.CacheHome, appName)

	v := viper.New()

	v.SetDefault("default_language", DefaultLanguage)
	v.SetDefault("provider", ProviderInnertube)
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("cache", true)
	v.SetDefault("transcripts_dir", filepath.Join(dataDir, "transcripts"))
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("tldr_model", "gpt-4o-mini")
	v.SetDefault("summary_timeout", 2*time.Minute)
	v.SetDefault("summary_language", "English")
	v.SetDefault("max_transcript_chars", 15000)
	v.SetDefault("prompt", "") // if empty will use default prompt template
	v.SetDefault("mcp_log", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("YTRANSCRIPT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// OpenAI key also comes from the conventional variable
	_ = v.BindEnv("openai_api_key", "YTRANSCRIPT_OPENAI_API_KEY", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	return &Config{
		DefaultLanguage:    v.GetString("default_language"),
		Provider:           v.GetString("provider"),
		HTTPTimeout:        v.GetDuration("http_timeout"),
		Cache:              v.GetBool("cache"),
		TranscriptsDir:     v.GetString("transcripts_dir"),
		Verbose:            v.GetBool("verbose"),
		Quiet:              v.GetBool("quiet"),
		OpenAIAPIKey:       v.GetString("openai_api_key"),
		TLDRModel:          v.GetString("tldr_model"),
		SummaryTimeout:     v.GetDuration("summary_timeout"),
		SummaryLanguage:    v.GetString("summary_language"),
		MaxTranscriptChars: v.GetInt("max_transcript_chars"),
		Prompt:             v.GetString("prompt"),
		MCPLogEnabled:      v.GetBool("mcp_log"),

		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
	}
}
