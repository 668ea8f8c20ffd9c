package internal

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// NewLogger returns the diagnostic logger. Records are human-readable text on w;
// verbose adds debug records, quiet keeps only warnings and errors.
func NewLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewMCPLogger returns a logger for MCP mode, where stdout is the protocol
// channel. Records go to mcp.log in the cache directory when enabled and are
// discarded otherwise. The returned closer releases the log file.
func NewMCPLogger(config *Config) (*slog.Logger, io.Closer) {
	discard := slog.New(slog.DiscardHandler)
	if !config.MCPLogEnabled {
		return discard, io.NopCloser(nil)
	}

	if err := EnsureDirs(config.CacheDir); err != nil {
		return discard, io.NopCloser(nil)
	}

	logPath := filepath.Join(config.CacheDir, "mcp.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return discard, io.NopCloser(nil)
	}

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger.With(slog.String("component", "mcp")), logFile
}
