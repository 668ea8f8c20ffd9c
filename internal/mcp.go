package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App, version string, logger *slog.Logger) *MCPServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := server.NewMCPServer(
		"ytranscript-server",
		version,
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
		logger:    logger,
	}
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_youtube_transcript",
		mcp.WithDescription("Get the transcript of a YouTube video as plain text. Prefers the requested language, then English, manual captions over auto-generated ones, and finally any available transcript."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11-character video ID"),
			mcp.Required(),
		),
		mcp.WithString("language",
			mcp.Description("Preferred language code, e.g. en, fr, ar (default: en)"),
		),
	), s.handleGetTranscript)

	s.mcpServer.AddTool(mcp.NewTool("list_youtube_transcripts",
		mcp.WithDescription("List the transcripts available for a YouTube video with their language codes and whether they are manual or auto-generated."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11-character video ID"),
			mcp.Required(),
		),
	), s.handleListTranscripts)
}

// handleGetTranscript implements the get_youtube_transcript tool
func (s *MCPServer) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	language := request.GetString("language", "")

	s.logger.Info("get_youtube_transcript", slog.String("url", url), slog.String("language", language))
	result, err := s.app.GetTranscript(ctx, url, language)
	if err != nil {
		s.logger.Error("get_youtube_transcript failed", slog.Any("error", err))
		return mcp.NewToolResultErrorFromErr("no transcript available", err), nil
	}

	return mcp.NewToolResultText(result.Text), nil
}

// handleListTranscripts implements the list_youtube_transcripts tool
func (s *MCPServer) handleListTranscripts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	s.logger.Info("list_youtube_transcripts", slog.String("url", url))
	list, err := s.app.ListTranscripts(ctx, url)
	if err != nil {
		s.logger.Error("list_youtube_transcripts failed", slog.Any("error", err))
		return mcp.NewToolResultErrorFromErr("listing transcripts failed", err), nil
	}

	return mcp.NewToolResultText(FormatTranscriptList(list)), nil
}

// FormatTranscriptList renders one line per transcript: code, kind, name.
func FormatTranscriptList(list *TranscriptList) string {
	var buf strings.Builder
	for _, t := range list.All() {
		fmt.Fprintf(&buf, "%-10s %-10s %s\n", t.LanguageCode, t.Kind(), t.Language)
	}
	return buf.String()
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		stop := context.AfterFunc(ctx, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn("MCP HTTP shutdown", slog.Any("error", err))
			}
		})
		defer stop()

		s.logger.Info("serving MCP over HTTP", slog.String("addr", addr))
		err := httpServer.Start(addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	s.logger.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}
