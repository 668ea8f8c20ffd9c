package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/rtzll/ytranscript/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing transcript lookup",
	Long: `Run a Model Context Protocol (MCP) server that exposes ytranscript as tools.

The MCP server provides two tools:
- get_youtube_transcript: Resolve a transcript with the usual language fallback
- list_youtube_transcripts: List available transcripts and their kinds

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)

Set mcp_log = true in config.toml to log server activity to the cache directory.`,
	Example: `  # Run MCP server with stdio transport (e.g. for Claude Desktop)
  ytranscript mcp

  # Run MCP server with HTTP transport on port 8080
  ytranscript mcp --transport=http --port=8080

  # Set up Claude Desktop integration
  ytranscript mcp setup-claude`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// stdout is the protocol channel; no spinners and no stderr chatter
		config.Verbose = false
		config.Quiet = true
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		if transport != "stdio" && transport != "http" {
			return fmt.Errorf("unknown transport %q (supported: stdio, http)", transport)
		}

		mcpLogger, closer := internal.NewMCPLogger(config)
		defer closer.Close()
		logger = mcpLogger

		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		mcpServer := internal.NewMCPServer(app, version, mcpLogger)
		mcpLogger.Info("starting MCP server", "transport", transport, "port", port)

		// Start the server (this will block until the client disconnects)
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

// setupClaudeCmd represents the setup-claude subcommand
var setupClaudeCmd = &cobra.Command{
	Use:   "setup-claude",
	Short: "Configure Claude Desktop to use the ytranscript MCP server",
	Long: `Automatically configure Claude Desktop to use ytranscript as an MCP server.

This command will:
- Detect Claude Desktop installation and config location
- Add the ytranscript MCP server configuration to claude_desktop_config.json
- Preserve existing MCP server configurations
- Set appropriate XDG environment variables for the current platform`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setupClaudeDesktop(cmd)
	},
}

// MCPServerConfig represents an individual MCP server configuration
type MCPServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// setupClaudeDesktop implements the setup-claude subcommand
func setupClaudeDesktop(cmd *cobra.Command) error {
	// Get the path to the current binary
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("getting executable path: %w", err)
	}

	// Resolve symlinks to get the actual binary path
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}

	configPath, err := getClaudeDesktopConfigPath()
	if err != nil {
		return fmt.Errorf("getting Claude Desktop config path: %w", err)
	}

	// XDG paths point the server at the same config and cache
	server := MCPServerConfig{
		Command: execPath,
		Args:    []string{"mcp"},
		Env: map[string]string{
			"XDG_DATA_HOME":   xdg.DataHome,
			"XDG_CONFIG_HOME": xdg.ConfigHome,
			"XDG_CACHE_HOME":  xdg.CacheHome,
		},
	}
	if err := addClaudeDesktopServer(configPath, "ytranscript", server); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Successfully configured Claude Desktop MCP server")
	fmt.Fprintln(cmd.OutOrStdout(), "Restart Claude Desktop to use the ytranscript MCP server")
	return nil
}

// addClaudeDesktopServer adds or replaces one entry under mcpServers in an
// existing claude_desktop_config.json. Other keys and servers are kept.
func addClaudeDesktopServer(configPath, name string, server MCPServerConfig) error {
	// Check if config file exists - abort if it doesn't
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config for Claude Desktop not found at %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading existing config: %w", err)
	}

	desktopConfig := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &desktopConfig); err != nil {
		return fmt.Errorf("parsing existing config: %w", err)
	}

	servers := map[string]json.RawMessage{}
	if raw, ok := desktopConfig["mcpServers"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return fmt.Errorf("parsing mcpServers: %w", err)
		}
	}

	entry, err := json.Marshal(server)
	if err != nil {
		return fmt.Errorf("marshaling server config: %w", err)
	}
	servers[name] = entry

	if desktopConfig["mcpServers"], err = json.Marshal(servers); err != nil {
		return fmt.Errorf("marshaling mcpServers: %w", err)
	}

	data, err = json.MarshalIndent(desktopConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

const claudeDesktopConfigFile = "claude_desktop_config.json"

// getClaudeDesktopConfigPath returns where Claude Desktop keeps its config on this platform
func getClaudeDesktopConfigPath() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		return filepath.Join(appData, "Claude", claudeDesktopConfigFile), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", claudeDesktopConfigFile), nil
	case "linux":
		return filepath.Join(home, ".config", "Claude", claudeDesktopConfigFile), nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	mcpCmd.AddCommand(setupClaudeCmd)
	rootCmd.AddCommand(mcpCmd)
}
