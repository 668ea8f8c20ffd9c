package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytranscript/internal"
)

var (
	config *internal.Config
	logger *slog.Logger
)

// rootCmd fetches a transcript when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "ytranscript <video_id> [language_code]",
	Short: "Print the transcript of a YouTube video",
	Long: `ytranscript prints the transcript of a YouTube video as a single line of text.

The requested language is tried first, then English. Manually created
transcripts are preferred over auto-generated ones, and when neither
language is available the first transcript YouTube lists is used.

Diagnostics are written to stderr; stdout only ever carries the transcript.

Video IDs may start with "-". Such an ID is taken as the video ID unless it
is made of registered flags; put flags before it, or use "--" to be explicit.`,
	Example: `  # Print the English transcript
  ytranscript dQw4w9WgXcQ

  # Prefer French, fall back to English or anything available
  ytranscript dQw4w9WgXcQ fr

  # IDs starting with a dash
  ytranscript -- -dQw4w9WgXc

  # Full URLs work too
  ytranscript "https://youtu.be/dQw4w9WgXcQ" de

  # Use yt-dlp instead of the built-in client
  ytranscript dQw4w9WgXcQ --provider ytdlp`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.HandleVerboseFlag(cmd, config); err != nil {
			return err
		}
		logger = internal.NewLogger(internal.Stderr, config.Verbose, config.Quiet)
		return nil
	},
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return internal.ErrUsage
		}
		return cobra.MaximumNArgs(2)(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		lang := ""
		if len(args) > 1 {
			lang = args[1]
		}

		text, err := fetchTranscript(cmd, app, args[0], lang)
		if err != nil {
			return err
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(text+"\n"), 0644); err != nil {
				return fmt.Errorf("writing transcript: %w", err)
			}
			logger.Info("transcript written", slog.String("path", outputFile))
			return nil
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return run(ctx, os.Args[1:])
}

// run executes the command line args; failures are reported on the command's stderr.
func run(ctx context.Context, args []string) error {
	config = internal.InitConfig(configFlagValue(args))
	logger = internal.NewLogger(internal.Stderr, config.Verbose, config.Quiet)

	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		logger.Warn("creating XDG directories failed", slog.Any("error", err))
	}
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		logger.Warn("ensuring default config failed", slog.Any("error", err))
	}
	if err := internal.EnsureDefaultPrompt(config.ConfigDir); err != nil {
		logger.Warn("ensuring default prompt failed", slog.Any("error", err))
	}

	rootCmd.SetArgs(escapeDashIDs(rootCmd, args))
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// reportError writes the terminal diagnostic for err
func reportError(w io.Writer, err error) {
	var failure *internal.FailureError
	switch {
	case errors.Is(err, internal.ErrUsage):
		fmt.Fprintln(w, internal.ErrUsage)
	case errors.As(err, &failure):
		fmt.Fprintln(w, failure.Error())
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Interrupted")
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

var dashID = regexp.MustCompile(`^-[A-Za-z0-9_-]{10}$`)

// escapeDashIDs inserts "--" before the first argument that looks like a
// video ID starting with "-", so cobra does not parse it as shorthand flags.
func escapeDashIDs(root *cobra.Command, args []string) []string {
	cmd, _, err := root.Find(args)
	if err != nil {
		cmd = root
	}

	for i, arg := range args {
		if arg == "--" {
			break
		}
		if dashID.MatchString(arg) && !isShorthandCluster(cmd, arg[1:]) {
			return slices.Concat(args[:i], []string{"--"}, args[i:])
		}
	}
	return args
}

// isShorthandCluster reports whether s parses as shorthand flags of cmd: bool
// flags only, or a run of them ending in a flag that takes the rest as its value.
func isShorthandCluster(cmd *cobra.Command, s string) bool {
	for _, c := range s {
		flag := cmd.LocalFlags().ShorthandLookup(string(c))
		if flag == nil {
			flag = cmd.InheritedFlags().ShorthandLookup(string(c))
		}
		if flag == nil {
			return false
		}
		if flag.NoOptDefVal == "" {
			return true
		}
	}
	return true
}

// configFlagValue finds --config before cobra parses flags, since the
// config has to be loaded for PersistentPreRunE.
func configFlagValue(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--":
			return ""
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case len(arg) > len("--config=") && arg[:len("--config=")] == "--config=":
			return arg[len("--config="):]
		}
	}
	return ""
}

func init() {
	internal.AddProviderFlags(rootCmd)
	rootCmd.Flags().StringP("output", "o", "", "Write the transcript to a file instead of stdout")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print warnings and errors")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/ytranscript/config.toml)")
}
