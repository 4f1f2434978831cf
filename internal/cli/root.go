// Package cli provides the command-line interface for booru-prompt.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/booru-prompt/booru-prompt/internal/logging"
)

var (
	// Global flags
	cfgFile    string
	apiBaseURL string
	login      string
	apiKey     string
	verbose    bool
	debug      bool
	logFile    string
	notifyFlag bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// Version information, set by the main package at startup.
var (
	Version   = "v0.1.0-dev"
	BuildTime = "unknown"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "booru-prompt",
		Short: "Extract Danbooru post tags as prompt text",
		Long: `booru-prompt ` + Version + ` - Built: ` + BuildTime + `
Fetches a Danbooru post's artist, character, copyright and general tags and
formats them as a comma-separated prompt.

Give a post ID or post URL, or copy a post URL and run with no argument:
  booru-prompt 12345
  booru-prompt extract 12345
  booru-prompt extract https://danbooru.donmai.us/posts/12345 --copy
  booru-prompt export --format spaces --no-artist > prompt.txt`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logger != nil {
				logger.Close()
			}
			logger = logging.NewLogger(logging.Options{
				Out:     cmd.ErrOrStderr(),
				LogFile: resolveLogFile(logFile),
			})
			if verbose || debug {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				logging.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Close()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-url", "", "Danbooru base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&login, "login", "", "Danbooru login (overrides config and "+envLoginHint+")")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Danbooru API key (overrides config and "+envAPIKeyHint+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file (rotated); a bare name goes in the log directory")
	rootCmd.PersistentFlags().BoolVar(&notifyFlag, "notify", false, "Show desktop notifications for status messages")

	rootCmd.Version = Version + " (" + BuildTime + ")"

	rootCmd.AddCommand(newCompletionCmd(rootCmd))
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

// newCompletionCmd replaces cobra's default completion command.
func newCompletionCmd(rootCmd *cobra.Command) *cobra.Command {
	completionCmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for booru-prompt.

QUICK START:

  bash:
    booru-prompt completion bash | sudo tee /etc/bash_completion.d/booru-prompt

  zsh:
    mkdir -p ~/.zsh/completions
    booru-prompt completion zsh > ~/.zsh/completions/_booru-prompt
    # Then add to ~/.zshrc: fpath=(~/.zsh/completions $fpath)

  fish:
    booru-prompt completion fish > ~/.config/fish/completions/booru-prompt.fish

  PowerShell:
    booru-prompt completion powershell >> $PROFILE`,
	}

	completionCmd.AddCommand(&cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenBashCompletionV2(cmd.OutOrStdout(), true)
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:   "zsh",
		Short: "Generate zsh completion script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:   "powershell",
		Short: "Generate PowerShell completion script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		},
	})

	return completionCmd
}

// Execute runs the CLI.
func Execute() error {
	// Create a context that can be cancelled by signals
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	rootCmd.SetArgs(expandShortcut(rootCmd, os.Args[1:]))
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}
