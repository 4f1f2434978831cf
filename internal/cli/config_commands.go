package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/booru-prompt/booru-prompt/internal/config"
	"github.com/booru-prompt/booru-prompt/internal/tags"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage booru-prompt configuration",
		Long: `Configuration management commands for booru-prompt.

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup for booru-prompt.

The configuration is saved to ~/.config/booru-prompt/config (or --config).
Login and API key are optional; anonymous access works for public posts.

Use --force to overwrite an existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}

			out := cmd.OutOrStdout()
			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "Configuration already exists at: %s\n", path)
					fmt.Fprintln(out, "Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			cfg, err := runConfigPrompts(cmd, bufio.NewReader(cmd.InOrStdin()))
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			GetLogger().Info().Str("path", path).Msg("Configuration saved")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Configuration saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

// runConfigPrompts walks the user through every setting.
func runConfigPrompts(cmd *cobra.Command, reader *bufio.Reader) (*config.Config, error) {
	out := cmd.OutOrStdout()
	cfg := config.NewConfig()
	var err error

	fmt.Fprintln(out, "booru-prompt Configuration Setup")
	fmt.Fprintln(out, "================================")
	fmt.Fprintln(out)

	if cfg.BaseURL, err = promptLine(cmd, reader, "Danbooru URL", cfg.BaseURL); err != nil {
		return nil, err
	}
	if cfg.Login, err = promptLine(cmd, reader, "Login (optional)", ""); err != nil {
		return nil, err
	}
	if cfg.Login != "" {
		if cfg.APIKey, err = promptSecret(cmd, reader, "API key"); err != nil {
			return nil, err
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Export Settings (press Enter for defaults)")
	fmt.Fprintln(out, "------------------------------------------")

	for {
		if cfg.Format, err = promptLine(cmd, reader, "Format (original, spaces)", cfg.Format); err != nil {
			return nil, err
		}
		mode, perr := tags.ParseMode(cfg.Format)
		if perr == nil {
			cfg.Format = mode.String()
			break
		}
		fmt.Fprintf(out, "  Error: %v\n", perr)
	}
	if cfg.IncludeArtist, err = promptYesNo(cmd, reader, "Include artist tags", cfg.IncludeArtist); err != nil {
		return nil, err
	}
	if cfg.OutputDir, err = promptLine(cmd, reader, "Save directory", config.DefaultOutputDir()); err != nil {
		return nil, err
	}
	if cfg.Notify, err = promptYesNo(cmd, reader, "Desktop notifications", cfg.Notify); err != nil {
		return nil, err
	}

	fmt.Fprintln(out)
	useProxy, err := promptYesNo(cmd, reader, "Configure proxy?", false)
	if err != nil {
		return nil, err
	}
	if useProxy {
		if err := promptProxy(cmd, reader, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func promptProxy(cmd *cobra.Command, reader *bufio.Reader, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	var err error

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Proxy Configuration")
	fmt.Fprintln(out, "-------------------")
	fmt.Fprintln(out, "Proxy modes: no-proxy, system, basic, ntlm")

	if cfg.ProxyMode, err = promptLine(cmd, reader, "Proxy mode", "system"); err != nil {
		return err
	}
	if cfg.ProxyMode != "basic" && cfg.ProxyMode != "ntlm" {
		return nil
	}

	if cfg.ProxyHost, err = promptLine(cmd, reader, "Proxy host", ""); err != nil {
		return err
	}
	port, err := promptLine(cmd, reader, "Proxy port", strconv.Itoa(cfg.ProxyPort))
	if err != nil {
		return err
	}
	if v, perr := strconv.Atoi(port); perr == nil && v > 0 {
		cfg.ProxyPort = v
	}
	if cfg.ProxyUser, err = promptLine(cmd, reader, "Proxy user (optional)", ""); err != nil {
		return err
	}
	cfg.NoProxy, err = promptLine(cmd, reader, "Bypass hosts (comma-separated, optional)", "")
	return err
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current configuration settings.

This command shows the merged configuration from:
  1. Configuration file (~/.config/booru-prompt/config)
  2. Environment variables (` + config.EnvLogin + `, ` + config.EnvAPIKey + `)
  3. Command-line flags (--login, --api-key, --api-url)

Priority: flags > config file > environment > defaults`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if apiBaseURL != "" {
				cfg.BaseURL = apiBaseURL
			}
			config.ResolveCredentials(cfg, login, apiKey)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Current Configuration")
			fmt.Fprintln(out, "=====================")
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Danbooru:")
			fmt.Fprintf(out, "  URL:          %s\n", cfg.BaseURL)
			if cfg.Login != "" {
				fmt.Fprintf(out, "  Login:        %s\n", cfg.Login)
			} else {
				fmt.Fprintln(out, "  Login:        <anonymous>")
			}
			if cfg.APIKey != "" {
				// Never display any portion of the API key
				fmt.Fprintf(out, "  API Key:      <set (%d chars)>\n", len(cfg.APIKey))
			} else {
				fmt.Fprintln(out, "  API Key:      <not set>")
			}
			fmt.Fprintf(out, "  Rate Limit:   %g req/s\n", cfg.RequestsPerSecond)
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Export:")
			fmt.Fprintf(out, "  Format:         %s\n", cfg.Format)
			fmt.Fprintf(out, "  Include Artist: %t\n", cfg.IncludeArtist)
			outputDir := cfg.OutputDir
			if outputDir == "" {
				outputDir = config.DefaultOutputDir() + " (default)"
			}
			fmt.Fprintf(out, "  Save Directory: %s\n", outputDir)
			fmt.Fprintf(out, "  Notifications:  %t\n", cfg.Notify)
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Network:")
			fmt.Fprintf(out, "  Proxy Mode: %s\n", cfg.ProxyMode)
			if cfg.ProxyHost != "" {
				fmt.Fprintf(out, "  Proxy Host: %s\n", cfg.ProxyHost)
				fmt.Fprintf(out, "  Proxy Port: %d\n", cfg.ProxyPort)
			}
			if cfg.NoProxy != "" {
				fmt.Fprintf(out, "  No Proxy:   %s\n", cfg.NoProxy)
			}
			fmt.Fprintf(out, "  Timeout:    %ds\n", cfg.TimeoutSeconds)
			fmt.Fprintln(out)

			fmt.Fprintf(out, "Configuration file: %s\n", path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(out, "  (file does not exist - using defaults)")
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(out, "  Warning: %v\n", err)
			}

			return nil
		},
	}

	return cmd
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}

			out := cmd.OutOrStdout()
			if cfgFile == "" {
				fmt.Fprintln(out, "Default configuration path:")
			} else {
				fmt.Fprintln(out, "Configuration path (from --config flag):")
			}
			fmt.Fprintf(out, "  %s\n", path)
			fmt.Fprintln(out)

			if info, err := os.Stat(path); err == nil {
				fmt.Fprintln(out, "Status:   File exists")
				fmt.Fprintf(out, "Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
			} else {
				fmt.Fprintln(out, "Status: File does not exist")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Create a configuration file with: booru-prompt config init")
			}

			return nil
		},
	}

	return cmd
}
