package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/booru-prompt/booru-prompt/internal/api"
	"github.com/booru-prompt/booru-prompt/internal/config"
	"github.com/booru-prompt/booru-prompt/internal/http"
	"github.com/booru-prompt/booru-prompt/internal/notify"
	"github.com/booru-prompt/booru-prompt/internal/pageurl"
	"github.com/booru-prompt/booru-prompt/internal/pathutil"
	"github.com/booru-prompt/booru-prompt/internal/services"
	"github.com/booru-prompt/booru-prompt/internal/sink"
)

const (
	envLoginHint  = "$" + config.EnvLogin
	envAPIKeyHint = "$" + config.EnvAPIKey
)

// configPath returns the --config value or the default location.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultConfigPath()
}

// resolveLogFile places a bare file name in the per-user log directory.
func resolveLogFile(name string) string {
	if name == "" || filepath.Base(name) != name {
		return name
	}
	return filepath.Join(config.LogDirectory(), name)
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if apiBaseURL != "" {
		cfg.BaseURL = apiBaseURL
	}
	config.ResolveCredentials(cfg, login, apiKey)
	if notifyFlag {
		cfg.Notify = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// getAPIClient creates an API client, prompting for a missing proxy password.
func getAPIClient(cmd *cobra.Command, cfg *config.Config) (*api.Client, error) {
	if http.NeedsProxyPassword(cfg) {
		password, err := promptSecret(cmd, nil, fmt.Sprintf("Proxy password for %s", cfg.ProxyUser))
		if err != nil {
			return nil, fmt.Errorf("failed to read proxy password: %w", err)
		}
		cfg.ProxyPassword = password
	}

	client, err := api.NewClient(cfg, GetLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// newTagService wires the API client, clipboard, file sink and status output.
func newTagService(cmd *cobra.Command, cfg *config.Config, outputDir string) (*services.TagService, error) {
	client, err := getAPIClient(cmd, cfg)
	if err != nil {
		return nil, err
	}

	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if outputDir == "" {
		outputDir = config.DefaultOutputDir()
	}
	outputDir, err = pathutil.ResolveAbsolutePath(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	return services.NewTagService(services.Config{
		Fetcher:   client,
		Context:   pageurl.NewClipboardContext(),
		Clipboard: sink.NewClipboard(),
		Files:     sink.NewFileSink(outputDir),
		Logger:    GetLogger(),
		Status:    statusReporter(cfg.Notify),
	}), nil
}

// statusReporter logs status lines and optionally mirrors them as desktop notifications.
func statusReporter(desktop bool) services.StatusFunc {
	log := GetLogger()
	notifier := notify.NewNotifier(desktop, log)
	return func(message string, isError bool) {
		if isError {
			log.Error().Msg(message)
		} else {
			log.Info().Msg(message)
		}
		notifier.Status(message, isError)
	}
}
