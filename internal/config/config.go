// Package config provides configuration management for booru-prompt.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/ini.v1"

	"github.com/booru-prompt/booru-prompt/internal/constants"
	"github.com/booru-prompt/booru-prompt/internal/tags"
)

// Config is the booru-prompt configuration.
//
// INI format:
//
//	[danbooru]
//	base_url = https://danbooru.donmai.us
//	login = <optional user name>
//	api_key = <optional api key>
//	requests_per_second = 5
//
//	[network]
//	proxy_mode = no-proxy
//	proxy_host =
//	proxy_port = 8080
//	proxy_user =
//	no_proxy =
//	timeout_seconds = 30
//
//	[export]
//	format = original
//	include_artist = true
//	output_dir = ~/Downloads
//	notify = false
type Config struct {
	// Danbooru connection
	BaseURL           string  `validate:"required,url"`
	Login             string  `validate:"required_with=APIKey"`
	APIKey            string  `validate:"required_with=Login"`
	RequestsPerSecond float64 `validate:"gt=0,lte=100"`

	// Proxy settings
	ProxyMode     string `validate:"oneof=no-proxy system basic ntlm"`
	ProxyHost     string
	ProxyPort     int `validate:"gte=0,lte=65535"`
	ProxyUser     string
	ProxyPassword string // never written to disk
	NoProxy       string // comma-separated hosts/CIDRs that bypass the proxy

	TimeoutSeconds int `validate:"gte=1,lte=600"`

	// Export defaults
	Format        string `validate:"oneof=original spaces spaces-escaped escaped"`
	IncludeArtist bool
	OutputDir     string
	Notify        bool
}

// Validation errors
var (
	ErrMissingBaseURL   = errors.New("base_url is required")
	ErrMissingProxyHost = errors.New("proxy_host is required for basic and ntlm proxy modes")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		BaseURL:           constants.DefaultBaseURL,
		RequestsPerSecond: constants.DefaultRequestsPerSecond,
		ProxyMode:         "no-proxy",
		ProxyPort:         8080,
		TimeoutSeconds:    int(constants.DefaultRequestTimeout.Seconds()),
		Format:            tags.Original.String(),
		IncludeArtist:     true,
	}
}

// Load reads configuration from an INI file.
// A missing file yields defaults and no error; an unreadable one is an error.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	danbooru := iniFile.Section("danbooru")
	cfg.BaseURL = danbooru.Key("base_url").MustString(cfg.BaseURL)
	cfg.Login = danbooru.Key("login").String()
	cfg.APIKey = danbooru.Key("api_key").String()
	cfg.RequestsPerSecond = danbooru.Key("requests_per_second").MustFloat64(cfg.RequestsPerSecond)

	network := iniFile.Section("network")
	cfg.ProxyMode = network.Key("proxy_mode").MustString(cfg.ProxyMode)
	cfg.ProxyHost = network.Key("proxy_host").String()
	cfg.ProxyPort = network.Key("proxy_port").MustInt(cfg.ProxyPort)
	cfg.ProxyUser = network.Key("proxy_user").String()
	cfg.NoProxy = network.Key("no_proxy").String()
	cfg.TimeoutSeconds = network.Key("timeout_seconds").MustInt(cfg.TimeoutSeconds)

	export := iniFile.Section("export")
	cfg.Format = export.Key("format").MustString(cfg.Format)
	cfg.IncludeArtist = export.Key("include_artist").MustBool(cfg.IncludeArtist)
	cfg.OutputDir = export.Key("output_dir").String()
	cfg.Notify = export.Key("notify").MustBool(false)

	return cfg, nil
}

// Save writes cfg to an INI file, creating parent directories.
// The proxy password is not persisted. The file is written 0600 since it may hold an API key.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	danbooru, err := iniFile.NewSection("danbooru")
	if err != nil {
		return fmt.Errorf("failed to create danbooru section: %w", err)
	}
	danbooru.Key("base_url").SetValue(cfg.BaseURL)
	danbooru.Key("login").SetValue(cfg.Login)
	danbooru.Key("api_key").SetValue(cfg.APIKey)
	danbooru.Key("requests_per_second").SetValue(fmt.Sprintf("%g", cfg.RequestsPerSecond))

	network, err := iniFile.NewSection("network")
	if err != nil {
		return fmt.Errorf("failed to create network section: %w", err)
	}
	network.Key("proxy_mode").SetValue(cfg.ProxyMode)
	network.Key("proxy_host").SetValue(cfg.ProxyHost)
	network.Key("proxy_port").SetValue(fmt.Sprintf("%d", cfg.ProxyPort))
	network.Key("proxy_user").SetValue(cfg.ProxyUser)
	network.Key("no_proxy").SetValue(cfg.NoProxy)
	network.Key("timeout_seconds").SetValue(fmt.Sprintf("%d", cfg.TimeoutSeconds))

	export, err := iniFile.NewSection("export")
	if err != nil {
		return fmt.Errorf("failed to create export section: %w", err)
	}
	export.Key("format").SetValue(cfg.Format)
	export.Key("include_artist").SetValue(fmt.Sprintf("%t", cfg.IncludeArtist))
	export.Key("output_dir").SetValue(cfg.OutputDir)
	export.Key("notify").SetValue(fmt.Sprintf("%t", cfg.Notify))

	// temp file + rename so a crash never leaves a half-written config
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks field constraints and cross-field proxy rules.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return ErrMissingBaseURL
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q check (value %v)", ErrInvalidConfig, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	mode := strings.ToLower(cfg.ProxyMode)
	if (mode == "basic" || mode == "ntlm") && cfg.ProxyHost == "" {
		return ErrMissingProxyHost
	}

	return nil
}

// FormatMode returns the configured export format as a tags.Mode.
func (cfg *Config) FormatMode() (tags.Mode, error) {
	return tags.ParseMode(cfg.Format)
}

// HasCredentials reports whether both login and API key are set.
func (cfg *Config) HasCredentials() bool {
	return cfg.Login != "" && cfg.APIKey != ""
}
