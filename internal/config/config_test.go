package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/booru-prompt/booru-prompt/internal/tags"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.BaseURL != "https://danbooru.donmai.us" {
		t.Errorf("expected default BaseURL to be https://danbooru.donmai.us, got %s", cfg.BaseURL)
	}
	if cfg.ProxyMode != "no-proxy" {
		t.Errorf("expected default ProxyMode to be no-proxy, got %s", cfg.ProxyMode)
	}
	if !cfg.IncludeArtist {
		t.Error("expected IncludeArtist to default to true")
	}
	if cfg.Format != "original" {
		t.Errorf("expected default Format to be original, got %s", cfg.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != NewConfig().BaseURL {
		t.Errorf("expected default BaseURL, got %s", cfg.BaseURL)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config")

	cfg := &Config{
		BaseURL:           "https://testbooru.donmai.us",
		Login:             "tester",
		APIKey:            "secret-key",
		RequestsPerSecond: 2.5,
		ProxyMode:         "basic",
		ProxyHost:         "proxy.example.com",
		ProxyPort:         3128,
		ProxyUser:         "proxyuser",
		ProxyPassword:     "not-saved",
		NoProxy:           "localhost,10.0.0.0/8",
		TimeoutSeconds:    45,
		Format:            "spaces",
		IncludeArtist:     false,
		OutputDir:         "/tmp/prompts",
		Notify:            true,
	}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %o", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file was left behind")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := *cfg
	want.ProxyPassword = ""
	if *loaded != want {
		t.Errorf("loaded config mismatch:\n got  %+v\n want %+v", *loaded, want)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("[danbooru\nbase_url"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed INI file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(c *Config) {}, nil},
		{"empty base url", func(c *Config) { c.BaseURL = " " }, ErrMissingBaseURL},
		{"bad base url", func(c *Config) { c.BaseURL = "not a url" }, ErrInvalidConfig},
		{"unknown proxy mode", func(c *Config) { c.ProxyMode = "socks" }, ErrInvalidConfig},
		{"basic proxy without host", func(c *Config) { c.ProxyMode = "basic" }, ErrMissingProxyHost},
		{"ntlm proxy with host", func(c *Config) { c.ProxyMode = "ntlm"; c.ProxyHost = "proxy" }, nil},
		{"bad format", func(c *Config) { c.Format = "uppercase" }, ErrInvalidConfig},
		{"zero rate", func(c *Config) { c.RequestsPerSecond = 0 }, ErrInvalidConfig},
		{"api key without login", func(c *Config) { c.APIKey = "k" }, ErrInvalidConfig},
		{"login and key", func(c *Config) { c.Login = "u"; c.APIKey = "k" }, nil},
		{"timeout too large", func(c *Config) { c.TimeoutSeconds = 10000 }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatMode(t *testing.T) {
	cfg := NewConfig()
	cfg.Format = "spaces"
	mode, err := cfg.FormatMode()
	if err != nil {
		t.Fatalf("FormatMode failed: %v", err)
	}
	if mode != tags.SpacesEscaped {
		t.Errorf("FormatMode() = %v, want %v", mode, tags.SpacesEscaped)
	}
}

func TestResolveCredentials(t *testing.T) {
	t.Setenv(EnvLogin, "env-user")
	t.Setenv(EnvAPIKey, "env-key")

	cfg := NewConfig()
	ResolveCredentials(cfg, "", "")
	if cfg.Login != "env-user" || cfg.APIKey != "env-key" {
		t.Errorf("expected env credentials, got %q/%q", cfg.Login, cfg.APIKey)
	}

	cfg = NewConfig()
	cfg.Login = "file-user"
	cfg.APIKey = "file-key"
	ResolveCredentials(cfg, "", "")
	if cfg.Login != "file-user" || cfg.APIKey != "file-key" {
		t.Errorf("config file values should win over env, got %q/%q", cfg.Login, cfg.APIKey)
	}

	ResolveCredentials(cfg, "flag-user", "flag-key")
	if cfg.Login != "flag-user" || cfg.APIKey != "flag-key" {
		t.Errorf("flag values should win, got %q/%q", cfg.Login, cfg.APIKey)
	}
	if !cfg.HasCredentials() {
		t.Error("HasCredentials() = false, want true")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if filepath.Base(path) != "config" || filepath.Base(filepath.Dir(path)) != "booru-prompt" {
		t.Errorf("unexpected default config path %s", path)
	}
}
