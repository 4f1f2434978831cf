package config

import "os"

// Environment variables consulted when no flag or config value is given.
const (
	EnvLogin  = "DANBOORU_LOGIN"
	EnvAPIKey = "DANBOORU_API_KEY"
)

// ResolveCredentials fills cfg.Login and cfg.APIKey from, in priority order:
//  1. the given flag values (if non-empty)
//  2. values already loaded from the config file
//  3. DANBOORU_LOGIN / DANBOORU_API_KEY
//
// Credentials are optional; anonymous requests work for public posts.
func ResolveCredentials(cfg *Config, flagLogin, flagAPIKey string) {
	if flagLogin != "" {
		cfg.Login = flagLogin
	}
	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}
	if cfg.Login == "" {
		cfg.Login = os.Getenv(EnvLogin)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(EnvAPIKey)
	}
}
