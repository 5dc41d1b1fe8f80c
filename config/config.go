// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	_ "codeberg.org/selfossfe/selfossfe/core/audit" // setup better logging format
	"codeberg.org/selfossfe/selfossfe/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"SELFOSSFE_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"SELFOSSFE_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"SELFOSSFE_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"SELFOSSFE_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"SELFOSSFE_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"SELFOSSFE_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
		// hex of a v4.public secret key used to sign session cookies
		Secret string `env:"SELFOSSFE_SECRET" yaml:"secret"`
	} `yaml:"basic"`

	Backend struct {
		RawURL    string        `env:"SELFOSSFE_BACKEND_URL,overwrite" yaml:"url"`
		URL       url.URL       `yaml:"-"`
		Timeout   time.Duration `env:"SELFOSSFE_BACKEND_TIMEOUT,overwrite" yaml:"timeout"`
		UserAgent string        `env:"SELFOSSFE_BACKEND_USER_AGENT,overwrite" yaml:"userAgent"`
		// ItemsPerPage is the number of entries requested per page.
		ItemsPerPage int `env:"SELFOSSFE_ITEMS_PER_PAGE,overwrite" yaml:"itemsPerPage"`
	} `yaml:"backend"`

	Cache struct {
		Enabled bool          `env:"SELFOSSFE_CACHE,overwrite" yaml:"enabled"`
		Size    int           `env:"SELFOSSFE_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		TTL     time.Duration `env:"SELFOSSFE_CACHE_TTL,overwrite" yaml:"cacheTTL"`
	} `yaml:"cache"`

	Session struct {
		// MaxSessions bounds the number of browser sessions kept in memory.
		MaxSessions int           `env:"SELFOSSFE_MAX_SESSIONS,overwrite" yaml:"maxSessions"`
		MaxAge      time.Duration `env:"SELFOSSFE_SESSION_MAX_AGE,overwrite" yaml:"maxAge"`
	} `yaml:"session"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		HTMLTitle         string `env:"SELFOSSFE_HTML_TITLE,overwrite" yaml:"htmlTitle"`
	} `yaml:"instance"`

	Feature struct {
		// LocalPasswordHash hashes passwords in-process instead of asking the backend.
		LocalPasswordHash bool `env:"SELFOSSFE_LOCAL_PASSWORD_HASH,overwrite" yaml:"localPasswordHash"`
		// ShowThumbnails renders entry thumbnails in the list.
		ShowThumbnails bool `env:"SELFOSSFE_SHOW_THUMBNAILS,overwrite" yaml:"showThumbnails"`
	} `yaml:"feature"`

	Development struct {
		InDevelopment        bool   `env:"SELFOSSFE_DEV" yaml:"inDevelopment"`
		SaveResponses        bool   `env:"SELFOSSFE_SAVE_RESPONSES,overwrite" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"SELFOSSFE_RESPONSE_SAVE_LOCATION,overwrite" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"SELFOSSFE_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"SELFOSSFE_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"SELFOSSFE_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled    bool    `env:"SELFOSSFE_LIMITER,overwrite" yaml:"enabled"`
		Rate       float64 `env:"SELFOSSFE_LIMITER_RATE,overwrite" yaml:"rate"`
		Burst      int     `env:"SELFOSSFE_LIMITER_BURST,overwrite" yaml:"burst"`
		IPv4Prefix int     `env:"SELFOSSFE_LIMITER_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix int     `env:"SELFOSSFE_LIMITER_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`
	} `yaml:"limiter"`

	Internationalization struct {
		// Language forces a UI language. Empty means auto-detection from the request.
		Language string `env:"SELFOSSFE_LANGUAGE,overwrite" yaml:"language"`

		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key).
		StrictMissingKeys bool `env:"SELFOSSFE_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (SELFOSSFE_CONFIGFILE)
	// 3. Default path with fallback check
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("SELFOSSFE_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		// Then, perform a fallback check for "./config.yml".
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if isContainerized() && cfg.Basic.UnixSocket == "" && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

var staticSkippedPathPrefixes = []string{"/img/", "/css/", "/js/", "/api/sync"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// BackendURL resolves p against the configured backend base URL.
func (cfg *ServerConfig) BackendURL(p string) string {
	return strings.TrimSuffix(cfg.Backend.URL.String(), "/") + "/" + strings.TrimPrefix(p, "/")
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
