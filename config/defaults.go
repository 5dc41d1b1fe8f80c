// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	defaultCacheTTL        = 5 * time.Minute
	defaultBackendTimeout  = 20 * time.Second
	defaultSessionMaxAge   = 30 * 24 * time.Hour
	defaultItemsPerPage    = 50
	defaultMaxSessions     = 1000
	defaultCacheSize       = 200
	defaultLimiterRate     = 0.2
	defaultLimiterBurst    = 5
	defaultLimiterIPv4Mask = 24
	defaultLimiterIPv6Mask = 48
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8282"

	cfg.Backend.RawURL = "http://localhost:8000/"
	cfg.Backend.Timeout = defaultBackendTimeout
	cfg.Backend.UserAgent = "SelfossFE/" + BuildVersion
	cfg.Backend.ItemsPerPage = defaultItemsPerPage

	cfg.Cache.Enabled = true
	cfg.Cache.Size = defaultCacheSize
	cfg.Cache.TTL = defaultCacheTTL

	cfg.Session.MaxSessions = defaultMaxSessions
	cfg.Session.MaxAge = defaultSessionMaxAge

	cfg.Instance.HTMLTitle = "selfoss"

	cfg.Feature.LocalPasswordHash = false
	cfg.Feature.ShowThumbnails = true

	cfg.Development.SaveResponses = false
	cfg.Development.ResponseSaveLocation = "/tmp/selfossfe/responses"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = true
	cfg.Limiter.Rate = defaultLimiterRate
	cfg.Limiter.Burst = defaultLimiterBurst
	cfg.Limiter.IPv4Prefix = defaultLimiterIPv4Mask
	cfg.Limiter.IPv6Prefix = defaultLimiterIPv6Mask

	cfg.Internationalization.Language = ""
	cfg.Internationalization.StrictMissingKeys = false
}
