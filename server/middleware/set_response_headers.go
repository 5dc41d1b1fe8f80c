// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"
	"sync"

	"codeberg.org/selfossfe/selfossfe/config"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// Selfossfe-Version and Selfossfe-Revision are added dynamically in SetResponseHeaders.
	//
	// NOTE: we intentionally don't set CORP or HSTS headers.
	baseHeaders = http.Header{
		"Referrer-Policy":        {"no-referrer"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Permissions-Policy":     {strings.Join(defaultPermissionsPolicy, ", ")},
	}

	// baseCSP defines static CSP directives that don't change.
	baseCSP = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"font-src 'self'",
		"connect-src 'self'",
		"frame-ancestors 'none'",
		"script-src 'self'",
		"form-action 'self'",
		"object-src 'none'",
		// entry content embeds images, audio and video from the feeds' own hosts
		"img-src * data:",
		"media-src *",
		"frame-src 'none'",
	}

	// contentSecurityPolicy is the joined Content-Security-Policy header value.
	contentSecurityPolicy = strings.Join(baseCSP, "; ") + ";"

	// defaultPermissionsPolicy defines the default Permissions-Policy header.
	defaultPermissionsPolicy = []string{
		"accelerometer=()",
		"ambient-light-sensor=()",
		"battery=()",
		"camera=()",
		"display-capture=()",
		"document-domain=()",
		"encrypted-media=()",
		"execution-while-not-rendered=()",
		"execution-while-out-of-viewport=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"midi=()",
		"navigation-override=()",
		"payment=()",
		"publickey-credentials-get=()",
		"screen-wake-lock=()",
		"sync-xhr=()",
		"usb=()",
		"web-share=()",
		"xr-spatial-tracking=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("Selfossfe-Version", config.BuildVersion)
	headers.Set("Selfossfe-Revision", config.Global.Build.Revision())
	headers.Set("Content-Security-Policy", contentSecurityPolicy)

	next.ServeHTTP(w, r)
}

var firstDevResponse sync.Once

// invalidateCacheInDevelopment clears the browser cache on the first response
// after a restart in development.
func invalidateCacheInDevelopment(headers http.Header) {
	firstDevResponse.Do(func() {
		headers.Set("Clear-Site-Data", `"cache"`)
	})
}

// setCacheControl sets appropriate cache control headers for static assets.
func setCacheControl(headers http.Header, path string) {
	// Default to only storing in the browser cache and forcing revalidation
	cacheDuration := "private, no-cache"

	// Longer caching for icons (1 month)
	if strings.HasPrefix(path, "/img/icons/") {
		cacheDuration = "max-age=2592000"
	}

	// CSS and scripts get a moderate cache time (1 week)
	if strings.HasPrefix(path, "/css/") || strings.HasPrefix(path, "/js/") {
		cacheDuration = "max-age=604800"
	}

	// Other images can be cached for 2 weeks
	if strings.HasPrefix(path, "/img/") && !strings.HasPrefix(path, "/img/icons/") {
		cacheDuration = "max-age=1209600"
	}

	// Text files (robots.txt) get moderate caching (1 day)
	if strings.HasSuffix(path, ".txt") {
		cacheDuration = "max-age=86400"
	}

	headers.Set("Cache-Control", cacheDuration)
}
