// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ParseURL parses an absolute URL. The trailing slash of the path is dropped.
func ParseURL(urlStr, urlType string) (*url.URL, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s URL: %w", urlType, err)
	}

	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf(
			"%s URL is invalid: %s. Please specify a complete URL with scheme and host, e.g. https://example.com",
			urlType,
			urlStr)
	}

	parsedURL.Path = strings.TrimSuffix(parsedURL.Path, "/")

	return parsedURL, nil
}

// GetQueryParam returns the query parameter name, or defaultValue when absent.
func GetQueryParam(r *http.Request, name string, defaultValue ...string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}

	return first(defaultValue)
}

// GetFormValue returns the form value name, or defaultValue when absent.
func GetFormValue(r *http.Request, name string, defaultValue ...string) string {
	if err := r.ParseForm(); err == nil {
		if v := r.FormValue(name); v != "" {
			return v
		}
	}

	return first(defaultValue)
}

// GetPathInt parses the path variable name as a non-negative integer.
func GetPathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, r.PathValue(name))
	}

	return n, nil
}

// GetOriginFromRequest returns "scheme://host" for r.
func GetOriginFromRequest(r *http.Request) string {
	scheme := "http"
	if IsConnectionSecure(r) {
		scheme = "https"
	}

	return scheme + "://" + r.Host
}

// SanitizeReturnPath returns s if it is a same-origin absolute path, else "".
func SanitizeReturnPath(s string) string {
	s = strings.TrimSpace(s)

	if s == "" || !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
		return ""
	}

	if strings.Contains(s, "://") {
		return ""
	}

	return s
}

func first(values []string) string {
	if len(values) > 0 {
		return values[0]
	}

	return ""
}
