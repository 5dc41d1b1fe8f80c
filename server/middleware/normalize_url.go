// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"codeberg.org/selfossfe/selfossfe/core/state"
)

// NormalizeURL is a middleware that handles URL normalization by:
// 1. Redirecting selfoss client routes (/<filter>/<category>) to the entry list query.
// 2. Removing trailing slashes from URLs (except root).
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if target, ok := legacyRoute(r.URL); ok {
		http.Redirect(w, r, target, http.StatusMovedPermanently)

		return
	}

	// Check for trailing slash and redirect if found
	if hasTrailingSlash(r) {
		removeTrailingSlash(w, r)

		return
	}

	// No normalization needed, continue to next handler
	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

// removeTrailingSlash removes trailing slash and redirects.
func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	// Leading slashes are collapsed so the target never becomes protocol-relative.
	target := url.URL{
		Path:     "/" + strings.Trim(r.URL.Path, "/"),
		RawQuery: r.URL.RawQuery,
	}

	http.Redirect(w, r, target.String(), http.StatusPermanentRedirect)
}

// legacyRoute maps "/<filter>/<category>[/<entry>]" paths of the selfoss
// web client to "/?type=...", where category is "all", "tag-<name>" or
// "source-<id>".
func legacyRoute(u *url.URL) (string, bool) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 {
		return "", false
	}

	filter := state.Filter(parts[0])
	if filter != state.FilterNewest && filter != state.FilterUnread && filter != state.FilterStarred {
		return "", false
	}

	nav := state.Navigation{Filter: filter, Search: u.Query().Get("search")}

	category, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", false
	}

	switch {
	case category == "all":
	case strings.HasPrefix(category, "tag-") && len(category) > len("tag-"):
		nav.Tag = strings.TrimPrefix(category, "tag-")
	case strings.HasPrefix(category, "source-"):
		id, err := strconv.Atoi(strings.TrimPrefix(category, "source-"))
		if err != nil || id <= 0 {
			return "", false
		}

		nav.SourceID = id
	default:
		return "", false
	}

	return "/?" + nav.Query(), true
}
