// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	maxIdleConnsPerHost = 16
	idleConnTimeout     = 90 * time.Second
)

// HTTPClient talks to the feed backend. Cookies are managed per session by
// the caller, so redirects must not collect any of their own.
var HTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		ForceAttemptHTTP2:   true,
	},
	CheckRedirect: func(*http.Request, []*http.Request) error {
		// the backend answers API calls directly; a redirect means a login page
		return http.ErrUseLastResponse
	},
}

// IsConnectionSecure reports whether the browser reached us over HTTPS.
//
// X-Forwarded-Proto is only trusted from private and loopback addresses, the
// usual place of a reverse proxy.
func IsConnectionSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return false
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}

	return (ip.IsPrivate() || ip.IsLoopback()) && r.Header.Get("X-Forwarded-Proto") == "https"
}

// IsHtmx reports whether r was made by htmx and expects a fragment.
func IsHtmx(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// RedirectToWhenceYouCame sends the browser back to returnPath, or to the
// referring page when it is same-origin, or to "/".
//
// htmx requests get an HX-Redirect header instead of a 303.
func RedirectToWhenceYouCame(w http.ResponseWriter, r *http.Request, returnPath string) {
	target := SanitizeReturnPath(returnPath)

	if target == "" {
		if ref := r.Referer(); strings.HasPrefix(ref, GetOriginFromRequest(r)+"/") {
			target = strings.TrimPrefix(ref, GetOriginFromRequest(r))
		}
	}

	if target == "" {
		target = "/"
	}

	if IsHtmx(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)

		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}
