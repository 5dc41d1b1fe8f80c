// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"net/http"
	"net/url"
)

// RequestOptions describe a request to the backend.
type RequestOptions struct {
	Method string
	URL    string
	// Cookies are the backend cookies of the session, e.g. PHPSESSID.
	Cookies map[string]string
	// IncomingHeaders are the headers of the browser request being served.
	// Only Cache-Control is looked at.
	IncomingHeaders http.Header
	// Form is sent url-encoded as the body of POST requests.
	Form url.Values
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Cookies set by the backend, e.g. a new PHPSESSID after login.
	Cookies []*http.Cookie
	// Cached is true when the response was served from the response cache.
	Cached bool
}
