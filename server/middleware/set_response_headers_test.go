// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetCacheControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "/", want: "private, no-cache"},
		{path: "/css/style.css", want: "max-age=604800"},
		{path: "/img/icons/reload.svg", want: "max-age=2592000"},
		{path: "/img/favicon.svg", want: "max-age=1209600"},
		{path: "/robots.txt", want: "max-age=86400"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			headers := http.Header{}
			setCacheControl(headers, tt.path)

			assert.Equal(t, tt.want, headers.Get("Cache-Control"))
		})
	}
}

func TestSetResponseHeaders(t *testing.T) {
	t.Parallel()

	handler := Wrap(SetResponseHeaders, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "no-referrer", rr.Header().Get("Referrer-Policy"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rr.Header().Get("Selfossfe-Version"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "script-src 'self'")
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
}
