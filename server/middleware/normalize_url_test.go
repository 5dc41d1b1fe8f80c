// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		requestURL       string
		expectedStatus   int
		expectedLocation string
	}{
		{
			name:           "Root path should not redirect",
			requestURL:     "/",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Path without trailing slash should not redirect",
			requestURL:     "/manage/sources",
			expectedStatus: http.StatusOK,
		},
		{
			name:             "Path with trailing slash should redirect",
			requestURL:       "/manage/sources/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/manage/sources",
		},
		{
			name:             "Trailing slash keeps the query",
			requestURL:       "/sign/in/?return=%2F",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/sign/in?return=%2F",
		},
		{
			name:             "Double slash does not become protocol relative",
			requestURL:       "//evil.example//",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/evil.example",
		},
		{
			name:             "Client route for all entries",
			requestURL:       "/newest/all",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "/?type=newest",
		},
		{
			name:             "Client route for a tag",
			requestURL:       "/unread/tag-go%20lang",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "/?type=unread&tag=go+lang",
		},
		{
			name:             "Client route for a source with entry and search",
			requestURL:       "/starred/source-12/345?search=foo",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "/?type=starred&source=12&search=foo",
		},
		{
			name:           "Invalid source id is left alone",
			requestURL:     "/starred/source-x",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unknown filter is left alone",
			requestURL:     "/entries/12",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := Wrap(NormalizeURL, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.requestURL, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedLocation, rr.Header().Get("Location"))
		})
	}
}
