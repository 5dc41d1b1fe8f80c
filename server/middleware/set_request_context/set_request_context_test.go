// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/selfossfe/selfossfe/server/middleware"
	"codeberg.org/selfossfe/selfossfe/server/request_context"
)

func TestWithRequestContext_AttachesContext(t *testing.T) {
	t.Parallel()

	var rc *request_context.RequestContext

	handler := middleware.Wrap(WithRequestContext, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc = request_context.FromRequest(r)

		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/entries/3/read?x=1", nil)
	req.Header.Set("HX-Request", "true")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.NotNil(t, rc)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rc.RequestID)
	assert.Equal(t, http.StatusOK, rc.StatusCode)
	assert.NoError(t, rc.RequestError)
	assert.Equal(t, "/entries/3/read?x=1", rc.CommonData.CurrentPath)
	assert.True(t, rc.CommonData.IsHtmx)
}

func TestWithRequestContext_GeneratesUniqueRequestIDs(t *testing.T) {
	t.Parallel()

	var requestIDs []string

	handler := middleware.Wrap(WithRequestContext, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestIDs = append(requestIDs, request_context.FromRequest(r).RequestID)

		w.WriteHeader(http.StatusOK)
	}))

	for range 3 {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	}

	require.Len(t, requestIDs, 3)

	seen := make(map[string]bool)
	for _, id := range requestIDs {
		assert.False(t, seen[id], "duplicate request ID %s", id)
		seen[id] = true
	}
}

func TestWithRequestContext_AttachesLogger(t *testing.T) {
	t.Parallel()

	var logger *zerolog.Logger

	handler := middleware.Wrap(WithRequestContext, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		logger = zerolog.Ctx(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	require.NotNil(t, logger)
	assert.NotEqual(t, zerolog.Disabled, logger.GetLevel())
}
