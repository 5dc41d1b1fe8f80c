// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/server/request_context"
)

// WithRequestContext is a middleware that attaches a RequestContext to each
// HTTP request, along with a logger tagged with the request ID.
func WithRequestContext(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := request_context.WithRequestContext(r.Context(), r)

	ctx = log.Logger.With().
		Str("request_id", request_context.FromContext(ctx).RequestID).
		Logger().
		WithContext(ctx)

	next.ServeHTTP(w, r.WithContext(ctx))
}
