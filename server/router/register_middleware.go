// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/selfossfe/selfossfe/server/middleware"
	"codeberg.org/selfossfe/selfossfe/server/middleware/limiter"
	"codeberg.org/selfossfe/selfossfe/server/middleware/set_request_context"
)

// RegisterMiddleware installs the middleware chain.
func (router *Router) RegisterMiddleware() {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.SetResponseHeaders)          // all pages need this
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.NormalizeURL)                // trailing slashes and legacy selfoss paths
	router.Use(limiter.Evaluate)                       // no-op unless limiter.enabled
	router.Use(middleware.WithSession)
}
