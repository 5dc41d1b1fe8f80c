// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"strings"
	"time"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/server/assets"
	"codeberg.org/selfossfe/selfossfe/server/middleware"
	"codeberg.org/selfossfe/selfossfe/server/routes"
)

// DefineRoutes sets up all the routes for the application.
func (router *Router) DefineRoutes() {
	fileServerHandler := fileServer()

	router.Handle("GET /robots.txt", fileServerHandler)
	router.Handle("GET /img/", fileServerHandler)
	router.Handle("GET /css/", fileServerHandler)
	router.Handle("GET /js/", fileServerHandler)

	// Entry list
	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(routes.IndexPage))
	router.HandleFunc("POST /entries/read", middleware.CatchError(routes.MarkAllRead))
	router.HandleFunc("POST /entries/{id}/{action}", middleware.CatchError(routes.EntryAction))

	// Navigation toolbar
	router.HandleFunc("POST /reload", middleware.CatchError(routes.ReloadAll))
	router.HandleFunc("POST /logout", middleware.CatchError(routes.Logout))
	router.HandleFunc("POST /nav/toggle", middleware.CatchError(routes.ToggleNav))
	router.HandleFunc("GET /manage/sources", middleware.CatchError(routes.ManageSources))
	router.HandleFunc("POST /message/dismiss", middleware.CatchError(routes.DismissMessage))

	// Authentication
	router.HandleFunc("GET /sign/in", middleware.CatchError(routes.LoginPage))
	router.HandleFunc("POST /sign/in", middleware.CatchError(routes.Login))
	router.HandleFunc("GET /password", middleware.CatchError(routes.PasswordPage))
	router.HandleFunc("POST /password", middleware.CatchError(routes.HashPassword))

	// htmx polling
	router.HandleFunc("GET /api/sync", middleware.CatchError(routes.Sync))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}

	router.HandleFunc("/", middleware.CatchError(routes.NotFound))
}

// fileServer serves static files from embedded assets.
func fileServer() http.HandlerFunc {
	staticContentFS, err := assets.Sub("assets")
	if err != nil {
		panic(fmt.Errorf("failed to create sub-filesystem for embedded 'assets' directory: %w", err))
	}

	fileServer := http.FileServer(http.FS(staticContentFS))

	return func(w http.ResponseWriter, r *http.Request) {
		// Using a strong ETag for static files embedded via go:embed
		// ref: https://www.rfc-editor.org/rfc/rfc9110#weak.and.strong.validators
		//
		// go:embed requires rebuilding when files change, so a per-instance
		// cache ID makes browsers fetch fresh content after any deployment.
		w.Header().Set("ETag", config.Global.Instance.FileServerCacheID)

		info, err := fs.Stat(staticContentFS, strings.TrimPrefix(r.URL.Path, "/"))
		if err != nil || info.IsDir() {
			middleware.CatchError(routes.NotFound)(w, r)

			return
		}

		fileServer.ServeHTTP(w, r)
	}
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	err := flightRecorder.Start()
	if err != nil {
		panic(err)
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
