// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package session keeps one UI state store per browser.

Sessions live in memory only. The browser holds a signed token naming its
session; a restart or an eviction from the session cache starts afresh.
*/
package session

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"codeberg.org/selfossfe/selfossfe/core/state"
)

// Session is the server side of one browser.
type Session struct {
	ID    string
	Store *state.Store

	mu             sync.Mutex
	backendCookies map[string]string
	lastSync       time.Time
	backendVersion string
}

func newSession(id, htmlTitle string) *Session {
	return &Session{
		ID:             id,
		Store:          state.NewStore(state.New(htmlTitle)),
		backendCookies: map[string]string{},
	}
}

// BackendCookies returns a copy of the cookies the backend set for this session.
func (s *Session) BackendCookies() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Clone(s.backendCookies)
}

// UpdateBackendCookies applies cookies set by a backend response. Expired
// cookies are removed.
func (s *Session) UpdateBackendCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) || c.Value == "" {
			delete(s.backendCookies, c.Name)

			continue
		}

		s.backendCookies[c.Name] = c.Value
	}
}

// ClearBackendCookies forgets the backend session.
func (s *Session) ClearBackendCookies() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.backendCookies)
}

// LastSync is the time of the last successful sync, zero before the first.
func (s *Session) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSync
}

func (s *Session) SetLastSync(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSync = t
}

// ObserveBackendVersion records version and reports whether it differs from
// a previously seen one.
func (s *Session) ObserveBackendVersion(version string) (changed bool) {
	if version == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed = s.backendVersion != "" && s.backendVersion != version
	s.backendVersion = version

	return changed
}

type contextKeyType struct{}

var contextKey = contextKeyType{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey, s)
}

// FromContext returns the session stored in ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey).(*Session)

	return s
}
