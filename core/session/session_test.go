// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/selfossfe/selfossfe/core/authenticated"
	"codeberg.org/selfossfe/selfossfe/core/cookie"
	"codeberg.org/selfossfe/selfossfe/core/session"
	"codeberg.org/selfossfe/selfossfe/core/state"
)

func newManager(t *testing.T, size int, init session.InitFunc) *session.Manager {
	t.Helper()

	v, err := authenticated.NewValidator("")
	require.NoError(t, err)

	m, err := session.NewManager(v, size, time.Hour, "selfoss", init)
	require.NoError(t, err)

	return m
}

// withCookies copies the cookies set on w into a new request.
func withCookies(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}

	return r
}

func TestLoadOrCreate(t *testing.T) {
	t.Parallel()

	inits := 0
	m := newManager(t, 10, func(_ context.Context, s *session.Session) {
		inits++

		assert.Equal(t, "selfoss", s.Store.State().HTMLTitle)
	})

	w := httptest.NewRecorder()
	created := m.LoadOrCreate(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, created)
	assert.Equal(t, 1, inits)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, string(cookie.SessionCookie), cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	again := m.LoadOrCreate(httptest.NewRecorder(), withCookies(w))
	assert.Same(t, created, again)
	assert.Equal(t, 1, inits)
	assert.Equal(t, 1, m.Len())
}

func TestLoadRejectsForgedCookie(t *testing.T) {
	t.Parallel()

	m := newManager(t, 10, nil)
	other := newManager(t, 10, nil)

	w := httptest.NewRecorder()
	other.LoadOrCreate(w, httptest.NewRequest(http.MethodGet, "/", nil))

	_, ok := m.Load(withCookies(w))
	assert.False(t, ok)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: string(cookie.SessionCookie), Value: "garbage"})

	_, ok = m.Load(r)
	assert.False(t, ok)
}

func TestEvictionAndDestroy(t *testing.T) {
	t.Parallel()

	m := newManager(t, 1, nil)

	first := httptest.NewRecorder()
	m.LoadOrCreate(first, httptest.NewRequest(http.MethodGet, "/", nil))

	second := httptest.NewRecorder()
	s := m.LoadOrCreate(second, httptest.NewRequest(http.MethodGet, "/", nil))

	_, ok := m.Load(withCookies(first))
	assert.False(t, ok, "oldest session is evicted")

	w := httptest.NewRecorder()
	m.Destroy(w, withCookies(second), s)

	_, ok = m.Load(withCookies(second))
	assert.False(t, ok)

	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestBackendCookies(t *testing.T) {
	t.Parallel()

	s := newManager(t, 1, nil).LoadOrCreate(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	s.UpdateBackendCookies([]*http.Cookie{{Name: "PHPSESSID", Value: "one"}, {Name: "other", Value: "x"}})

	got := s.BackendCookies()
	assert.Equal(t, map[string]string{"PHPSESSID": "one", "other": "x"}, got)

	got["PHPSESSID"] = "mutated"
	assert.Equal(t, "one", s.BackendCookies()["PHPSESSID"])

	s.UpdateBackendCookies([]*http.Cookie{{Name: "other", MaxAge: -1}, {Name: "PHPSESSID", Value: "two"}})
	assert.Equal(t, map[string]string{"PHPSESSID": "two"}, s.BackendCookies())

	s.ClearBackendCookies()
	assert.Empty(t, s.BackendCookies())
}

func TestObserveBackendVersion(t *testing.T) {
	t.Parallel()

	s := newManager(t, 1, nil).LoadOrCreate(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, s.ObserveBackendVersion("2.19"))
	assert.False(t, s.ObserveBackendVersion("2.19"))
	assert.False(t, s.ObserveBackendVersion(""))
	assert.True(t, s.ObserveBackendVersion("2.20"))
}

func TestContext(t *testing.T) {
	t.Parallel()

	assert.Nil(t, session.FromContext(context.Background()))

	s := &session.Session{ID: "x", Store: state.NewStore(state.New(""))}
	assert.Same(t, s, session.FromContext(session.WithSession(context.Background(), s)))
}
