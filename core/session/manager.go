// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/authenticated"
	"codeberg.org/selfossfe/selfossfe/core/cookie"
	"codeberg.org/selfossfe/selfossfe/core/idgen"
	"codeberg.org/selfossfe/selfossfe/core/requests/lrucache"
	"codeberg.org/selfossfe/selfossfe/core/untrusted"
)

const (
	tokenSubject = "selfossfe session"
	tokenClaim   = "sid"
)

// Default is the manager used by the server, created by [Setup].
var Default *Manager

// InitFunc prepares the store of a new session, e.g. by subscribing observers.
// ctx belongs to the request that created the session and must not be kept.
type InitFunc func(ctx context.Context, s *Session)

// Manager creates, finds and destroys sessions.
type Manager struct {
	sessions  *lrucache.Cache[*Session]
	validator *authenticated.Validator
	maxAge    time.Duration
	htmlTitle string
	init      InitFunc
}

// NewManager returns a manager keeping at most size sessions.
func NewManager(validator *authenticated.Validator, size int, maxAge time.Duration, htmlTitle string, init InitFunc) (*Manager, error) {
	sessions, err := lrucache.New(size, lrucache.WithEvictCallback(func(id string, _ *Session) {
		log.Debug().Str("session", id).Msg("Evicted session")
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	return &Manager{
		sessions:  sessions,
		validator: validator,
		maxAge:    maxAge,
		htmlTitle: htmlTitle,
		init:      init,
	}, nil
}

// Setup creates [Default] from the configuration.
func Setup(init InitFunc) error {
	if config.Global.Basic.Secret == "" {
		log.Warn().Msg("basic.secret is not set; sessions will not survive a restart")
	}

	validator, err := authenticated.NewValidator(config.Global.Basic.Secret)
	if err != nil {
		return err
	}

	m, err := NewManager(validator,
		config.Global.Session.MaxSessions,
		config.Global.Session.MaxAge,
		config.Global.Instance.HTMLTitle,
		init)
	if err != nil {
		return err
	}

	Default = m

	return nil
}

// Load returns the session named by the request's session cookie.
func (m *Manager) Load(r *http.Request) (*Session, bool) {
	token := untrusted.GetCookie(r, cookie.SessionCookie)
	if token == "" {
		return nil, false
	}

	id, err := m.validator.Verify(token, tokenSubject, tokenClaim)
	if err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("Ignoring session cookie")

		return nil, false
	}

	if !idgen.ValidSession(id) {
		return nil, false
	}

	return m.sessions.Get(id)
}

// LoadOrCreate returns the request's session, creating one and setting its
// cookie when there is none.
func (m *Manager) LoadOrCreate(w http.ResponseWriter, r *http.Request) *Session {
	if s, ok := m.Load(r); ok {
		return s
	}

	s := newSession(idgen.Session(), m.htmlTitle)

	if m.init != nil {
		m.init(r.Context(), s)
	}

	m.sessions.Add(s.ID, s)

	untrusted.SetCookie(w, r, cookie.SessionCookie,
		m.validator.Sign(tokenSubject, map[string]string{tokenClaim: s.ID}, m.maxAge))

	log.Ctx(r.Context()).Debug().Str("session", s.ID).Msg("Created session")

	return s
}

// Destroy forgets s and clears the browser's session cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request, s *Session) {
	if s != nil {
		m.sessions.Remove(s.ID)
	}

	untrusted.ClearCookie(w, r, cookie.SessionCookie)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.Len()
}
