// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"net/http"
	"net/url"

	"github.com/a-h/templ"

	"codeberg.org/selfossfe/selfossfe/core/state"
)

// SourcesData is the data for the source management page.
type SourcesData struct {
	State state.State
}

// Sources lists the configured sources.
func Sources(d SourcesData) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section id="sources"><h2>`)
		h.trText("sources_title")
		h.raw(`</h2>`)

		if len(d.State.Sources) == 0 {
			h.raw(`<p class="sources-empty">`)
			h.trText("sources_empty")
			h.raw(`</p></section>`)

			return
		}

		h.raw(`<ul class="source-list">`)

		for _, src := range d.State.Sources {
			h.raw(`<li class="source"`)
			h.attr("id", "source"+itoa(src.ID))
			h.raw(`><a`)
			h.url("href", entriesHref(state.Navigation{Filter: state.FilterNewest, SourceID: src.ID}))
			h.raw(`>`)
			h.text(src.Title)
			h.raw(`</a> <span class="unread">`)
			h.trText("unread_count", src.Unread)
			h.raw(`</span></li>`)
		}

		h.raw(`</ul></section>`)
	})
}

// LoginData is the data for the sign-in form.
type LoginData struct {
	ReturnPath string
	Username   string
	// Error is the message from the last failed attempt.
	Error string
}

// Login renders the sign-in form.
func Login(d LoginData) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<form id="login" method="post" action="/sign/in">`)
		h.raw(`<h2>`)
		h.trText("login_title")
		h.raw(`</h2>`)

		if d.Error != "" {
			h.raw(`<p class="error" role="alert">`)
			h.text(d.Error)
			h.raw(`</p>`)
		}

		h.hiddenReturn(d.ReturnPath)
		h.raw(`<label for="username">`)
		h.trText("login_username")
		h.raw(`</label><input type="text" id="username" name="username" autocomplete="username" required autofocus`)
		h.attr("value", d.Username)
		h.raw(`><label for="password">`)
		h.trText("login_password")
		h.raw(`</label><input type="password" id="password" name="password" autocomplete="current-password" required>`)
		h.raw(`<button type="submit">`)
		h.trText("login_submit")
		h.raw(`</button></form>`)
	})
}

// PasswordData is the data for the password hashing page.
type PasswordData struct {
	// Hash is the generated hash after a successful submission.
	Hash string
	// ErrorDetails is the JSON-encoded failure after an unsuccessful submission.
	ErrorDetails string
}

// Password renders the password hashing form and the result of the last submission.
func Password(d PasswordData) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<form id="hashpassword" method="post" action="/password">`)
		h.raw(`<h1>`)
		h.trText("hash_password_title")
		h.raw(`</h1><div class="message-container">`)

		switch {
		case d.Hash != "":
			h.raw(`<p class="error"><label>Generated Password (insert this into config.ini): <input type="text"`)
			h.attr("value", d.Hash)
			h.raw(`></label></p>`)
		case d.ErrorDetails != "":
			h.raw(`<p class="error">Unexpected happened. <details><pre>`)
			h.text(d.ErrorDetails)
			h.raw(`</pre></details></p>`)
		}

		h.raw(`</div><label for="password">`)
		h.trText("hash_password_label")
		h.raw(`</label><input type="password" id="password" name="password" autocomplete="new-password" required>`)
		h.raw(`<input type="submit"`)
		h.attr("value", h.tr("hash_password_submit"))
		h.raw(`></form>`)
	})
}

// ErrorData is the data for the error page.
type ErrorData struct {
	Error      error
	StatusCode int
	RequestID  string
}

// Error renders a failed request.
func Error(d ErrorData) templ.Component {
	return component(func(h *htmlWriter) {
		code := d.StatusCode
		if code == 0 {
			code = http.StatusInternalServerError
		}

		h.raw(`<section id="error" class="error-page"><h1>`)
		h.text(itoa(code) + " " + http.StatusText(code))
		h.raw(`</h1>`)

		if code == http.StatusNotFound {
			h.raw(`<p>`)
			h.trText("error_not_found")
			h.raw(`</p>`)
		} else if d.Error != nil {
			h.raw(`<pre class="error-message">`)
			h.text(d.Error.Error())
			h.raw(`</pre>`)
		}

		if d.RequestID != "" {
			h.raw(`<p class="request-id">`)
			h.trText("error_request_id", d.RequestID)
			h.raw(`</p>`)
		}

		h.raw(`<p><a href="/">`)
		h.trText("error_back")
		h.raw(`</a></p></section>`)
	})
}

// UnauthorizedData is the data for the sign-in prompt.
type UnauthorizedData struct {
	NoAuthReturnPath string
	LoginReturnPath  string
}

// Unauthorized prompts the user to sign in before continuing.
func Unauthorized(d UnauthorizedData) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section id="unauthorized"><h1>`)
		h.trText("error_unauthorized")
		h.raw(`</h1><p><a id="unauthorized-login"`)
		h.url("href", "/sign/in?"+url.Values{"return": {d.LoginReturnPath}}.Encode())
		h.raw(`>`)
		h.trText("loginbutton")
		h.raw(`</a>`)

		if d.NoAuthReturnPath != "" {
			h.raw(` <a id="unauthorized-back"`)
			h.url("href", d.NoAuthReturnPath)
			h.raw(`>`)
			h.trText("error_back")
			h.raw(`</a>`)
		}

		h.raw(`</p></section>`)
	})
}

// Sync renders the out-of-band fragments refreshed by a background sync.
func Sync(s state.State, returnPath string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<title>`)
		h.text(s.Title(s.Count(state.CountUnread)))
		h.raw(`</title>`)

		navFilters(h, s, true)
		navTags(h, s, true)
		navSources(h, s, true)
		messageBar(h, s.GlobalMessage, returnPath, true)
	})
}
