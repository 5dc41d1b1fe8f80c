// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"github.com/a-h/templ"

	"codeberg.org/selfossfe/selfossfe/core/state"
)

// NavToolBarData is what the navigation toolbar renders from.
type NavToolBarData struct {
	Reloading bool
	// ReturnPath is where the reload and logout handlers send the browser back to.
	ReturnPath string
}

// NavToolBar renders the refresh, settings, logout and login controls.
//
// Both the logout and the login control are always present; the stylesheet
// shows one of them depending on the body's "loggedin" class.
func NavToolBar(d NavToolBarData) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="nav-toolbar">`)

		h.raw(`<form method="post" action="/reload" hx-post="/reload" hx-target="#content" hx-select="#content" class="inline-form">`)
		h.hiddenReturn(d.ReturnPath)
		h.raw(`<button id="nav-refresh"`)
		h.attr("title", h.tr("refreshbutton"))
		h.attr("aria-label", h.tr("refreshbutton"))
		h.raw(` accesskey="r" type="submit">`)
		icon(h, "reload", d.Reloading)
		h.raw(`</button></form>`)

		h.raw(`<a id="nav-settings"`)
		h.attr("title", h.tr("settingsbutton"))
		h.attr("aria-label", h.tr("settingsbutton"))
		h.raw(` accesskey="t" href="/manage/sources">`)
		icon(h, "settings", false)
		h.raw(`</a>`)

		h.raw(`<form method="post" action="/logout" class="inline-form">`)
		h.hiddenReturn(d.ReturnPath)
		h.raw(`<button id="nav-logout"`)
		h.attr("title", h.tr("logoutbutton"))
		h.attr("aria-label", h.tr("logoutbutton"))
		h.raw(` accesskey="l" type="submit">`)
		icon(h, "sign-out", false)
		h.raw(`</button></form>`)

		h.raw(`<a id="nav-login"`)
		h.attr("title", h.tr("loginbutton"))
		h.attr("aria-label", h.tr("loginbutton"))
		h.raw(` accesskey="l" href="/sign/in">`)
		icon(h, "log-in", false)
		h.raw(`</a>`)

		h.raw(`</div>`)
	})
}

// navToolBarData derives the toolbar data from a state snapshot.
func navToolBarData(s state.State, returnPath string) NavToolBarData {
	return NavToolBarData{Reloading: s.Reloading, ReturnPath: returnPath}
}

func icon(h *htmlWriter, name string, spin bool) {
	class := "icon icon-fw"
	if spin {
		class += " icon-spin"
	}

	h.raw(`<img`)
	h.attr("class", class)
	h.attr("src", "/img/icons/"+name+".svg")
	h.raw(` alt="" aria-hidden="true">`)
}
