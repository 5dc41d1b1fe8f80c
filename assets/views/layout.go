// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"github.com/a-h/templ"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/server/request_context"
)

// syncInterval is how often the page polls /api/sync.
const syncInterval = "every 120s"

// PageData is the data common to every page rendered inside the application shell.
type PageData struct {
	// Title is prepended to the instance title; empty on the entry list.
	Title string
	State state.State
}

func (d PageData) documentTitle() string {
	if d.Title == "" {
		return d.State.Title(d.State.Count(state.CountUnread))
	}

	return d.Title + " - " + d.State.HTMLTitle
}

// Page renders body inside the application shell: navigation, message bar
// and the #content container.
//
// htmx requests only receive the #content container and an out-of-band
// message bar.
func Page(d PageData, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		common := request_context.FromContext(h.ctx).CommonData

		if common.IsHtmx {
			h.raw(`<title>`)
			h.text(d.documentTitle())
			h.raw(`</title>`)
			content(h, body)
			messageBar(h, d.State.GlobalMessage, common.CurrentPath, true)

			return
		}

		bodyClass := ""
		if d.State.LoggedIn {
			bodyClass += " loggedin"
		}

		if d.State.Offline {
			bodyClass += " offline"
		}

		document(h, d.documentTitle(), bodyClass, func() {
			h.raw(`<div id="sync" hx-get="/api/sync" hx-swap="none"`)
			h.attr("hx-trigger", syncInterval)
			h.raw(`></div>`)

			navClass := "nav"
			if d.State.NavExpanded {
				navClass += " nav-expanded"
			}

			h.raw(`<header id="nav"`)
			h.attr("class", navClass)
			h.raw(`>`)

			h.raw(`<form method="post" action="/nav/toggle" class="nav-toggle">`)
			h.hiddenReturn(common.CurrentPath)
			h.raw(`<button id="nav-mobile-settings" type="submit"`)
			h.attr("aria-expanded", boolString(d.State.NavExpanded))
			h.attr("aria-label", h.tr("nav_toggle"))
			h.raw(`>`)
			icon(h, "menu", false)
			h.raw(`</button></form>`)

			h.render(NavToolBar(navToolBarData(d.State, common.CurrentPath)))
			h.render(NavFilters(d.State))
			h.render(NavTags(d.State))
			h.render(NavSources(d.State))
			h.raw(`</header>`)

			messageBar(h, d.State.GlobalMessage, common.CurrentPath, false)

			if d.State.Offline {
				h.raw(`<p class="offline-banner" role="status">`)
				h.trText("offline")
				h.raw(`</p>`)
			}

			content(h, body)
		})
	})
}

// Document renders a standalone page without the application shell.
func Document(title string, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		if request_context.FromContext(h.ctx).CommonData.IsHtmx {
			h.raw(`<title>`)
			h.text(title)
			h.raw(`</title>`)
			content(h, body)

			return
		}

		document(h, title, "", func() { content(h, body) })
	})
}

func document(h *htmlWriter, title, bodyClass string, body func()) {
	rc := request_context.FromContext(h.ctx)
	cacheID := config.Global.Instance.FileServerCacheID

	h.raw(`<!DOCTYPE html><html`)
	h.attr("lang", rc.T.String())
	h.raw(`><head><meta charset="utf-8">`)
	h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	h.raw(`<meta name="referrer" content="no-referrer">`)
	h.raw(`<title>`)
	h.text(title)
	h.raw(`</title>`)
	h.raw(`<link rel="stylesheet"`)
	h.attr("href", "/css/style.css?v="+cacheID)
	h.raw(`><link rel="icon" type="image/svg+xml"`)
	h.attr("href", "/img/favicon.svg?v="+cacheID)
	h.raw(`><script defer`)
	h.attr("src", "/js/sync.js?v="+cacheID)
	h.raw(`></script></head><body`)

	if bodyClass != "" {
		h.attr("class", bodyClass[1:])
	}

	h.raw(`>`)
	body()
	h.raw(`</body></html>`)
}

func content(h *htmlWriter, body templ.Component) {
	h.raw(`<main id="content">`)
	h.render(body)
	h.raw(`</main>`)
}

func boolString(b bool) string {
	if b {
		return "true"
	}

	return "false"
}
