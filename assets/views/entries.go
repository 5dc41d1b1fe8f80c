// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"time"

	"github.com/a-h/templ"

	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/server/request_context"
)

// EntriesData is the data for the entry list.
type EntriesData struct {
	State          state.State
	ShowThumbnails bool
	HasMore        bool
	// NextOffset is the offset of the next page when HasMore is set.
	NextOffset int
}

// Entries renders the search form, the entry list and the paging link.
func Entries(d EntriesData) templ.Component {
	return component(func(h *htmlWriter) {
		s := d.State
		returnPath := request_context.FromContext(h.ctx).CommonData.CurrentPath

		h.raw(`<form id="search" method="get" action="/" role="search">`)
		h.raw(`<input type="hidden" name="type"`)
		h.attr("value", string(s.Navigation.Filter))
		h.raw(`><input type="search" name="search"`)
		h.attr("value", s.Navigation.Search)
		h.attr("placeholder", h.tr("search_placeholder"))
		h.attr("aria-label", h.tr("search_placeholder"))
		h.raw(`></form>`)

		if len(s.Entries) == 0 {
			h.raw(`<p class="entries-empty">`)
			h.trText("entries_empty")
			h.raw(`</p>`)

			return
		}

		if unread := unreadIDs(s.Entries); len(unread) > 0 && !s.Offline {
			h.raw(`<form id="markread" method="post" action="/entries/read">`)
			h.hiddenReturn(returnPath)

			for _, id := range unread {
				h.raw(`<input type="hidden" name="ids"`)
				h.attr("value", itoa(id))
				h.raw(`>`)
			}

			h.raw(`<button type="submit" accesskey="m">`)
			h.trText("markread")
			h.raw(`</button></form>`)
		}

		h.raw(`<div id="entries" role="feed">`)

		for _, e := range s.Entries {
			h.render(Entry(EntryData{
				Entry:          e,
				Expanded:       s.EntryIsExpanded(e.ID),
				Selected:       s.SelectedEntry == e.ID,
				ShowThumbnails: d.ShowThumbnails,
				Offline:        s.Offline,
				ReturnPath:     returnPath,
			}))
		}

		h.raw(`</div>`)

		if d.HasMore {
			h.raw(`<a id="stream-more" class="stream-more"`)
			h.url("href", entriesHref(s.Navigation)+"&offset="+itoa(d.NextOffset))
			h.raw(`>`)
			h.trText("entries_more")
			h.raw(`</a>`)
		}
	})
}

func unreadIDs(entries []state.Entry) []int {
	var ids []int

	for _, e := range entries {
		if e.Unread {
			ids = append(ids, e.ID)
		}
	}

	return ids
}

// EntryData is the data for one entry of the list.
type EntryData struct {
	Entry          state.Entry
	Expanded       bool
	Selected       bool
	ShowThumbnails bool
	Offline        bool
	ReturnPath     string
}

// Entry renders a single entry with its action buttons.
func Entry(d EntryData) templ.Component {
	return component(func(h *htmlWriter) {
		e := d.Entry

		class := "entry"
		if e.Unread {
			class += " unread"
		}

		if e.Starred {
			class += " starred"
		}

		if d.Selected {
			class += " selected"
		}

		if d.Expanded {
			class += " expanded"
		}

		h.raw(`<article`)
		h.attr("id", "entry"+itoa(e.ID))
		h.attr("class", class)
		h.attr("data-entry-id", itoa(e.ID))
		h.raw(`>`)

		if e.Icon != "" {
			h.raw(`<img class="entry-icon" loading="lazy" alt=""`)
			h.url("src", e.Icon)
			h.raw(`>`)
		}

		h.raw(`<h3 class="entry-title">`)
		entryButton(h, e.ID, "toggle", d.ReturnPath, "entry-title-toggle", func() { h.text(e.Title) })
		h.raw(`</h3>`)

		h.raw(`<p class="entry-meta"><span class="entry-source">`)
		h.text(e.SourceTitle)
		h.raw(`</span>`)

		if e.Author != "" {
			h.raw(` <span class="entry-author">`)
			h.text(e.Author)
			h.raw(`</span>`)
		}

		if !e.Datetime.IsZero() {
			h.raw(` <time`)
			h.attr("datetime", e.Datetime.Format(time.RFC3339))
			h.raw(`>`)
			h.text(e.Datetime.Format("2006-01-02 15:04"))
			h.raw(`</time>`)
		}

		for _, tag := range e.Tags {
			h.raw(` <span class="entry-tag">`)
			h.text(tag)
			h.raw(`</span>`)
		}

		h.raw(`</p>`)

		if d.Expanded {
			h.raw(`<div class="entry-content">`)
			// Entry content is sanitised by the backend before it is stored.
			h.render(templ.Raw(e.Content))
			h.raw(`</div>`)
		} else {
			if d.ShowThumbnails && e.Thumbnail != "" {
				h.raw(`<img class="entry-thumbnail" loading="lazy" alt=""`)
				h.url("src", e.Thumbnail)
				h.raw(`>`)
			}

			h.raw(`<p class="entry-excerpt">`)
			h.text(e.Excerpt)
			h.raw(`</p>`)
		}

		h.raw(`<div class="entry-toolbar">`)

		if !d.Offline {
			if e.Starred {
				entryButton(h, e.ID, "unstar", d.ReturnPath, "entry-unstar", func() { h.trText("entry_unstar") })
			} else {
				entryButton(h, e.ID, "star", d.ReturnPath, "entry-star", func() { h.trText("entry_star") })
			}

			if e.Unread {
				entryButton(h, e.ID, "read", d.ReturnPath, "entry-read", func() { h.trText("entry_markread") })
			} else {
				entryButton(h, e.ID, "unread", d.ReturnPath, "entry-unread", func() { h.trText("entry_markunread") })
			}
		}

		if e.Link != "" {
			h.raw(`<a class="entry-newwindow" target="_blank" rel="noopener noreferrer"`)
			h.url("href", e.Link)
			h.raw(`>`)
			h.trText("entry_newwindow")
			h.raw(`</a>`)
		}

		h.raw(`</div></article>`)
	})
}

func entryButton(h *htmlWriter, id int, action, returnPath, class string, label func()) {
	h.raw(`<form method="post" class="inline-form"`)
	h.attr("action", "/entries/"+itoa(id)+"/"+action)
	h.raw(`>`)
	h.hiddenReturn(returnPath)
	h.raw(`<button type="submit"`)
	h.attr("class", class)
	h.raw(`>`)
	label()
	h.raw(`</button></form>`)
}
