// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/selfossfe/selfossfe/assets/views"
	"codeberg.org/selfossfe/selfossfe/core/state"
	"codeberg.org/selfossfe/selfossfe/i18n"
	"codeberg.org/selfossfe/selfossfe/server/assets"
	"codeberg.org/selfossfe/selfossfe/server/request_context"
)

func TestMain(m *testing.M) {
	assets.FS = os.DirFS("../..")
	if err := i18n.Setup(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func render(t *testing.T, ctx context.Context, c templ.Component) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	return doc
}

func requestCtx(path string, htmx bool) context.Context {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if htmx {
		r.Header.Set("HX-Request", "true")
	}

	return request_context.WithRequestContext(r.Context(), r)
}

func TestNavToolBar(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	doc := render(t, ctx, views.NavToolBar(views.NavToolBarData{ReturnPath: "/?type=unread"}))

	toolbar := doc.Find("div.nav-toolbar")
	require.Equal(t, 1, toolbar.Length())

	refresh := toolbar.Find("button#nav-refresh")
	assert.Equal(t, "Reload sources", refresh.AttrOr("title", ""))
	assert.Equal(t, "Reload sources", refresh.AttrOr("aria-label", ""))
	assert.Equal(t, "r", refresh.AttrOr("accesskey", ""))
	assert.False(t, refresh.Find(".icon").HasClass("icon-spin"))
	assert.Equal(t, "/reload", refresh.Closest("form").AttrOr("action", ""))
	assert.Equal(t, "/?type=unread", refresh.Closest("form").Find("input[name=return]").AttrOr("value", ""))

	settings := toolbar.Find("a#nav-settings")
	assert.Equal(t, "/manage/sources", settings.AttrOr("href", ""))
	assert.Equal(t, "t", settings.AttrOr("accesskey", ""))
	assert.Equal(t, "Settings", settings.AttrOr("title", ""))

	logout := toolbar.Find("button#nav-logout")
	assert.Equal(t, "l", logout.AttrOr("accesskey", ""))
	assert.Equal(t, "Log out", logout.AttrOr("aria-label", ""))
	assert.Equal(t, "/logout", logout.Closest("form").AttrOr("action", ""))

	login := toolbar.Find("a#nav-login")
	assert.Equal(t, "/sign/in", login.AttrOr("href", ""))
	assert.Equal(t, "l", login.AttrOr("accesskey", ""))
	assert.Equal(t, "Log in", login.AttrOr("title", ""))

	ids := toolbar.Find("[id]").Map(func(_ int, s *goquery.Selection) string { return s.AttrOr("id", "") })
	assert.Equal(t, []string{"nav-refresh", "nav-settings", "nav-logout", "nav-login"}, ids)
}

func TestNavToolBarReloading(t *testing.T) {
	t.Parallel()

	doc := render(t, context.Background(), views.NavToolBar(views.NavToolBarData{Reloading: true}))

	assert.True(t, doc.Find("#nav-refresh .icon").HasClass("icon-spin"))
}

func TestPageShell(t *testing.T) {
	t.Parallel()

	s := state.New("selfoss")
	s.LoggedIn = true
	s.UnreadCount = 3
	s.Tags = []state.Tag{{Tag: "go", Color: "#00add8", Unread: 2}, {Tag: "bad", Color: "red;x:y"}}
	s.GlobalMessage = &state.GlobalMessage{Message: "<hello>", IsError: true}

	doc := render(t, requestCtx("/?type=unread", false), views.Page(views.PageData{State: s}, templ.Raw("<p id=body>x</p>")))

	assert.Equal(t, "selfoss (3)", doc.Find("title").Text())
	assert.True(t, doc.Find("body").HasClass("loggedin"))
	assert.Equal(t, 1, doc.Find("#content #body").Length())
	assert.Equal(t, 1, doc.Find("header#nav div.nav-toolbar").Length())
	assert.Equal(t, "<hello>", doc.Find("#message .message-text").Text())
	assert.True(t, doc.Find("#message .message").HasClass("error"))
	assert.Equal(t, "3", doc.Find("#nav-filter-unread .nav-filter-count").Text())
	assert.True(t, doc.Find("#nav-filter-unread").HasClass("active"))

	swatches := doc.Find("#nav-tags .tag-color")
	require.Equal(t, 2, swatches.Length())
	assert.Equal(t, "background-color: #00add8", swatches.Eq(0).AttrOr("style", ""))
	assert.Equal(t, "background-color: transparent", swatches.Eq(1).AttrOr("style", ""))
}

func TestPageHtmxRendersContentOnly(t *testing.T) {
	t.Parallel()

	s := state.New("selfoss")
	doc := render(t, requestCtx("/", true), views.Page(views.PageData{Title: "Sources", State: s}, templ.Raw("<p id=body>x</p>")))

	assert.Equal(t, 0, doc.Find("header#nav").Length())
	assert.Equal(t, 1, doc.Find("#content #body").Length())
	assert.Equal(t, "true", doc.Find("#message").AttrOr("hx-swap-oob", ""))
	assert.Equal(t, "Sources - selfoss", doc.Find("title").Text())
}

func TestEntries(t *testing.T) {
	t.Parallel()

	s := state.New("selfoss")
	s.Entries = []state.Entry{
		{ID: 1, Title: "One", Excerpt: "first", Content: "<p id=c1>full</p>", Unread: true, Thumbnail: "thumbnails/1.jpg", Datetime: time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)},
		{ID: 2, Title: "Two", Content: "<p id=c2>full</p>", Starred: true, Link: "javascript:alert(1)"},
	}
	s.ExpandedEntries = map[int]bool{2: true}
	s.SelectedEntry = 2

	doc := render(t, requestCtx("/", false), views.Entries(views.EntriesData{State: s, ShowThumbnails: true, HasMore: true, NextOffset: 50}))

	first := doc.Find("#entry1")
	assert.True(t, first.HasClass("unread"))
	assert.Equal(t, "first", first.Find(".entry-excerpt").Text())
	assert.Equal(t, "thumbnails/1.jpg", first.Find(".entry-thumbnail").AttrOr("src", ""))
	assert.Equal(t, "/entries/1/read", first.Find(".entry-read").Closest("form").AttrOr("action", ""))
	assert.Equal(t, "2025-03-01T08:30:00Z", first.Find("time").AttrOr("datetime", ""))
	assert.Equal(t, 0, first.Find("#c1").Length())

	second := doc.Find("#entry2")
	assert.True(t, second.HasClass("expanded"))
	assert.True(t, second.HasClass("selected"))
	assert.Equal(t, 1, second.Find(".entry-content #c2").Length())
	assert.Equal(t, "/entries/2/unstar", second.Find(".entry-unstar").Closest("form").AttrOr("action", ""))
	assert.Equal(t, "about:invalid#TemplFailedSanitizationURL", second.Find(".entry-newwindow").AttrOr("href", ""))

	assert.Equal(t, []string{"1"}, doc.Find("#markread input[name=ids]").Map(func(_ int, s *goquery.Selection) string {
		return s.AttrOr("value", "")
	}))
	assert.Equal(t, "/?type=unread&offset=50", doc.Find("#stream-more").AttrOr("href", ""))
}

func TestEntriesOffline(t *testing.T) {
	t.Parallel()

	s := state.New("selfoss")
	s.Offline = true
	s.Entries = []state.Entry{{ID: 1, Title: "One", Unread: true}}

	doc := render(t, requestCtx("/", false), views.Entries(views.EntriesData{State: s}))

	assert.Equal(t, 0, doc.Find("#markread").Length())
	assert.Equal(t, 0, doc.Find("#entry1 .entry-toolbar form").Length())
}

func TestPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data views.PasswordData
		want string
	}{
		{
			name: "form only",
			want: "",
		},
		{
			name: "hash",
			data: views.PasswordData{Hash: "$2y$10$abc"},
			want: "Generated Password (insert this into config.ini): ",
		},
		{
			name: "error",
			data: views.PasswordData{ErrorDetails: `{"message":"<boom>"}`},
			want: `Unexpected happened. {"message":"<boom>"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := render(t, context.Background(), views.Password(tt.data))

			assert.Equal(t, tt.want, doc.Find(".message-container").Text())

			if tt.data.Hash != "" {
				assert.Equal(t, tt.data.Hash, doc.Find(".message-container input").AttrOr("value", ""))
			}
		})
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	doc := render(t, context.Background(), views.Error(views.ErrorData{Error: errors.New("<kaput>"), StatusCode: http.StatusBadGateway, RequestID: "abc"}))

	assert.Equal(t, "502 Bad Gateway", doc.Find("h1").Text())
	assert.Equal(t, "<kaput>", doc.Find(".error-message").Text())
	assert.Equal(t, "Request ID: abc", strings.TrimSpace(doc.Find(".request-id").Text()))
}

func TestSyncFragment(t *testing.T) {
	t.Parallel()

	s := state.New("selfoss")
	s.UnreadCount = 1
	s.Sources = []state.Source{{ID: 4, Title: "Feed", Unread: 1}}

	doc := render(t, context.Background(), views.Sync(s, "/"))

	assert.Equal(t, "selfoss (1)", doc.Find("title").Text())

	for _, id := range []string{"#nav-filter", "#nav-tags", "#nav-sources", "#message"} {
		assert.Equal(t, "true", doc.Find(id).AttrOr("hx-swap-oob", ""), id)
	}

	assert.Equal(t, "/?type=unread&source=4", doc.Find("#nav-sources a").AttrOr("href", ""))
}
