// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/selfossfe/selfossfe/core/backend"
	"codeberg.org/selfossfe/selfossfe/core/state"
)

const itemsJSON = `{
	"hasMore": true,
	"entries": [
		{
			"id": 7,
			"datetime": "2024-05-01T08:30:00+00:00",
			"title": "Go &amp; <b>you</b>",
			"content": "<p>Hello <img src=\"https://img.test/a.png\"> world</p>",
			"unread": "1",
			"starred": false,
			"source": 3,
			"thumbnail": "",
			"icon": "abc.png",
			"link": "https://blog.test/go",
			"author": "Gopher",
			"sourcetitle": "Go Blog",
			"tags": {"news": "#ff0000", "go": "#00ff00"}
		},
		{
			"id": 8,
			"datetime": "2024-05-01 09:00:00",
			"title": "Old format",
			"content": "",
			"unread": false,
			"starred": true,
			"source": 4,
			"thumbnail": "t.jpg",
			"tags": "b, a"
		}
	]
}`

type recorder struct {
	mu   sync.Mutex
	reqs map[string]*http.Request
}

func (rec *recorder) record(r *http.Request) {
	_ = r.ParseForm()

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.reqs[r.URL.Path] = r
}

func (rec *recorder) get(path string) *http.Request {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.reqs[path]
}

// fakeBackend serves canned answers and records the last request per path.
func fakeBackend(t *testing.T) (*backend.Client, *recorder) {
	t.Helper()

	seen := &recorder{reqs: map[string]*http.Request{}}

	mux := http.NewServeMux()
	record := func(pattern string, status int, body string) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			seen.record(r)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		})
	}

	record("GET /items", http.StatusOK, itemsJSON)
	record("GET /stats", http.StatusOK, `{"total": 10, "unread": 4, "starred": 2}`)
	record("GET /tagslist", http.StatusOK, `[{"tag": "go", "color": "#00ff00", "unread": 3}]`)
	record("GET /sources/stats", http.StatusOK, `[{"id": 3, "title": "Go &amp; Blog", "unread": 1}]`)
	record("GET /items/sync", http.StatusOK, `{
		"lastUpdate": "2024-05-02T00:00:00+00:00",
		"newItems": [],
		"itemUpdates": [{"id": 7, "unread": false, "starred": true}],
		"stats": {"total": 10, "unread": 3, "starred": 3}
	}`)
	record("GET /api/about", http.StatusOK, `{"version": "2.19", "apiversion": "6.0.0", "configuration": {"publicMode": false, "authEnabled": true}}`)
	record("POST /mark/7", http.StatusOK, `{"success": true}`)
	record("POST /starr/7", http.StatusOK, `{"success": true}`)
	record("POST /unmark/7", http.StatusForbidden, `{"error": "forbidden"}`)
	record("POST /unstarr/7", http.StatusOK, `{"success": false, "error": "no such item"}`)
	record("POST /mark", http.StatusOK, `{"success": true}`)
	record("GET /update", http.StatusOK, `finished`)
	record("GET /logout", http.StatusOK, `{"success": true}`)
	record("POST /api/private/hash-password", http.StatusOK, `{"hash": "$2y$10$abc"}`)

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		seen.record(r)

		if r.PostForm.Get("password") != "right" {
			_, _ = w.Write([]byte(`{"success": false, "error": "invalid credentials"}`))

			return
		}

		http.SetCookie(w, &http.Cookie{Name: "PHPSESSID", Value: "fresh"})
		_, _ = w.Write([]byte(`{"success": true}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &backend.Client{BaseURL: srv.URL + "/"}, seen
}

func TestItems(t *testing.T) {
	t.Parallel()

	c, seen := fakeBackend(t)

	page, err := c.Items(context.Background(), nil, nil, backend.ItemsQuery{
		Navigation: state.Navigation{Filter: state.FilterStarred, Tag: "go", Search: "x"},
		Items:      20,
		Offset:     40,
	})
	require.NoError(t, err)

	q := seen.get("/items").URL.Query()
	assert.Equal(t, "starred", q.Get("type"))
	assert.Equal(t, "go", q.Get("tag"))
	assert.Equal(t, "x", q.Get("search"))
	assert.Equal(t, "20", q.Get("items"))
	assert.Equal(t, "40", q.Get("offset"))
	assert.Empty(t, q.Get("source"))

	assert.True(t, page.HasMore)
	require.Len(t, page.Entries, 2)

	first := page.Entries[0]
	assert.Equal(t, 7, first.ID)
	assert.Equal(t, "Go & you", first.Title)
	assert.True(t, first.Unread)
	assert.False(t, first.Starred)
	assert.Equal(t, []string{"go", "news"}, first.Tags)
	assert.Equal(t, "Hello world", first.Excerpt)
	assert.Equal(t, "https://img.test/a.png", first.Thumbnail)
	assert.Contains(t, first.Icon, "/favicons/abc.png")
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), first.Datetime.UTC())
	assert.Equal(t, "Go Blog", first.SourceTitle)

	second := page.Entries[1]
	assert.Equal(t, []string{"a", "b"}, second.Tags)
	assert.Contains(t, second.Thumbnail, "/thumbnails/t.jpg")
	assert.Equal(t, 2024, second.Datetime.Year())
	assert.True(t, second.Starred)
}

func TestCountersAndLists(t *testing.T) {
	t.Parallel()

	c, _ := fakeBackend(t)
	ctx := context.Background()

	stats, err := c.Stats(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, backend.Stats{Total: 10, Unread: 4, Starred: 2}, stats)

	tags, err := c.Tags(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []state.Tag{{Tag: "go", Color: "#00ff00", Unread: 3}}, tags)

	sources, err := c.Sources(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []state.Source{{ID: 3, Title: "Go & Blog", Unread: 1}}, sources)

	about, err := c.About(ctx)
	require.NoError(t, err)
	assert.Equal(t, backend.About{Version: "2.19", APIVersion: "6.0.0", Authentication: true}, about)
}

func TestSync(t *testing.T) {
	t.Parallel()

	c, seen := fakeBackend(t)

	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	result, err := c.Sync(context.Background(), nil, since, 0)
	require.NoError(t, err)

	q := seen.get("/items/sync").URL.Query()
	assert.Equal(t, "2024-05-01T00:00:00Z", q.Get("since"))
	assert.Equal(t, "true", q.Get("itemsStatuses"))

	assert.Equal(t, []state.EntryStatus{{ID: 7, Starred: true}}, result.ItemUpdates)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 3, result.Stats.Unread)
	assert.Nil(t, result.Tags)
	assert.Empty(t, result.NewEntries)
	assert.Equal(t, 2, result.LastUpdate.Day())
}

func TestItemActions(t *testing.T) {
	t.Parallel()

	c, seen := fakeBackend(t)
	ctx := context.Background()
	cookies := map[string]string{"PHPSESSID": "s1"}

	require.NoError(t, c.Mark(ctx, cookies, 7))
	require.NoError(t, c.Star(ctx, cookies, 7))

	if ck, err := seen.get("/mark/7").Cookie("PHPSESSID"); assert.NoError(t, err) {
		assert.Equal(t, "s1", ck.Value)
	}

	err := c.Unmark(ctx, cookies, 7)
	require.ErrorIs(t, err, backend.ErrUnauthorized)

	err = c.Unstar(ctx, cookies, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such item")

	require.NoError(t, c.MarkAll(ctx, cookies, []int{1, 2}))
	assert.Equal(t, []string{"1", "2"}, seen.get("/mark").PostForm["ids[]"])

	require.NoError(t, c.MarkAll(ctx, cookies, nil))
	require.NoError(t, c.Update(ctx, cookies))
}

func TestLoginLogout(t *testing.T) {
	t.Parallel()

	c, _ := fakeBackend(t)
	ctx := context.Background()

	_, err := c.Login(ctx, nil, "admin", "wrong")
	require.ErrorIs(t, err, backend.ErrInvalidCredentials)

	cookies, err := c.Login(ctx, nil, "admin", "right")
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "fresh", cookies[0].Value)

	require.NoError(t, c.Logout(ctx, map[string]string{"PHPSESSID": "fresh"}))
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	c, seen := fakeBackend(t)

	hash, err := c.HashPassword(context.Background(), nil, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "$2y$10$abc", hash)
	assert.Equal(t, "hunter2", seen.get("/api/private/hash-password").PostForm.Get("password"))
}

func TestOffline(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	c := &backend.Client{BaseURL: srv.URL + "/"}
	srv.Close()

	_, err := c.Stats(context.Background(), nil, nil)
	assert.ErrorIs(t, err, backend.ErrOffline)
}
