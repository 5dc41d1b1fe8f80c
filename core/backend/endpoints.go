// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/state"
)

// Stats are the item counters of the backend.
type Stats struct {
	Total   int
	Unread  int
	Starred int
}

// ItemsQuery selects a page of entries.
type ItemsQuery struct {
	Navigation state.Navigation
	Offset     int
	// Items is the page size; zero means the configured default.
	Items int
	// FromDatetime and FromID continue after the last entry of the previous page.
	FromDatetime time.Time
	FromID       int
}

func (q ItemsQuery) values() url.Values {
	v := url.Values{}

	filter := q.Navigation.Filter
	if filter == "" {
		filter = state.FilterUnread
	}

	v.Set("type", string(filter))

	if q.Navigation.Tag != "" {
		v.Set("tag", q.Navigation.Tag)
	}

	if q.Navigation.SourceID != 0 {
		v.Set("source", strconv.Itoa(q.Navigation.SourceID))
	}

	if q.Navigation.Search != "" {
		v.Set("search", q.Navigation.Search)
	}

	items := q.Items
	if items <= 0 {
		items = config.Global.Backend.ItemsPerPage
	}

	if items > 0 {
		v.Set("items", strconv.Itoa(items))
	}

	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}

	if !q.FromDatetime.IsZero() {
		v.Set("fromDatetime", q.FromDatetime.Format(time.RFC3339))
		v.Set("fromId", strconv.Itoa(q.FromID))
	}

	return v
}

// ItemsPage is one page of entries.
type ItemsPage struct {
	Entries []state.Entry
	HasMore bool
}

// SyncResult holds the changes since the last sync.
type SyncResult struct {
	LastUpdate  time.Time
	NewEntries  []state.Entry
	ItemUpdates []state.EntryStatus
	// Stats, Tags and Sources are nil when the backend sent none.
	Stats   *Stats
	Tags    []state.Tag
	Sources []state.Source
}

// About describes the backend.
type About struct {
	Version    string
	APIVersion string
	// Public is true when the backend can be read without logging in.
	Public bool
	// Authentication is true when the backend has login enabled.
	Authentication bool
}

// Items fetches a page of entries.
func (c *Client) Items(ctx context.Context, cookies map[string]string, headers http.Header, q ItemsQuery) (ItemsPage, error) {
	result, err := c.getJSON(ctx, "items", q.values(), cookies, headers)
	if err != nil {
		return ItemsPage{}, err
	}

	// older backends answer with a bare array
	if result.IsArray() {
		return ItemsPage{Entries: c.decodeEntries(result)}, nil
	}

	return ItemsPage{
		Entries: c.decodeEntries(result.Get("entries")),
		HasMore: result.Get("hasMore").Bool(),
	}, nil
}

// Stats fetches the item counters.
func (c *Client) Stats(ctx context.Context, cookies map[string]string, headers http.Header) (Stats, error) {
	result, err := c.getJSON(ctx, "stats", nil, cookies, headers)
	if err != nil {
		return Stats{}, err
	}

	return decodeStats(result), nil
}

// Tags fetches the tags with their unread counters.
func (c *Client) Tags(ctx context.Context, cookies map[string]string, headers http.Header) ([]state.Tag, error) {
	result, err := c.getJSON(ctx, "tagslist", nil, cookies, headers)
	if err != nil {
		return nil, err
	}

	return decodeTags(result), nil
}

// Sources fetches the sources with their unread counters.
func (c *Client) Sources(ctx context.Context, cookies map[string]string, headers http.Header) ([]state.Source, error) {
	result, err := c.getJSON(ctx, "sources/stats", nil, cookies, headers)
	if err != nil {
		return nil, err
	}

	return decodeSources(result), nil
}

// Sync fetches what changed since the given time, and entries newer than
// sinceID. A zero since asks for the counters only.
func (c *Client) Sync(ctx context.Context, cookies map[string]string, since time.Time, sinceID int) (SyncResult, error) {
	q := url.Values{
		"tags":    {"true"},
		"sources": {"true"},
	}

	if !since.IsZero() {
		q.Set("since", since.Format(time.RFC3339))
		q.Set("itemsStatuses", "true")
	}

	if sinceID > 0 {
		q.Set("itemsSinceId", strconv.Itoa(sinceID))
		q.Set("itemsHowMany", strconv.Itoa(max(config.Global.Backend.ItemsPerPage, 1)))
	}

	result, err := c.getJSON(ctx, "items/sync", q, cookies, nil)
	if err != nil {
		return SyncResult{}, err
	}

	synced := SyncResult{
		LastUpdate:  parseDatetime(result.Get("lastUpdate").String()),
		NewEntries:  c.decodeEntries(result.Get("newItems")),
		ItemUpdates: decodeStatuses(result.Get("itemUpdates")),
	}

	if v := result.Get("stats"); v.IsObject() {
		stats := decodeStats(v)
		synced.Stats = &stats
	}

	if v := result.Get("tags"); v.IsArray() {
		synced.Tags = decodeTags(v)
	}

	if v := result.Get("sources"); v.IsArray() {
		synced.Sources = decodeSources(v)
	}

	return synced, nil
}

// About fetches the backend description. It needs no login.
func (c *Client) About(ctx context.Context) (About, error) {
	result, err := c.getJSON(ctx, "api/about", nil, nil, nil)
	if err != nil {
		return About{}, err
	}

	return About{
		Version:        result.Get("version").String(),
		APIVersion:     result.Get("apiversion").String(),
		Public:         result.Get("configuration.publicMode").Bool(),
		Authentication: result.Get("configuration.authEnabled").Bool(),
	}, nil
}

func (c *Client) changeItem(ctx context.Context, cookies map[string]string, action string, id int) error {
	p := action + "/" + strconv.Itoa(id)

	_, result, err := c.postForm(ctx, p, nil, cookies)
	if err != nil {
		return err
	}

	c.invalidate()

	return expectSuccess(result, p)
}

// Mark marks entry id as read.
func (c *Client) Mark(ctx context.Context, cookies map[string]string, id int) error {
	return c.changeItem(ctx, cookies, "mark", id)
}

// Unmark marks entry id as unread.
func (c *Client) Unmark(ctx context.Context, cookies map[string]string, id int) error {
	return c.changeItem(ctx, cookies, "unmark", id)
}

// Star stars entry id.
func (c *Client) Star(ctx context.Context, cookies map[string]string, id int) error {
	return c.changeItem(ctx, cookies, "starr", id)
}

// Unstar removes the star of entry id.
func (c *Client) Unstar(ctx context.Context, cookies map[string]string, id int) error {
	return c.changeItem(ctx, cookies, "unstarr", id)
}

// MarkAll marks the given entries as read.
func (c *Client) MarkAll(ctx context.Context, cookies map[string]string, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	form := url.Values{}
	for _, id := range ids {
		form.Add("ids[]", strconv.Itoa(id))
	}

	_, result, err := c.postForm(ctx, "mark", form, cookies)
	if err != nil {
		return err
	}

	c.invalidate()

	return expectSuccess(result, "mark")
}

// Update makes the backend fetch all sources.
func (c *Client) Update(ctx context.Context, cookies map[string]string) error {
	if _, err := c.get(ctx, "update", cookies); err != nil {
		return err
	}

	c.invalidate()

	return nil
}

// Login logs in and returns the cookies of the new backend session.
func (c *Client) Login(ctx context.Context, cookies map[string]string, username, password string) ([]*http.Cookie, error) {
	resp, result, err := c.postForm(ctx, "login", url.Values{
		"username": {username},
		"password": {password},
	}, cookies)
	if err != nil {
		return nil, err
	}

	if !result.Get("success").Bool() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, result.Get("error").String())
	}

	return resp.Cookies, nil
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context, cookies map[string]string) error {
	resp, err := c.get(ctx, "logout", cookies)
	if err != nil {
		return err
	}

	if gjson.ValidBytes(resp.Body) {
		return expectSuccess(gjson.ParseBytes(resp.Body), "logout")
	}

	return nil
}

// HashPassword asks the backend to hash password for its configuration file.
func (c *Client) HashPassword(ctx context.Context, cookies map[string]string, password string) (string, error) {
	_, result, err := c.postForm(ctx, "api/private/hash-password", url.Values{"password": {password}}, cookies)
	if err != nil {
		return "", err
	}

	hash := result.Get("hash").String()
	if hash == "" {
		return "", fmt.Errorf("%w: no hash in answer", ErrMalformedResponse)
	}

	return hash, nil
}
