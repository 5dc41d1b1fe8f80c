// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package backend

import (
	"slices"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"codeberg.org/selfossfe/selfossfe/core/content"
	"codeberg.org/selfossfe/selfossfe/core/state"
)

// datetimeLayouts are tried in order; older backends omit the zone.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func parseDatetime(s string) time.Time {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}

// decodeEntry reads one item. Thumbnails and icons are file names relative
// to the backend's thumbnails/ and favicons/ directories.
func (c *Client) decodeEntry(v gjson.Result) state.Entry {
	e := state.Entry{
		ID:          int(v.Get("id").Int()),
		Title:       content.PlainText(v.Get("title").String()),
		Content:     v.Get("content").String(),
		Link:        v.Get("link").String(),
		Author:      v.Get("author").String(),
		Datetime:    parseDatetime(v.Get("datetime").String()),
		SourceID:    int(v.Get("source").Int()),
		SourceTitle: content.PlainText(v.Get("sourcetitle").String()),
		Tags:        decodeEntryTags(v.Get("tags")),
		Unread:      v.Get("unread").Bool(),
		Starred:     v.Get("starred").Bool(),
	}

	e.Excerpt = content.Excerpt(e.Content, content.DefaultExcerptLength)

	if thumb := v.Get("thumbnail").String(); thumb != "" {
		e.Thumbnail = c.endpoint("thumbnails/"+thumb, nil)
	} else {
		e.Thumbnail = content.FirstImage(e.Content)
	}

	if icon := v.Get("icon").String(); icon != "" {
		e.Icon = c.endpoint("favicons/"+icon, nil)
	}

	return e
}

// decodeEntryTags accepts {"tag": "#color"} as well as "tag1,tag2".
func decodeEntryTags(v gjson.Result) []string {
	var tags []string

	switch {
	case v.IsObject():
		v.ForEach(func(key, _ gjson.Result) bool {
			tags = append(tags, key.String())

			return true
		})
	case v.IsArray():
		for _, t := range v.Array() {
			tags = append(tags, t.String())
		}
	case v.Type == gjson.String:
		for t := range strings.SplitSeq(v.String(), ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	slices.Sort(tags)

	return tags
}

func (c *Client) decodeEntries(v gjson.Result) []state.Entry {
	entries := make([]state.Entry, 0, len(v.Array()))

	v.ForEach(func(_, item gjson.Result) bool {
		entries = append(entries, c.decodeEntry(item))

		return true
	})

	return entries
}

func decodeTags(v gjson.Result) []state.Tag {
	tags := make([]state.Tag, 0, len(v.Array()))

	v.ForEach(func(_, t gjson.Result) bool {
		tags = append(tags, state.Tag{
			Tag:    t.Get("tag").String(),
			Color:  t.Get("color").String(),
			Unread: int(t.Get("unread").Int()),
		})

		return true
	})

	return tags
}

func decodeSources(v gjson.Result) []state.Source {
	sources := make([]state.Source, 0, len(v.Array()))

	v.ForEach(func(_, s gjson.Result) bool {
		sources = append(sources, state.Source{
			ID:     int(s.Get("id").Int()),
			Title:  content.PlainText(s.Get("title").String()),
			Unread: int(s.Get("unread").Int()),
		})

		return true
	})

	return sources
}

func decodeStats(v gjson.Result) Stats {
	return Stats{
		Total:   int(v.Get("total").Int()),
		Unread:  int(v.Get("unread").Int()),
		Starred: int(v.Get("starred").Int()),
	}
}

func decodeStatuses(v gjson.Result) []state.EntryStatus {
	statuses := make([]state.EntryStatus, 0, len(v.Array()))

	v.ForEach(func(_, s gjson.Result) bool {
		statuses = append(statuses, state.EntryStatus{
			ID:      int(s.Get("id").Int()),
			Unread:  s.Get("unread").Bool(),
			Starred: s.Get("starred").Bool(),
		})

		return true
	})

	return statuses
}
