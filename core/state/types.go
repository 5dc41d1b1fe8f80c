// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package state

import (
	"net/url"
	"strconv"
	"time"
)

// Entry is a feed item as shown in the entry list.
type Entry struct {
	ID          int
	Title       string
	Content     string
	Excerpt     string
	Thumbnail   string
	Icon        string
	Link        string
	Author      string
	Datetime    time.Time
	SourceID    int
	SourceTitle string
	Tags        []string
	Unread      bool
	Starred     bool
}

// Tag is a source tag with its colour and unread counter.
type Tag struct {
	Tag    string
	Color  string
	Unread int
}

// Source is a feed source with its unread counter.
type Source struct {
	ID     int
	Title  string
	Unread int
}

// EntryStatus is the read and starred state of an entry reported by a sync.
type EntryStatus struct {
	ID      int
	Unread  bool
	Starred bool
}

// MessageAction is a link offered next to a global message.
type MessageAction struct {
	Label string
	Href  string
}

// GlobalMessage is shown in the message bar until dismissed.
type GlobalMessage struct {
	Message string
	Actions []MessageAction
	IsError bool
}

// Filter selects which entries are listed.
type Filter string

const (
	FilterNewest  Filter = "newest"
	FilterUnread  Filter = "unread"
	FilterStarred Filter = "starred"
)

// ParseFilter returns the filter named s, or [FilterUnread] for anything else.
func ParseFilter(s string) Filter {
	switch f := Filter(s); f {
	case FilterNewest, FilterUnread, FilterStarred:
		return f
	default:
		return FilterUnread
	}
}

// Navigation is the current place in the entry list.
type Navigation struct {
	Filter Filter
	// Tag is the active tag, or "" for all tags.
	Tag string
	// SourceID is the active source, or 0 for all sources.
	SourceID int
	Search   string
}

// Query encodes n as the query string of the entries page.
func (n Navigation) Query() string {
	q := "type=" + string(n.Filter)

	switch {
	case n.Tag != "":
		q += "&tag=" + url.QueryEscape(n.Tag)
	case n.SourceID != 0:
		q += "&source=" + strconv.Itoa(n.SourceID)
	}

	if n.Search != "" {
		q += "&search=" + url.QueryEscape(n.Search)
	}

	return q
}

// CountKind names one of the offline counters.
type CountKind string

const (
	CountUnread  CountKind = "unread"
	CountStarred CountKind = "starred"
	CountNewest  CountKind = "newest"
)

// OfflineCount is a new value for an offline counter. Keep leaves the
// counter as it is.
type OfflineCount struct {
	Value int
	Keep  bool
}

// State is everything the pages of one session are rendered from.
type State struct {
	LoggedIn  bool
	Offline   bool
	HTMLTitle string
	// Language is a BCP 47 tag. Empty means the base locale.
	Language string

	Navigation         Navigation
	NavExpanded        bool
	SourcesNavExpanded bool
	Reloading          bool
	LoginFormError     string

	Entries         []Entry
	ExpandedEntries map[int]bool
	// SelectedEntry is 0 when nothing is selected.
	SelectedEntry int

	Tags    []Tag
	Sources []Source

	UnreadCount  int
	StarredCount int
	AllCount     int

	UnreadOfflineCount  int
	StarredOfflineCount int
	AllOfflineCount     int

	// GlobalMessage is nil when no message is shown.
	GlobalMessage *GlobalMessage
}

// New returns the state of a fresh session.
func New(htmlTitle string) State {
	return State{
		HTMLTitle:  htmlTitle,
		Navigation: Navigation{Filter: FilterUnread},
	}
}

// Title is the window title for the given number of unread entries.
func (s State) Title(unread int) string {
	if unread > 0 {
		return s.HTMLTitle + " (" + strconv.Itoa(unread) + ")"
	}

	return s.HTMLTitle
}

// EntryIsExpanded reports whether the entry id is expanded.
func (s State) EntryIsExpanded(id int) bool {
	return s.ExpandedEntries[id]
}

// Entry returns the listed entry id.
func (s State) Entry(id int) (Entry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}

	return Entry{}, false
}

// HasTag reports whether tag is one of the known tags.
func (s State) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t.Tag == tag {
			return true
		}
	}

	return false
}

// HasSource reports whether id is one of the known sources.
func (s State) HasSource(id int) bool {
	for _, src := range s.Sources {
		if src.ID == id {
			return true
		}
	}

	return false
}

// Count returns the counter shown for kind, the offline one when offline.
func (s State) Count(kind CountKind) int {
	switch kind {
	case CountUnread:
		if s.Offline {
			return s.UnreadOfflineCount
		}

		return s.UnreadCount
	case CountStarred:
		if s.Offline {
			return s.StarredOfflineCount
		}

		return s.StarredCount
	case CountNewest:
		if s.Offline {
			return s.AllOfflineCount
		}

		return s.AllCount
	default:
		return 0
	}
}

// OfflineCounts computes the offline counters from locally known entries.
func OfflineCounts(entries []Entry) map[CountKind]OfflineCount {
	var unread, starred int

	for _, e := range entries {
		if e.Unread {
			unread++
		}

		if e.Starred {
			starred++
		}
	}

	return map[CountKind]OfflineCount{
		CountUnread:  {Value: unread},
		CountStarred: {Value: starred},
		CountNewest:  {Value: len(entries)},
	}
}
