// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package state

import (
	"maps"
	"slices"
)

// Reduce returns s with a applied and the kinds of changes made. Actions
// that change nothing return no events. s is never modified.
func Reduce(s State, a Action) (State, []EventKind) {
	var events []EventKind

	switch a := a.(type) {
	case SetEntries:
		s, events = setEntries(s, a.Entries)

	case EntryExpand:
		s, events = setExpanded(s, a.ID, func(bool) bool { return true })

	case EntryCollapse:
		s, events = setExpanded(s, a.ID, func(bool) bool { return false })

	case EntryToggleExpanded:
		s, events = setExpanded(s, a.ID, func(expanded bool) bool { return !expanded })

	case EntryCollapseAll:
		if len(s.ExpandedEntries) > 0 {
			s.ExpandedEntries = nil
			events = []EventKind{ExpandedChanged}
		}

	case EntrySelect:
		events = change(&s.SelectedEntry, a.ID, SelectionChanged)

	case EntryStar:
		s, events = updateEntry(s, a.ID, func(e *Entry) { e.Starred = a.Starred })

	case EntryMark:
		s, events = updateEntry(s, a.ID, func(e *Entry) { e.Unread = a.Unread })

	case RefreshEntryStatuses:
		s, events = refreshEntryStatuses(s, a.Statuses)

	case RefreshTagSourceUnread:
		s, events = refreshTagSourceUnread(s, a)

	case RefreshOfflineCounts:
		s, events = refreshOfflineCounts(s, a.Counts)

	case SetOffline:
		events = change(&s.Offline, a.Offline, OfflineChanged)

	case SetLoggedIn:
		events = change(&s.LoggedIn, a.LoggedIn, LoggedInChanged)

	case ShowMessage:
		msg := a.Message
		msg.Actions = slices.Clone(msg.Actions)
		s.GlobalMessage = &msg
		events = []EventKind{MessageChanged}

	case DismissMessage:
		if s.GlobalMessage != nil {
			s.GlobalMessage = nil
			events = []EventKind{MessageChanged}
		}

	case ShowLogin:
		s.LoginFormError = a.Error
		events = []EventKind{LoginFormChanged}

	case SetNavExpanded:
		events = change(&s.NavExpanded, a.Expanded, NavExpandedChanged)

	case SetSourcesNavExpanded:
		events = change(&s.SourcesNavExpanded, a.Expanded, SourcesNavExpandedChanged)

	case SetReloading:
		events = change(&s.Reloading, a.Reloading, ReloadingChanged)

	case SetNavigation:
		events = change(&s.Navigation, a.Navigation, NavigationChanged)

	case SetTags:
		s.Tags = slices.Clone(a.Tags)
		events = []EventKind{TagsChanged}

	case SetSources:
		s.Sources = slices.Clone(a.Sources)
		events = []EventKind{SourcesChanged}

	case SetCounts:
		if s.UnreadCount != a.Unread || s.StarredCount != a.Starred || s.AllCount != a.All {
			s.UnreadCount, s.StarredCount, s.AllCount = a.Unread, a.Starred, a.All
			events = []EventKind{CountsChanged}
		}

	case SetLanguage:
		events = change(&s.Language, a.Language, LanguageChanged)

	case Reset:
		fresh := New(s.HTMLTitle)
		fresh.Offline = s.Offline
		fresh.Language = s.Language
		s = fresh
		events = []EventKind{
			EntriesChanged, ExpandedChanged, SelectionChanged, TagsChanged, SourcesChanged,
			CountsChanged, LoggedInChanged, MessageChanged, NavigationChanged,
		}
	}

	return s, events
}

func change[T comparable](field *T, v T, kind EventKind) []EventKind {
	if *field == v {
		return nil
	}

	*field = v

	return []EventKind{kind}
}

func setEntries(s State, entries []Entry) (State, []EventKind) {
	s.Entries = slices.Clone(entries)
	events := []EventKind{EntriesChanged}

	if len(s.ExpandedEntries) > 0 {
		expanded := make(map[int]bool, len(s.ExpandedEntries))

		for _, e := range s.Entries {
			if s.ExpandedEntries[e.ID] {
				expanded[e.ID] = true
			}
		}

		if len(expanded) != len(s.ExpandedEntries) {
			s.ExpandedEntries = expanded
			events = append(events, ExpandedChanged)
		}
	}

	if _, listed := s.Entry(s.SelectedEntry); s.SelectedEntry != 0 && !listed {
		s.SelectedEntry = 0
		events = append(events, SelectionChanged)
	}

	return s, events
}

func setExpanded(s State, id int, next func(expanded bool) bool) (State, []EventKind) {
	if id == 0 {
		return s, nil
	}

	current := s.ExpandedEntries[id]

	want := next(current)
	if want == current {
		return s, nil
	}

	expanded := maps.Clone(s.ExpandedEntries)
	if expanded == nil {
		expanded = make(map[int]bool, 1)
	}

	if want {
		expanded[id] = true
	} else {
		delete(expanded, id)
	}

	s.ExpandedEntries = expanded

	return s, []EventKind{ExpandedChanged}
}

func updateEntry(s State, id int, update func(*Entry)) (State, []EventKind) {
	i := slices.IndexFunc(s.Entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return s, nil
	}

	updated := s.Entries[i]
	update(&updated)

	if updated.Unread == s.Entries[i].Unread && updated.Starred == s.Entries[i].Starred {
		return s, nil
	}

	s.Entries = slices.Clone(s.Entries)
	s.Entries[i] = updated

	return s, []EventKind{EntriesChanged}
}

// refreshEntryStatuses uses the first status reported for each listed entry.
func refreshEntryStatuses(s State, statuses []EntryStatus) (State, []EventKind) {
	var events []EventKind

	for _, e := range s.Entries {
		i := slices.IndexFunc(statuses, func(st EntryStatus) bool { return st.ID == e.ID })
		if i < 0 {
			continue
		}

		var changed []EventKind

		s, changed = updateEntry(s, e.ID, func(updated *Entry) {
			updated.Starred = statuses[i].Starred
			updated.Unread = statuses[i].Unread
		})
		if len(changed) > 0 {
			events = changed
		}
	}

	return s, events
}

func refreshTagSourceUnread(s State, a RefreshTagSourceUnread) (State, []EventKind) {
	var events []EventKind

	adjust := func(current, count int) int {
		if a.Absolute {
			return count
		}

		return current + count
	}

	if len(a.TagCounts) > 0 && len(s.Tags) > 0 {
		tags := slices.Clone(s.Tags)

		for i := range tags {
			if count, ok := a.TagCounts[tags[i].Tag]; ok {
				tags[i].Unread = adjust(tags[i].Unread, count)
			}
		}

		if !slices.Equal(tags, s.Tags) {
			s.Tags = tags
			events = append(events, TagsChanged)
		}
	}

	if len(a.SourceCounts) > 0 && len(s.Sources) > 0 {
		sources := slices.Clone(s.Sources)

		for i := range sources {
			if count, ok := a.SourceCounts[sources[i].ID]; ok {
				sources[i].Unread = adjust(sources[i].Unread, count)
			}
		}

		if !slices.Equal(sources, s.Sources) {
			s.Sources = sources
			events = append(events, SourcesChanged)
		}
	}

	return s, events
}

func refreshOfflineCounts(s State, counts map[CountKind]OfflineCount) (State, []EventKind) {
	before := [3]int{s.UnreadOfflineCount, s.StarredOfflineCount, s.AllOfflineCount}

	for kind, count := range counts {
		if count.Keep {
			continue
		}

		switch kind {
		case CountUnread:
			s.UnreadOfflineCount = count.Value
		case CountStarred:
			s.StarredOfflineCount = count.Value
		case CountNewest:
			s.AllOfflineCount = count.Value
		}
	}

	if before == [3]int{s.UnreadOfflineCount, s.StarredOfflineCount, s.AllOfflineCount} {
		return s, nil
	}

	return s, []EventKind{OfflineCountsChanged}
}
