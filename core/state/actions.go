// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package state

// Action is a state change request understood by [Reduce].
type Action interface {
	isAction()
}

type (
	// SetEntries replaces the entry list. Expansion and selection of entries
	// no longer listed are dropped.
	SetEntries struct{ Entries []Entry }

	// EntryExpand expands entry ID. A zero ID is ignored.
	EntryExpand struct{ ID int }

	// EntryCollapse collapses entry ID. A zero ID is ignored.
	EntryCollapse struct{ ID int }

	// EntryCollapseAll collapses every entry.
	EntryCollapseAll struct{}

	// EntryToggleExpanded flips the expansion of entry ID. A zero ID is ignored.
	EntryToggleExpanded struct{ ID int }

	// EntrySelect makes ID the selected entry; zero clears the selection.
	EntrySelect struct{ ID int }

	EntryStar struct {
		ID      int
		Starred bool
	}

	EntryMark struct {
		ID     int
		Unread bool
	}

	// RefreshEntryStatuses applies sync results to the listed entries.
	RefreshEntryStatuses struct{ Statuses []EntryStatus }

	// RefreshTagSourceUnread updates unread counters of tags and sources.
	// Counts are added to the current values unless Absolute is set.
	// Tags and sources missing from the maps keep their counters.
	RefreshTagSourceUnread struct {
		TagCounts    map[string]int
		SourceCounts map[int]int
		Absolute     bool
	}

	// RefreshOfflineCounts sets the offline counters, skipping those marked Keep.
	RefreshOfflineCounts struct{ Counts map[CountKind]OfflineCount }

	SetOffline struct{ Offline bool }

	SetLoggedIn struct{ LoggedIn bool }

	ShowMessage struct{ Message GlobalMessage }

	DismissMessage struct{}

	// ShowLogin asks for the login form, with an optional error.
	ShowLogin struct{ Error string }

	SetNavExpanded struct{ Expanded bool }

	SetSourcesNavExpanded struct{ Expanded bool }

	SetReloading struct{ Reloading bool }

	SetNavigation struct{ Navigation Navigation }

	SetTags struct{ Tags []Tag }

	SetSources struct{ Sources []Source }

	SetCounts struct{ Unread, Starred, All int }

	// SetLanguage records the UI language of the browser's latest request.
	SetLanguage struct{ Language string }

	// Reset returns to the state of a fresh session. The title, the
	// language and the offline flag survive.
	Reset struct{}
)

// ShowError is a ShowMessage for an error without actions.
func ShowError(message string) ShowMessage {
	return ShowMessage{Message: GlobalMessage{Message: message, IsError: true}}
}

func (SetEntries) isAction()             {}
func (EntryExpand) isAction()            {}
func (EntryCollapse) isAction()          {}
func (EntryCollapseAll) isAction()       {}
func (EntryToggleExpanded) isAction()    {}
func (EntrySelect) isAction()            {}
func (EntryStar) isAction()              {}
func (EntryMark) isAction()              {}
func (RefreshEntryStatuses) isAction()   {}
func (RefreshTagSourceUnread) isAction() {}
func (RefreshOfflineCounts) isAction()   {}
func (SetOffline) isAction()             {}
func (SetLoggedIn) isAction()            {}
func (ShowMessage) isAction()            {}
func (DismissMessage) isAction()         {}
func (ShowLogin) isAction()              {}
func (SetNavExpanded) isAction()         {}
func (SetSourcesNavExpanded) isAction()  {}
func (SetReloading) isAction()           {}
func (SetNavigation) isAction()          {}
func (SetTags) isAction()                {}
func (SetSources) isAction()             {}
func (SetCounts) isAction()              {}
func (SetLanguage) isAction()            {}
func (Reset) isAction()                  {}
