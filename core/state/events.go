// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package state

// EventKind names the part of the [State] an action changed.
type EventKind int

const (
	EntriesChanged EventKind = iota + 1
	ExpandedChanged
	SelectionChanged
	TagsChanged
	SourcesChanged
	CountsChanged
	OfflineCountsChanged
	OfflineChanged
	LoggedInChanged
	MessageChanged
	NavigationChanged
	NavExpandedChanged
	SourcesNavExpandedChanged
	ReloadingChanged
	LoginFormChanged
	LanguageChanged
)

var eventKindNames = [...]string{
	EntriesChanged:            "entries",
	ExpandedChanged:           "expanded",
	SelectionChanged:          "selection",
	TagsChanged:               "tags",
	SourcesChanged:            "sources",
	CountsChanged:             "counts",
	OfflineCountsChanged:      "offline-counts",
	OfflineChanged:            "offline",
	LoggedInChanged:           "logged-in",
	MessageChanged:            "message",
	NavigationChanged:         "navigation",
	NavExpandedChanged:        "nav-expanded",
	SourcesNavExpandedChanged: "sources-nav-expanded",
	ReloadingChanged:          "reloading",
	LoginFormChanged:          "login-form",
	LanguageChanged:           "language",
}

func (k EventKind) String() string {
	if k > 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}

	return "unknown"
}

// Event is passed to observers once per changed part.
type Event struct {
	Kind EventKind
	// Action is the action that caused the change.
	Action Action
	// State is the snapshot right after Action was applied.
	State State

	queue *[]Action
}

// Dispatch queues actions to run after the observers of the current action.
// Observers must use it instead of [Store.Dispatch], which would block.
func (e Event) Dispatch(actions ...Action) {
	if e.queue != nil {
		*e.queue = append(*e.queue, actions...)
	}
}
