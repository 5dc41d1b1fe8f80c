// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package state_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/selfossfe/selfossfe/core/state"
)

func TestObserversRunInRegistrationOrder(t *testing.T) {
	t.Parallel()

	store := state.NewStore(state.New("selfoss"))

	var calls []string

	store.Subscribe(func(state.Event) { calls = append(calls, "first") }, state.OfflineChanged)
	store.Subscribe(func(state.Event) { calls = append(calls, "second") })
	store.Subscribe(func(state.Event) { calls = append(calls, "tags only") }, state.TagsChanged)
	store.Subscribe(func(ev state.Event) {
		assert.True(t, ev.State.Offline, "observers see the new snapshot")
		calls = append(calls, "third")
	}, state.OfflineChanged)

	store.Dispatch(state.SetOffline{Offline: true})

	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestNestedDispatchIsFIFO(t *testing.T) {
	t.Parallel()

	store := state.NewStore(state.New("selfoss"))

	var order []string

	store.Subscribe(func(ev state.Event) {
		order = append(order, "offline")
		ev.Dispatch(state.SetNavExpanded{Expanded: true}, state.SetReloading{Reloading: true})
	}, state.OfflineChanged)

	store.Subscribe(func(ev state.Event) {
		order = append(order, "logged-in")
		ev.Dispatch(state.SetSourcesNavExpanded{Expanded: true})
	}, state.LoggedInChanged)

	store.Subscribe(func(ev state.Event) {
		order = append(order, ev.Kind.String())
	}, state.NavExpandedChanged, state.ReloadingChanged, state.SourcesNavExpandedChanged)

	store.Dispatch(state.SetOffline{Offline: true}, state.SetLoggedIn{LoggedIn: true})

	// queued actions run after the actions already waiting
	assert.Equal(t, []string{"offline", "logged-in", "nav-expanded", "reloading", "sources-nav-expanded"}, order)

	s := store.State()
	assert.True(t, s.NavExpanded)
	assert.True(t, s.Reloading)
	assert.True(t, s.SourcesNavExpanded)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	store := state.NewStore(state.New("selfoss"))

	calls := 0
	unsubscribe := store.Subscribe(func(state.Event) { calls++ })

	store.Dispatch(state.SetOffline{Offline: true})
	unsubscribe()
	store.Dispatch(state.SetOffline{Offline: false})

	assert.Equal(t, 1, calls)
}

func TestSnapshotsAreStable(t *testing.T) {
	t.Parallel()

	store := state.NewStore(state.New("selfoss"))
	store.Dispatch(state.SetEntries{Entries: []state.Entry{{ID: 1, Unread: true}}})

	snapshot := store.State()

	store.Dispatch(state.EntryMark{ID: 1, Unread: false}, state.EntryExpand{ID: 1})

	assert.True(t, snapshot.Entries[0].Unread)
	assert.False(t, snapshot.EntryIsExpanded(1))
	assert.False(t, store.State().Entries[0].Unread)
}

func TestConcurrentDispatch(t *testing.T) {
	t.Parallel()

	store := state.NewStore(state.New("selfoss"))
	store.Dispatch(state.SetTags{Tags: []state.Tag{{Tag: "go"}}})

	var wg sync.WaitGroup

	for range 50 {
		wg.Go(func() {
			store.Dispatch(state.RefreshTagSourceUnread{TagCounts: map[string]int{"go": 1}})
			_ = store.State().Title(1)
		})
	}

	wg.Wait()

	assert.Equal(t, 50, store.State().Tags[0].Unread)
}
