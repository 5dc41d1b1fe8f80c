// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package state

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Observer is called for every event of a kind it subscribed to.
type Observer func(Event)

type subscription struct {
	id    uint64
	fn    Observer
	kinds []EventKind
}

func (sub subscription) wants(kind EventKind) bool {
	return len(sub.kinds) == 0 || slices.Contains(sub.kinds, kind)
}

// Store owns the current State of a session.
type Store struct {
	// held for a whole Dispatch, including observer calls
	dispatchMu sync.Mutex

	mu            sync.RWMutex
	state         State
	subscriptions []subscription
	nextID        uint64

	logger zerolog.Logger
}

// NewStore returns a store holding initial.
func NewStore(initial State) *Store {
	return &Store{
		state:  initial,
		logger: log.With().Str("sys", "state").Logger(),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Subscribe registers fn for the given kinds, or for every kind when none
// are given. Observers are called in registration order. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn Observer, kinds ...EventKind) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID

	s.subscriptions = append(s.subscriptions, subscription{id: id, fn: fn, kinds: slices.Clone(kinds)})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.subscriptions = slices.DeleteFunc(s.subscriptions, func(sub subscription) bool { return sub.id == id })
	}
}

// Dispatch applies actions in order. After each action, the observers of
// every emitted event run before the next action is applied. Actions an
// observer queues with [Event.Dispatch] run after all actions already
// queued. Concurrent Dispatch calls are serialised.
//
// Observers must not call Dispatch on the same store.
func (s *Store) Dispatch(actions ...Action) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	queue := slices.Clone(actions)

	for len(queue) > 0 {
		action := queue[0]
		queue = queue[1:]

		s.mu.Lock()
		next, events := Reduce(s.state, action)
		s.state = next
		subs := slices.Clone(s.subscriptions)
		s.mu.Unlock()

		if len(events) > 0 {
			s.logger.Trace().
				Str("action", fmt.Sprintf("%T", action)).
				Stringers("events", stringers(events)).
				Msg("Dispatched")
		}

		for _, kind := range events {
			for _, sub := range subs {
				if sub.wants(kind) {
					sub.fn(Event{Kind: kind, Action: action, State: next, queue: &queue})
				}
			}
		}
	}
}

func stringers(events []EventKind) []fmt.Stringer {
	out := make([]fmt.Stringer, len(events))
	for i, e := range events {
		out[i] = e
	}

	return out
}
