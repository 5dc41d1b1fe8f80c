// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package state holds the UI state of one browser session.

[Reduce] applies an [Action] to a [State] and reports which parts changed as
[EventKind] values. A [Store] serialises dispatching, keeps the current
snapshot and notifies observers in registration order.

States are values. Reduce never mutates the slices or maps of its input, so a
snapshot returned by [Store.State] may be read without locking while later
actions are being applied.
*/
package state
