// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Translatable is a value that can translate itself using a context.
type Translatable interface {
	Tr(ctx context.Context) string
}

// MsgKey is a message identifier that renders as its translation.
type MsgKey string

// Tr is [Tr] without values.
func (s MsgKey) Tr(ctx context.Context) string {
	return Tr(ctx, string(s))
}

// Render writes the HTML-escaped translation, so MsgKey is a templ.Component.
func (s MsgKey) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, templ.EscapeString(s.Tr(ctx)))

	return err
}

// Msg is a message identifier with the values to format it with.
type Msg struct {
	Key    string
	Values []any
}

// Tr translates and formats the message.
func (m Msg) Tr(ctx context.Context) string {
	return Tr(ctx, m.Key, m.Values...)
}

// Render writes the HTML-escaped message.
func (m Msg) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, templ.EscapeString(m.Tr(ctx)))

	return err
}
