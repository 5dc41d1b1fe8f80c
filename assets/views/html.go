// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"codeberg.org/selfossfe/selfossfe/i18n"
)

// htmlWriter writes markup and remembers the first write error.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

// component adapts a writing function to templ.Component.
func component(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{ctx: ctx, w: w}
		fn(h)

		return h.err
	})
}

// raw writes trusted markup.
func (h *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}

		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes escaped text.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// url writes an href-like attribute, dropping unsafe schemes.
func (h *htmlWriter) url(name, value string) {
	h.attr(name, string(templ.URL(value)))
}

// boolAttr writes ` name` when on.
func (h *htmlWriter) boolAttr(name string, on bool) {
	if on {
		h.raw(" ", name)
	}
}

// tr returns the translation of key.
func (h *htmlWriter) tr(key i18n.MsgKey, values ...any) string {
	return i18n.Tr(h.ctx, string(key), values...)
}

// trText writes the escaped translation of key.
func (h *htmlWriter) trText(key i18n.MsgKey, values ...any) {
	h.text(h.tr(key, values...))
}

// render writes a child component.
func (h *htmlWriter) render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}

	h.err = c.Render(h.ctx, h.w)
}

// hiddenReturn writes the hidden form field handlers redirect back to.
func (h *htmlWriter) hiddenReturn(path string) {
	h.raw(`<input type="hidden" name="return"`)
	h.attr("value", path)
	h.raw(`>`)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
