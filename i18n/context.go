// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/cookie"
	"codeberg.org/selfossfe/selfossfe/core/untrusted"
)

type contextKeyType struct{}

var tagKey = contextKeyType{}

// LangParam is the query parameter carrying a preferred language.
// The cookie counterpart is [cookie.LangCookie].
const LangParam = "lang"

// WithTag returns a context carrying t.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// TagFrom returns the language tag stored in ctx, or the base locale tag.
// ctx may be nil.
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, _ := ctx.Value(tagKey).(language.Tag); t != (language.Tag{}) {
			return t
		}
	}

	return baseTag
}

// FromRequest picks the UI language for r.
//
// A language set in the configuration always wins. Otherwise the preferences
// are, in order: the [LangParam] query parameter, the [cookie.LangCookie]
// cookie and the Accept-Language header. The query value "auto" ignores the
// cookie. Nothing matching yields the base locale.
func FromRequest(r *http.Request) language.Tag {
	preferred := make([]string, 0, 4)

	if configured := config.Global.Internationalization.Language; configured != "" {
		preferred = append(preferred, configured)
	}

	if r != nil {
		q := r.URL.Query().Get(LangParam)
		auto := strings.EqualFold(q, "auto")

		if q != "" && !auto {
			preferred = append(preferred, q)
		}

		if !auto {
			if c := untrusted.GetCookie(r, cookie.LangCookie); c != "" {
				preferred = append(preferred, c)
			}
		}

		if al := r.Header.Get("Accept-Language"); al != "" {
			preferred = append(preferred, al)
		}
	}

	return Match(preferred...)
}

// Match returns the best loaded language for the given preferences, which
// may be tags or Accept-Language values.
func Match(preferred ...string) language.Tag {
	m, tags := matcher, supportedTags
	if m == nil || len(preferred) == 0 {
		return baseTag
	}

	// the index maps back to the loaded tag, without the -u-rg extension
	_, index := language.MatchStrings(m, preferred...)
	if index < 0 || index >= len(tags) {
		return baseTag
	}

	return tags[index]
}

// WithRequest is WithTag(ctx, FromRequest(r)).
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return WithTag(ctx, FromRequest(r))
}
