// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// untranslatedPrefix marks keys that no catalogue knows.
const untranslatedPrefix = "#untranslated:"

// Tr returns the message for key in the language carried by ctx.
//
// The lookup falls back to [BaseLocale] and finally to "#untranslated:<key>".
// When values are given (even an empty list) the message is passed through
// [Format], so "{0}" placeholders are substituted.
func Tr(ctx context.Context, key string, values ...any) string {
	text := lookup(TagFrom(ctx), key)

	if values != nil {
		return Format(text, values...)
	}

	return text
}

func lookup(tag language.Tag, key string) string {
	if loc := localeFor(tag); hasKey(loc, key) {
		return loc.GetD(PoDomain, key)
	}

	logMissingOnce(strippedTagString(tag), key)

	if base := localesByTag[BaseLocale]; hasKey(base, key) {
		return base.GetD(PoDomain, key)
	}

	return untranslatedPrefix + key
}

// hasKey reports whether loc has a msgstr for key. Messages are singular, so
// the check uses n=1: gotext's IsTranslatedD asks for n=0, which selects the
// plural msgstr[1] under "plural=(n != 1)".
func hasKey(loc *gotext.Locale, key string) bool {
	return loc != nil && loc.IsTranslatedND(PoDomain, key, 1)
}

func localeFor(tag language.Tag) *gotext.Locale {
	if loc, ok := localesByTag[tag.String()]; ok {
		return loc
	}

	return localesByTag[Match(tag.String()).String()]
}

// UserError is an error whose message is translated and safe to show to users.
type UserError struct {
	Key     string
	message string
}

// NewUserError translates key with values into a [UserError].
func NewUserError(ctx context.Context, key string, values ...any) *UserError {
	return &UserError{Key: key, message: Tr(ctx, key, values...)}
}

// Error returns the translated message.
func (e *UserError) Error() string {
	return e.message
}
