// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// BaseLocale is the locale every lookup falls back to.
const BaseLocale = "en"

var baseTag = language.Make(BaseLocale)

// Languages returns the loaded locales, sorted by tag. The slice is a copy.
//
// Before [Setup] it only contains the base locale.
func Languages() []language.Tag {
	if len(supportedTags) == 0 {
		return []language.Tag{baseTag}
	}

	out := slices.Clone(supportedTags)
	slices.SortFunc(out, func(a, b language.Tag) int { return strings.Compare(a.String(), b.String()) })

	return out
}
