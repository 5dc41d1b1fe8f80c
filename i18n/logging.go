// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"codeberg.org/selfossfe/selfossfe/config"
)

var (
	// Logger is the logger used by package i18n. It discards until [Setup] runs.
	Logger = zerolog.Nop()

	// missingKeyOnce deduplicates missing key logs in strict mode.
	// The key is locale+"\x00"+msgid.
	missingKeyOnce sync.Map
)

func strictMissingKeys() bool {
	return config.Global.Internationalization.StrictMissingKeys
}

// logMissingOnce logs a missing translation once per (locale, key) pair
// when strict mode is enabled.
func logMissingOnce(locale, key string) {
	if !strictMissingKeys() {
		return
	}

	if _, loaded := missingKeyOnce.LoadOrStore(locale+"\x00"+key, struct{}{}); !loaded {
		Logger.Warn().
			Str("locale", locale).
			Str("key", key).
			Msg("Missing i18n translation")
	}
}

// strippedTagString keeps base, script and region only.
func strippedTagString(tag language.Tag) string {
	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}
