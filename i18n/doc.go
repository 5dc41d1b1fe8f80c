// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates UI messages using GNU gettext .po catalogues.

Messages are looked up by key, for example "refreshbutton", in the domain
"selfossfe" of the language carried by the request context:

	i18n.Tr(ctx, "refreshbutton")
	i18n.Tr(ctx, "markread_count", n)

In templ templates, MsgKey and Msg render as components:

	@i18n.MsgKey("settingsbutton")
	@i18n.Msg{Key: "entries_unread", Values: []any{n}}

# Message format

Translated texts use positional placeholders:

	{0}                                    the first value
	{0,plural,zero{none}one{# entry}other{# entries}}

A plural placeholder selects zero when the value is the number 0, one when
it equals 1 (numbers, numeric strings and true all qualify) and other
otherwise. The first '#' of the chosen branch is replaced by the value.
Unknown branch names are ignored.

A malformed message never breaks a page. It renders as
"Error formatting '<template>', bug report?" and is logged.

# Missing translations

Keys missing from the chosen language fall back to the base locale "en" and
then to "#untranslated:<key>". With StrictMissingKeys each missing
(locale, key) pair is logged once.
*/
package i18n
