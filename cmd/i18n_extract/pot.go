// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

var potCreationDate = func() time.Time { return time.Now().UTC() }

// renderPOT writes refs as a gettext template sorted by key, each entry
// listing its deduplicated source references.
func renderPOT(refs map[string]refList, version string) string {
	var b strings.Builder

	fmt.Fprintln(&b, `msgid ""`)
	fmt.Fprintln(&b, `msgstr ""`)
	fmt.Fprintf(&b, "\"Project-Id-Version: SelfossFE %s\\n\"\n", version)
	fmt.Fprintf(&b, "\"POT-Creation-Date: %s\\n\"\n", potCreationDate().Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(&b, `"Language: en\n"`)
	fmt.Fprintln(&b, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(&b, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(&b, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(&b, `"Plural-Forms: nplurals=2; plural=(n != 1);\n"`)

	for _, k := range sortedKeys(refs) {
		rs := slices.Clone(refs[k])
		slices.SortFunc(rs, func(a, b ref) int {
			if c := strings.Compare(a.file, b.file); c != 0 {
				return c
			}

			return a.line - b.line
		})

		fmt.Fprint(&b, "\n#:")

		for _, r := range slices.Compact(rs) {
			fmt.Fprintf(&b, " %s:%d", r.file, r.line)
		}

		fmt.Fprintf(&b, "\nmsgid %q\nmsgstr \"\"\n", k)
	}

	return b.String()
}

// missingKeys lists the keys for which translated reports false.
func missingKeys(refs map[string]refList, translated func(string) bool) []string {
	var missing []string

	for _, k := range sortedKeys(refs) {
		if !translated(k) {
			missing = append(missing, k)
		}
	}

	return missing
}

func sortedKeys(refs map[string]refList) []string {
	keys := make([]string, 0, len(refs))
	for k := range refs {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
