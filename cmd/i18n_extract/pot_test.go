// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPOT(t *testing.T) {
	t.Parallel()

	refs := map[string]refList{
		"refreshbutton": {{file: "assets/views/toolbar.go", line: 40}, {file: "assets/views/toolbar.go", line: 12}},
		"app_update":    {{file: "server/routes/sync.go", line: 85}, {file: "server/routes/sync.go", line: 85}},
	}

	out := renderPOT(refs, "v1.0.0")

	assert.True(t, strings.HasPrefix(out, "msgid \"\"\nmsgstr \"\"\n\"Project-Id-Version: SelfossFE v1.0.0\\n\"\n"))
	assert.Contains(t, out, "\n#: server/routes/sync.go:85\nmsgid \"app_update\"\nmsgstr \"\"\n")
	assert.Contains(t, out, "\n#: assets/views/toolbar.go:12 assets/views/toolbar.go:40\nmsgid \"refreshbutton\"\n")
	assert.Less(t, strings.Index(out, "app_update"), strings.Index(out, "refreshbutton"))
}

func TestMissingKeys(t *testing.T) {
	t.Parallel()

	refs := map[string]refList{"b": nil, "a": nil, "c": nil}
	known := map[string]bool{"b": true}

	assert.Equal(t, []string{"a", "c"}, missingKeys(refs, func(k string) bool { return known[k] }))
}
