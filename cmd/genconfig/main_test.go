// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderEnv(t *testing.T) {
	t.Parallel()

	out := renderEnv(exampleConfig())

	assert.True(t, strings.HasPrefix(out, envFileHeader))
	assert.Contains(t, out, "## Backend\n")
	assert.Contains(t, out, "\nSELFOSSFE_BACKEND_URL=\"http://localhost:8000/\"\n")
	assert.Contains(t, out, "\nSELFOSSFE_PORT=\"8282\"\n")
	assert.Contains(t, out, "\n# SELFOSSFE_SECRET=\n")
	assert.Contains(t, out, "\n# SELFOSSFE_LIMITER=true\n")
	assert.NotContains(t, out, "## Build")
}

func TestRenderYAML(t *testing.T) {
	t.Parallel()

	out := renderYAML(exampleConfig())

	assert.Contains(t, out, "\nbackend:\n"+backendURLComment+"\n  url: ")
	assert.Contains(t, out, "  # port: ")
	assert.Contains(t, out, "  # timeout: ")
	assert.NotContains(t, out, "\n  port:")
}
