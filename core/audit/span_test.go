// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerTimingName(t *testing.T) {
	t.Parallel()

	span := Span{Destination: ToBackend, Method: http.MethodGet, URL: "http://selfoss/items"}
	name := span.ServerTimingName()

	parts := strings.Split(name, "$")
	require.Len(t, parts, 3)
	assert.Equal(t, "backend", parts[0])
	assert.Equal(t, "GET", parts[1])

	decoded, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	assert.Equal(t, "http://selfoss/items", string(decoded))
}

func TestSpanRecordsMetric(t *testing.T) {
	t.Parallel()

	var header servertiming.Header

	ctx := servertiming.NewContext(context.Background(), &header)

	span := Span{Destination: ToUser, Method: http.MethodPost, URL: "/reload"}
	span.Begin(ctx)
	span.End()
	span.End()

	require.Len(t, header.Metrics, 1)
	assert.Equal(t, span.ServerTimingName(), header.Metrics[0].Name)
	assert.Equal(t, span.Duration(), header.Metrics[0].Duration)
	assert.Contains(t, header.Metrics[0].Extra, "start")
}

func TestSpanSavesBackendBody(t *testing.T) {
	dir := t.TempDir()
	SaveResponses, ResponseDirectory = true, dir

	t.Cleanup(func() { SaveResponses, ResponseDirectory = false, "" })

	span := Span{Destination: ToBackend, RequestID: "abc", Body: []byte(`{"ok":true}`), StatusCode: 200}
	span.Log()

	assert.Equal(t, dir+"/abc.json", span.responseFilename)

	rec := httptest.NewRecorder()
	user := Span{Destination: ToUser, RequestID: "def", Body: rec.Body.Bytes()}
	user.Log()
	assert.Empty(t, user.responseFilename)
}

func TestHumanizeSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512", humanizeSize(512))
	assert.Equal(t, "2.00K", humanizeSize(2048))
	assert.Equal(t, "3.00M", humanizeSize(3*bytesInMB))
}
