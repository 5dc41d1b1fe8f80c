// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Span represents an HTTP request in flight.
type Span struct {
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Destination TrafficDestination
	RequestID   string
	Method      string
	URL         string
	StatusCode  int
	Error       error
	// Body is never logged; it is only kept for response saving.
	Body []byte

	responseFilename string
}

// TrafficDestination describes the logical destination of an HTTP request.
type TrafficDestination string

const (
	// ToUser marks responses served to a browser.
	ToUser TrafficDestination = "user"
	// ToBackend marks requests sent to the selfoss API.
	ToBackend TrafficDestination = "backend"

	responseFilePermissions = 0o600
)

var (
	// SaveResponses indicates whether backend response bodies are written to disk.
	SaveResponses bool

	// ResponseDirectory is the directory where response bodies are saved.
	ResponseDirectory string
)

// ServerTimingName is "<destination>$<method>$<base64url(url)>".
func (span *Span) ServerTimingName() string {
	return string(span.Destination) + "$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

// Begin starts the span clock and, when the request carries a Server-Timing
// header collector, registers a metric for it.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "http."+string(span.Destination))

	if timing := servertiming.FromContext(ctx); timing != nil {
		span.metric = timing.NewMetric(span.ServerTimingName())
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops the clock. Calling End more than once is a no-op.
func (span *Span) End() {
	if span.task == nil {
		return
	}

	span.duration = time.Since(span.start)
	span.task.End()
	span.task = nil

	if span.metric != nil {
		span.metric.Duration = span.duration
	}
}

// Duration returns the measured duration, zero before End.
func (span *Span) Duration() time.Duration {
	return span.duration
}

// Log writes the span at debug level, saving backend bodies first if enabled.
func (span *Span) Log() {
	if span.Destination == ToBackend && len(span.Body) > 0 && SaveResponses {
		filename := filepath.Join(ResponseDirectory, span.RequestID+".json")

		if err := os.WriteFile(filename, span.Body, responseFilePermissions); err != nil {
			log.Err(err).
				Str("request_id", span.RequestID).
				Msg("Failed to save response")
		} else {
			span.responseFilename = filename
		}
	}

	level := zerolog.DebugLevel
	if span.Error != nil {
		level = zerolog.WarnLevel
	}

	event := log.WithLevel(level).
		Str("sys", "http").
		Str("method", span.Method).
		Str("url", span.URL).
		Int("status_code", span.StatusCode).
		Str("len", humanizeSize(len(span.Body))).
		Dur("dur", span.duration).
		Str("destination", string(span.Destination)).
		Str("request_id", span.RequestID)

	if span.responseFilename != "" {
		event.Str("response_filename", span.responseFilename)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
)

func humanizeSize(x int) string {
	switch {
	case x < bytesInKB:
		return strconv.Itoa(x)
	case x < bytesInMB:
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	default:
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}
}
