// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/audit"
	"codeberg.org/selfossfe/selfossfe/core/idgen"
	"codeberg.org/selfossfe/selfossfe/server/request_context"
	"codeberg.org/selfossfe/selfossfe/server/utils"
)

var (
	// ErrUnreachable wraps transport failures: the backend could not be reached.
	ErrUnreachable = errors.New("backend unreachable")

	errInvalidJSON      = errors.New("response contained invalid JSON")
	errAPIResponseError = errors.New("API response indicated error")
)

// APIError is a backend response with a status code >= 400.
type APIError struct {
	StatusCode int
	// Message is the backend's error message, or the status text.
	Message string
	Err     error
}

func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	fmt.Fprintf(&b, " (status code: %d)", e.StatusCode)

	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// GetJSON makes a GET request and returns the body, which must be valid JSON.
func GetJSON(ctx context.Context, url string, cookies map[string]string, incomingHeaders http.Header) ([]byte, error) {
	resp, err := do(ctx, RequestOptions{
		Method:          http.MethodGet,
		URL:             url,
		Cookies:         cookies,
		IncomingHeaders: incomingHeaders,
	})
	if err != nil {
		return nil, err
	}

	return validJSON(resp.Body)
}

// Get makes a GET request and returns the response, whose status code is
// below 400. The body need not be JSON.
func Get(ctx context.Context, url string, cookies map[string]string) (*Response, error) {
	return do(ctx, RequestOptions{
		Method:  http.MethodGet,
		URL:     url,
		Cookies: cookies,
	})
}

// PostForm posts form and returns the response, whose status code is below 400.
func PostForm(ctx context.Context, url string, form map[string][]string, cookies map[string]string) (*Response, error) {
	return do(ctx, RequestOptions{
		Method:  http.MethodPost,
		URL:     url,
		Cookies: cookies,
		Form:    form,
	})
}

// Do sends a request, serving GET requests from the response cache when
// possible. It does not check the status code.
func Do(ctx context.Context, opts RequestOptions) (*Response, error) {
	session := opts.Cookies[SessionCookieName]

	var policy cachePolicy
	if opts.Method == http.MethodGet {
		policy = determineCachePolicy(opts.URL, session, opts.IncomingHeaders)
		if item := policy.cachedItem; item != nil {
			return &Response{
				StatusCode: item.StatusCode,
				Header:     item.Header.Clone(),
				Body:       item.Body,
				Cached:     true,
			}, nil
		}
	}

	req, err := newRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	resp, err := sendRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if opts.Method == http.MethodGet && resp.StatusCode == http.StatusOK && policy.shouldUseCache {
		store(ctx, opts.URL, session, resp)
	}

	return resp, nil
}

// do is Do with status codes >= 400 turned into an *APIError.
func do(ctx context.Context, opts RequestOptions) (*Response, error) {
	resp, err := Do(ctx, opts)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}

	message := ""
	if gjson.ValidBytes(resp.Body) {
		message = gjson.GetBytes(resp.Body, "error").String()
	}

	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	if message == "" {
		message = "An unknown API error occurred"
	}

	return nil, &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Err:        errAPIResponseError,
	}
}

func validJSON(body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		const maxQuoted = 200

		snippet := string(body)
		if len(snippet) > maxQuoted {
			snippet = snippet[:maxQuoted] + "..."
		}

		return nil, fmt.Errorf("%w: %s", errInvalidJSON, snippet)
	}

	return body, nil
}

func newRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	var body io.Reader

	if opts.Method == http.MethodPost && opts.Form != nil {
		body = strings.NewReader(opts.Form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", config.Global.Backend.UserAgent)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for name, value := range opts.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	return req, nil
}

// sendRequest executes req within the configured backend timeout, auditing it.
func sendRequest(ctx context.Context, req *http.Request) (_ *Response, err error) {
	span := audit.Span{
		Destination: audit.ToBackend,
		RequestID:   request_context.FromContext(ctx).RequestID + "-" + idgen.Make(),
		Method:      req.Method,
		URL:         req.URL.String(),
	}

	defer func() { span.Error = err }()

	spanCtx := span.Begin(ctx)
	defer span.End()

	if timeout := config.Global.Backend.Timeout; timeout > 0 {
		var cancel context.CancelFunc

		spanCtx, cancel = context.WithTimeout(spanCtx, timeout)
		defer cancel()
	}

	resp, err := utils.HTTPClient.Do(req.WithContext(spanCtx))
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("request canceled: %w", ctx.Err())
		}

		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrUnreachable, err)
	}

	span.Body = body

	span.End()
	span.Log()

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       bytes.Clone(body),
		Cookies:    resp.Cookies(),
	}, nil
}
