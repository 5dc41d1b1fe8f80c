// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package backend talks to the HTTP API of a selfoss compatible backend.

Every call takes the backend cookies of the browser session on whose behalf
it is made. Errors are classified: [ErrOffline] when the backend cannot be
reached and [ErrUnauthorized] when it wants a login.
*/
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/requests"
)

var (
	ErrOffline            = errors.New("backend is offline")
	ErrUnauthorized       = errors.New("backend requires login")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedResponse  = errors.New("malformed backend response")
)

// Default is the client for the configured backend.
var Default = &Client{}

// Client is a selfoss API client.
type Client struct {
	// BaseURL overrides the configured backend URL. It must end with "/".
	BaseURL string
}

func (c *Client) endpoint(p string, query url.Values) string {
	var u string
	if c.BaseURL != "" {
		u = c.BaseURL + strings.TrimPrefix(p, "/")
	} else {
		u = config.Global.BackendURL(p)
	}

	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

// invalidate drops cached responses that a state change made stale.
func (c *Client) invalidate() {
	requests.InvalidateURLs(
		c.endpoint("items", nil),
		c.endpoint("stats", nil),
		c.endpoint("tagslist", nil),
		c.endpoint("sources/stats", nil),
	)
}

// classify maps request errors to the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, requests.ErrUnreachable) {
		return fmt.Errorf("%w: %w", ErrOffline, err)
	}

	var apiErr *requests.APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusUnauthorized) {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	return err
}

func (c *Client) getJSON(ctx context.Context, p string, query url.Values, cookies map[string]string, headers http.Header) (gjson.Result, error) {
	body, err := requests.GetJSON(ctx, c.endpoint(p, query), cookies, headers)
	if err != nil {
		return gjson.Result{}, classify(err)
	}

	return gjson.ParseBytes(body), nil
}

func (c *Client) get(ctx context.Context, p string, cookies map[string]string) (*requests.Response, error) {
	resp, err := requests.Get(ctx, c.endpoint(p, nil), cookies)

	return resp, classify(err)
}

func (c *Client) postForm(ctx context.Context, p string, form url.Values, cookies map[string]string) (*requests.Response, gjson.Result, error) {
	resp, err := requests.PostForm(ctx, c.endpoint(p, nil), form, cookies)
	if err != nil {
		return nil, gjson.Result{}, classify(err)
	}

	if !gjson.ValidBytes(resp.Body) {
		return resp, gjson.Result{}, fmt.Errorf("%w: %s is not JSON", ErrMalformedResponse, p)
	}

	return resp, gjson.ParseBytes(resp.Body), nil
}

// expectSuccess checks the {"success": true} answer of state changing calls.
func expectSuccess(result gjson.Result, p string) error {
	if success := result.Get("success"); success.Exists() && !success.Bool() {
		if msg := result.Get("error").String(); msg != "" {
			return fmt.Errorf("%s failed: %s", p, msg)
		}

		return fmt.Errorf("%s failed", p)
	}

	return nil
}
