// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import "net/url"

// UnauthorizedError reports that selfoss refused the session's cookies.
// middleware.CatchError answers it with a 401 page pointing at the login form.
type UnauthorizedError struct {
	// NoAuthReturnPath is where the page's "back" link leads without logging in.
	NoAuthReturnPath string
	// LoginReturnPath is where the login form sends the user after success.
	LoginReturnPath string
}

func (e *UnauthorizedError) Error() string {
	return "unauthorized"
}

// LoginURL is the login form, returning to LoginReturnPath.
func (e *UnauthorizedError) LoginURL() string {
	return "/sign/in?" + url.Values{"return": {e.LoginReturnPath}}.Encode()
}

// NewUnauthorizedError is returned by handlers when the backend answers 403.
func NewUnauthorizedError(noAuthReturnPath, loginReturnPath string) error {
	return &UnauthorizedError{
		NoAuthReturnPath: noAuthReturnPath,
		LoginReturnPath:  loginReturnPath,
	}
}
