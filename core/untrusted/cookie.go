// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"codeberg.org/selfossfe/selfossfe/core/cookie"
	"codeberg.org/selfossfe/selfossfe/server/utils"
)

// CookieSameSite allows cookies on top-level navigations from external links.
const CookieSameSite = http.SameSiteLaxMode

// CookieMaxAge is how long cookies live after being set.
const CookieMaxAge = 30 * 24 * time.Hour

var cookieExpireDelete = time.Unix(0, 0).UTC()

func newCookie(name cookie.CookieName, value string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     string(name),
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   secure,
		HttpOnly: cookie.IsHTTPOnly(name),
		SameSite: CookieSameSite,
	}
}

// GetCookie returns the unescaped value of the named cookie, or "".
func GetCookie(r *http.Request, name cookie.CookieName) string {
	c, err := r.Cookie(string(name))
	if err != nil {
		return ""
	}

	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}

	return value
}

// GetBoolCookie parses the named cookie as a boolean, false when absent or invalid.
func GetBoolCookie(r *http.Request, name cookie.CookieName) bool {
	b, _ := strconv.ParseBool(GetCookie(r, name))

	return b
}

// SetCookie sets the named cookie. An empty value clears it.
func SetCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName, value string) {
	if value == "" {
		ClearCookie(w, r, name)

		return
	}

	http.SetCookie(w, newCookie(name, url.QueryEscape(value), time.Now().Add(CookieMaxAge), utils.IsConnectionSecure(r)))
}

// ClearCookie expires the named cookie.
func ClearCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName) {
	c := newCookie(name, "", cookieExpireDelete, utils.IsConnectionSecure(r))
	c.MaxAge = -1

	http.SetCookie(w, c)
}

// ClearAllCookies expires every cookie in [cookie.AllCookieNames].
func ClearAllCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range cookie.AllCookieNames {
		ClearCookie(w, r, name)
	}
}
