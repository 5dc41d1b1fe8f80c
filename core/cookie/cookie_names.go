// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package cookie defines the cookie names used by this application.
*/
package cookie

// CookieName is the name of a cookie set by SelfossFE.
type CookieName string

// Cookie names defined as constants.
//
// NOTE: We don't use the `__Host-` prefix to avoid login issues on non-HTTPS
// deployments where the localhost exemption doesn't apply.
const (
	// SessionCookie carries the signed v4.public session token.
	SessionCookie CookieName = "Session"

	// LangCookie holds the preferred UI language as a BCP 47 tag.
	LangCookie CookieName = "Lang"

	// NavExpandedCookie remembers whether the navigation is expanded on small screens.
	NavExpandedCookie CookieName = "NavExpanded"
)

// AllCookieNames lists every cookie that SelfossFE may set.
var AllCookieNames = []CookieName{
	SessionCookie,
	LangCookie,
	NavExpandedCookie,
}

// IsHTTPOnly reports whether scripts must be denied access to the cookie.
func IsHTTPOnly(name CookieName) bool {
	return name == SessionCookie
}
