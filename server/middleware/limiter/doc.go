// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits credential-bearing requests.

Clients are grouped by their IP network and each network shares one token
bucket. Only the sign-in and password hashing forms are limited, since
those are the requests that reach the backend with user supplied secrets.
*/
package limiter
