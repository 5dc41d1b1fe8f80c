// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package untrusted reads and writes public state of a request.

Public state, the HTTP cookies, is received from the user agent and can be
anything. The user controls all of it.
*/
package untrusted
