// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP request handling chain of SelfossFE.

The chain is assembled in router.RegisterMiddleware; handlers returning an
error are adapted with CatchError in router.DefineRoutes.
*/
package middleware
