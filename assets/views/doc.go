// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views holds the page components of SelfossFE.

Every exported function returns a templ.Component. Text is translated
with the language carried by the render context (see i18n.Tr).
*/
package views
