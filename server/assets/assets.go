// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded static assets.

FS is assigned by the main package, which owns the embed directive, before
any subsystem that reads from it is set up.
*/
package assets

import (
	"io/fs"
)

// FS provides access to the embedded file system.
var FS fs.FS

// Sub returns the subtree dir of FS, or an error when FS is unset.
func Sub(dir string) (fs.FS, error) {
	if FS == nil {
		return nil, fs.ErrNotExist
	}

	return fs.Sub(FS, dir)
}
