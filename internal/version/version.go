// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other fsctl packages to avoid import cycles.

package version

import "runtime/debug"

// Version is the module version stamped by the Go toolchain, or "dev".
var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}()

// UserAgent is appended to AWS SDK requests so service logs can attribute
// calls to this tool.
func UserAgent() string {
	return "fsctl/" + Version
}
