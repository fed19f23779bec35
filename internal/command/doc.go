// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the CLI command set for fsctl. It wires flags,
// validators, actions, and shell completion for subcommands.
package command
