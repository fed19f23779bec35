// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for fsctl's YAML
// configuration and the ingestion Settings derived from it. The file is looked
// up at FSCTL_CFG_FILE or in the platform user configuration directory as
// fsctl.yaml.
package config
