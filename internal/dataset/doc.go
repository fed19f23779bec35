// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package dataset implements the employee preprocessing job: load a CSV,
// fill missing values, unpack the JSON profile column, derive engineered
// features, aggregate per department and compute data quality metrics.
//
// Missing cells are empty strings throughout.
package dataset
