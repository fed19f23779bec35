// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects rows of tabular output with --filter expressions.
//
// A filter spec is a comma separated list of key-operator-target
// expressions. Every expression must hold for a row to be kept. The
// delimiter can be changed with FSCTL_FILTER_DELIM when targets contain
// commas.
//
// Operators, each of which may be negated with a leading '!':
//
//   - = : equal
//   - ~ : equal ignoring case
//   - ^ : prefix
//   - @ : contains
//   - / : regular expression
//   - < : less than
//   - > : greater than
//
// =, < and > compare numerically when both sides parse as numbers, so
// "salary>70000" works against CSV cells as well as typed report fields.
//
// Examples:
//
//   - "department=Sales"
//   - "age_group^Mid,salary>60000"
//   - "state!=Completed"
//   - "email/@example\.com$"
//
// A key on its own keeps rows where that key is present and non-empty.
package filters
