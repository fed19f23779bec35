// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleNakedCommand(t *testing.T) {
	assert.Equal(t, []string{"fsctl", "--help"}, handleNakedCommand([]string{"fsctl"}))
	assert.Equal(t, []string{"fsctl", "run"}, handleNakedCommand([]string{"fsctl", "run"}))
}

func TestHasHelp(t *testing.T) {
	assert.True(t, hasHelp([]string{"fsctl", "run", "-h"}))
	assert.True(t, hasHelp([]string{"fsctl", "--help"}))
	assert.False(t, hasHelp([]string{"fsctl", "run", "--dry-run"}))
}

func TestExpandSet(t *testing.T) {
	sets := map[string][]string{
		"run.nightly": {"--dry-run", "-w 4", "--output json"},
		"wait.empty":  {},
	}
	lookup := func(key string) ([]string, error) {
		v, ok := sets[key]
		if !ok {
			return nil, errors.New("not found")
		}
		return v, nil
	}

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no command args",
			args:     []string{"fsctl", "run"},
			expected: []string{"fsctl", "run"},
		},
		{
			name:     "no set",
			args:     []string{"fsctl", "run", "--dry-run"},
			expected: []string{"fsctl", "run", "--dry-run"},
		},
		{
			name:     "set expanded in place",
			args:     []string{"fsctl", "run", "-i", "in.csv", "@nightly", "-t"},
			expected: []string{"fsctl", "run", "-i", "in.csv", "--dry-run", "-w", "4", "--output", "json", "-t"},
		},
		{
			name:     "empty set removed",
			args:     []string{"fsctl", "wait", "@empty", "-r", "fg"},
			expected: []string{"fsctl", "wait", "-r", "fg"},
		},
		{
			name:     "unknown set removed",
			args:     []string{"fsctl", "ingest", "@nope"},
			expected: []string{"fsctl", "ingest"},
		},
		{
			name:     "completion untouched",
			args:     []string{"fsctl", "completion", "@nightly"},
			expected: []string{"fsctl", "completion", "@nightly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandSet(tt.args, lookup))
		})
	}
}
