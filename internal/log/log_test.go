// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestInitLoggerTo_Levels(t *testing.T) {
	tests := []struct {
		spec string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"TRACE", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"bogus", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			var buf bytes.Buffer
			InitLoggerTo(&buf, tt.spec)
			logger, ok := log.Log.(*log.Logger)
			assert.True(t, ok)
			assert.Equal(t, tt.want, logger.Level)
		})
	}
}

func TestLineHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerTo(&buf, "debug")

	WithFields(log.Fields{"zeta": 1, "alpha": "a"}).Info("hello")
	Warnf("careful %d", 3)
	WithError(errors.New("boom")).Error("failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], " I hello alpha=a zeta=1")
	assert.Contains(t, lines[1], " W careful 3")
	assert.Contains(t, lines[2], " E failed error=boom")
}

func TestTracef_Gated(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerTo(&buf, "debug")
	Tracef("hidden")
	assert.Empty(t, buf.String())

	InitLoggerTo(&buf, "trace")
	Tracef("shown %s", "now")
	assert.Contains(t, buf.String(), " T shown now")
}
