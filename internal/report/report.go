// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package report persists run reports (ingestion outcome, data quality,
// department statistics) as JSON files under a per-resource directory so
// later invocations can show or compare them.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fsctl/fsctl/internal/dataset"
	"github.com/fsctl/fsctl/internal/ingest"
	"github.com/fsctl/fsctl/internal/log"
)

// ErrNoReport is returned by Latest when nothing was saved for a resource.
var ErrNoReport = errors.New("no report")

// Failure is a row failure in printable form.
type Failure struct {
	Index int    `json:"index" yaml:"index"`
	Error string `json:"error" yaml:"error"`
}

// Report is one saved run.
type Report struct {
	RunID        string                   `json:"run_id" yaml:"run_id"`
	Resource     string                   `json:"resource" yaml:"resource"`
	State        string                   `json:"state" yaml:"state"`
	Attempted    int                      `json:"attempted" yaml:"attempted"`
	Ingested     int                      `json:"ingested" yaml:"ingested"`
	PollAttempts int                      `json:"poll_attempts" yaml:"poll_attempts"`
	Elapsed      time.Duration            `json:"elapsed" yaml:"elapsed"`
	Failures     []Failure                `json:"failures,omitempty" yaml:"failures,omitempty"`
	Error        string                   `json:"error,omitempty" yaml:"error,omitempty"`
	Quality      *dataset.Quality         `json:"quality,omitempty" yaml:"quality,omitempty"`
	Departments  []dataset.DepartmentStat `json:"departments,omitempty" yaml:"departments,omitempty"`
	Files        []string                 `json:"files,omitempty" yaml:"files,omitempty"`
	CreatedAt    time.Time                `json:"created_at" yaml:"created_at"`

	// Path is where the report was read from or written to.
	Path string `json:"-" yaml:"-"`
}

// FromOutcome summarizes a flow outcome.
func FromOutcome(o ingest.Outcome, now time.Time) *Report {
	r := &Report{RunID: uuid.NewString(), State: o.State.String(), CreatedAt: now.UTC()}
	if o.Err != nil {
		r.Error = o.Err.Error()
	}
	if res := o.Result; res != nil {
		r.Resource = res.Resource
		r.Attempted = res.Attempted
		r.Ingested = res.Ingested
		r.PollAttempts = res.PollAttempts
		r.Elapsed = res.Elapsed
		for _, f := range res.Failures {
			r.Failures = append(r.Failures, Failure{Index: f.Index, Error: errString(f.Err)})
		}
	}
	return r
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Dir resolves the base report directory.
// Precedence:
//  1. FSCTL_REPORT_DIR, if set and non-empty
//  2. os.UserCacheDir()/fsctl/reports
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("FSCTL_REPORT_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "fsctl", "reports"), true
	}
	return "", false
}

// Enabled returns true unless FSCTL_REPORTS explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("FSCTL_REPORTS")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// resourceDir is the directory holding resource's reports.
func resourceDir(resource string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	return filepath.Join(base, encodeKey(resource)), true
}

// Write stores r beneath its resource directory, named by creation time.
// It is a no-op returning "" when reports are disabled.
func Write(r *Report) (string, error) {
	if !Enabled() {
		return "", nil
	}
	dir, ok := resourceDir(r.Resource)
	if !ok {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	p := filepath.Join(dir, strconv.FormatInt(r.CreatedAt.UnixNano(), 10)+".json")
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	r.Path = p
	log.Debugf("report write: resource=%s path=%s", r.Resource, p)
	return p, nil
}

// List returns resource's reports, newest first.
func List(resource string) ([]*Report, error) {
	dir, ok := resourceDir(resource)
	if !ok {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var out []*Report
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		r, err := read(filepath.Join(dir, e.Name()))
		if err != nil {
			log.WithError(err).Warnf("skipping unreadable report %s", e.Name())
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Latest returns the newest report for resource or ErrNoReport.
func Latest(resource string) (*Report, error) {
	all, err := List(resource)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoReport, resource)
	}
	return all[0], nil
}

func read(p string) (*Report, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.Path = p
	return &r, nil
}

// Purge removes reports older than the provided number of hours.
// If hours <= 0 or the report dir cannot be resolved, it is a no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("report cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	if err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil {
			return nil
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed report %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove report %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge reports: %w", err)
	}
	return nil
}

// encodeKey hashes a resource name into a safe directory name.
func encodeKey(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
