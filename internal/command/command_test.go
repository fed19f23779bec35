// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/aws"
	"github.com/fsctl/fsctl/internal/config"
	"github.com/fsctl/fsctl/internal/dataset"
	"github.com/fsctl/fsctl/internal/ingest"
	"github.com/fsctl/fsctl/internal/meta"
	"github.com/fsctl/fsctl/internal/report"
)

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

// isolate unsets every environment variable a flag could pick up. An empty
// but set variable would still win over the config file.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"FSCTL_CFG_FILE", "FSCTL_RESOURCE_NAME", "FEATURE_GROUP_NAME",
		"FSCTL_POLL_INTERVAL_SECONDS", "FSCTL_MAX_ATTEMPTS", "FSCTL_MAX_PARALLEL_WRITERS",
		"AWS_REGION", "AWS_DEFAULT_REGION", "AWS_PROFILE", "FSCTL_S3_ENDPOINT",
		"FSCTL_DRY_RUN", "FSCTL_INPUT", "FSCTL_OUTPUT_DIR", "FSCTL_REPORTS",
	} {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { _ = os.Setenv(k, v) })
		}
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("FSCTL_REPORT_DIR", t.TempDir())
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := NewApp(meta.Meta{
		Defaults: config.Defaults(),
		Stdout:   &buf,
		Now:      func() time.Time { return fixedNow },
		Sleep:    func(context.Context, time.Duration) error { return nil },
	})
	err := app.Run(context.Background(), append([]string{"fsctl"}, args...))
	return buf.String(), err
}

func TestPrep(t *testing.T) {
	isolate(t)
	out := t.TempDir()

	stdout, err := runApp(t, "prep", "--input", "testdata/mock_data.csv", "--output-dir", out, "--output", "json")
	require.NoError(t, err)

	var got prepSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 5, got.Quality.TotalRows)
	assert.Len(t, got.Departments, 3)
	assert.Equal(t, 1, got.Fills.Age)
	for _, name := range []string{dataset.CleanedFile, dataset.TransformedFile, dataset.DepartmentsFile} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.NoFileExists(t, filepath.Join(out, dataset.FeatureStoreFile))
}

func TestPrep_RowsFiltered(t *testing.T) {
	isolate(t)

	stdout, err := runApp(t, "prep", "--input", "testdata/mock_data.csv", "--output-dir", t.TempDir(),
		"--rows", "--filter", "department=Sales,salary>100000", "--output", "json")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Experienced", rows[0][dataset.ColAgeGroup])
}

func TestPrep_MissingInput(t *testing.T) {
	isolate(t)
	_, err := runApp(t, "prep", "--input", filepath.Join(t.TempDir(), "nope.csv"), "--output-dir", t.TempDir())
	assert.ErrorIs(t, err, dataset.ErrNoInput)
}

func TestRun_DryRun(t *testing.T) {
	isolate(t)
	out := t.TempDir()

	stdout, err := runApp(t, "run", "--dry-run", "--resource", "employees",
		"--input", "testdata/mock_data.csv", "--output-dir", out, "-w", "2", "--output", "json")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, "employees", rep.Resource)
	assert.Equal(t, "Completed", rep.State)
	assert.Equal(t, 5, rep.Attempted)
	assert.Equal(t, 5, rep.Ingested)
	assert.Equal(t, 1, rep.PollAttempts)
	require.NotNil(t, rep.Quality)
	assert.Len(t, rep.Files, 4)

	data, err := os.ReadFile(filepath.Join(out, dataset.FeatureStoreFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "employee_id,event_time,age,salary,department,address,phone,email,address_length,salary_category,age_group", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,2026-04-01T12:00:00Z,22,45000,Engineering,12 Oak St,555-0101,a@example.com,9,low,Young"))
	assert.True(t, strings.HasPrefix(lines[4], "3,2026-04-01T12:00:00Z,50,80000,Unknown,nan,nan,nan,3,high,Senior"))

	saved, err := report.Latest("employees")
	require.NoError(t, err)
	assert.Equal(t, "Completed", saved.State)

	stdout, err = runApp(t, "report", "--resource", "employees", "--all", "--output", "json")
	require.NoError(t, err)
	var all []report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &all))
	assert.Len(t, all, 1)
}

func TestRun_DryRunText(t *testing.T) {
	isolate(t)
	stdout, err := runApp(t, "run", "--dry-run", "--input", "testdata/mock_data.csv", "--output-dir", t.TempDir(), "--titles")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Completed")
	assert.Contains(t, stdout, dryRunResource)
	assert.Contains(t, stdout, "Engineering")
}

func TestIngest_DryRun(t *testing.T) {
	isolate(t)
	prepOut := t.TempDir()
	_, err := runApp(t, "prep", "--input", "testdata/mock_data.csv", "--output-dir", prepOut)
	require.NoError(t, err)

	stdout, err := runApp(t, "ingest", "--dry-run", "-r", "employees",
		"--input", filepath.Join(prepOut, dataset.TransformedFile), "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "state: Completed")
	assert.Contains(t, stdout, "ingested: 5")
}

func TestWait_DryRun(t *testing.T) {
	isolate(t)
	stdout, err := runApp(t, "wait", "--dry-run", "--resource", "employees", "--output", "json")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Created", rows[0]["status"])
	assert.Equal(t, true, rows[0]["ready"])
}

func TestSettingsValidation(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing resource", args: []string{"wait"}, want: "resource_name is required"},
		{name: "zero attempts", args: []string{"wait", "-r", "x", "--max-attempts", "0"}, want: "max_attempts"},
		{name: "zero interval", args: []string{"wait", "-r", "x", "--poll-interval", "0"}, want: "poll_interval"},
		{name: "zero writers", args: []string{"run", "-r", "x", "-w", "0"}, want: "max_parallel_writers"},
		{name: "bad output", args: []string{"wait", "--dry-run", "--output", "xml"}, want: "must be one of"},
		{name: "negative padding", args: []string{"prep", "--padding=-1"}, want: "padding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSettingsFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("FEATURE_GROUP_NAME", "from-env")
	t.Setenv("FSCTL_MAX_PARALLEL_WRITERS", "7")

	var got config.Settings
	app := NewApp(meta.Meta{Defaults: config.Defaults(), Stdout: &bytes.Buffer{}})
	for _, c := range app.Commands {
		if c.Name == "wait" {
			c.Action = func(_ context.Context, cmd *cli.Command) error {
				got = SettingsFromFlags(cmd)
				return nil
			}
		}
	}
	require.NoError(t, app.Run(context.Background(), []string{"fsctl", "wait", "--max-attempts", "3"}))
	assert.Equal(t, "from-env", got.ResourceName)
	assert.Equal(t, 7, got.MaxParallelWriters)
	assert.Equal(t, 3, got.MaxAttempts)
	assert.Equal(t, config.DefaultPollInterval, got.PollInterval)
	assert.Equal(t, config.DefaultRegion, got.Region)
}

func TestSettingsFromConfigFile(t *testing.T) {
	isolate(t)
	cfgFile := filepath.Join(t.TempDir(), "fsctl.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("resource_name: from-file\nmax_attempts: 4\nwait:\n  max_attempts: 9\n"), 0o600))

	var got config.Settings
	app := NewApp(meta.Meta{Config: config.Type{Source: cfgFile}, Defaults: config.Defaults(), Stdout: &bytes.Buffer{}})
	for _, c := range app.Commands {
		if c.Name == "wait" {
			c.Action = func(_ context.Context, cmd *cli.Command) error {
				got = SettingsFromFlags(cmd)
				return nil
			}
		}
	}
	require.NoError(t, app.Run(context.Background(), []string{"fsctl", "wait"}))
	assert.Equal(t, "from-file", got.ResourceName)
	assert.Equal(t, 9, got.MaxAttempts)
}

func TestObjprep_Local(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "raw")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	in := filepath.Join(dir, "batch.csv")
	require.NoError(t, os.WriteFile(in, []byte("existing_feature,other\n2,a\n,\n"), 0o600))

	stdout, err := runApp(t, "objprep", in)
	require.NoError(t, err)
	out := strings.ReplaceAll(in, "raw", "processed")
	assert.Contains(t, stdout, out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "existing_feature,other,new_feature\n2,a,4\n2,a,4\n", string(data))

	_, err = runApp(t, "objprep")
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	isolate(t)
	stdout, err := runApp(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "complete -F _fsctl fsctl")

	stdout, err = runApp(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, stdout, "#compdef fsctl")
}

func TestOutputValidator(t *testing.T) {
	for _, ok := range []string{"text", "json", "yaml"} {
		assert.NoError(t, OutputValidator(ok))
	}
	assert.Error(t, OutputValidator("raw"))
	assert.Error(t, OutputValidator(3))
}

func TestSessionOnlyForS3(t *testing.T) {
	isolate(t)

	var calls, optCount int
	orig := newSession
	newSession = func(_ context.Context, opts ...aws.Option) (*aws.Session, error) {
		calls++
		optCount = len(opts)
		return nil, errors.New("no credentials")
	}
	t.Cleanup(func() { newSession = orig })

	_, err := runApp(t, "prep", "--input", "testdata/mock_data.csv", "--output-dir", t.TempDir(), "--output", "json")
	require.NoError(t, err)
	assert.Zero(t, calls)

	_, err = runApp(t, "prep", "--input", "s3://bucket/raw/mock_data.csv", "--output-dir", t.TempDir(), "--profile", "ml")
	assert.ErrorContains(t, err, "failed to load AWS config")
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, optCount)
}

// fakeFeatureStore replaces the AWS session and SageMaker adapters with q
// and w.
func fakeFeatureStore(t *testing.T, q ingest.StatusQuerier, w ingest.RowWriter) {
	t.Helper()
	origSession, origStore := newSession, newFeatureStore
	newSession = func(context.Context, ...aws.Option) (*aws.Session, error) {
		return &aws.Session{}, nil
	}
	newFeatureStore = func(*aws.Session) (ingest.StatusQuerier, ingest.RowWriter) { return q, w }
	t.Cleanup(func() { newSession, newFeatureStore = origSession, origStore })
}

// countingQuerier always answers status and counts queries.
type countingQuerier struct {
	status ingest.Status
	calls  int
}

func (q *countingQuerier) QueryStatus(context.Context, string) (ingest.StatusReport, error) {
	q.calls++
	return ingest.StatusReport{Status: q.status, RawDetail: q.status.String()}, nil
}

// acceptAll acknowledges every row.
var acceptAll = ingest.RowWriterFunc(func(_ context.Context, _ string, rows []ingest.Row) ingest.WriteResult {
	return ingest.WriteResult{Acknowledged: len(rows)}
})

// rejectEven fails every row whose employee_id is even.
var rejectEven = ingest.RowWriterFunc(func(_ context.Context, _ string, rows []ingest.Row) ingest.WriteResult {
	var wr ingest.WriteResult
	for i, r := range rows {
		v, _ := r.Get("employee_id")
		if id, err := strconv.Atoi(v.String()); err == nil && id%2 == 0 {
			wr.Failed = append(wr.Failed, ingest.RowFailure{Index: i, Row: r, Err: errors.New("throttled")})
			continue
		}
		wr.Acknowledged++
	}
	return wr
})

// transformed runs prep and returns the transformed file path.
func transformed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runApp(t, "prep", "--input", "testdata/mock_data.csv", "--output-dir", dir)
	require.NoError(t, err)
	return filepath.Join(dir, dataset.TransformedFile)
}

func TestIngest_TimedOutFails(t *testing.T) {
	isolate(t)
	q := &countingQuerier{status: ingest.StatusCreating}
	fakeFeatureStore(t, q, acceptAll)
	input := transformed(t)
	out := t.TempDir()

	stdout, err := runApp(t, "ingest", "-r", "employees", "--input", input, "--output-dir", out,
		"--max-attempts", "3", "--poll-interval", "1", "--output", "json")
	var notReady *ingest.ResourceNotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, 3, notReady.Attempts)
	assert.Equal(t, 3, q.calls)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, "TimedOut", rep.State)
	assert.Equal(t, 0, rep.Ingested)
	assert.NoFileExists(t, filepath.Join(out, dataset.FeatureStoreFile))

	saved, err := report.Latest("employees")
	require.NoError(t, err)
	assert.Equal(t, "TimedOut", saved.State)
}

func TestIngest_PartiallyFailedFails(t *testing.T) {
	isolate(t)
	fakeFeatureStore(t, &countingQuerier{status: ingest.StatusCreated}, rejectEven)
	input := transformed(t)
	out := t.TempDir()

	_, err := runApp(t, "ingest", "-r", "employees", "--input", input, "--output-dir", out, "-w", "2")
	var partial *ingest.PartialIngestionError
	require.ErrorAs(t, err, &partial)
	assert.Len(t, partial.Failures, 3)
	assert.NoFileExists(t, filepath.Join(out, dataset.FeatureStoreFile))
}

func TestRun_IngestionFailureCompletesJob(t *testing.T) {
	tests := []struct {
		name      string
		status    ingest.Status
		writer    ingest.RowWriter
		wantState string
		wantIn    int
		wantFail  int
	}{
		{name: "timed out", status: ingest.StatusCreating, writer: acceptAll, wantState: "TimedOut"},
		{name: "partially failed", status: ingest.StatusCreated, writer: rejectEven, wantState: "PartiallyFailed", wantIn: 2, wantFail: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			fakeFeatureStore(t, &countingQuerier{status: tt.status}, tt.writer)
			out := t.TempDir()

			stdout, err := runApp(t, "run", "-r", "employees", "--input", "testdata/mock_data.csv",
				"--output-dir", out, "--max-attempts", "2", "--poll-interval", "1", "--output", "json")
			require.NoError(t, err)

			var rep report.Report
			require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
			assert.Equal(t, tt.wantState, rep.State)
			assert.Equal(t, tt.wantIn, rep.Ingested)
			assert.Len(t, rep.Failures, tt.wantFail)
			assert.NotEmpty(t, rep.Error)
			assert.Len(t, rep.Files, 3)
			assert.FileExists(t, filepath.Join(out, dataset.TransformedFile))
			assert.NoFileExists(t, filepath.Join(out, dataset.FeatureStoreFile))

			saved, err := report.Latest("employees")
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, saved.State)
		})
	}
}

func TestWait_FailFast(t *testing.T) {
	isolate(t)

	q := &countingQuerier{status: ingest.StatusFailed}
	fakeFeatureStore(t, q, acceptAll)
	_, err := runApp(t, "wait", "-r", "employees", "--max-attempts", "5", "--poll-interval", "1")
	var notReady *ingest.ResourceNotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.False(t, notReady.FailedFast)
	assert.Equal(t, 5, q.calls)

	q = &countingQuerier{status: ingest.StatusFailed}
	fakeFeatureStore(t, q, acceptAll)
	stdout, err := runApp(t, "wait", "-r", "employees", "--max-attempts", "5", "--poll-interval", "1", "--fail-fast", "--output", "json")
	require.ErrorAs(t, err, &notReady)
	assert.True(t, notReady.FailedFast)
	assert.Equal(t, 1, q.calls)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	assert.Equal(t, "Failed", rows[0]["status"])
	assert.Equal(t, false, rows[0]["ready"])
}
