// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/fsctl/fsctl/internal/dataset"
	"github.com/fsctl/fsctl/internal/report"
)

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "zebra", "count": 3.0, "size": 10},
		{"name": "alpha", "count": 1.0, "size": 30},
		{"name": "Beta", "count": 2.0, "size": 20},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{name: "ascending by name", spec: "name", wantOrder: []string{"alpha", "Beta", "zebra"}},
		{name: "descending by name", spec: "-name", wantOrder: []string{"zebra", "Beta", "alpha"}},
		{name: "ascending by count", spec: "count", wantOrder: []string{"alpha", "Beta", "zebra"}},
		{name: "descending by int", spec: "-size", wantOrder: []string{"alpha", "Beta", "zebra"}},
		{name: "case sensitive", spec: "!name", wantOrder: []string{"Beta", "alpha", "zebra"}},
		{name: "empty spec", spec: "", wantOrder: []string{"zebra", "alpha", "Beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal []string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(7), want: "7"},
		{name: "float keeps decimals", value: 42.5, want: "42.5"},
		{name: "stringer", value: 1500 * time.Millisecond, want: "1.5s"},
		{name: "bool", value: true, want: "true"},
		{name: "zero uses empty value", value: 0, emptyVal: []string{"-"}, want: "-"},
		{name: "nil", value: nil, want: ""},
		{name: "composite", value: []string{"a"}, want: `["a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterfaceToString(tt.value, tt.emptyVal...))
		})
	}
}

func TestSpit_Formats(t *testing.T) {
	rows := func() []map[string]interface{} {
		return []map[string]interface{}{
			{"department": "Sales", "employees": 2},
			{"department": "Engineering", "employees": 5},
		}
	}
	cols := []Column{{Key: "department", Title: "Department"}, {Key: "employees"}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Spit(&buf, rows(), cols, Options{Format: FormatJSON, Sort: "department"}))
		var got []map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Engineering", got[0]["department"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Spit(&buf, rows(), cols, Options{Format: FormatYAML}))
		var got []map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "Sales", got[0]["department"])
	})

	t.Run("text with titles", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Spit(&buf, rows(), cols, Options{Format: FormatText, Titles: true, Padding: 2, Sort: "-employees"}))
		out := buf.String()
		assert.Contains(t, out, "Department")
		assert.Less(t, strings.Index(out, "Engineering"), strings.Index(out, "Sales"))
	})

	t.Run("filtered", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Spit(&buf, rows(), cols, Options{Format: FormatJSON, Filter: "employees>3"}))
		var got []map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Engineering", got[0]["department"])
	})

	t.Run("bad filter", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, Spit(&buf, rows(), cols, Options{Filter: "=Sales"}))
	})

	t.Run("text empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Spit(&buf, nil, cols, Options{}))
		assert.Empty(t, buf.String())
	})
}

func TestReport_Text(t *testing.T) {
	r := &report.Report{
		Resource:     "employees",
		State:        "PartiallyFailed",
		Attempted:    1200,
		Ingested:     1199,
		PollAttempts: 2,
		Elapsed:      1234 * time.Millisecond,
		Failures:     []report.Failure{{Index: 7, Error: "throttled"}},
		Error:        "1 of 1200 row(s) failed",
		Departments:  []dataset.DepartmentStat{{Department: "Sales", AverageSalary: 65000.456, AverageAge: 40, Employees: 3}},
		Quality:      &dataset.Quality{TotalRows: 1200},
	}
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, r, Options{Format: FormatText, Titles: true, Padding: 1}))
	out := buf.String()

	for _, want := range []string{"employees", "PartiallyFailed", "1,199 of 1,200", "1.234s", "throttled", "Data quality", "65,000.46", "Departments"} {
		assert.Contains(t, out, want)
	}
}

func TestReport_JSON(t *testing.T) {
	r := &report.Report{Resource: "employees", State: "Completed", Ingested: 3}
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, r, Options{Format: FormatJSON}))

	var got report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Completed", got.State)
	assert.Equal(t, 3, got.Ingested)
}

func TestFrameRows(t *testing.T) {
	f := &dataset.Frame{Columns: []string{"a", "b"}, Rows: [][]string{{"1", "x"}}}
	rows, cols := FrameRows(f)
	assert.Equal(t, []Column{{Key: "a"}, {Key: "b"}}, cols)
	assert.Equal(t, []map[string]interface{}{{"a": "1", "b": "x"}}, rows)
}

func TestOptionsFrom(t *testing.T) {
	var got Options
	cmd := &cli.Command{
		Name: "x",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "text"},
			&cli.BoolFlag{Name: "color"},
			&cli.BoolFlag{Name: "titles"},
			&cli.IntFlag{Name: "padding", Value: 2},
			&cli.StringFlag{Name: "sort"},
			&cli.StringFlag{Name: "filter"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			got = OptionsFrom(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"x", "--output", "json", "--titles", "--sort", "-department", "--filter", "age>30"}))
	assert.Equal(t, Options{Format: "json", Titles: true, Padding: 2, Sort: "-department", Filter: "age>30"}, got)
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")
	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}
