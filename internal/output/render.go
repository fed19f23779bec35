// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/fsctl/fsctl/internal/dataset"
	"github.com/fsctl/fsctl/internal/report"
)

var fieldColumns = []Column{{Key: "field"}, {Key: "value"}}

// fields turns label/value pairs into two-column rows.
func fields(kv ...string) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(kv)/2) //nolint:mnd
	for i := 0; i+1 < len(kv); i += 2 {
		rows = append(rows, map[string]interface{}{"field": kv[i], "value": kv[i+1]})
	}
	return rows
}

// Report renders a run report. Text output shows a summary, then row
// failures and department statistics when present.
func Report(w io.Writer, r *report.Report, opts Options) error {
	if w == nil {
		w = os.Stdout
	}
	if out, ok, err := Marshal(r, opts.Format); ok {
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	summary := fields(
		"resource", r.Resource,
		"state", r.State,
		"ingested", fmt.Sprintf("%s of %s", humanize.Comma(int64(r.Ingested)), humanize.Comma(int64(r.Attempted))),
		"failed", humanize.Comma(int64(len(r.Failures))),
		"poll attempts", humanize.Comma(int64(r.PollAttempts)),
		"elapsed", r.Elapsed.Round(time.Millisecond).String(),
	)
	if !r.CreatedAt.IsZero() {
		summary = append(summary, fields("saved", humanize.Time(r.CreatedAt))...)
	}
	if r.RunID != "" {
		summary = append(summary, fields("run", r.RunID)...)
	}
	if r.Error != "" {
		summary = append(summary, fields("error", r.Error)...)
	}
	TableWriter(w, summary, fieldColumns, Options{Color: opts.Color, Padding: opts.Padding}, "Ingestion")

	if len(r.Failures) > 0 {
		rows := make([]map[string]interface{}, 0, len(r.Failures))
		for _, f := range r.Failures {
			rows = append(rows, map[string]interface{}{"row": f.Index, "error": f.Error})
		}
		fmt.Fprintln(w)
		TableWriter(w, rows, []Column{{Key: "row"}, {Key: "error"}}, opts, "Failures")
	}

	if r.Quality != nil {
		fmt.Fprintln(w)
		QualityTable(w, *r.Quality, opts)
	}
	if len(r.Departments) > 0 {
		fmt.Fprintln(w)
		DepartmentTable(w, r.Departments, opts)
	}
	return nil
}

// QualityTable renders quality metrics as a field/value table.
func QualityTable(w io.Writer, q dataset.Quality, opts Options) {
	rows := fields(
		"rows", humanize.Comma(int64(q.TotalRows)),
		"columns", humanize.Comma(int64(q.TotalColumns)),
		"missing values", humanize.Comma(int64(q.MissingValues)),
		"duplicate rows", humanize.Comma(int64(q.DuplicateRows)),
		"numeric columns", humanize.Comma(int64(q.NumericColumns)),
		"categorical columns", humanize.Comma(int64(q.CategoricalColumns)),
		"departments", humanize.Comma(int64(q.UniqueDepartments)),
		"age groups", humanize.Comma(int64(q.UniqueAgeGroups)),
		"salary categories", humanize.Comma(int64(q.UniqueSalaryCategories)),
		"processed at", q.ProcessedAt.Format(time.RFC3339),
	)
	TableWriter(w, rows, fieldColumns, Options{Color: opts.Color, Padding: opts.Padding}, "Data quality")
}

// DepartmentTable renders per-department averages.
func DepartmentTable(w io.Writer, stats []dataset.DepartmentStat, opts Options) {
	rows := make([]map[string]interface{}, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, map[string]interface{}{
			"department":     s.Department,
			"employees":      s.Employees,
			"average_salary": humanize.CommafWithDigits(s.AverageSalary, 2), //nolint:mnd
			"average_age":    humanize.CommafWithDigits(s.AverageAge, 1),
		})
	}
	SortDataset(rows, opts.Sort)
	TableWriter(w, rows, []Column{
		{Key: "department", Title: "Department"},
		{Key: "employees", Title: "Employees"},
		{Key: "average_salary", Title: "Average Salary"},
		{Key: "average_age", Title: "Average Age"},
	}, opts, "Departments")
}

// FrameRows converts a frame into keyed rows, one map per record.
func FrameRows(f *dataset.Frame) ([]map[string]interface{}, []Column) {
	cols := make([]Column, len(f.Columns))
	for i, c := range f.Columns {
		cols[i] = Column{Key: c}
	}
	rows := make([]map[string]interface{}, 0, f.Len())
	for _, r := range f.Rows {
		m := make(map[string]interface{}, len(f.Columns))
		for i, c := range f.Columns {
			m[c] = r[i]
		}
		rows = append(rows, m)
	}
	return rows, cols
}
