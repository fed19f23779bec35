// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"sort"
	"time"
)

// DepartmentStat is one line of the department summary report.
type DepartmentStat struct {
	Department    string  `json:"department" yaml:"department"`
	AverageSalary float64 `json:"average_salary" yaml:"average_salary"`
	AverageAge    float64 `json:"average_age" yaml:"average_age"`
	Employees     int     `json:"employees" yaml:"employees"`
}

// DepartmentStats groups f by department and averages salary and age,
// ignoring cells that are not numbers. Departments are sorted by name.
func DepartmentStats(f *Frame) ([]DepartmentStat, error) {
	depts, err := f.Column(ColDepartment)
	if err != nil {
		return nil, err
	}
	salaries, err := f.Column(ColSalary)
	if err != nil {
		return nil, err
	}
	ages, err := f.Column(ColAge)
	if err != nil {
		return nil, err
	}

	type acc struct {
		salarySum, ageSum float64
		salaryN, ageN, n  int
	}
	groups := map[string]*acc{}
	for r, d := range depts {
		a, ok := groups[d]
		if !ok {
			a = &acc{}
			groups[d] = a
		}
		a.n++
		if v, err := parseNumber(salaries[r]); err == nil {
			a.salarySum += v
			a.salaryN++
		}
		if v, err := parseNumber(ages[r]); err == nil {
			a.ageSum += v
			a.ageN++
		}
	}

	stats := make([]DepartmentStat, 0, len(groups))
	for d, a := range groups {
		s := DepartmentStat{Department: d, Employees: a.n}
		if a.salaryN > 0 {
			s.AverageSalary = a.salarySum / float64(a.salaryN)
		}
		if a.ageN > 0 {
			s.AverageAge = a.ageSum / float64(a.ageN)
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Department < stats[j].Department })
	return stats, nil
}

// DepartmentFrame renders stats with the report's column titles.
func DepartmentFrame(stats []DepartmentStat) *Frame {
	f := &Frame{Columns: []string{"Department", "Average Salary", "Average Age"}}
	for _, s := range stats {
		f.Rows = append(f.Rows, []string{s.Department, formatNumber(s.AverageSalary), formatNumber(s.AverageAge)})
	}
	return f
}

// Quality holds the data quality metrics of a transformed frame.
type Quality struct {
	TotalRows              int       `json:"total_rows" yaml:"total_rows"`
	TotalColumns           int       `json:"total_columns" yaml:"total_columns"`
	MissingValues          int       `json:"missing_values_count" yaml:"missing_values_count"`
	DuplicateRows          int       `json:"duplicate_rows" yaml:"duplicate_rows"`
	NumericColumns         int       `json:"numeric_columns" yaml:"numeric_columns"`
	CategoricalColumns     int       `json:"categorical_columns" yaml:"categorical_columns"`
	UniqueDepartments      int       `json:"unique_departments" yaml:"unique_departments"`
	UniqueAgeGroups        int       `json:"unique_age_groups" yaml:"unique_age_groups"`
	UniqueSalaryCategories int       `json:"unique_salary_categories" yaml:"unique_salary_categories"`
	ProcessedAt            time.Time `json:"processing_timestamp" yaml:"processing_timestamp"`
}

// Measure computes Quality for f. Columns that are not numeric count as
// categorical.
func Measure(f *Frame, now time.Time) Quality {
	q := Quality{
		TotalRows:     f.Len(),
		TotalColumns:  len(f.Columns),
		MissingValues: f.MissingCount(),
		DuplicateRows: f.DuplicateRows(),
		ProcessedAt:   now,
	}
	q.NumericColumns = len(f.NumericColumns())
	q.CategoricalColumns = q.TotalColumns - q.NumericColumns
	q.UniqueDepartments, _ = f.Unique(ColDepartment)
	q.UniqueAgeGroups, _ = f.Unique(ColAgeGroup)
	q.UniqueSalaryCategories, _ = f.Unique(ColSalaryCategory)
	return q
}
