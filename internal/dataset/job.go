// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsctl/fsctl/internal/blob"
	"github.com/fsctl/fsctl/internal/log"
)

// ErrNoInput is wrapped when the job's input does not exist.
var ErrNoInput = errors.New("input dataset not found")

// Fills counts the cells Clean replaced.
type Fills struct {
	Age        int     `json:"age" yaml:"age"`
	Salary     int     `json:"salary" yaml:"salary"`
	Department int     `json:"department" yaml:"department"`
	AgeMedian  float64 `json:"age_median" yaml:"age_median"`
	SalMedian  float64 `json:"salary_median" yaml:"salary_median"`
}

// Clean fills numeric gaps with the column median and missing departments
// with UnknownDepartment, then replaces the profile column by address, phone
// and email. A frame without a profile column just gains empty contact
// columns.
func Clean(f *Frame) (Fills, error) {
	var fills Fills

	for _, c := range []struct {
		name   string
		count  *int
		median *float64
	}{
		{ColAge, &fills.Age, &fills.AgeMedian},
		{ColSalary, &fills.Salary, &fills.SalMedian},
	} {
		m, ok, err := f.Median(c.name)
		if err != nil {
			return fills, err
		}
		if !ok {
			log.Warnf("column %s has no numeric values, leaving gaps", c.name)
			continue
		}
		*c.median = m
		if *c.count, err = f.FillNA(c.name, formatNumber(m)); err != nil {
			return fills, err
		}
	}

	var err error
	if fills.Department, err = f.FillNA(ColDepartment, UnknownDepartment); err != nil {
		return fills, err
	}

	if f.Index(ColProfile) < 0 {
		for _, k := range profileKeys {
			if f.Index(k) < 0 {
				if err := f.Set(k, make([]string, f.Len())); err != nil {
					return fills, err
				}
			}
		}
		return fills, nil
	}
	if err := f.ExtractJSON(ColProfile, profileKeys...); err != nil {
		return fills, err
	}
	return fills, f.Drop(ColProfile)
}

// Job runs the preprocessing pipeline from Input into OutputDir.
type Job struct {
	Store     blob.Store
	Input     string
	OutputDir string
	// Now stamps the quality report; time.Now when nil.
	Now func() time.Time
}

// Output is everything Job.Run produced.
type Output struct {
	Cleaned     *Frame
	Transformed *Frame
	Fills       Fills
	Departments []DepartmentStat
	Quality     Quality
	Employees   []Employee
	Files       []string
}

// Run loads, cleans, derives and aggregates the dataset and writes the
// cleaned, transformed and department files. A missing input wraps
// ErrNoInput.
func (j *Job) Run(ctx context.Context) (*Output, error) {
	start := time.Now()
	now := j.Now
	if now == nil {
		now = time.Now
	}

	raw, err := j.Store.Get(ctx, j.Input)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoInput, j.Input)
		}
		return nil, err
	}
	frame, err := ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", j.Input, err)
	}
	log.Infof("loaded %s: rows=%d columns=%d", j.Input, frame.Len(), len(frame.Columns))

	out := &Output{}
	if out.Fills, err = Clean(frame); err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	out.Cleaned = frame.Clone()
	if err := j.save(ctx, out, CleanedFile, out.Cleaned); err != nil {
		return nil, err
	}

	if err := Derive(frame); err != nil {
		return nil, fmt.Errorf("derive: %w", err)
	}
	out.Transformed = frame

	if out.Departments, err = DepartmentStats(frame); err != nil {
		return nil, fmt.Errorf("department stats: %w", err)
	}
	if err := j.save(ctx, out, DepartmentsFile, DepartmentFrame(out.Departments)); err != nil {
		return nil, err
	}

	out.Quality = Measure(frame, now().UTC())
	if err := j.save(ctx, out, TransformedFile, frame); err != nil {
		return nil, err
	}
	out.Employees = Employees(frame)

	log.Infof("preprocessing done: rows=%d files=%d elapsed=%s", frame.Len(), len(out.Files), log.Elapsed(start))
	return out, nil
}

// Save writes f as CSV to name under OutputDir.
func (j *Job) Save(ctx context.Context, name string, f *Frame) (string, error) {
	var buf bytes.Buffer
	if err := f.WriteCSV(&buf); err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	loc := blob.Join(j.OutputDir, name)
	if err := j.Store.Put(ctx, loc, buf.Bytes()); err != nil {
		return "", err
	}
	log.Debugf("wrote %s", loc)
	return loc, nil
}

func (j *Job) save(ctx context.Context, out *Output, name string, f *Frame) error {
	loc, err := j.Save(ctx, name, f)
	if err != nil {
		return err
	}
	out.Files = append(out.Files, loc)
	return nil
}
