// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package featurestore

import (
	"fmt"
	"slices"
	"time"

	"github.com/fsctl/fsctl/internal/dataset"
	"github.com/fsctl/fsctl/internal/ingest"
)

const (
	// FeatureEmployeeID is the record identifier feature.
	FeatureEmployeeID = "employee_id"
	// FeatureEventTime is the event time feature.
	FeatureEventTime = "event_time"
	// EventTimeFormat is how event_time is rendered.
	EventTimeFormat = "2006-01-02T15:04:05Z"
)

// FeatureNames is the record schema in column order.
var FeatureNames = []string{
	FeatureEmployeeID,
	FeatureEventTime,
	dataset.ColAge,
	dataset.ColSalary,
	dataset.ColDepartment,
	dataset.ColAddress,
	dataset.ColPhone,
	dataset.ColEmail,
	dataset.ColAddressLength,
	dataset.ColSalaryCategory,
	dataset.ColAgeGroup,
}

// FromEmployee builds the record for the employee at position id.
func FromEmployee(id int, e dataset.Employee, eventTime time.Time) ingest.Row {
	return ingest.Row{
		{Name: FeatureEmployeeID, Value: ingest.Int(int64(id))},
		{Name: FeatureEventTime, Value: ingest.String(eventTime.UTC().Format(EventTimeFormat))},
		{Name: dataset.ColAge, Value: ingest.Float(e.Age)},
		{Name: dataset.ColSalary, Value: ingest.Float(e.Salary)},
		{Name: dataset.ColDepartment, Value: ingest.String(e.Department)},
		{Name: dataset.ColAddress, Value: ingest.String(e.Address)},
		{Name: dataset.ColPhone, Value: ingest.String(e.Phone)},
		{Name: dataset.ColEmail, Value: ingest.String(e.Email)},
		{Name: dataset.ColAddressLength, Value: ingest.Int(int64(e.AddressLength))},
		{Name: dataset.ColSalaryCategory, Value: ingest.String(e.SalaryCategory)},
		{Name: dataset.ColAgeGroup, Value: ingest.String(e.AgeGroup)},
	}
}

// ToBatch converts employees in order, stamping every record with the same
// event time.
func ToBatch(employees []dataset.Employee, eventTime time.Time) ingest.Batch {
	batch := make(ingest.Batch, len(employees))
	for i, e := range employees {
		batch[i] = FromEmployee(i, e, eventTime)
	}
	return batch
}

// ValidateBatch checks that every row carries exactly the schema columns in
// schema order.
func ValidateBatch(batch ingest.Batch) error {
	for i, row := range batch {
		if names := row.Names(); !slices.Equal(names, FeatureNames) {
			return fmt.Errorf("%w: row %d has columns %v", ingest.ErrInvalidArgument, i, names)
		}
	}
	return nil
}

// BatchFrame lays batch out as a table with the schema columns.
func BatchFrame(batch ingest.Batch) *dataset.Frame {
	f := &dataset.Frame{Columns: slices.Clone(FeatureNames)}
	for _, row := range batch {
		cells := make([]string, len(FeatureNames))
		for c, name := range FeatureNames {
			if v, ok := row.Get(name); ok {
				cells[c] = v.String()
			}
		}
		f.Rows = append(f.Rows, cells)
	}
	return f
}
