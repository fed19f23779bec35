// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"fmt"
	"strconv"
)

// Kind is the type of external resource a Handle names.
type Kind int

const (
	KindFeatureGroup Kind = iota
)

func (k Kind) String() string {
	if k == KindFeatureGroup {
		return "feature-group"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Handle identifies an external named resource. It is created by the caller
// and never mutated.
type Handle struct {
	Name string
	Kind Kind
}

// FeatureGroup returns a Handle for the named feature group.
func FeatureGroup(name string) Handle {
	return Handle{Name: name, Kind: KindFeatureGroup}
}

func (h Handle) String() string {
	return h.Kind.String() + "/" + h.Name
}

// Status is the readiness of a resource as last observed by polling.
type Status int

const (
	StatusUnknown Status = iota
	StatusCreating
	StatusCreated
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCreating:
		return "Creating"
	case StatusCreated:
		return "Created"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// StatusReport is one answer from a StatusQuerier. RawDetail carries the
// provider's own wording (status string, failure reason) for logs.
type StatusReport struct {
	Status    Status
	RawDetail string
}

// StatusQuerier reports the readiness of a named resource. Failures are
// returned as errors, never panics, so polling can treat them like "still
// creating".
type StatusQuerier interface {
	QueryStatus(ctx context.Context, name string) (StatusReport, error)
}

// ValueKind tags the scalar held by a Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindFloat
	KindInt
)

// Value is a typed scalar cell.
type Value struct {
	kind ValueKind
	s    string
	f    float64
	i    int64
}

// String, Float and Int construct Values.
func String(s string) Value { return Value{kind: KindString, s: s} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Kind reports which scalar v holds.
func (v Value) Kind() ValueKind { return v.kind }

// String renders the value the way feature stores expect ValueAsString:
// floats use the shortest representation that round-trips.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return v.s
	}
}

// Field is one named cell of a Row.
type Field struct {
	Name  string
	Value Value
}

// Row is an ordered list of fields. Every row in a Batch has the same
// column set; validating that is the caller's job.
type Row []Field

// Get returns the value of the named field.
func (r Row) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Names returns the column names in row order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Batch is an ordered sequence of rows written by one IngestBatch call.
type Batch []Row

// RowFailure records a row that could not be written. Index is the row's
// position in the batch handed to the writer (IngestBatch rebases it to the
// position in the whole batch).
type RowFailure struct {
	Index int
	Row   Row
	Err   error
}

func (f RowFailure) String() string {
	return fmt.Sprintf("row %d: %v", f.Index, f.Err)
}

// WriteResult is what a RowWriter reports for one call.
type WriteResult struct {
	Acknowledged int
	Failed       []RowFailure
}

// RowWriter durably writes rows to the named resource. Implementations
// report per-row failures instead of returning an error.
type RowWriter interface {
	WriteRows(ctx context.Context, name string, rows []Row) WriteResult
}

// RowWriterFunc adapts a function to RowWriter.
type RowWriterFunc func(ctx context.Context, name string, rows []Row) WriteResult

func (f RowWriterFunc) WriteRows(ctx context.Context, name string, rows []Row) WriteResult {
	return f(ctx, name, rows)
}

// StatusQuerierFunc adapts a function to StatusQuerier.
type StatusQuerierFunc func(ctx context.Context, name string) (StatusReport, error)

func (f StatusQuerierFunc) QueryStatus(ctx context.Context, name string) (StatusReport, error) {
	return f(ctx, name)
}
