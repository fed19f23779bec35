// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package featurestore

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerfeaturestoreruntime"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerfeaturestoreruntime/types"

	"github.com/fsctl/fsctl/internal/ingest"
	"github.com/fsctl/fsctl/internal/log"
)

// Putter is the subset of the Feature Store runtime client RecordWriter uses.
type Putter interface {
	PutRecord(ctx context.Context, params *sagemakerfeaturestoreruntime.PutRecordInput, optFns ...func(*sagemakerfeaturestoreruntime.Options)) (*sagemakerfeaturestoreruntime.PutRecordOutput, error)
}

var (
	_ Putter           = (*sagemakerfeaturestoreruntime.Client)(nil)
	_ ingest.RowWriter = (*RecordWriter)(nil)
)

// RecordWriter puts one record per row.
type RecordWriter struct {
	api Putter
}

// NewRecordWriter wraps api.
func NewRecordWriter(api Putter) *RecordWriter {
	return &RecordWriter{api: api}
}

// WriteRows puts rows in order. A failed put is recorded and the next row is
// tried; once ctx is done the remaining rows fail with its error.
func (w *RecordWriter) WriteRows(ctx context.Context, name string, rows []ingest.Row) ingest.WriteResult {
	var res ingest.WriteResult
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(rows); j++ {
				res.Failed = append(res.Failed, ingest.RowFailure{Index: j, Row: rows[j], Err: err})
			}
			break
		}
		_, err := w.api.PutRecord(ctx, &sagemakerfeaturestoreruntime.PutRecordInput{
			FeatureGroupName: awsv2.String(name),
			Record:           Record(row),
		})
		if err != nil {
			log.Debugf("put record %d into %s failed: %v", i, name, err)
			res.Failed = append(res.Failed, ingest.RowFailure{Index: i, Row: row, Err: fmt.Errorf("put record: %w", err)})
			continue
		}
		res.Acknowledged++
	}
	return res
}

// Record renders row as feature values.
func Record(row ingest.Row) []types.FeatureValue {
	rec := make([]types.FeatureValue, 0, len(row))
	for _, f := range row {
		rec = append(rec, types.FeatureValue{
			FeatureName:   awsv2.String(f.Name),
			ValueAsString: awsv2.String(f.Value.String()),
		})
	}
	return rec
}
