// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package objectprep preprocesses single CSV objects as they land in S3:
// gaps are forward filled, new_feature is derived from existing_feature and
// the result is written next to the input under a "processed" prefix.
package objectprep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/fsctl/fsctl/internal/blob"
	"github.com/fsctl/fsctl/internal/dataset"
	"github.com/fsctl/fsctl/internal/log"
)

const (
	SourceColumn  = "existing_feature"
	DerivedColumn = "new_feature"

	rawSegment       = "raw"
	processedSegment = "processed"

	uploadedPrefix = "Processed data uploaded to "
)

// Response is what the Lambda returns.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Processor handles S3 objects through a blob.Store.
type Processor struct {
	Store blob.Store
}

// OutputKey maps an input key onto its processed key by replacing every
// "raw" with "processed". Keys without "raw" are rejected so the output
// never overwrites the input.
func OutputKey(key string) (string, error) {
	if !strings.Contains(key, rawSegment) {
		return "", fmt.Errorf("key %q has no %q segment", key, rawSegment)
	}
	return strings.ReplaceAll(key, rawSegment, processedSegment), nil
}

// Transform forward fills f and adds new_feature = 2 * existing_feature.
// Cells of existing_feature that are still missing or not numeric yield an
// empty new_feature.
func Transform(f *dataset.Frame) error {
	f.FillForward()

	src, err := f.Column(SourceColumn)
	if err != nil {
		return err
	}
	derived := make([]string, len(src))
	for i, c := range src {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			continue
		}
		derived[i] = strconv.FormatFloat(v*2, 'f', -1, 64) //nolint:mnd
	}
	return f.Set(DerivedColumn, derived)
}

// Object processes s3://bucket/key and returns the output location.
func (p *Processor) Object(ctx context.Context, bucket, key string) (string, error) {
	outKey, err := OutputKey(key)
	if err != nil {
		return "", err
	}
	out := "s3://" + bucket + "/" + outKey
	return out, p.Process(ctx, "s3://"+bucket+"/"+key, out)
}

// Process reads the CSV at in, transforms it and writes it to out.
func (p *Processor) Process(ctx context.Context, in, out string) error {
	raw, err := p.Store.Get(ctx, in)
	if err != nil {
		return err
	}
	f, err := dataset.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse %s: %w", in, err)
	}
	if err := Transform(f); err != nil {
		return fmt.Errorf("transform %s: %w", in, err)
	}

	var buf bytes.Buffer
	if err := f.WriteCSV(&buf); err != nil {
		return err
	}
	if err := p.Store.Put(ctx, out, buf.Bytes()); err != nil {
		return err
	}
	log.Infof("processed %s -> %s rows=%d", in, out, f.Len())
	return nil
}

// HandleEvent processes every object in the event. The first failure
// aborts the invocation so Lambda retries it. On success the body is a
// JSON string naming the processed object(s).
func (p *Processor) HandleEvent(ctx context.Context, ev events.S3Event) (Response, error) {
	if len(ev.Records) == 0 {
		return Response{}, errors.New("s3 event has no records")
	}
	outs := make([]string, 0, len(ev.Records))
	for _, rec := range ev.Records {
		key, err := url.QueryUnescape(rec.S3.Object.Key)
		if err != nil {
			return Response{}, fmt.Errorf("bad object key %q: %w", rec.S3.Object.Key, err)
		}
		out, err := p.Object(ctx, rec.S3.Bucket.Name, key)
		if err != nil {
			log.Errorf("object preprocessing failed: bucket=%s key=%s err=%v", rec.S3.Bucket.Name, key, err)
			return Response{}, err
		}
		outs = append(outs, out)
	}
	body, err := json.Marshal(uploadedPrefix + strings.Join(outs, ", "))
	if err != nil {
		return Response{}, err
	}
	return Response{StatusCode: 200, Body: string(body)}, nil //nolint:mnd
}
