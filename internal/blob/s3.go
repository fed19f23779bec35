// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/fsctl/fsctl/internal/log"
)

// S3API is the subset of the S3 client S3 uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

var _ S3API = (*s3v2.Client)(nil)

// S3 is a Store over an S3 bucket.
type S3 struct {
	api         S3API
	contentType string
}

// NewS3 wraps api. Objects are written as text/csv unless overridden.
func NewS3(api S3API) *S3 {
	return &S3{api: api, contentType: "text/csv"}
}

func (s *S3) Get(ctx context.Context, loc string) ([]byte, error) {
	l, err := s.parse(loc)
	if err != nil {
		return nil, err
	}
	resp, err := s.api.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(l.Bucket),
		Key:    awsv2.String(l.Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
		}
		return nil, fmt.Errorf("get object %s: %w", loc, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", loc, err)
	}
	log.Debugf("s3 get: loc=%s bytes=%d", loc, len(data))
	return data, nil
}

func (s *S3) Put(ctx context.Context, loc string, data []byte) error {
	l, err := s.parse(loc)
	if err != nil {
		return err
	}
	_, err = s.api.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(l.Bucket),
		Key:         awsv2.String(l.Key),
		Body:        bytes.NewReader(data),
		ContentType: awsv2.String(s.contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", loc, err)
	}
	log.Debugf("s3 put: loc=%s bytes=%d", loc, len(data))
	return nil
}

func (s *S3) parse(loc string) (Location, error) {
	l, err := Parse(loc)
	if err != nil {
		return Location{}, err
	}
	if l.Scheme != "s3" || l.Key == "" {
		return Location{}, fmt.Errorf("not an s3 object url: %s", loc)
	}
	return l, nil
}
