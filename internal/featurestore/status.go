// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package featurestore

import (
	"context"
	"errors"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"

	"github.com/fsctl/fsctl/internal/ingest"
	"github.com/fsctl/fsctl/internal/log"
)

// Describer is the subset of the SageMaker client StatusQuery uses.
type Describer interface {
	DescribeFeatureGroup(ctx context.Context, params *sagemaker.DescribeFeatureGroupInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeFeatureGroupOutput, error)
}

var (
	_ Describer            = (*sagemaker.Client)(nil)
	_ ingest.StatusQuerier = (*StatusQuery)(nil)
)

// StatusQuery reports feature group readiness.
type StatusQuery struct {
	api Describer
}

// NewStatusQuery wraps api.
func NewStatusQuery(api Describer) *StatusQuery {
	return &StatusQuery{api: api}
}

// QueryStatus describes the feature group and maps its status. RawDetail is
// the SageMaker status, followed by the failure reason when there is one.
func (q *StatusQuery) QueryStatus(ctx context.Context, name string) (ingest.StatusReport, error) {
	out, err := q.api.DescribeFeatureGroup(ctx, &sagemaker.DescribeFeatureGroupInput{
		FeatureGroupName: awsv2.String(name),
	})
	if err != nil {
		var nf *types.ResourceNotFound
		if errors.As(err, &nf) {
			return ingest.StatusReport{}, fmt.Errorf("feature group %s not found: %w", name, err)
		}
		return ingest.StatusReport{}, fmt.Errorf("describe feature group %s: %w", name, err)
	}

	raw := string(out.FeatureGroupStatus)
	if reason := awsv2.ToString(out.FailureReason); reason != "" {
		raw += ": " + reason
	}
	log.Tracef("describe %s: status=%s", name, raw)
	return ingest.StatusReport{Status: MapStatus(out.FeatureGroupStatus), RawDetail: raw}, nil
}

// MapStatus converts a SageMaker feature group status. Deletion states and
// anything unrecognised are Unknown.
func MapStatus(s types.FeatureGroupStatus) ingest.Status {
	switch s {
	case types.FeatureGroupStatusCreating:
		return ingest.StatusCreating
	case types.FeatureGroupStatusCreated:
		return ingest.StatusCreated
	case types.FeatureGroupStatusCreateFailed:
		return ingest.StatusFailed
	default:
		return ingest.StatusUnknown
	}
}
