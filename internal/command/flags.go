// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/config"
)

func newDryRunFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "dry-run",
		Usage:       "skip AWS: treat the feature group as ready and keep records locally",
		HideDefault: true,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FSCTL_DRY_RUN"),
		),
	}
}

func newFailFastFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "fail-fast",
		Usage:       "stop polling as soon as the feature group reports a failed creation",
		HideDefault: true,
	}
}

func newOutputDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output-dir",
		Aliases: []string{"d"},
		Usage:   "directory or s3:// prefix for result files",
		Value:   "/opt/ml/processing/output",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FSCTL_OUTPUT_DIR"),
		),
	}
}

func newInputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "input CSV path or s3:// URL",
		Value:   "/opt/ml/processing/input/mock_data.csv",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FSCTL_INPUT"),
		),
	}
}

// NewGlobalFlags returns the presentation flags every command accepts.
func NewGlobalFlags() (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated row filters, e.g. department=Sales,salary>50000",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "spaces between text columns",
			Value: 2, //nolint:mnd
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewSettingsFlags returns the ingestion settings flags with def as their
// defaults. Each flag falls back to its environment variables and then to
// the config file, first under the command's namespace and then at the top
// level.
func NewSettingsFlags(ns string, path string, def config.Settings) []cli.Flag {
	pollInterval := &cli.IntFlag{
		Name:  "poll-interval",
		Usage: "seconds between readiness checks",
		Value: int(def.PollInterval.Seconds()),
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FSCTL_POLL_INTERVAL_SECONDS"),
		),
	}
	maxAttempts := &cli.IntFlag{
		Name:  "max-attempts",
		Usage: "readiness checks before giving up",
		Value: def.MaxAttempts,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FSCTL_MAX_ATTEMPTS"),
		),
	}
	writers := &cli.IntFlag{
		Name:    "max-parallel-writers",
		Aliases: []string{"w"},
		Usage:   "concurrent record writers",
		Value:   def.MaxParallelWriters,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FSCTL_MAX_PARALLEL_WRITERS"),
		),
	}
	region := &cli.StringFlag{
		Name:  "region",
		Usage: "AWS region",
		Value: def.Region,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_REGION"),
			cli.EnvVar("AWS_DEFAULT_REGION"),
		),
	}
	profile := &cli.StringFlag{
		Name:  "profile",
		Usage: "AWS shared config profile",
		Value: def.Profile,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_PROFILE"),
		),
	}
	endpoint := &cli.StringFlag{
		Name:  "s3-endpoint",
		Usage: "S3 compatible endpoint URL (path-style)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FSCTL_S3_ENDPOINT"),
		),
	}

	for key, chain := range map[string]*cli.ValueSourceChain{
		"poll_interval_seconds": &pollInterval.Sources,
		"max_attempts":          &maxAttempts.Sources,
		"max_parallel_writers":  &writers.Sources,
		"region":                &region.Sources,
		"profile":               &profile.Sources,
		"s3_endpoint":           &endpoint.Sources,
	} {
		NameSpacedValueChainFromConfigFile(ns, path, key, chain)
	}

	resource := NewResourceFlag(ns, path)
	resource.Value = def.ResourceName

	return []cli.Flag{resource, pollInterval, maxAttempts, writers, region, profile, endpoint}
}

// NewResourceFlag constructs the "resource" flag naming the feature group,
// sourced from the environment and then the config file.
func NewResourceFlag(ns string, path string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "resource",
		Aliases: []string{"r"},
		Usage:   "feature group name",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("FSCTL_RESOURCE_NAME"),
			cli.EnvVar("FEATURE_GROUP_NAME"),
		),
	}
	NameSpacedValueChainFromConfigFile(ns, path, "resource_name", &flag.Sources)
	return flag
}

// NameSpacedValueChainFromConfigFile adds namespaced and global config file
// sources for key to the chain. It does nothing without a config file.
func NameSpacedValueChainFromConfigFile(ns string, path string, key string, chain *cli.ValueSourceChain) {
	if path == "" {
		return
	}
	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
}
