// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/fsctl/fsctl/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator checks the presentation flags.
func GlobalFlagsValidator(_ context.Context, c *cli.Command) error {
	if c.Int("padding") < 0 {
		return fmt.Errorf("--padding must not be negative")
	}
	return nil
}

// SettingsValidator checks the ingestion settings flags.
func SettingsValidator(_ context.Context, c *cli.Command) error {
	return SettingsFromFlags(c).Validate()
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{output.FormatText, output.FormatJSON, output.FormatYAML}
	s, _ := value.(string)
	if !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}
