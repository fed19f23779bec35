// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultPollInterval       = 30 * time.Second
	DefaultMaxAttempts        = 30
	DefaultMaxParallelWriters = 3
	DefaultRegion             = "us-east-1"
)

// Settings is the ingestion configuration surface. It is built either from
// CLI flags or, for non-interactive entrypoints, from the environment.
type Settings struct {
	ResourceName       string        `yaml:"resource_name"`
	PollInterval       time.Duration `yaml:"poll_interval"`
	MaxAttempts        int           `yaml:"max_attempts"`
	MaxParallelWriters int           `yaml:"max_parallel_writers"`
	Region             string        `yaml:"region"`
	Profile            string        `yaml:"profile,omitempty"`
}

// Defaults returns Settings with every optional field populated.
func Defaults() Settings {
	return Settings{
		PollInterval:       DefaultPollInterval,
		MaxAttempts:        DefaultMaxAttempts,
		MaxParallelWriters: DefaultMaxParallelWriters,
		Region:             DefaultRegion,
	}
}

// Validate reports the first problem with s.
func (s Settings) Validate() error {
	switch {
	case s.ResourceName == "":
		return errors.New("resource_name is required")
	case s.PollInterval <= 0:
		return fmt.Errorf("poll_interval must be positive, got %s", s.PollInterval)
	case s.MaxAttempts < 1:
		return fmt.Errorf("max_attempts must be at least 1, got %d", s.MaxAttempts)
	case s.MaxParallelWriters < 1:
		return fmt.Errorf("max_parallel_writers must be at least 1, got %d", s.MaxParallelWriters)
	}
	return nil
}

// Budget is the worst-case time spent polling.
func (s Settings) Budget() time.Duration {
	return time.Duration(s.MaxAttempts) * s.PollInterval
}

// SettingsFromEnv layers the process environment and the config file over
// Defaults. Environment wins over the file.
func SettingsFromEnv() (Settings, error) {
	s := Defaults()

	// File values first.
	if v, err := GetString("resource_name"); err == nil {
		s.ResourceName = v
	}
	if v, err := GetSeconds("poll_interval_seconds"); err == nil {
		s.PollInterval = v
	}
	if v, err := GetInt("max_attempts"); err == nil {
		s.MaxAttempts = v
	}
	if v, err := GetInt("max_parallel_writers"); err == nil {
		s.MaxParallelWriters = v
	}
	if v, err := GetString("region"); err == nil {
		s.Region = v
	}
	if v, err := GetString("profile"); err == nil {
		s.Profile = v
	}

	if v := firstEnv("FSCTL_RESOURCE_NAME", "FEATURE_GROUP_NAME"); v != "" {
		s.ResourceName = v
	}
	if v := firstEnv("AWS_REGION", "AWS_DEFAULT_REGION"); v != "" {
		s.Region = v
	}
	if v := os.Getenv("AWS_PROFILE"); v != "" {
		s.Profile = v
	}

	var err error
	if s.PollInterval, err = envSeconds("FSCTL_POLL_INTERVAL_SECONDS", s.PollInterval); err != nil {
		return Settings{}, err
	}
	if s.MaxAttempts, err = envInt("FSCTL_MAX_ATTEMPTS", s.MaxAttempts); err != nil {
		return Settings{}, err
	}
	if s.MaxParallelWriters, err = envInt("FSCTL_MAX_PARALLEL_WRITERS", s.MaxParallelWriters); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func envSeconds(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return time.Duration(v * float64(time.Second)), nil
}
