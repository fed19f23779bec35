// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

const (
	fileEnv  = "FSCTL_CFG_FILE"
	fileName = "fsctl.yaml"
)

// Type is the loaded configuration. Keys are dotted paths into Data; when
// Namespace is set (the subcommand name) "<Namespace>.<key>" is preferred
// over the bare key.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]any
}

// Config is the process-wide configuration.
var Config Type

// A missing file is not an error at start up.
func init() {
	_, _ = Load()
}

// Load reads the file named by FSCTL_CFG_FILE, or fsctl.yaml in the user
// configuration directory, into Config.
func Load() (Type, error) {
	path, err := resolvePath()
	if err != nil {
		return Type{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	Config = Type{Source: path, Data: data}
	return Config, nil
}

// Path returns the config file flag sources should read, or "".
func Path() string {
	p, err := resolvePath()
	if err != nil {
		return ""
	}
	return p
}

func resolvePath() (string, error) {
	if p := os.Getenv(fileEnv); p != "" {
		fi, err := os.Stat(p)
		switch {
		case err != nil:
			return "", fmt.Errorf("config file not found at %s path: %s", fileEnv, p)
		case fi.IsDir():
			return "", fmt.Errorf("%s points to a directory: %s", fileEnv, p)
		}
		log.Debugf("using config file from %s: %s", fileEnv, p)
		return p, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, fileName)
	if fi, err := os.Stat(p); err != nil || fi.IsDir() {
		return "", errors.New("no config file found in standard locations")
	}
	log.Debugf("using config file: %s", p)
	return p, nil
}

// GetInt returns the integer at key. YAML floats are truncated.
func GetInt(key string, defaultValue ...int) (int, error) {
	return typed(key, asInt, defaultValue)
}

// GetString returns the string at key.
func GetString(key string, defaultValue ...string) (string, error) {
	return typed(key, asString, defaultValue)
}

// GetStringSlice returns the string sequence at key.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	return typed(key, asStrings, defaultValue)
}

// GetSeconds reads a number of seconds, or a time.ParseDuration string such
// as "45s", as a duration.
func GetSeconds(key string, defaultValue ...time.Duration) (time.Duration, error) {
	return typed(key, asSeconds, defaultValue)
}

// typed resolves key and converts it. Exactly one default replaces a missing
// key; a present value of the wrong shape is always an error.
func typed[T any](key string, conv func(any) (T, error), defaultValue []T) (T, error) {
	val, err := lookup(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		var zero T
		return zero, err
	}
	return conv(val)
}

// lookup reloads an empty Config, keeping its namespace, then resolves key.
func lookup(key string) (any, error) {
	if len(Config.Data) == 0 {
		ns := Config.Namespace
		if _, err := Load(); err == nil {
			Config.Namespace = ns
		}
	}
	return Config.get(key)
}

func (cfg *Type) get(key string) (any, error) {
	var tried []string
	if cfg.Namespace != "" {
		tried = append(tried, cfg.Namespace+"."+key)
	}
	tried = append(tried, key)

	for _, k := range tried {
		if v, ok := walk(cfg.Data, strings.Split(k, ".")); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("no valid path found among: %v", tried)
}

func walk(node any, path []string) (any, bool) {
	if len(path) == 0 {
		return node, true
	}
	m, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	child, ok := m[path[0]]
	if !ok {
		return nil, false
	}
	return walk(child, path[1:])
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, errors.New("value is not an int")
}

func asString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", errors.New("value is not a string")
}

func asStrings(v any) ([]string, error) {
	switch s := v.(type) {
	case []string:
		return s, nil
	case []any:
		out := make([]string, len(s))
		for i, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, errors.New("slice element is not a string")
			}
			out[i] = str
		}
		return out, nil
	}
	return nil, errors.New("value is not a slice")
}

func asSeconds(v any) (time.Duration, error) {
	switch n := v.(type) {
	case int:
		return time.Duration(n) * time.Second, nil
	case int64:
		return time.Duration(n) * time.Second, nil
	case float64:
		return time.Duration(n * float64(time.Second)), nil
	case string:
		d, err := time.ParseDuration(n)
		if err != nil {
			return 0, fmt.Errorf("value is not a duration: %w", err)
		}
		return d, nil
	}
	return 0, errors.New("value is not a number of seconds")
}
