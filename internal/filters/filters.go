// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
)

// ErrInvalidFilter is wrapped by every Parse error.
var ErrInvalidFilter = errors.New("invalid filter")

// filterRegex splits an expression into key, optional operator (with
// optional negation) and target. Examples: "name", "name=value", "name=".
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`

	re *regexp.Regexp
}

// Parse parses a filter specification. An empty spec yields no filters.
func Parse(spec string) ([]Filter, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	delim := ","
	if d, ok := os.LookupEnv("FSCTL_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	var filters []Filter
	for _, expr := range strings.Split(spec, delim) {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(expr)
		if parts == nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFilter, expr)
		}

		key := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, fmt.Errorf("%w: empty key in %s", ErrInvalidFilter, expr)
		}

		operand := parts[2]
		negate := strings.HasPrefix(operand, "!")
		operand = strings.TrimPrefix(operand, "!")

		f := Filter{Key: key, Negate: negate, Operand: operand, Value: parts[3]}
		if operand == "/" {
			re, err := regexp.Compile(f.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFilter, expr, err)
			}
			f.re = re
		}
		filters = append(filters, f)
	}

	return filters, nil
}

// Apply returns the rows of candidates that match every filter in spec.
// The input slice is not modified.
func Apply(candidates []map[string]interface{}, spec string) ([]map[string]interface{}, error) {
	filters, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return candidates, nil
	}

	kept := make([]map[string]interface{}, 0, len(candidates))
	for _, row := range candidates {
		if Match(row, filters) {
			kept = append(kept, row)
		}
	}
	log.Debugf("filtered rows: spec=%s in=%d out=%d", spec, len(candidates), len(kept))

	return kept, nil
}

// Match reports whether row satisfies every filter. A row missing a key
// fails that filter regardless of negation.
func Match(row map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		value, ok := row[f.Key]
		if !ok || value == nil {
			return false
		}
		if !f.check(value) {
			return false
		}
	}
	return true
}

func (f Filter) check(value interface{}) bool {
	if f.Operand == "" {
		return (stringOf(value) != "") == !f.Negate
	}

	if num, ok := toFloat64(value); ok {
		if tgt, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64); err == nil {
			switch f.Operand {
			case "=":
				return (num == tgt) == !f.Negate
			case ">":
				return (num > tgt) == !f.Negate
			case "<":
				return (num < tgt) == !f.Negate
			}
		}
	}

	s := stringOf(value)
	switch f.Operand {
	case "=":
		return (s == f.Value) == !f.Negate
	case "~":
		return strings.EqualFold(s, f.Value) == !f.Negate
	case "^":
		return strings.HasPrefix(s, f.Value) == !f.Negate
	case ">":
		return (s > f.Value) == !f.Negate
	case "<":
		return (s < f.Value) == !f.Negate
	case "@":
		return strings.Contains(s, f.Value) == !f.Negate
	case "/":
		return f.re != nil && f.re.MatchString(s) == !f.Negate
	default:
		log.Errorf("unsupported filtering operand: %s", f.Operand)
		return false
	}
}

func stringOf(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// toFloat64 normalizes numeric values, including numeric strings from CSV
// cells, to float64.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
