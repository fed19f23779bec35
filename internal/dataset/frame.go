// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoColumn is returned when an operation names a column the frame lacks.
var ErrNoColumn = errors.New("no such column")

// Frame is a small column-ordered table of string cells.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// ReadCSV parses a header line followed by records. Short records are padded
// with missing cells.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv has no header")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	f := &Frame{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(f.Rows)+1, err)
		}
		row := make([]string, len(header))
		copy(row, rec)
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

// WriteCSV writes the header and rows.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(f.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	c := &Frame{Columns: slices.Clone(f.Columns), Rows: make([][]string, len(f.Rows))}
	for i, r := range f.Rows {
		c.Rows[i] = slices.Clone(r)
	}
	return c
}

// Len is the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Index returns the position of column name, or -1.
func (f *Frame) Index(name string) int {
	return slices.Index(f.Columns, name)
}

func (f *Frame) mustIndex(name string) (int, error) {
	i := f.Index(name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNoColumn, name)
	}
	return i, nil
}

// Column returns a copy of the named column's cells.
func (f *Frame) Column(name string) ([]string, error) {
	i, err := f.mustIndex(name)
	if err != nil {
		return nil, err
	}
	col := make([]string, len(f.Rows))
	for r, row := range f.Rows {
		col[r] = row[i]
	}
	return col, nil
}

// Set appends the column if it does not exist and then assigns values.
// len(values) must equal Len().
func (f *Frame) Set(name string, values []string) error {
	if len(values) != len(f.Rows) {
		return fmt.Errorf("column %s: %d values for %d rows", name, len(values), len(f.Rows))
	}
	i := f.Index(name)
	if i < 0 {
		f.Columns = append(f.Columns, name)
		for r := range f.Rows {
			f.Rows[r] = append(f.Rows[r], values[r])
		}
		return nil
	}
	for r := range f.Rows {
		f.Rows[r][i] = values[r]
	}
	return nil
}

// Drop removes the named column.
func (f *Frame) Drop(name string) error {
	i, err := f.mustIndex(name)
	if err != nil {
		return err
	}
	f.Columns = slices.Delete(f.Columns, i, i+1)
	for r := range f.Rows {
		f.Rows[r] = slices.Delete(f.Rows[r], i, i+1)
	}
	return nil
}

// MissingIn returns the row indexes where the column is empty.
func (f *Frame) MissingIn(name string) ([]int, error) {
	i, err := f.mustIndex(name)
	if err != nil {
		return nil, err
	}
	var idx []int
	for r, row := range f.Rows {
		if isMissing(row[i]) {
			idx = append(idx, r)
		}
	}
	return idx, nil
}

// FillNA replaces missing cells of the column with value and returns how
// many were filled.
func (f *Frame) FillNA(name, value string) (int, error) {
	i, err := f.mustIndex(name)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, row := range f.Rows {
		if isMissing(row[i]) {
			row[i] = value
			n++
		}
	}
	return n, nil
}

// FillForward replaces each missing cell of every column with the last
// non-missing cell above it. Leading gaps stay missing. It returns how many
// cells were filled.
func (f *Frame) FillForward() int {
	n := 0
	last := make([]string, len(f.Columns))
	for _, row := range f.Rows {
		for c := range row {
			if !isMissing(row[c]) {
				last[c] = row[c]
				continue
			}
			if last[c] != "" {
				row[c] = last[c]
				n++
			}
		}
	}
	return n
}

// Median is the median of the column's numeric cells. ok is false when the
// column has no numeric cells.
func (f *Frame) Median(name string) (median float64, ok bool, err error) {
	col, err := f.Column(name)
	if err != nil {
		return 0, false, err
	}
	var nums []float64
	for _, c := range col {
		if v, perr := parseNumber(c); perr == nil {
			nums = append(nums, v)
		}
	}
	if len(nums) == 0 {
		return 0, false, nil
	}
	sort.Float64s(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return nums[mid], true, nil
	}
	return (nums[mid-1] + nums[mid]) / 2, true, nil
}

// ExtractJSON reads each key out of the JSON object in column src and
// stores it in a new column of the same name. Missing or unparseable
// objects, and absent keys, produce missing cells.
func (f *Frame) ExtractJSON(src string, keys ...string) error {
	col, err := f.Column(src)
	if err != nil {
		return err
	}
	out := make([][]string, len(keys))
	for k := range keys {
		out[k] = make([]string, len(col))
	}
	for r, raw := range col {
		if isMissing(raw) || !gjson.Valid(raw) {
			continue
		}
		doc := gjson.Parse(raw)
		for k, key := range keys {
			if v := doc.Get(key); v.Exists() && v.Type != gjson.Null {
				out[k][r] = v.String()
			}
		}
	}
	for k, key := range keys {
		if err := f.Set(key, out[k]); err != nil {
			return err
		}
	}
	return nil
}

// MissingCount is the number of empty cells in the frame.
func (f *Frame) MissingCount() int {
	n := 0
	for _, row := range f.Rows {
		for _, c := range row {
			if isMissing(c) {
				n++
			}
		}
	}
	return n
}

// DuplicateRows counts rows identical to an earlier row.
func (f *Frame) DuplicateRows() int {
	seen := make(map[string]struct{}, len(f.Rows))
	n := 0
	for _, row := range f.Rows {
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			n++
			continue
		}
		seen[key] = struct{}{}
	}
	return n
}

// NumericColumns returns the columns whose non-missing cells all parse as
// numbers (and that have at least one such cell).
func (f *Frame) NumericColumns() []string {
	var cols []string
	for i, name := range f.Columns {
		numeric, seen := true, false
		for _, row := range f.Rows {
			if isMissing(row[i]) {
				continue
			}
			seen = true
			if _, err := parseNumber(row[i]); err != nil {
				numeric = false
				break
			}
		}
		if numeric && seen {
			cols = append(cols, name)
		}
	}
	return cols
}

// Unique counts the distinct non-missing values of a column.
func (f *Frame) Unique(name string) (int, error) {
	col, err := f.Column(name)
	if err != nil {
		return 0, err
	}
	set := make(map[string]struct{})
	for _, c := range col {
		if !isMissing(c) {
			set[c] = struct{}{}
		}
	}
	return len(set), nil
}

// nullTokens are the cell spellings read_csv treats as missing by default.
var nullTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	_, ok := nullTokens[s]
	return ok
}

// errMissing is returned by parseNumber for missing cells.
var errMissing = errors.New("missing value")

func parseNumber(s string) (float64, error) {
	if isMissing(s) {
		return 0, errMissing
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, errMissing
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
