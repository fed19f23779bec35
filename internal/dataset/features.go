// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// Bin is a labelled interval (Low, High]. The first bin of a Binning also
// includes its Low edge.
type Bin struct {
	Low, High float64
	Label     string
}

// Binning assigns labels to values by interval, like a right-closed cut.
type Binning []Bin

var (
	// SalaryBins are the salary_category bins.
	SalaryBins = Binning{
		{0, 50000, "low"},
		{50000, 70000, "medium"},
		{70000, 100000, "high"},
	}
	// AgeBins are the age_group bins.
	AgeBins = Binning{
		{0, 25, "Young"},
		{25, 35, "Early Career"},
		{35, 45, "Mid Career"},
		{45, 55, "Senior"},
		{55, math.Inf(1), "Experienced"},
	}
)

// Label returns the label of the bin containing v, or "" when v falls
// outside every bin.
func (b Binning) Label(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	for i, bin := range b {
		if v > bin.Low && v <= bin.High {
			return bin.Label
		}
		if i == 0 && v == bin.Low {
			return bin.Label
		}
	}
	return ""
}

// Employee is one transformed row in typed form.
type Employee struct {
	Age            float64
	Salary         float64
	Department     string
	Address        string
	Phone          string
	Email          string
	AddressLength  int
	SalaryCategory string
	AgeGroup       string
}

// MissingText is the text a missing cell takes in a typed Employee.
const MissingText = "nan"

// AddressLength counts characters, not bytes. A missing address measures
// as MissingText.
func AddressLength(address string) int {
	if isMissing(address) {
		return len(MissingText)
	}
	return utf8.RuneCountInString(address)
}

func textOf(cell string) string {
	if isMissing(cell) {
		return MissingText
	}
	return cell
}

// Derive adds address_length, salary_category and age_group to f.
func Derive(f *Frame) error {
	addresses, err := f.Column(ColAddress)
	if err != nil {
		return err
	}
	salaries, err := f.Column(ColSalary)
	if err != nil {
		return err
	}
	ages, err := f.Column(ColAge)
	if err != nil {
		return err
	}

	lengths := make([]string, f.Len())
	salaryCats := make([]string, f.Len())
	ageGroups := make([]string, f.Len())
	for r := 0; r < f.Len(); r++ {
		lengths[r] = strconv.Itoa(AddressLength(addresses[r]))
		if v, err := parseNumber(salaries[r]); err == nil {
			salaryCats[r] = SalaryBins.Label(v)
		}
		if v, err := parseNumber(ages[r]); err == nil {
			ageGroups[r] = AgeBins.Label(v)
		}
	}

	for _, c := range []struct {
		name string
		vals []string
	}{
		{ColAddressLength, lengths},
		{ColSalaryCategory, salaryCats},
		{ColAgeGroup, ageGroups},
	} {
		if err := f.Set(c.name, c.vals); err != nil {
			return err
		}
	}
	return nil
}

// Employees converts a transformed frame into typed rows. Numbers that do
// not parse become zero values; missing text cells become MissingText.
func Employees(f *Frame) []Employee {
	get := func(row []string, name string) string {
		if i := f.Index(name); i >= 0 {
			return row[i]
		}
		return ""
	}

	out := make([]Employee, 0, f.Len())
	for _, row := range f.Rows {
		e := Employee{
			Department:     textOf(get(row, ColDepartment)),
			Address:        textOf(get(row, ColAddress)),
			Phone:          textOf(get(row, ColPhone)),
			Email:          textOf(get(row, ColEmail)),
			SalaryCategory: textOf(get(row, ColSalaryCategory)),
			AgeGroup:       textOf(get(row, ColAgeGroup)),
		}
		e.Age, _ = parseNumber(get(row, ColAge))
		e.Salary, _ = parseNumber(get(row, ColSalary))
		if n, err := strconv.Atoi(get(row, ColAddressLength)); err == nil {
			e.AddressLength = n
		} else {
			e.AddressLength = AddressLength(get(row, ColAddress))
		}
		out = append(out, e)
	}
	return out
}
